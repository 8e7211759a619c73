package auth

import (
	"context"
	"errors"

	"github.com/AngelP17/ticketing/internal/errs"
	"github.com/AngelP17/ticketing/internal/model"
	"gorm.io/gorm"
)

// GormProvider хранит пользователей в таблице users (auth-бэкенд "database").
type GormProvider struct {
	db *gorm.DB
}

func NewGormProvider(db *gorm.DB) *GormProvider {
	return &GormProvider{db: db}
}

func fromModel(m model.User) *User {
	return &User{
		Username:     m.Username,
		DisplayName:  m.DisplayName,
		Role:         m.Role,
		PasswordHash: m.PasswordHash,
	}
}

func (p *GormProvider) Authenticate(ctx context.Context, username, password string) (*User, error) {
	u, err := p.Lookup(ctx, username)
	if err != nil {
		return nil, errs.ErrInvalidCredentials
	}
	if !verifyPassword(password, u.PasswordHash) {
		return nil, errs.ErrInvalidCredentials
	}
	return u, nil
}

func (p *GormProvider) Lookup(ctx context.Context, username string) (*User, error) {
	var m model.User
	err := p.db.WithContext(ctx).Where("username = ?", username).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrUserNotFound
		}
		return nil, err
	}
	return fromModel(m), nil
}

func (p *GormProvider) List(ctx context.Context) ([]User, error) {
	var ms []model.User
	if err := p.db.WithContext(ctx).Order("username ASC").Find(&ms).Error; err != nil {
		return nil, err
	}
	users := make([]User, 0, len(ms))
	for _, m := range ms {
		users = append(users, *fromModel(m))
	}
	return users, nil
}

func (p *GormProvider) Create(ctx context.Context, u User, password string) error {
	var count int64
	if err := p.db.WithContext(ctx).Model(&model.User{}).
		Where("username = ?", u.Username).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return errs.ErrUserExists
	}
	role := u.Role
	if role == "" {
		role = RoleViewer
	}
	return p.db.WithContext(ctx).Create(&model.User{
		Username:     u.Username,
		PasswordHash: HashPassword(password),
		Role:         role,
		DisplayName:  u.DisplayName,
	}).Error
}

func (p *GormProvider) Update(ctx context.Context, username string, changes UserChanges) error {
	values := map[string]interface{}{}
	if changes.DisplayName != nil {
		values["display_name"] = *changes.DisplayName
	}
	if changes.Role != nil {
		values["role"] = *changes.Role
	}
	if changes.Password != nil && *changes.Password != "" {
		values["password_hash"] = HashPassword(*changes.Password)
	}
	if len(values) == 0 {
		return nil
	}
	res := p.db.WithContext(ctx).Model(&model.User{}).
		Where("username = ?", username).Updates(values)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.ErrUserNotFound
	}
	return nil
}

func (p *GormProvider) Delete(ctx context.Context, username string) error {
	res := p.db.WithContext(ctx).Where("username = ?", username).Delete(&model.User{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.ErrUserNotFound
	}
	return nil
}
