package store

import (
	"context"
	"errors"

	"github.com/AngelP17/ticketing/internal/errs"
	"github.com/AngelP17/ticketing/internal/model"
	"gorm.io/gorm"
)

// Labels and categories: plain referential structures, no invariants beyond
// FK integrity.

func (s *TicketStore) CreateLabel(ctx context.Context, l *model.Label) error {
	return s.db.WithContext(ctx).Create(l).Error
}

func (s *TicketStore) ListLabels(ctx context.Context) ([]model.Label, error) {
	var labels []model.Label
	err := s.db.WithContext(ctx).Order("name ASC").Find(&labels).Error
	return labels, err
}

func (s *TicketStore) DeleteLabel(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&model.Label{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errs.ErrLabelNotFound
		}
		return tx.Exec("DELETE FROM ticket_labels WHERE label_id = ?", id).Error
	})
}

// AttachLabel вешает тег на заявку; повторное навешивание — no-op.
func (s *TicketStore) AttachLabel(ctx context.Context, ticketID string, labelID uint64) error {
	t, err := s.GetByTicketID(ctx, ticketID)
	if err != nil {
		return err
	}
	var l model.Label
	if err := s.db.WithContext(ctx).First(&l, labelID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.ErrLabelNotFound
		}
		return err
	}
	return s.db.WithContext(ctx).Model(t).Association("Labels").Append(&l)
}

func (s *TicketStore) DetachLabel(ctx context.Context, ticketID string, labelID uint64) error {
	t, err := s.GetByTicketID(ctx, ticketID)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Model(t).Association("Labels").Delete(&model.Label{ID: labelID})
}

func (s *TicketStore) CreateCategory(ctx context.Context, c *model.Category) error {
	return s.db.WithContext(ctx).Create(c).Error
}

func (s *TicketStore) ListCategories(ctx context.Context, activeOnly bool) ([]model.Category, error) {
	var cats []model.Category
	tx := s.db.WithContext(ctx)
	if activeOnly {
		tx = tx.Where("is_active = ?", true)
	}
	err := tx.Order("sort_order ASC, name ASC").Find(&cats).Error
	return cats, err
}

func (s *TicketStore) UpdateCategory(ctx context.Context, id uint64, changes map[string]interface{}) (*model.Category, error) {
	var c model.Category
	if err := s.db.WithContext(ctx).First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrCategoryNotFound
		}
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&c).Updates(changes).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// DeleteCategory отвязывает заявки (category_id -> NULL) и удаляет категорию.
func (s *TicketStore) DeleteCategory(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Ticket{}).Where("category_id = ?", id).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Category{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errs.ErrCategoryNotFound
		}
		return nil
	})
}
