package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/AngelP17/ticketing/internal/errs"
)

// FileProvider хранит пользователей в плоском JSON-файле вида
// {"users": [{"username": ..., "password_hash": ..., "role": ..., "display_name": ...}]}.
type FileProvider struct {
	path string
	mu   sync.Mutex
}

func NewFileProvider(path string) *FileProvider {
	return &FileProvider{path: path}
}

type userRecord struct {
	Username     string `json:"username"`
	PasswordHash string `json:"password_hash"`
	Role         string `json:"role"`
	DisplayName  string `json:"display_name"`
}

type usersFile struct {
	Users []userRecord `json:"users"`
}

func (p *FileProvider) load() (*usersFile, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &usersFile{}, nil
		}
		return nil, fmt.Errorf("read users file: %w", err)
	}
	var f usersFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse users file: %w", err)
	}
	return &f, nil
}

// save пишет файл атомарно: во временный файл рядом, потом rename.
func (p *FileProvider) save(f *usersFile) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(p.path), ".users-*.json")
	if err != nil {
		return fmt.Errorf("write users file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write users file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write users file: %w", err)
	}
	return os.Rename(tmp.Name(), p.path)
}

func toUser(r userRecord) *User {
	return &User{
		Username:     r.Username,
		DisplayName:  r.DisplayName,
		Role:         r.Role,
		PasswordHash: r.PasswordHash,
	}
}

func (p *FileProvider) Authenticate(ctx context.Context, username, password string) (*User, error) {
	u, err := p.Lookup(ctx, username)
	if err != nil {
		return nil, errs.ErrInvalidCredentials
	}
	if !verifyPassword(password, u.PasswordHash) {
		return nil, errs.ErrInvalidCredentials
	}
	return u, nil
}

func (p *FileProvider) Lookup(_ context.Context, username string) (*User, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	f, err := p.load()
	if err != nil {
		return nil, err
	}
	for _, r := range f.Users {
		if r.Username == username {
			return toUser(r), nil
		}
	}
	return nil, errs.ErrUserNotFound
}

func (p *FileProvider) List(_ context.Context) ([]User, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	f, err := p.load()
	if err != nil {
		return nil, err
	}
	users := make([]User, 0, len(f.Users))
	for _, r := range f.Users {
		users = append(users, *toUser(r))
	}
	return users, nil
}

func (p *FileProvider) Create(_ context.Context, u User, password string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	f, err := p.load()
	if err != nil {
		return err
	}
	for _, r := range f.Users {
		if r.Username == u.Username {
			return errs.ErrUserExists
		}
	}
	if u.Role == "" {
		u.Role = RoleViewer
	}
	f.Users = append(f.Users, userRecord{
		Username:     u.Username,
		PasswordHash: HashPassword(password),
		Role:         u.Role,
		DisplayName:  u.DisplayName,
	})
	return p.save(f)
}

func (p *FileProvider) Update(_ context.Context, username string, changes UserChanges) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	f, err := p.load()
	if err != nil {
		return err
	}
	for i := range f.Users {
		if f.Users[i].Username != username {
			continue
		}
		if changes.DisplayName != nil {
			f.Users[i].DisplayName = *changes.DisplayName
		}
		if changes.Role != nil {
			f.Users[i].Role = *changes.Role
		}
		if changes.Password != nil && *changes.Password != "" {
			f.Users[i].PasswordHash = HashPassword(*changes.Password)
		}
		return p.save(f)
	}
	return errs.ErrUserNotFound
}

func (p *FileProvider) Delete(_ context.Context, username string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	f, err := p.load()
	if err != nil {
		return err
	}
	kept := f.Users[:0]
	found := false
	for _, r := range f.Users {
		if r.Username == username {
			found = true
			continue
		}
		kept = append(kept, r)
	}
	if !found {
		return errs.ErrUserNotFound
	}
	f.Users = kept
	return p.save(f)
}
