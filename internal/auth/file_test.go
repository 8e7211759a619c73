package auth

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/AngelP17/ticketing/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFileProvider(t *testing.T) *FileProvider {
	t.Helper()
	return NewFileProvider(filepath.Join(t.TempDir(), "users.json"))
}

func TestFileProviderCreateAndAuthenticate(t *testing.T) {
	p := newFileProvider(t)
	ctx := context.Background()

	err := p.Create(ctx, User{Username: "miri", DisplayName: "Miri", Role: RoleAdmin}, "hunter2")
	require.NoError(t, err)

	u, err := p.Authenticate(ctx, "miri", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "miri", u.Username)
	assert.Equal(t, RoleAdmin, u.Role)

	_, err = p.Authenticate(ctx, "miri", "wrong")
	assert.ErrorIs(t, err, errs.ErrInvalidCredentials)

	_, err = p.Authenticate(ctx, "ghost", "hunter2")
	assert.ErrorIs(t, err, errs.ErrInvalidCredentials, "unknown user looks the same as a bad password")
}

func TestFileProviderCreateDuplicate(t *testing.T) {
	p := newFileProvider(t)
	ctx := context.Background()

	require.NoError(t, p.Create(ctx, User{Username: "miri"}, "a"))
	err := p.Create(ctx, User{Username: "miri"}, "b")
	assert.ErrorIs(t, err, errs.ErrUserExists)
}

func TestFileProviderDefaultRole(t *testing.T) {
	p := newFileProvider(t)
	ctx := context.Background()

	require.NoError(t, p.Create(ctx, User{Username: "newbie"}, "pw"))
	u, err := p.Lookup(ctx, "newbie")
	require.NoError(t, err)
	assert.Equal(t, RoleViewer, u.Role)
}

func TestFileProviderUpdate(t *testing.T) {
	p := newFileProvider(t)
	ctx := context.Background()

	require.NoError(t, p.Create(ctx, User{Username: "miri", Role: RoleViewer}, "old"))

	role := RoleAgent
	name := "Miri the Agent"
	pw := "new"
	require.NoError(t, p.Update(ctx, "miri", UserChanges{DisplayName: &name, Role: &role, Password: &pw}))

	u, err := p.Authenticate(ctx, "miri", "new")
	require.NoError(t, err)
	assert.Equal(t, RoleAgent, u.Role)
	assert.Equal(t, "Miri the Agent", u.DisplayName)

	_, err = p.Authenticate(ctx, "miri", "old")
	assert.ErrorIs(t, err, errs.ErrInvalidCredentials)

	err = p.Update(ctx, "ghost", UserChanges{Role: &role})
	assert.ErrorIs(t, err, errs.ErrUserNotFound)
}

func TestFileProviderDelete(t *testing.T) {
	p := newFileProvider(t)
	ctx := context.Background()

	require.NoError(t, p.Create(ctx, User{Username: "miri"}, "a"))
	require.NoError(t, p.Create(ctx, User{Username: "dev"}, "b"))

	require.NoError(t, p.Delete(ctx, "miri"))
	assert.ErrorIs(t, p.Delete(ctx, "miri"), errs.ErrUserNotFound)

	users, err := p.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "dev", users[0].Username)
}

func TestFileProviderReadsLegacyFormat(t *testing.T) {
	// файл в формате исторического users.json: SHA-256 hex пароля
	path := filepath.Join(t.TempDir(), "users.json")
	legacy := `{"users": [{"username": "admin", "password_hash": "` +
		HashPassword("admin123") + `", "role": "admin", "display_name": "Administrator"}]}`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o600))

	p := NewFileProvider(path)
	u, err := p.Authenticate(context.Background(), "admin", "admin123")
	require.NoError(t, err)
	assert.Equal(t, "Administrator", u.DisplayName)
}

func TestFileProviderMissingFileIsEmpty(t *testing.T) {
	p := newFileProvider(t)
	users, err := p.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)
}
