package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leeozaka/achados/internal/backend"
	"github.com/leeozaka/achados/internal/backend/memory"
	"github.com/leeozaka/achados/internal/models"
)

func newService(t *testing.T) (*Service, *memory.Store) {
	t.Helper()
	store, err := memory.New(memory.Options{HashPassword: HashPassword})
	require.NoError(t, err)
	return NewService(store, "test-secret", "Coord@UESC.br"), store
}

func TestAuthenticateSeededAccount(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	sess, err := svc.Authenticate(ctx, "joao.silva@uesc.br", memory.DemoPassword)
	require.NoError(t, err)
	assert.Equal(t, memory.DemoUserID, sess.UserID)
	assert.Equal(t, "João Silva", sess.Name)
	assert.False(t, sess.Admin)
	assert.True(t, sess.Valid(time.Now()))

	admin, err := svc.Authenticate(ctx, "admin@uesc.br", memory.DemoPassword)
	require.NoError(t, err)
	assert.True(t, admin.Admin)
}

func TestAuthenticateFailures(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Authenticate(ctx, "joao.silva@uesc.br", "errada")
	assert.ErrorIs(t, err, backend.ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "ninguem@uesc.br", memory.DemoPassword)
	assert.ErrorIs(t, err, backend.ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "carlos.ferreira@uesc.br", memory.DemoPassword)
	assert.ErrorIs(t, err, backend.ErrBlocked)
}

func TestSignUp(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	sess, err := svc.SignUp(ctx, models.SignupRequest{Name: " Bia Souza ", Email: "bia@uesc.br", Role: models.RoleStudent, Password: "segredo1"})
	require.NoError(t, err)
	assert.Equal(t, "Bia Souza", sess.Name)

	u, err := store.UserByEmail(ctx, "bia@uesc.br")
	require.NoError(t, err)
	assert.NotEqual(t, "segredo1", u.PasswordHash)

	_, err = svc.Authenticate(ctx, "bia@uesc.br", "segredo1")
	assert.NoError(t, err)

	_, err = svc.SignUp(ctx, models.SignupRequest{Name: "Bia", Email: "BIA@uesc.br", Password: "x"})
	assert.ErrorIs(t, err, backend.ErrConflict)

	coord, err := svc.SignUp(ctx, models.SignupRequest{Name: "Coordenação", Email: "coord@uesc.br", Role: models.RoleStaff, Password: "x"})
	require.NoError(t, err)
	assert.True(t, coord.Admin)
}

func TestValidateToken(t *testing.T) {
	svc, _ := newService(t)
	sess, err := svc.Authenticate(context.Background(), "admin@uesc.br", memory.DemoPassword)
	require.NoError(t, err)

	got, err := svc.ValidateToken(sess.Token)
	require.NoError(t, err)
	assert.Equal(t, sess.UserID, got.UserID)
	assert.True(t, got.Admin)
	assert.Equal(t, sess.ExpiresAt.Unix(), got.ExpiresAt.Unix())

	other := NewService(nil, "another-secret")
	_, err = other.ValidateToken(sess.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	svc.now = func() time.Time { return time.Now().Add(25 * time.Hour) }
	_, err = svc.ValidateToken(sess.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRequestPasswordReset(t *testing.T) {
	svc, _ := newService(t)
	assert.NoError(t, svc.RequestPasswordReset(context.Background(), "joao.silva@uesc.br"))
	assert.NoError(t, svc.RequestPasswordReset(context.Background(), "ninguem@uesc.br"))
}
