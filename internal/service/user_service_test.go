package service

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/grpansare/task-management/internal/auth"
	dom "github.com/grpansare/task-management/internal/domain"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (dom.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(dom.User), args.Error(1)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (dom.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(dom.User), args.Error(1)
}

func (m *mockUserRepo) Create(ctx context.Context, username, email, passwordHash string) (dom.User, error) {
	args := m.Called(ctx, username, email, passwordHash)
	return args.Get(0).(dom.User), args.Error(1)
}

func userWithPassword(t *testing.T, password string) dom.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	return dom.User{ID: 1, Username: "ann", Email: "ann@example.com", PasswordHash: hash}
}

func TestValidateCredentials(t *testing.T) {
	r := new(mockUserRepo)
	s := NewUserService(r)
	u := userWithPassword(t, "secret123")

	// Email is normalized before the lookup.
	r.On("GetByEmail", mock.Anything, "ann@example.com").Return(u, nil)

	got, err := s.ValidateCredentials(context.Background(), "  Ann@Example.COM ", "secret123")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ID)
}

func TestValidateCredentials_WrongPassword(t *testing.T) {
	r := new(mockUserRepo)
	s := NewUserService(r)
	u := userWithPassword(t, "secret123")

	r.On("GetByEmail", mock.Anything, "ann@example.com").Return(u, nil)

	_, err := s.ValidateCredentials(context.Background(), "ann@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidateCredentials_UnknownEmail(t *testing.T) {
	r := new(mockUserRepo)
	s := NewUserService(r)

	r.On("GetByEmail", mock.Anything, "ghost@example.com").Return(dom.User{}, pgx.ErrNoRows)

	_, err := s.ValidateCredentials(context.Background(), "ghost@example.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidateCredentials_EmptyInput(t *testing.T) {
	r := new(mockUserRepo)
	s := NewUserService(r)

	_, err := s.ValidateCredentials(context.Background(), "", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = s.ValidateCredentials(context.Background(), "ann@example.com", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	r.AssertNotCalled(t, "GetByEmail")
}

func TestRegister(t *testing.T) {
	r := new(mockUserRepo)
	s := NewUserService(r)

	r.On("Create", mock.Anything, "ann", "ann@example.com", mock.AnythingOfType("string")).
		Return(dom.User{ID: 1, Username: "ann", Email: "ann@example.com"}, nil)

	u, err := s.Register(context.Background(), " ann ", "Ann@Example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)

	// The stored hash must verify against the original password.
	hash := r.Calls[0].Arguments.String(3)
	assert.True(t, auth.CheckPassword(hash, "secret123"))
}

func TestRegister_EmailTaken(t *testing.T) {
	r := new(mockUserRepo)
	s := NewUserService(r)

	dup := &pgconn.PgError{Code: "23505"}
	r.On("Create", mock.Anything, "ann", "ann@example.com", mock.AnythingOfType("string")).
		Return(dom.User{}, dup)

	_, err := s.Register(context.Background(), "ann", "ann@example.com", "secret123")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestUserGetByID_NotFound(t *testing.T) {
	r := new(mockUserRepo)
	s := NewUserService(r)

	r.On("GetByID", mock.Anything, int64(404)).Return(dom.User{}, pgx.ErrNoRows)

	_, err := s.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, ErrNotFound)
}
