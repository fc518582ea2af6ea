package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tnqbao/charcoal-cms/entity"
	"github.com/tnqbao/charcoal-cms/infra"
	"github.com/tnqbao/charcoal-cms/repository"
	"golang.org/x/crypto/bcrypt"
)

type fakeAdminRepo struct {
	users   map[string]entity.AdminUser
	touched []uuid.UUID
}

func (r *fakeAdminRepo) Create(_ context.Context, user *entity.AdminUser) error {
	if _, ok := r.users[user.Email]; ok {
		return repository.ErrDuplicate
	}
	r.users[user.Email] = *user
	return nil
}

func (r *fakeAdminRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.AdminUser, error) {
	for _, user := range r.users {
		if user.ID == id {
			return &user, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeAdminRepo) FindByEmail(_ context.Context, email string) (*entity.AdminUser, error) {
	user, ok := r.users[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &user, nil
}

func (r *fakeAdminRepo) TouchLastLogin(_ context.Context, id uuid.UUID, _ time.Time) error {
	r.touched = append(r.touched, id)
	return nil
}

func newAuthFixture() (*AuthService, *fakeAdminRepo) {
	repo := &fakeAdminRepo{users: map[string]entity.AdminUser{}}
	issue := func(userID uuid.UUID, email, role string) (string, time.Time, error) {
		return "token-for-" + email + "-" + role, time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC), nil
	}
	svc := NewAuthService(repo, issue, infra.NewNopLogger())
	svc.cost = bcrypt.MinCost
	return svc, repo
}

func TestAuthLogin(t *testing.T) {
	svc, repo := newAuthFixture()
	ctx := context.Background()
	created, err := svc.CreateAdmin(ctx, AdminInput{Email: "Owner@Charcoal.test", Name: "Owner", Password: "s3cret-pass", Role: entity.AdminRoleOwner})
	require.NoError(t, err)
	assert.Equal(t, "owner@charcoal.test", created.Email)
	assert.NotEqual(t, "s3cret-pass", created.PasswordHash)

	res, err := svc.Login(ctx, " OWNER@charcoal.test ", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, "token-for-owner@charcoal.test-owner", res.AccessToken)
	assert.Equal(t, []uuid.UUID{created.ID}, repo.touched)

	_, err = svc.Login(ctx, "owner@charcoal.test", "wrong")
	assertCode(t, err, CodeUnauthorized)

	_, err = svc.Login(ctx, "nobody@charcoal.test", "s3cret-pass")
	assertCode(t, err, CodeUnauthorized)

	_, err = svc.Login(ctx, "", "")
	assertCode(t, err, CodeBadRequest)
}

func TestAuthMe(t *testing.T) {
	svc, _ := newAuthFixture()
	ctx := context.Background()
	created, err := svc.CreateAdmin(ctx, AdminInput{Email: "editor@charcoal.test", Name: "Ed", Password: "long-enough"})
	require.NoError(t, err)
	assert.Equal(t, entity.AdminRoleEditor, created.Role)

	me, err := svc.Me(ctx, Caller{ID: created.ID, IsAuthenticated: true})
	require.NoError(t, err)
	assert.Equal(t, created.ID, me.ID)

	_, err = svc.Me(ctx, Caller{ID: uuid.New(), IsAuthenticated: true})
	assertCode(t, err, CodeUnauthorized)
}

func TestCreateAdmin_Validation(t *testing.T) {
	svc, _ := newAuthFixture()
	ctx := context.Background()
	_, err := svc.CreateAdmin(ctx, AdminInput{Email: "a@charcoal.test", Name: "A", Password: "long-enough"})
	require.NoError(t, err)

	for name, in := range map[string]AdminInput{
		"short password": {Email: "b@charcoal.test", Name: "B", Password: "short"},
		"bad role":       {Email: "b@charcoal.test", Name: "B", Password: "long-enough", Role: "root"},
		"bad email":      {Email: "b", Name: "B", Password: "long-enough"},
		"duplicate":      {Email: "A@charcoal.test", Name: "A2", Password: "long-enough"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.CreateAdmin(ctx, in)
			assertCode(t, err, CodeBadRequest)
		})
	}
}
