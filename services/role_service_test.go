package services

import (
	"context"
	"testing"
	"time"

	"ticket-marketplace/models"
	"ticket-marketplace/repository"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeUserStore struct {
	users     map[string]*models.User
	findCalls int
}

func (s *fakeUserStore) Upsert(ctx context.Context, user *models.User) (bool, error) {
	return false, nil
}

func (s *fakeUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	s.findCalls++
	user, ok := s.users[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return user, nil
}

func (s *fakeUserStore) ListOthers(ctx context.Context, excludeEmail string) ([]models.User, error) {
	return nil, nil
}
func (s *fakeUserStore) UpdateRole(ctx context.Context, email, role string) error { return nil }
func (s *fakeUserStore) CreateSellerRequest(ctx context.Context, email string) error {
	return nil
}
func (s *fakeUserStore) ListSellerRequests(ctx context.Context) ([]models.SellerRequest, error) {
	return nil, nil
}
func (s *fakeUserStore) DeleteSellerRequest(ctx context.Context, email string) error { return nil }

func TestRoleCacheHitSkipsStore(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := &fakeUserStore{users: map[string]*models.User{}}
	svc := NewRoleService(store, client, zap.NewNop())

	mock.ExpectGet("role:seller@example.com").SetVal(models.RoleSeller)

	role, err := svc.Role(context.Background(), "seller@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleSeller, role)
	assert.Equal(t, 0, store.findCalls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoleCacheMissFallsThroughAndCaches(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := &fakeUserStore{users: map[string]*models.User{
		"buyer@example.com": {Email: "buyer@example.com", Role: models.RoleCustomer},
	}}
	svc := NewRoleService(store, client, zap.NewNop())

	mock.ExpectGet("role:buyer@example.com").RedisNil()
	mock.ExpectSet("role:buyer@example.com", models.RoleCustomer, 5*time.Minute).SetVal("OK")

	role, err := svc.Role(context.Background(), "buyer@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleCustomer, role)
	assert.Equal(t, 1, store.findCalls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoleUnknownUser(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := &fakeUserStore{users: map[string]*models.User{}}
	svc := NewRoleService(store, client, zap.NewNop())

	mock.ExpectGet("role:ghost@example.com").RedisNil()

	_, err := svc.Role(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRoleInvalidate(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := &fakeUserStore{users: map[string]*models.User{}}
	svc := NewRoleService(store, client, zap.NewNop())

	mock.ExpectDel("role:seller@example.com").SetVal(1)

	svc.Invalidate(context.Background(), "seller@example.com")
	assert.NoError(t, mock.ExpectationsWereMet())
}
