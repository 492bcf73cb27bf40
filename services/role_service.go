package services

import (
	"context"
	"time"

	"ticket-marketplace/repository"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const roleCacheTTL = 5 * time.Minute

// RoleService resolves the role tag for a verified email, caching lookups in
// Redis since the role gate runs on every seller/admin request.
type RoleService struct {
	users repository.UserStore
	redis *redis.Client
	log   *zap.Logger
}

func NewRoleService(users repository.UserStore, redisClient *redis.Client, log *zap.Logger) *RoleService {
	return &RoleService{users: users, redis: redisClient, log: log}
}

func (s *RoleService) Role(ctx context.Context, email string) (string, error) {
	key := roleKey(email)
	if s.redis != nil {
		if role, err := s.redis.Get(ctx, key).Result(); err == nil {
			return role, nil
		}
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}

	if s.redis != nil {
		if err := s.redis.Set(ctx, key, user.Role, roleCacheTTL).Err(); err != nil {
			s.log.Warn("role cache write failed", zap.String("email", email), zap.Error(err))
		}
	}
	return user.Role, nil
}

// Invalidate drops the cached role after an admin role change.
func (s *RoleService) Invalidate(ctx context.Context, email string) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, roleKey(email)).Err(); err != nil {
		s.log.Warn("role cache invalidation failed", zap.String("email", email), zap.Error(err))
	}
}

func roleKey(email string) string {
	return "role:" + email
}
