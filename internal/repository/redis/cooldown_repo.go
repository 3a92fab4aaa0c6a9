package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	CooldownPrefix = "cooldown:mail"
	MailCooldown   = time.Minute
)

// CooldownRepository 限制同一邮箱重复触发发信（验证邮件、重置邮件）
type CooldownRepository struct {
	Client *redis.Client
	TTL    time.Duration
}

func (r *CooldownRepository) key(scope, email string) string {
	return fmt.Sprintf("%s:%s:%s", CooldownPrefix, scope, email)
}

// Acquire 冷却期内再次调用返回 false
func (r *CooldownRepository) Acquire(ctx context.Context, scope, email string) (bool, error) {
	ttl := r.TTL
	if ttl <= 0 {
		ttl = MailCooldown
	}
	ok, err := r.Client.SetNX(ctx, r.key(scope, email), 1, ttl).Result()
	if err != nil {
		return false, ErrRedisUnavailable
	}
	return ok, nil
}

// Release 发信失败时归还，允许立即重试
func (r *CooldownRepository) Release(ctx context.Context, scope, email string) error {
	if err := r.Client.Del(ctx, r.key(scope, email)).Err(); err != nil {
		return ErrRedisUnavailable
	}
	return nil
}
