package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrTokenNotFound    = errors.New("token not found")
	ErrRedisUnavailable = errors.New("redis unavailable")
	ErrExtendFailed     = errors.New("token extend failed")
	ErrTokenDeleted     = errors.New("token delete failed")
)

const (
	UserTokenPrefix = "login:user:token"
	UserTokenExpire = 30 * time.Minute
)

// TokenRepository 每个账户只保存一个有效的 access token，重新登录会覆盖旧会话
type TokenRepository struct {
	Client *redis.Client
}

func tokenKey(accountID string) string {
	return fmt.Sprintf("%s:%s", UserTokenPrefix, accountID)
}

func (r *TokenRepository) Add(ctx context.Context, accountID, token string) error {
	if err := r.Client.Set(ctx, tokenKey(accountID), token, UserTokenExpire).Err(); err != nil {
		return ErrRedisUnavailable
	}
	return nil
}

func (r *TokenRepository) Get(ctx context.Context, accountID string) (string, error) {
	token, err := r.Client.Get(ctx, tokenKey(accountID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrTokenNotFound
	}
	if err != nil {
		return "", ErrRedisUnavailable
	}
	return token, nil
}

// Extend 每次鉴权通过后续期
func (r *TokenRepository) Extend(ctx context.Context, accountID string) error {
	if err := r.Client.Expire(ctx, tokenKey(accountID), UserTokenExpire).Err(); err != nil {
		return ErrExtendFailed
	}
	return nil
}

// Delete 幂等
func (r *TokenRepository) Delete(ctx context.Context, accountID string) error {
	if err := r.Client.Del(ctx, tokenKey(accountID)).Err(); err != nil {
		return ErrTokenDeleted
	}
	return nil
}
