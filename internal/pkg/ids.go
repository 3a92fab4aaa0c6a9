package pkg

import (
	cryptoRand "crypto/rand"
	"encoding/hex"

	"github.com/google/uuid"
)

const shortIDLen = 15

// NewAccountID 账户 ID 使用 uuid v4
func NewAccountID() string {
	return uuid.NewString()
}

// NewShortID 帖子、评论、审计记录使用 15 位十六进制 ID
func NewShortID() (string, error) {
	b := make([]byte, 8)
	if _, err := cryptoRand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b)[:shortIDLen], nil
}

// RandToken 邮件验证、重置密码使用的 32 字节随机令牌
func RandToken() (string, error) {
	b := make([]byte, 32)
	if _, err := cryptoRand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
