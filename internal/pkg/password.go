package pkg

import (
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLen = 8
	passwordSymbol = "@$!%*?&"
)

// StrongPassword 至少 8 位，只允许字母、数字和 @$!%*?&，且大小写字母、数字、符号各至少一个
func StrongPassword(pw string) bool {
	if len(pw) < minPasswordLen {
		return false
	}
	var lower, upper, digit, symbol bool
	for _, r := range pw {
		switch {
		case r > unicode.MaxASCII:
			return false
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(passwordSymbol, r):
			symbol = true
		default:
			return false
		}
	}
	return lower && upper && digit && symbol
}

func HashPassword(pw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(hash), err
}

func CheckPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}
