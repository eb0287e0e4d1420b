package util

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"
)

var errBadLength = errors.New("otp length must be positive")

var ten = big.NewInt(10)

// Sha256Base64URL возвращает base64url (без паддинга) от sha256(plain)
func Sha256Base64URL(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// NewOTP: n-значный цифровой код, каждая цифра из crypto/rand
func NewOTP(n int) (string, error) {
	if n <= 0 {
		return "", errBadLength
	}
	digits := make([]byte, n)
	for i := range digits {
		d, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", fmt.Errorf("read random: %w", err)
		}
		digits[i] = '0' + byte(d.Int64())
	}
	return string(digits), nil
}

// NewOpaqueToken: 32 случайных байта в base64url. В базе хранится только Sha256Base64URL от него.
func NewOpaqueToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// OTPMatches сравнивает код с сохранённым хэшем за постоянное время
func OTPMatches(code, hash string) bool {
	return subtle.ConstantTimeCompare([]byte(Sha256Base64URL(code)), []byte(hash)) == 1
}
