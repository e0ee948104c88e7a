package token

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Kind 区分 access 与 refresh 两类令牌。
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

var (
	ErrExpired   = errors.New("token expired")
	ErrSignature = errors.New("token signature invalid")
	ErrMalformed = errors.New("token malformed")
)

type Claims struct {
	UserID uint   `json:"uid"`
	Kind   string `json:"type"`
	jwt.RegisteredClaims
}

// Issuer 使用显式配置签发与解析 JWT，不依赖任何全局状态。
type Issuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewIssuer(secret string, accessTTLMinutes, refreshTTLDays int) *Issuer {
	return &Issuer{
		secret:     []byte(secret),
		accessTTL:  time.Duration(accessTTLMinutes) * time.Minute,
		refreshTTL: time.Duration(refreshTTLDays) * 24 * time.Hour,
	}
}

// Issue 为指定用户签发一个带 jti 的 HS256 令牌。
func (i *Issuer) Issue(userID uint, kind Kind) (string, error) {
	now := time.Now()
	ttl := i.accessTTL
	if kind == KindRefresh {
		ttl = i.refreshTTL
	}
	claims := Claims{
		UserID: userID,
		Kind:   string(kind),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// Decode 解析并验证令牌，失败时返回归一化的错误。
func (i *Issuer) Decode(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrSignature
		}
		return i.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrSignature
		default:
			return nil, ErrMalformed
		}
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrMalformed
	}
	return claims, nil
}

// Expiry 返回令牌声明中的过期时间。
func (c *Claims) Expiry() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}
