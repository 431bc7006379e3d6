package jwt

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Claims 会话声明，UserID 即请求方身份
type Claims struct {
	UserID int64 `json:"userId"`
	gojwt.RegisteredClaims
}

// Manager 负责签发与解析 HS256 令牌
type Manager struct {
	secret []byte
	expire time.Duration
	issuer string
	now    func() time.Time
}

func NewManager(secret string, expire time.Duration, issuer string) *Manager {
	if expire <= 0 {
		expire = 24 * time.Hour
	}
	return &Manager{secret: []byte(secret), expire: expire, issuer: issuer, now: time.Now}
}

// Generate 为用户签发令牌
func (m *Manager) Generate(userID int64) (string, *Claims, error) {
	now := m.now()
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: gojwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    m.issuer,
			Subject:   fmt.Sprintf("%d", userID),
			IssuedAt:  gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(now.Add(m.expire)),
		},
	}
	token, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", nil, err
	}
	return token, claims, nil
}

// Parse 校验签名与过期时间
func (m *Manager) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := gojwt.ParseWithClaims(tokenString, claims, func(t *gojwt.Token) (any, error) {
		return m.secret, nil
	},
		gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}),
		gojwt.WithTimeFunc(m.now),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// TTL 令牌剩余有效期
func (m *Manager) TTL(c *Claims) time.Duration {
	if c.ExpiresAt == nil {
		return m.expire
	}
	return c.ExpiresAt.Sub(m.now())
}
