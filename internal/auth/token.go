package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// HS256 JWT, подписанный вручную через stdlib HMAC. Токен выдаёт Login:
//   { "sub": <username>, "role": ..., "iat": ..., "exp": ... }

// Claims — минимум, нужный для аутентификации.
type Claims struct {
	Sub  string `json:"sub"`
	Role string `json:"role"`
	Iat  int64  `json:"iat"`
	Exp  int64  `json:"exp"`
}

var (
	errBadToken     = errors.New("malformed token")
	errTokenExpired = errors.New("token expired")
)

// SignToken выдаёт HS256 JWT для пользователя со сроком жизни ttl.
func SignToken(secret string, u *User, ttl time.Duration) (string, error) {
	header := map[string]any{"alg": "HS256", "typ": "JWT"}
	headB, err := json.Marshal(header)
	if err != nil {
		return "", err
	}
	now := time.Now()
	payloadB, err := json.Marshal(Claims{
		Sub:  u.Username,
		Role: u.Role,
		Iat:  now.Unix(),
		Exp:  now.Add(ttl).Unix(),
	})
	if err != nil {
		return "", err
	}
	enc := base64.RawURLEncoding
	unsigned := enc.EncodeToString(headB) + "." + enc.EncodeToString(payloadB)
	h := hmac.New(sha256.New, []byte(secret))
	_, _ = h.Write([]byte(unsigned))
	sig := enc.EncodeToString(h.Sum(nil))
	return unsigned + "." + sig, nil
}

// ParseToken проверяет подпись и срок жизни токена.
func ParseToken(secret, token string) (*Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, errBadToken
	}
	enc := base64.RawURLEncoding
	unsigned := parts[0] + "." + parts[1]
	h := hmac.New(sha256.New, []byte(secret))
	_, _ = h.Write([]byte(unsigned))
	want := enc.EncodeToString(h.Sum(nil))
	if !hmac.Equal([]byte(want), []byte(parts[2])) {
		return nil, errBadToken
	}
	payload, err := enc.DecodeString(parts[1])
	if err != nil {
		return nil, errBadToken
	}
	var claims Claims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, errBadToken
	}
	if claims.Exp > 0 && time.Now().Unix() > claims.Exp {
		return nil, errTokenExpired
	}
	return &claims, nil
}
