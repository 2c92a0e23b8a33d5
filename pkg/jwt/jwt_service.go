package jwt

import (
	"errors"
	"fmt"
	"kitchenlog/domain"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const (
	DefaultTTL  = 2 * time.Hour
	RememberTTL = 30 * 24 * time.Hour
)

type (
	JWTService interface {
		GenerateTokenUser(userId string, role string, remember bool) (string, time.Time, error)
		ValidateTokenUser(token string) (*jwt.Token, error)
		ParseToken(token string) (*UserClaims, error)
	}

	UserClaims struct {
		UserID string `json:"user_id"`
		Role   string `json:"role"`
		jwt.RegisteredClaims
	}

	jwtService struct {
		secretKey string
		issuer    string
		now       func() time.Time
	}
)

func NewJWTService(secretKey string) JWTService {
	return &jwtService{
		secretKey: secretKey,
		issuer:    "KITCHENLOG",
		now:       time.Now,
	}
}

// GenerateTokenUser signs a token with a unique id so it can be revoked on logout.
// remember selects the long-lived expiry.
func (j *jwtService) GenerateTokenUser(userId string, role string, remember bool) (string, time.Time, error) {
	ttl := DefaultTTL
	if remember {
		ttl = RememberTTL
	}
	now := j.now()
	expiresAt := now.Add(ttl)

	claims := UserClaims{
		userId,
		role,
		jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			Issuer:    j.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

func (j *jwtService) parseToken(t_ *jwt.Token) (any, error) {
	if _, ok := t_.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method %v", t_.Header["alg"])
	}
	return []byte(j.secretKey), nil
}

func (j *jwtService) ValidateTokenUser(token string) (*jwt.Token, error) {
	return jwt.ParseWithClaims(token, &UserClaims{}, j.parseToken)
}

func (j *jwtService) ParseToken(token string) (*UserClaims, error) {
	t_Token, err := j.ValidateTokenUser(token)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}
	if !t_Token.Valid {
		return nil, domain.ErrTokenInvalid
	}

	claims, ok := t_Token.Claims.(*UserClaims)
	if !ok || claims.UserID == "" || claims.ID == "" {
		return nil, domain.ErrTokenInvalid
	}
	return claims, nil
}
