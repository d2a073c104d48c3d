package jwt

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

type Service interface {
	GenerateAccessToken(userID, employeeID string, role user.Role) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpiration time.Duration
	tokenAuth             *jwtauth.JWTAuth
	now                   func() time.Time
}

// NewJWTService parses accessTokenExpirationTime as a Go duration ("15m", "24h").
func NewJWTService(secretKey string, accessTokenExpirationTime string) (Service, error) {
	exp, err := time.ParseDuration(accessTokenExpirationTime)
	if err != nil {
		return nil, fmt.Errorf("invalid access token expiration %q: %w", accessTokenExpirationTime, err)
	}
	if exp <= 0 {
		return nil, fmt.Errorf("access token expiration must be positive, got %s", exp)
	}
	return &JWTService{
		accessTokenExpiration: exp,
		tokenAuth:             jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		now:                   time.Now,
	}, nil
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func (j *JWTService) GenerateAccessToken(userID, employeeID string, role user.Role) (token string, expiresAt int64, err error) {
	if _, ok := user.RolePermissions[role]; !ok {
		return "", 0, user.ErrUnknownRole
	}
	expiresAt = j.now().Add(j.accessTokenExpiration).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"user_id":     userID,
		"employee_id": employeeID,
		"role":        string(role),
		"type":        "access",
		"exp":         expiresAt,
	})
	return tokenString, expiresAt, err
}
