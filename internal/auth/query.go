package auth

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	goredis "github.com/redis/go-redis/v9"
	"github.com/revkonstriksyon/fluid-finance-api/internal/cqrs"
	"github.com/revkonstriksyon/fluid-finance-api/internal/models"
	"github.com/revkonstriksyon/fluid-finance-api/internal/utils"
)

var (
	jwtSecretOnce sync.Once
	jwtSecretVal  []byte
)

func jwtSecret() []byte {
	jwtSecretOnce.Do(func() {
		secret := os.Getenv("JWT_SECRET")
		if secret == "" {
			panic("JWT_SECRET environment variable is not set")
		}
		jwtSecretVal = []byte(secret)
	})
	return jwtSecretVal
}

// Claims is the JWT payload.
type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// UserStore is the slice of the profile repository login needs.
type UserStore interface {
	GetByEmail(email string) (*models.Profile, error)
}

const admin2FAKeyPrefix = "admin:2fa:"

// QueryService handles login, token refresh and the admin second factor.
// There's no CommandService for auth because these operations don't mutate
// application state; the 2FA session capability lives in Redis with a TTL.
type QueryService struct {
	users UserStore
	redis *goredis.Client
}

func NewQueryService(users UserStore, redis *goredis.Client) *QueryService {
	return &QueryService{users: users, redis: redis}
}

func (s *QueryService) Login(cmd cqrs.LoginCommand) (string, error) {
	user, err := s.users.GetByEmail(cmd.Email)
	if err != nil {
		return "", fmt.Errorf("invalid credentials")
	}
	if !utils.CheckPassword(cmd.Password, user.PasswordHash) {
		return "", fmt.Errorf("invalid credentials")
	}
	return s.generateToken(user.ID, user.Email, user.Role)
}

func (s *QueryService) RefreshToken(cmd cqrs.RefreshTokenCommand) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(cmd.Token, claims, func(token *jwt.Token) (any, error) {
		return jwtSecret(), nil
	})
	if err != nil || !token.Valid {
		return "", fmt.Errorf("invalid token")
	}
	return s.generateToken(claims.UserID, claims.Email, claims.Role)
}

// VerifyAdmin2FA records a server-side second-factor session for an admin.
// The capability is a Redis key with a TTL, checked again on every admin
// request; there is no client-settable bypass.
func (s *QueryService) VerifyAdmin2FA(ctx context.Context, userID, code string) error {
	// Demo verifier: a six-digit code is accepted. A real TOTP check slots
	// in here without changing the session capability model.
	if len(code) != 6 {
		return fmt.Errorf("invalid code")
	}
	if err := s.redis.Set(ctx, admin2FAKeyPrefix+userID, "1", 12*time.Hour).Err(); err != nil {
		return fmt.Errorf("failed to store 2fa session: %w", err)
	}
	return nil
}

// HasAdmin2FA reports whether the admin second-factor session is live.
func (s *QueryService) HasAdmin2FA(ctx context.Context, userID string) bool {
	val, err := s.redis.Exists(ctx, admin2FAKeyPrefix+userID).Result()
	return err == nil && val > 0
}

func (s *QueryService) generateToken(userID, email, role string) (string, error) {
	claims := Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(jwtSecret())
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return signed, nil
}
