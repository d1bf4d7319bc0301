package services

import (
	"errors"
	"time"

	"nfl-pool-go/interfaces"
	"nfl-pool-go/models"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidCredentials is returned by Login for an unknown email or wrong password
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidToken is returned for tokens that fail parsing, signature or expiry checks
	ErrInvalidToken = errors.New("invalid token")
)

const tokenIssuer = "nfl-pool-go"

// AuthService handles authentication operations for pool operators
type AuthService struct {
	userRepo    interfaces.UserRepository
	jwtSecret   []byte
	tokenExpiry time.Duration
}

// JWTClaims represents the claims in our JWT token
type JWTClaims struct {
	UserID  int    `json:"user_id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

// NewAuthService creates a new authentication service. A non-positive
// tokenExpiry falls back to 24 hours.
func NewAuthService(userRepo interfaces.UserRepository, jwtSecret string, tokenExpiry time.Duration) *AuthService {
	if tokenExpiry <= 0 {
		tokenExpiry = 24 * time.Hour
	}
	return &AuthService{
		userRepo:    userRepo,
		jwtSecret:   []byte(jwtSecret),
		tokenExpiry: tokenExpiry,
	}
}

// Login authenticates a user and returns the safe user and a signed token
func (a *AuthService) Login(email, password string) (*models.User, string, error) {
	user, err := a.userRepo.GetUserByEmail(email)
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}

	if !user.CheckPassword(password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := a.GenerateToken(user)
	if err != nil {
		return nil, "", errors.New("failed to generate token")
	}

	safe := user.ToSafeUser()
	return &safe, token, nil
}

// GenerateToken creates a new JWT token for the user
func (a *AuthService) GenerateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := JWTClaims{
		UserID:  user.ID,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(a.tokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.jwtSecret)
}

// ValidateToken verifies the token and returns the current state of its user
func (a *AuthService) ValidateToken(tokenString string) (*models.User, error) {
	claims, err := a.parseClaims(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := a.userRepo.GetUserByID(claims.UserID)
	if err != nil {
		return nil, errors.New("user not found")
	}

	safe := user.ToSafeUser()
	return &safe, nil
}

func (a *AuthService) parseClaims(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid token signing method")
		}
		return a.jwtSecret, nil
	}, jwt.WithIssuer(tokenIssuer))
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidToken
}
