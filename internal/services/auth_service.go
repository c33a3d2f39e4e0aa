package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/water-complaint-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/water-complaint-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/water-complaint-backend/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSignup      = errors.New("email required and password must be at least 8 characters")
	ErrUserNotFound       = errors.New("user not found")
)

const minPasswordLength = 8

type AuthService struct {
	db  *gorm.DB
	cfg *config.Config
	Now func() time.Time
}

func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{
		db:  db,
		cfg: cfg,
		Now: time.Now,
	}
}

// HashPassword bcrypt-hashes a plaintext password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Signup registers a resident account. Staff accounts only come from seeding.
func (s *AuthService) Signup(ctx context.Context, req *dto.SignupRequest) (*dto.UserProfile, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || len(req.Password) < minPasswordLength {
		return nil, ErrInvalidSignup
	}

	var existing models.User
	err := s.db.WithContext(ctx).Where("username = ? AND role = ?", email, models.RoleUser).First(&existing).Error
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username:     email,
		PasswordHash: hash,
		Role:         models.RoleUser,
		Name:         strings.TrimSpace(req.Name),
		Aadhaar:      req.Aadhaar,
		Phone:        req.Phone,
		Address:      req.Address,
		FamilySize:   req.FamilySize,
		PropertyType: req.PropertyType,
		Photo:        req.Photo,
		Badges:       []string{},
		CreatedAt:    s.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	profile := toProfile(&user)
	return &profile, nil
}

// Login checks email and password for the given role and returns the
// profile together with a signed access token.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	role := strings.TrimSpace(req.Role)
	if role == "" {
		role = models.RoleUser
	}
	if !models.ValidRole(role) {
		return nil, ErrInvalidCredentials
	}

	var user models.User
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.db.WithContext(ctx).Where("username = ? AND role = ?", email, role).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.generateAccessToken(&user)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		Success:     true,
		Message:     "Login successful",
		AccessToken: token,
		User:        toProfile(&user),
	}, nil
}

func (s *AuthService) Profile(ctx context.Context, email, role string) (*dto.UserProfile, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ? AND role = ?", email, role).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	profile := toProfile(&user)
	return &profile, nil
}

func (s *AuthService) generateAccessToken(user *models.User) (string, error) {
	now := s.Now()
	claims := jwt.MapClaims{
		"sub":  user.Username,
		"name": user.Name,
		"role": user.Role,
		"iat":  now.Unix(),
		"exp":  now.Add(s.cfg.JWTAccessExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func toProfile(user *models.User) dto.UserProfile {
	badges := []string(user.Badges)
	if badges == nil {
		badges = []string{}
	}
	return dto.UserProfile{
		Username:     user.Username,
		Name:         user.Name,
		Role:         user.Role,
		Aadhaar:      user.Aadhaar,
		Phone:        user.Phone,
		Address:      user.Address,
		FamilySize:   user.FamilySize,
		PropertyType: user.PropertyType,
		Photo:        user.Photo,
		Badges:       badges,
		Points:       user.Points,
	}
}
