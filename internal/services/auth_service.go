package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"
	"unicode"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/yuchenghsu/signalguide-backend/internal/authctx"
	"github.com/yuchenghsu/signalguide-backend/internal/config"
	"github.com/yuchenghsu/signalguide-backend/internal/dto"
	"github.com/yuchenghsu/signalguide-backend/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrForbidden          = errors.New("admin role required")
	ErrInvalidCredentials = errors.New("invalid employee ID or password")
	ErrInvalidToken       = errors.New("invalid or expired refresh token")
	ErrEmployeeIDTaken    = errors.New("employee ID already registered")
	ErrBadEmployeeID      = errors.New("employee ID must be exactly 5 digits")
	ErrNameRequired       = errors.New("name is required")
	ErrWeakPassword       = errors.New("password must be at least 6 characters and contain a letter")
	ErrBadRole            = errors.New("role must be admin or viewer")
	ErrUserNotFound       = errors.New("user not found")
)

// BootstrapEmployeeID is the sentinel superuser account. It is the only
// employee ID exempt from the five-digit rule.
const BootstrapEmployeeID = "A0000"

var employeeIDPattern = regexp.MustCompile(`^\d{5}$`)

type AuthService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{db: db, cfg: cfg}
}

// CreateUser registers a new account. Admin only.
func (s *AuthService) CreateUser(ctx authctx.AuthContext, req *dto.CreateUserRequest) (*models.User, error) {
	if !ctx.IsAdmin() {
		return nil, ErrForbidden
	}

	if req.EmployeeID != BootstrapEmployeeID && !employeeIDPattern.MatchString(req.EmployeeID) {
		return nil, ErrBadEmployeeID
	}
	if req.Name == "" {
		return nil, ErrNameRequired
	}
	if !passwordOK(req.Password) {
		return nil, ErrWeakPassword
	}
	role := models.Role(req.Role)
	if !role.Valid() {
		return nil, ErrBadRole
	}

	var existing models.User
	if err := s.db.Where("employee_id = ?", req.EmployeeID).First(&existing).Error; err == nil {
		return nil, ErrEmployeeIDTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:         uuid.New(),
		EmployeeID: req.EmployeeID,
		Name:       req.Name,
		Password:   string(hash),
		Role:       role,
	}

	if err := s.db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("account created", "employee_id", user.EmployeeID, "role", string(user.Role), "created_by", ctx.EmployeeID)
	return &user, nil
}

// Authenticate checks credentials and issues a token pair.
func (s *AuthService) Authenticate(req *dto.TokenRequest) (*dto.TokenResponse, error) {
	var user models.User
	if err := s.db.Where("employee_id = ?", req.EmployeeID).First(&user).Error; err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.generateTokenPair(&user)
}

// Refresh rotates a refresh token: the presented token is revoked and a
// fresh pair is issued.
func (s *AuthService) Refresh(req *dto.RefreshRequest) (*dto.TokenResponse, error) {
	tokenHash := hashToken(req.Refresh)

	var stored models.RefreshToken
	if err := s.db.Where("token_hash = ? AND revoked = false", tokenHash).First(&stored).Error; err != nil {
		return nil, ErrInvalidToken
	}

	if time.Now().After(stored.ExpiresAt) {
		s.db.Model(&stored).Update("revoked", true)
		return nil, ErrInvalidToken
	}

	s.db.Model(&stored).Update("revoked", true)

	var user models.User
	if err := s.db.First(&user, "id = ?", stored.UserID).Error; err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	return s.generateTokenPair(&user)
}

// ChangePassword sets a new password for the calling account after
// verifying the current one. Previously issued tokens stay valid.
func (s *AuthService) ChangePassword(ctx authctx.AuthContext, req *dto.ChangePasswordRequest) error {
	var user models.User
	if err := s.db.First(&user, "id = ?", ctx.UserID).Error; err != nil {
		return ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)); err != nil {
		return ErrInvalidCredentials
	}

	if len(req.NewPassword) < 6 {
		return ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.db.Model(&user).Update("password", string(hash)).Error; err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	slog.Info("password changed", "employee_id", user.EmployeeID)
	return nil
}

// EnsureBootstrapAdmin creates the A0000 superuser on first start when a
// bootstrap password is configured. Existing accounts are left alone.
func (s *AuthService) EnsureBootstrapAdmin(password string) error {
	if password == "" {
		return nil
	}

	var existing models.User
	if err := s.db.Where("employee_id = ?", BootstrapEmployeeID).First(&existing).Error; err == nil {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash bootstrap password: %w", err)
	}

	user := models.User{
		ID:         uuid.New(),
		EmployeeID: BootstrapEmployeeID,
		Name:       "superuser",
		Password:   string(hash),
		Role:       models.RoleAdmin,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return fmt.Errorf("failed to create bootstrap admin: %w", err)
	}

	slog.Info("bootstrap admin created", "employee_id", BootstrapEmployeeID)
	return nil
}

func (s *AuthService) generateTokenPair(user *models.User) (*dto.TokenResponse, error) {
	access, err := s.generateAccessToken(user)
	if err != nil {
		return nil, err
	}

	refresh, err := s.generateRefreshToken(user)
	if err != nil {
		return nil, err
	}

	return &dto.TokenResponse{
		Access:     access,
		Refresh:    refresh,
		Name:       user.Name,
		Role:       string(user.Role),
		EmployeeID: user.EmployeeID,
	}, nil
}

func (s *AuthService) generateAccessToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":         user.ID.String(),
		"employee_id": user.EmployeeID,
		"name":        user.Name,
		"role":        string(user.Role),
		"iat":         time.Now().Unix(),
		"exp":         time.Now().Add(s.cfg.JWTAccessExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *AuthService) generateRefreshToken(user *models.User) (string, error) {
	rawBytes := make([]byte, 32)
	if _, err := rand.Read(rawBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	rawToken := base64.URLEncoding.EncodeToString(rawBytes)

	record := models.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: hashToken(rawToken),
		ExpiresAt: time.Now().Add(s.cfg.JWTRefreshExpiry),
	}

	if err := s.db.Create(&record).Error; err != nil {
		return "", fmt.Errorf("failed to store refresh token: %w", err)
	}

	return rawToken, nil
}

func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", h)
}

func passwordOK(password string) bool {
	if len(password) < 6 {
		return false
	}
	for _, r := range password {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
