package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"mall/internal/apperrors"
	"mall/internal/authz"
	"mall/internal/models"
	"mall/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles phone/OTP authentication, JWT issuance and user
// account management.
type AuthService struct {
	userRepo      repositories.UserRepository
	codes         repositories.CodeStore
	jwtSecret     []byte
	tokenDuration time.Duration
	codeTTL       time.Duration
	logger        *zap.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, codes repositories.CodeStore, jwtSecret string, logger *zap.Logger) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		codes:         codes,
		jwtSecret:     []byte(jwtSecret),
		tokenDuration: 24 * time.Hour,
		codeTTL:       5 * time.Minute,
		logger:        logger,
	}
}

// SendCode generates a 6-digit verification code for the phone and stores
// its bcrypt hash with a 5-minute expiry. The plaintext code is returned to
// the caller; delivery over SMS is outside this service.
func (s *AuthService) SendCode(ctx context.Context, phone string) (string, error) {
	if phone == "" {
		return "", apperrors.Validationf("phone number is required")
	}

	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("failed to generate verification code: %w", err)
	}
	code := fmt.Sprintf("%06d", n.Int64())
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash verification code: %w", err)
	}
	if err := s.codes.Set(ctx, phone, string(hash), s.codeTTL); err != nil {
		return "", err
	}

	s.logger.Info("verification code issued", zap.String("phone", phone))
	return code, nil
}

// verifyCode checks the code against the stored hash and consumes it on
// success. A code is usable exactly once.
func (s *AuthService) verifyCode(ctx context.Context, phone, code string) error {
	hash, err := s.codes.Get(ctx, phone)
	if err != nil {
		var nf *apperrors.NotFoundError
		if errors.As(err, &nf) {
			return apperrors.Validationf("invalid or expired verification code")
		}
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)) != nil {
		return apperrors.Validationf("invalid or expired verification code")
	}
	if err := s.codes.Delete(ctx, phone); err != nil {
		s.logger.Warn("failed to consume verification code", zap.String("phone", phone), zap.Error(err))
	}
	return nil
}

// Register verifies the code and creates a new account for the phone. The
// code is checked before the phone is looked up, so a caller without a valid
// code cannot tell whether a number is registered. The unique index on phone
// is the duplicate check; a concurrent registration loses there.
func (s *AuthService) Register(ctx context.Context, phone, code string, userType int, nickname, avatar string) (*models.User, error) {
	if err := s.verifyCode(ctx, phone, code); err != nil {
		return nil, err
	}
	if existing, err := s.userRepo.GetByPhone(phone); err == nil && existing != nil {
		return nil, apperrors.Validationf("phone %s already registered", phone)
	}
	if userType == 0 {
		userType = models.UserTypeCustomer
	}

	user := &models.User{
		Phone:    phone,
		UserType: userType,
		Nickname: nickname,
		Avatar:   avatar,
		Status:   models.UserStatusActive,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID.String()), zap.Int("user_type", userType))
	return user, nil
}

// Login verifies the code and returns a signed token plus the user. An
// unknown phone is registered on the fly as a customer, nicknamed from the
// last four digits of the number.
func (s *AuthService) Login(ctx context.Context, phone, code string) (string, *models.User, error) {
	if err := s.verifyCode(ctx, phone, code); err != nil {
		return "", nil, err
	}

	user, err := s.userRepo.GetByPhone(phone)
	if err != nil {
		var nf *apperrors.NotFoundError
		if !errors.As(err, &nf) {
			return "", nil, err
		}
		suffix := phone
		if len(suffix) > 4 {
			suffix = suffix[len(suffix)-4:]
		}
		user = &models.User{
			Phone:    phone,
			UserType: models.UserTypeCustomer,
			Nickname: "user" + suffix,
			Status:   models.UserStatusActive,
		}
		if err := s.userRepo.Create(user); err != nil {
			return "", nil, fmt.Errorf("failed to create user on login: %w", err)
		}
		s.logger.Info("user auto-registered on login", zap.String("user_id", user.ID.String()))
	}

	if user.Status != models.UserStatusActive {
		return "", nil, apperrors.Forbiddenf("account is disabled")
	}

	token, err := s.issueToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *AuthService) issueToken(user *models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":   user.ID.String(),
		"user_type": user.UserType,
		"exp":       time.Now().Add(s.tokenDuration).Unix(),
		"iat":       time.Now().Unix(),
	})
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and validates a JWT, returning its claims.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token")
}

// GetProfile returns the user's account.
func (s *AuthService) GetProfile(id models.ID) (*models.User, error) {
	return s.userRepo.GetByID(id)
}

// UpdateProfile updates the mutable profile fields of the user.
func (s *AuthService) UpdateProfile(id models.ID, nickname, avatar string, status *int) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if nickname != "" {
		user.Nickname = nickname
	}
	if avatar != "" {
		user.Avatar = avatar
	}
	if status != nil {
		if *status != models.UserStatusActive && *status != models.UserStatusDisabled {
			return nil, apperrors.Validationf("invalid user status: %d", *status)
		}
		user.Status = *status
	}
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// ListUsers returns a page of users. Admin only.
func (s *AuthService) ListUsers(actor authz.Actor, page, limit int) ([]models.User, int64, error) {
	if !actor.IsAdmin() {
		return nil, 0, apperrors.Forbiddenf("admin access required")
	}
	return s.userRepo.List(page, limit)
}

// DeleteUser removes a user account. Admin only.
func (s *AuthService) DeleteUser(actor authz.Actor, id models.ID) error {
	if !actor.IsAdmin() {
		return apperrors.Forbiddenf("admin access required")
	}
	return s.userRepo.Delete(id)
}
