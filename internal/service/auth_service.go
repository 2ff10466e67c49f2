package service

import (
	"errors"
	"fmt"
	"strings"

	"deadsignal/config"
	"deadsignal/internal/auth"
	"deadsignal/internal/domain"
	"deadsignal/internal/models"
	"deadsignal/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailExists    = errors.New("email already registered")
	ErrUsernameExists = errors.New("username already taken")
	ErrInvalidCreds   = errors.New("invalid email or password")
)

type AuthService struct {
	cfg      *config.Config
	userRepo *repository.UserRepository
}

func NewAuthService(cfg *config.Config, userRepo *repository.UserRepository) *AuthService {
	return &AuthService{cfg: cfg, userRepo: userRepo}
}

func (s *AuthService) Register(email, username, password string) (*models.User, string, string, error) {
	_, err := s.userRepo.GetByEmail(email)
	if err == nil {
		return nil, "", "", ErrEmailExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", "", err
	}
	_, err = s.userRepo.GetByUsername(username)
	if err == nil {
		return nil, "", "", ErrUsernameExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", "", err
	}
	u := &models.User{
		Email:        email,
		Username:     username,
		PasswordHash: string(hash),
		Role:         domain.RolePlayer,
	}
	if err := s.userRepo.Create(u); err != nil {
		return nil, "", "", err
	}
	access, refresh, err := s.issue(u)
	return u, access, refresh, err
}

func (s *AuthService) Login(email, password string) (*models.User, string, string, error) {
	u, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", "", ErrInvalidCreds
		}
		return nil, "", "", err
	}
	if u.PasswordHash == "" {
		// Google-only account
		return nil, "", "", ErrInvalidCreds
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, "", "", ErrInvalidCreds
	}
	access, refresh, err := s.issue(u)
	return u, access, refresh, err
}

// Refresh exchanges a refresh token for a new token pair.
func (s *AuthService) Refresh(refreshToken string) (string, string, error) {
	userID, err := auth.ParseRefreshToken(&s.cfg.JWT, refreshToken)
	if err != nil {
		return "", "", err
	}
	u, err := s.userRepo.GetByID(userID)
	if err != nil {
		return "", "", auth.ErrInvalidToken
	}
	return s.issue(u)
}

// LoginWithGoogle creates or finds user by Google ID and returns user + tokens + isNew flag.
// An existing email account is linked rather than duplicated.
func (s *AuthService) LoginWithGoogle(googleID, email, name, avatarURL string) (*models.User, string, string, bool, error) {
	u, err := s.userRepo.GetByGoogleID(googleID)
	if err == nil {
		access, refresh, err := s.issue(u)
		return u, access, refresh, false, err
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", "", false, err
	}
	isNew := false
	u, err = s.userRepo.GetByEmail(email)
	switch {
	case err == nil:
		u.GoogleID = &googleID
		if u.AvatarURL == "" {
			u.AvatarURL = avatarURL
		}
		if err := s.userRepo.Update(u); err != nil {
			return nil, "", "", false, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		isNew = true
		u = &models.User{
			Email:     email,
			Username:  s.freeUsername(name, email, googleID),
			Role:      domain.RolePlayer,
			GoogleID:  &googleID,
			AvatarURL: avatarURL,
		}
		if err := s.userRepo.Create(u); err != nil {
			return nil, "", "", false, err
		}
	default:
		return nil, "", "", false, err
	}
	access, refresh, err := s.issue(u)
	return u, access, refresh, isNew, err
}

func (s *AuthService) freeUsername(name, email, googleID string) string {
	base := strings.ToLower(strings.Join(strings.Fields(name), "_"))
	if base == "" {
		base, _, _ = strings.Cut(email, "@")
	}
	if len(base) > 48 {
		base = base[:48]
	}
	if _, err := s.userRepo.GetByUsername(base); errors.Is(err, gorm.ErrRecordNotFound) {
		return base
	}
	suffix := googleID
	if len(suffix) > 8 {
		suffix = suffix[len(suffix)-8:]
	}
	return fmt.Sprintf("%s_%s", base, suffix)
}

func (s *AuthService) issue(u *models.User) (string, string, error) {
	access, err := auth.GenerateAccessToken(&s.cfg.JWT, u.ID, u.Email, u.Role)
	if err != nil {
		return "", "", err
	}
	refresh, err := auth.GenerateRefreshToken(&s.cfg.JWT, u.ID)
	if err != nil {
		return access, "", err
	}
	return access, refresh, nil
}
