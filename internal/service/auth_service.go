package service

import (
	"adultna_backend/internal/config"
	"adultna_backend/internal/model"
	"adultna_backend/internal/repository"
	"adultna_backend/internal/util"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	UserRepo *repository.UserRepository
	Cfg      *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		UserRepo: userRepo,
		Cfg:      cfg,
	}
}

func (s *AuthService) Register(user *model.User) error {
	_, err := s.UserRepo.FindByEmail(user.Email)
	if err == nil {
		return util.ErrEmailRegistered
	} else if err != gorm.ErrRecordNotFound {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashedPassword)
	return s.UserRepo.Create(user)
}

// Login verifies credentials and issues a token bound to a fresh session ID.
// The session ID is what the idle manager and the revocation set key on.
func (s *AuthService) Login(email, password string) (string, string, error) {
	user, err := s.UserRepo.FindByEmail(email)
	if err != nil {
		return "", "", util.ErrInvalidCredentials
	}

	if user.Disabled {
		return "", "", util.ErrAccountDisabled
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", "", util.ErrInvalidCredentials
	}

	sessionID := model.GenerateUUID()
	token, err := util.GenerateJWT(user, sessionID, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return "", "", err
	}

	s.UserRepo.UpdateLastLogin(user.ID)
	return token, sessionID, nil
}

func (s *AuthService) GetCurrentUser(c *gin.Context) *model.User {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		return nil
	}

	user, _ := s.UserRepo.FindByID(claims.UserID)
	return user
}
