package service

import (
	"college_chatbot_backend/internal/config"
	"college_chatbot_backend/internal/model"
	"college_chatbot_backend/internal/repository"
	"college_chatbot_backend/internal/session"
	"college_chatbot_backend/internal/util"
	"college_chatbot_backend/pkg/logger"
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	UserRepo  *repository.UserRepository
	LoginRepo *repository.LoginRepository
	Sessions  session.Store
	Cfg       *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, loginRepo *repository.LoginRepository, sessions session.Store, cfg *config.Config) *AuthService {
	return &AuthService{
		UserRepo:  userRepo,
		LoginRepo: loginRepo,
		Sessions:  sessions,
		Cfg:       cfg,
	}
}

type RegisterRequest struct {
	Name             string `json:"name"`
	Email            string `json:"email"`
	Mobile           string `json:"mobile"`
	Password         string `json:"password"`
	SecurityQuestion string `json:"security_question"`
	Answer           string `json:"answer"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResult struct {
	Token string
	Role  model.UserRole
	User  *model.User
}

func (s *AuthService) Register(req RegisterRequest) (*model.User, error) {
	email := strings.TrimSpace(req.Email)
	_, err := s.UserRepo.FindByEmail(email)
	if err == nil {
		return nil, util.ErrUserExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		Name:             strings.TrimSpace(req.Name),
		Email:            email,
		Mobile:           req.Mobile,
		PasswordHash:     string(hashedPassword),
		SecurityQuestion: req.SecurityQuestion,
		SecurityAnswer:   req.Answer,
	}
	if err := s.UserRepo.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrUserExists
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) RoleFor(email string) model.UserRole {
	if s.Cfg.Auth.IsAdmin(email) {
		return model.Admin
	}
	return model.Student
}

// Login checks the password, opens a server-side session and returns a token
// bound to it. The sign-in is recorded with the caller's IP.
func (s *AuthService) Login(ctx context.Context, req LoginRequest, clientIP string) (*LoginResult, error) {
	user, err := s.UserRepo.FindByEmail(strings.TrimSpace(req.Email))
	if err != nil {
		return nil, util.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, util.ErrInvalidCredentials
	}

	role := s.RoleFor(user.Email)
	sessionID := model.GenerateUUID()
	now := time.Now().UTC()

	if err := s.Sessions.Put(ctx, sessionID, &session.Session{
		UserID:    user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      string(role),
		CreatedAt: now,
	}, s.Cfg.JWT.ExpireTime); err != nil {
		return nil, err
	}

	token, err := util.GenerateJWT(user, role, sessionID, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return nil, err
	}

	if err := s.UserRepo.UpdateLastLogin(user.ID, now); err != nil {
		logger.Log.Warn("Failed to update last login", zap.String("email", user.Email), zap.Error(err))
	}
	if err := s.LoginRepo.Create(&model.Login{
		UserID:    user.ID,
		Email:     user.Email,
		LoginTime: now,
		IPAddress: clientIP,
	}); err != nil {
		logger.Log.Warn("Failed to record login", zap.String("email", user.Email), zap.Error(err))
	}

	return &LoginResult{Token: token, Role: role, User: user}, nil
}

// Authenticate validates a token and the session it names.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*util.Claims, error) {
	claims, err := util.ParseJWT(token, s.Cfg.JWT.Secret)
	if err != nil {
		return nil, err
	}
	if _, err := s.Sessions.Get(ctx, claims.SessionID()); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, util.ErrSessionExpired
		}
		return nil, err
	}
	return claims, nil
}

func (s *AuthService) Logout(ctx context.Context, claims *util.Claims) error {
	return s.Sessions.Expire(ctx, claims.SessionID())
}

func (s *AuthService) GetCurrentUser(c *gin.Context) *model.User {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		return nil
	}

	user, err := s.UserRepo.FindByID(claims.UserID)
	if err != nil {
		return nil
	}
	return user
}

// SeedAdmin creates an account for each configured admin email that has none.
func (s *AuthService) SeedAdmin() error {
	if s.Cfg.Auth.DefaultAdminPassword == "" {
		return nil
	}
	for _, email := range s.Cfg.Auth.AdminEmails {
		_, err := s.UserRepo.FindByEmail(email)
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		_, err = s.Register(RegisterRequest{
			Name:     s.Cfg.Auth.DefaultAdminName,
			Email:    email,
			Password: s.Cfg.Auth.DefaultAdminPassword,
		})
		if err != nil && !errors.Is(err, util.ErrUserExists) {
			return err
		}
		logger.Log.Info("Seeded admin account", zap.String("email", email))
	}
	return nil
}
