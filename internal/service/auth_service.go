package service

import (
	"errors"
	"time"

	"astro_learn_backend/internal/config"
	"astro_learn_backend/internal/model"
	"astro_learn_backend/internal/repository"
	"astro_learn_backend/internal/util"
	"astro_learn_backend/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	userRepo *repository.UserRepository
	cfg      *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		cfg:      cfg,
	}
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Language string `json:"language"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

func (s *AuthService) Register(req RegisterRequest) (*AuthResponse, error) {
	_, err := s.userRepo.FindByEmail(req.Email)
	if err == nil {
		return nil, util.ErrEmailRegistered
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	language := req.Language
	if language == "" {
		language = "en"
	}

	user := &model.User{
		Name:      req.Name,
		Email:     req.Email,
		Password:  string(hashed),
		Role:      model.Student,
		Language:  language,
		LastLogin: time.Now(),
	}
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrEmailRegistered
		}
		return nil, err
	}

	token, err := util.GenerateJWT(user, s.cfg.JWT.Secret, s.cfg.JWT.ExpireTime)
	if err != nil {
		return nil, err
	}

	logger.Log.Info("用户注册", zap.Uint("userId", user.ID), zap.String("email", user.Email))
	return &AuthResponse{Token: token, User: user}, nil
}

func (s *AuthService) Login(req LoginRequest) (*AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(req.Email)
	if err != nil {
		return nil, util.ErrUserNotFound
	}
	if user.Disabled {
		return nil, util.ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, util.ErrUserNotFound
	}

	if err := s.userRepo.UpdateLastLogin(user.ID); err != nil {
		logger.Log.Warn("更新最近登录时间失败", zap.Error(err))
	}

	token, err := util.GenerateJWT(user, s.cfg.JWT.Secret, s.cfg.JWT.ExpireTime)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{Token: token, User: user}, nil
}
