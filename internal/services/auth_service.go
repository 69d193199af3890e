package services

import (
	"strings"

	"github.com/nextchapter/bookclub/internal/models"
	"github.com/nextchapter/bookclub/internal/repositories"
	"github.com/nextchapter/bookclub/internal/utils"
	pkgutils "github.com/nextchapter/bookclub/pkg/utils"
)

var (
	ErrInvalidUsername = kind(ErrValidation, "invalid username format")
	ErrInvalidEmail    = kind(ErrValidation, "invalid email format")
	ErrWeakPassword    = kind(ErrValidation, "password too short")
	ErrUsernameTaken   = kind(ErrDuplicate, "username already exists")
	ErrEmailTaken      = kind(ErrDuplicate, "email already exists")
	ErrBadCredentials  = kind(ErrForbidden, "username or password incorrect")
)

// AuthService 认证服务
type AuthService struct {
	userRepo *repositories.UserRepository
}

func NewAuthService(userRepo *repositories.UserRepository) *AuthService {
	return &AuthService{userRepo: userRepo}
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username    string `json:"username" binding:"required"`
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required"`
	DisplayName string `json:"display_name"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse 认证响应
type AuthResponse struct {
	Token string   `json:"token"`
	User  *UserDTO `json:"user"`
}

// UserDTO 用户数据传输对象
type UserDTO struct {
	ID          uint   `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
}

func userDTO(user *models.User) *UserDTO {
	return &UserDTO{
		ID:          user.ID,
		Username:    user.UserName,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		AvatarURL:   user.AvatarURL,
	}
}

// Register 注册用户
func (s *AuthService) Register(req *RegisterRequest) (*AuthResponse, error) {
	if !utils.ValidateUsername(req.Username) {
		return nil, ErrInvalidUsername
	}
	if !utils.ValidateEmail(req.Email) {
		return nil, ErrInvalidEmail
	}
	if !utils.ValidatePassword(req.Password) {
		return nil, ErrWeakPassword
	}

	if _, err := s.userRepo.GetByUsername(req.Username); err == nil {
		return nil, ErrUsernameTaken
	}
	if _, err := s.userRepo.GetByEmail(req.Email); err == nil {
		return nil, ErrEmailTaken
	}

	hashPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	displayName := req.DisplayName
	if displayName == "" {
		displayName = req.Username
	}

	user := &models.User{
		UserName:     req.Username,
		Email:        req.Email,
		PasswordHash: hashPassword,
		DisplayName:  displayName,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	token, err := pkgutils.GenerateToken(user.ID, user.UserName, user.Email)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{Token: token, User: userDTO(user)}, nil
}

// Login 登录用户
func (s *AuthService) Login(req *LoginRequest) (*AuthResponse, error) {
	user, err := s.userRepo.GetByUsername(req.Username)
	if err != nil {
		return nil, ErrBadCredentials
	}

	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		return nil, ErrBadCredentials
	}

	token, err := pkgutils.GenerateToken(user.ID, user.UserName, user.Email)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{Token: token, User: userDTO(user)}, nil
}

// GetProfile 获取用户信息
func (s *AuthService) GetProfile(userID uint) (*UserDTO, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, kind(ErrNotFound, "user not found")
	}
	return userDTO(user), nil
}

// UpdateProfileRequest 更新资料请求
type UpdateProfileRequest struct {
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
}

// UpdateProfile 更新用户资料，空字段不变
func (s *AuthService) UpdateProfile(userID uint, req *UpdateProfileRequest) (*UserDTO, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, kind(ErrNotFound, "user not found")
	}

	if req.DisplayName != "" {
		user.DisplayName = strings.TrimSpace(req.DisplayName)
	}
	if req.AvatarURL != "" {
		user.AvatarURL = req.AvatarURL
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return userDTO(user), nil
}
