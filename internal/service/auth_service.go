package service

import (
	"context"

	"github.com/wfunc/char-sheet/internal/errors"
	"github.com/wfunc/char-sheet/internal/models"
	"github.com/wfunc/char-sheet/internal/repository"
	"github.com/wfunc/char-sheet/internal/utils"
	"go.uber.org/zap"
)

// authService 认证服务实现
type authService struct {
	userRepo   repository.UserRepository
	jwtManager *utils.JWTManager
	log        *zap.Logger
}

// NewAuthService 创建认证服务
func NewAuthService(userRepo repository.UserRepository, jwtManager *utils.JWTManager, log *zap.Logger) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtManager: jwtManager,
		log:        log,
	}
}

// Signup 注册新用户
func (s *authService) Signup(ctx context.Context, req *SignupRequest) (*models.User, error) {
	if req.Username == "" || req.Password == "" {
		return nil, errors.New(errors.ErrInvalidParam).WithMessage("All fields are required")
	}

	exists, err := s.userRepo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrDatabaseQuery)
	}
	if exists {
		return nil, errors.New(errors.ErrAlreadyExists).WithMessage("User already exists")
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrUnknown)
	}

	user := &models.User{
		Username: req.Username,
		Password: hashedPassword,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		s.log.Error("创建用户失败", zap.Error(err))
		return nil, errors.Wrap(err, errors.ErrDatabaseInsert)
	}

	s.log.Info("用户注册成功",
		zap.Uint("user_id", user.ID),
		zap.String("username", user.Username),
	)

	return user, nil
}

// Login 登录并签发令牌
func (s *authService) Login(ctx context.Context, req *LoginRequest) (*LoginResult, error) {
	if req.Username == "" || req.Password == "" {
		return nil, errors.New(errors.ErrInvalidParam).
			WithMessage("Please provide both username and password")
	}

	user, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		// 不区分用户不存在和密码错误
		return nil, errors.New(errors.ErrAuthentication).WithMessage("Invalid credentials")
	}

	ok, err := utils.VerifyPassword(req.Password, user.Password)
	if err != nil || !ok {
		return nil, errors.New(errors.ErrAuthentication).WithMessage("Invalid credentials")
	}

	token, err := s.jwtManager.GenerateToken(user.ID, user.Username)
	if err != nil {
		s.log.Error("签发令牌失败", zap.Error(err))
		return nil, errors.Wrap(err, errors.ErrUnknown)
	}

	s.log.Info("用户登录成功",
		zap.Uint("user_id", user.ID),
		zap.String("username", user.Username),
	)

	return &LoginResult{
		User:  user,
		Token: token,
	}, nil
}
