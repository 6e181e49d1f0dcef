package service

import (
	"time"

	"github.com/wfunc/char-sheet/internal/repository"
	"github.com/wfunc/char-sheet/internal/sheet"
	"github.com/wfunc/char-sheet/internal/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Config 服务配置
type Config struct {
	JWTSecret   string
	TokenExpiry time.Duration
}

// DefaultConfig 默认配置
func DefaultConfig() *Config {
	return &Config{
		JWTSecret:   "change-me-in-production",
		TokenExpiry: 24 * time.Hour,
	}
}

// Services 服务集合
type Services struct {
	Auth      AuthService
	Character CharacterService
	Sheet     SheetService

	JWTManager *utils.JWTManager
}

// NewServices 创建服务集合
func NewServices(db *gorm.DB, config *Config, log *zap.Logger, publisher Publisher) *Services {
	// 初始化仓储
	userRepo := repository.NewUserRepository(db)
	characterRepo := repository.NewCharacterRepository(db)

	// 初始化JWT管理器
	jwtManager := utils.NewJWTManager(config.JWTSecret, config.TokenExpiry)

	// 初始化服务
	authService := NewAuthService(userRepo, jwtManager, log)
	characterService := NewCharacterService(characterRepo, log)
	sheetService := NewSheetService(characterRepo, sheet.NewRoller(), publisher, log)

	return &Services{
		Auth:       authService,
		Character:  characterService,
		Sheet:      sheetService,
		JWTManager: jwtManager,
	}
}
