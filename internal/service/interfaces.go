package service

import (
	"context"

	"github.com/wfunc/char-sheet/internal/models"
)

// AuthService 认证服务接口
type AuthService interface {
	// Signup 注册新用户
	Signup(ctx context.Context, req *SignupRequest) (*models.User, error)
	// Login 登录并签发令牌
	Login(ctx context.Context, req *LoginRequest) (*LoginResult, error)
}

// CharacterService 角色卡CRUD服务接口
type CharacterService interface {
	Create(ctx context.Context, userID uint, payload map[string]any) (*models.Character, error)
	Get(ctx context.Context, callerID, characterID uint) (*models.Character, error)
	ListByUser(ctx context.Context, callerID, userID uint) ([]*models.Character, error)
	Update(ctx context.Context, callerID, characterID uint, payload map[string]any) (*models.Character, error)
	Delete(ctx context.Context, callerID, characterID uint) error
}

// SheetService 角色卡资源变更服务接口
type SheetService interface {
	ExpendFeature(ctx context.Context, callerID, characterID uint, featureID string) (*FeatureResult, error)
	GainFeature(ctx context.Context, callerID, characterID uint, featureID string) (*FeatureResult, error)
	GainItem(ctx context.Context, callerID, characterID uint, itemID string, amount *int) (*ItemResult, error)
	UseItem(ctx context.Context, callerID, characterID uint, itemID string, amount *int) (*ItemResult, error)
	ExpendSpellSlot(ctx context.Context, callerID, characterID uint, level int, amount *int) (*SpellSlotResult, error)
	GainSpellSlot(ctx context.Context, callerID, characterID uint, level int, amount *int) (*SpellSlotResult, error)
	ShortRest(ctx context.Context, callerID, characterID uint, hitDiceExpended *int) (*RestResult, error)
	LongRest(ctx context.Context, callerID, characterID uint) (*models.Character, error)
}

// Publisher 角色卡变更推送接口（由websocket hub实现）
type Publisher interface {
	PublishCharacter(character *models.Character)
}

// SignupRequest 注册请求
type SignupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResult 登录结果
type LoginResult struct {
	User  *models.User
	Token string
}

// FeatureResult 特性变更结果
type FeatureResult struct {
	Feature   *models.Feature
	Character *models.Character
}

// ItemResult 物品变更结果
type ItemResult struct {
	Item      *models.Item
	Character *models.Character
}

// SpellSlotResult 法术位变更结果
type SpellSlotResult struct {
	SpellSlot models.SpellSlot
	Character *models.Character
}

// RestResult 休息结果
type RestResult struct {
	RestoredHitpoints int
	Character         *models.Character
}
