package service

import (
	"context"
	"encoding/json"
	stderrors "errors"

	"github.com/wfunc/char-sheet/internal/errors"
	"github.com/wfunc/char-sheet/internal/logger"
	"github.com/wfunc/char-sheet/internal/models"
	"github.com/wfunc/char-sheet/internal/repository"
	"github.com/wfunc/char-sheet/internal/sheet"
	"go.uber.org/zap"
)

// characterService 角色卡CRUD服务实现
type characterService struct {
	characterRepo repository.CharacterRepository
	log           *zap.Logger
}

// NewCharacterService 创建角色卡服务
func NewCharacterService(characterRepo repository.CharacterRepository, log *zap.Logger) CharacterService {
	return &characterService{
		characterRepo: characterRepo,
		log:           log,
	}
}

// Create 创建角色卡
func (s *characterService) Create(ctx context.Context, userID uint, payload map[string]any) (*models.Character, error) {
	if missing := sheet.CheckRequired(payload); len(missing) > 0 {
		return nil, errors.New(errors.ErrMissingFields).WithErrors(missing)
	}

	if errs := sheet.Validate(payload); len(errs) > 0 {
		return nil, errors.New(errors.ErrValidationFailed).WithErrors(errs)
	}

	character, err := decodeCharacter(payload)
	if err != nil {
		return nil, err
	}
	character.UserID = userID

	if err := s.characterRepo.Create(ctx, character); err != nil {
		s.log.Error("创建角色失败", zap.Error(err))
		return nil, errors.Wrap(err, errors.ErrDatabaseInsert)
	}

	logger.LogSheetEvent("character_created", character.ID, map[string]interface{}{
		"user_id": userID,
		"name":    character.BasicInfo.Name,
	})

	return character, nil
}

// Get 读取角色卡（仅限所有者）
func (s *characterService) Get(ctx context.Context, callerID, characterID uint) (*models.Character, error) {
	character, err := s.findCharacter(ctx, characterID)
	if err != nil {
		return nil, err
	}

	if character.UserID != callerID {
		return nil, errors.New(errors.ErrNotOwner).
			WithMessage("You are not authorized to access this character")
	}

	return character, nil
}

// ListByUser 列出用户的全部角色卡（仅限本人）
func (s *characterService) ListByUser(ctx context.Context, callerID, userID uint) ([]*models.Character, error) {
	if callerID != userID {
		return nil, errors.New(errors.ErrNotOwner).
			WithMessage("You are not authorized to access these characters")
	}

	characters, err := s.characterRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrDatabaseQuery)
	}

	return characters, nil
}

// Update 整卡更新（必填检查与类型校验后全量覆盖文档字段）
func (s *characterService) Update(ctx context.Context, callerID, characterID uint, payload map[string]any) (*models.Character, error) {
	if missing := sheet.CheckRequired(payload); len(missing) > 0 {
		return nil, errors.New(errors.ErrMissingFields).WithErrors(missing)
	}

	if errs := sheet.Validate(payload); len(errs) > 0 {
		return nil, errors.New(errors.ErrValidationFailed).WithErrors(errs)
	}

	character, err := s.findCharacter(ctx, characterID)
	if err != nil {
		return nil, err
	}

	if character.UserID != callerID {
		return nil, errors.New(errors.ErrNotOwner)
	}

	updated, err := decodeCharacter(payload)
	if err != nil {
		return nil, err
	}

	// 保留服务端管理的字段，其余全量覆盖
	updated.BaseModel = character.BaseModel
	updated.UserID = character.UserID

	if err := s.characterRepo.Update(ctx, updated); err != nil {
		s.log.Error("更新角色失败", zap.Uint("character_id", characterID), zap.Error(err))
		return nil, errors.Wrap(err, errors.ErrDatabaseUpdate)
	}

	logger.LogSheetEvent("character_updated", updated.ID, map[string]interface{}{
		"user_id": callerID,
	})

	return updated, nil
}

// Delete 删除角色卡
func (s *characterService) Delete(ctx context.Context, callerID, characterID uint) error {
	character, err := s.findCharacter(ctx, characterID)
	if err != nil {
		return err
	}

	if character.UserID != callerID {
		return errors.New(errors.ErrNotOwner)
	}

	if err := s.characterRepo.Delete(ctx, characterID); err != nil {
		s.log.Error("删除角色失败", zap.Uint("character_id", characterID), zap.Error(err))
		return errors.Wrap(err, errors.ErrDatabaseDelete)
	}

	logger.LogSheetEvent("character_deleted", characterID, map[string]interface{}{
		"user_id": callerID,
	})

	return nil
}

// findCharacter 读取角色，未找到时返回404语义错误
func (s *characterService) findCharacter(ctx context.Context, characterID uint) (*models.Character, error) {
	character, err := s.characterRepo.FindByID(ctx, characterID)
	if err != nil {
		if stderrors.Is(err, repository.ErrCharacterNotFound) {
			return nil, errors.New(errors.ErrCharacterNotFound)
		}
		return nil, errors.Wrap(err, errors.ErrDatabaseQuery)
	}
	return character, nil
}

// 载荷里由服务端管理、不允许客户端设置的键
var reservedPayloadKeys = []string{"id", "userId", "createdAt", "updatedAt", "proficiencyBonus"}

// decodeCharacter 将校验后的载荷解码为角色模型
func decodeCharacter(payload map[string]any) (*models.Character, error) {
	for _, key := range reservedPayloadKeys {
		delete(payload, key)
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrValidationFailed)
	}

	var character models.Character
	if err := json.Unmarshal(raw, &character); err != nil {
		return nil, errors.New(errors.ErrValidationFailed).WithCause(err)
	}

	return &character, nil
}
