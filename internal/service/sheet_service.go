package service

import (
	"context"
	stderrors "errors"

	"github.com/wfunc/char-sheet/internal/errors"
	"github.com/wfunc/char-sheet/internal/logger"
	"github.com/wfunc/char-sheet/internal/models"
	"github.com/wfunc/char-sheet/internal/repository"
	"github.com/wfunc/char-sheet/internal/sheet"
	"go.uber.org/zap"
)

// sheetService 角色卡资源变更服务实现
type sheetService struct {
	characterRepo repository.CharacterRepository
	roller        sheet.Roller
	publisher     Publisher
	log           *zap.Logger
}

// NewSheetService 创建资源变更服务
func NewSheetService(characterRepo repository.CharacterRepository, roller sheet.Roller, publisher Publisher, log *zap.Logger) SheetService {
	return &sheetService{
		characterRepo: characterRepo,
		roller:        roller,
		publisher:     publisher,
		log:           log,
	}
}

// ExpendFeature 消耗一次特性使用
func (s *sheetService) ExpendFeature(ctx context.Context, callerID, characterID uint, featureID string) (*FeatureResult, error) {
	character, err := s.loadOwned(ctx, callerID, characterID)
	if err != nil {
		return nil, err
	}

	feature, _ := character.FindFeature(featureID)
	if feature == nil {
		return nil, errors.New(errors.ErrFeatureNotFound)
	}

	if !feature.IsExpendable {
		return nil, errors.New(errors.ErrNotExpendable).
			WithMessage("This feature is not expendable")
	}

	usesLeft, err := sheet.Expend(feature.UsesLeft, nil)
	if err != nil {
		return nil, featureExpendError(err)
	}
	feature.UsesLeft = usesLeft

	if err := s.persist(ctx, character, "feature_expended", feature.ID); err != nil {
		return nil, err
	}

	return &FeatureResult{Feature: feature, Character: character}, nil
}

// GainFeature 恢复一次特性使用
func (s *sheetService) GainFeature(ctx context.Context, callerID, characterID uint, featureID string) (*FeatureResult, error) {
	character, err := s.loadOwned(ctx, callerID, characterID)
	if err != nil {
		return nil, err
	}

	feature, _ := character.FindFeature(featureID)
	if feature == nil {
		return nil, errors.New(errors.ErrFeatureNotFound)
	}

	if !feature.IsExpendable {
		return nil, errors.New(errors.ErrNotExpendable).
			WithMessage("This feature is not expendable")
	}

	usesLeft, err := sheet.Gain(feature.UsesLeft, feature.UsesTotal, nil)
	if err != nil {
		return nil, featureGainError(err)
	}
	feature.UsesLeft = usesLeft

	if err := s.persist(ctx, character, "feature_gained", feature.ID); err != nil {
		return nil, err
	}

	return &FeatureResult{Feature: feature, Character: character}, nil
}

// GainItem 获得物品（物品数量没有上限）
func (s *sheetService) GainItem(ctx context.Context, callerID, characterID uint, itemID string, amount *int) (*ItemResult, error) {
	character, err := s.loadOwned(ctx, callerID, characterID)
	if err != nil {
		return nil, err
	}

	item, _ := character.FindItem(itemID)
	if item == nil {
		return nil, errors.New(errors.ErrItemNotFound)
	}

	if !item.IsConsumable {
		return nil, errors.New(errors.ErrNotConsumable).
			WithMessage("This item is not consumable")
	}

	newAmount, err := sheet.GainUnbounded(item.Amount, amount)
	if err != nil {
		return nil, errors.New(errors.ErrInvalidAmount).
			WithMessage("Custom gain amount cannot be less than or equal to 0")
	}
	item.Amount = newAmount

	if err := s.persist(ctx, character, "item_gained", item.ID); err != nil {
		return nil, err
	}

	return &ItemResult{Item: item, Character: character}, nil
}

// UseItem 使用物品
func (s *sheetService) UseItem(ctx context.Context, callerID, characterID uint, itemID string, amount *int) (*ItemResult, error) {
	character, err := s.loadOwned(ctx, callerID, characterID)
	if err != nil {
		return nil, err
	}

	item, _ := character.FindItem(itemID)
	if item == nil {
		return nil, errors.New(errors.ErrItemNotFound)
	}

	if !item.IsConsumable {
		return nil, errors.New(errors.ErrNotConsumable).
			WithMessage("This item is not consumable")
	}

	newAmount, err := sheet.Expend(item.Amount, amount)
	if err != nil {
		return nil, itemUseError(err)
	}
	item.Amount = newAmount

	if err := s.persist(ctx, character, "item_used", item.ID); err != nil {
		return nil, err
	}

	return &ItemResult{Item: item, Character: character}, nil
}

// ExpendSpellSlot 消耗法术位
func (s *sheetService) ExpendSpellSlot(ctx context.Context, callerID, characterID uint, level int, amount *int) (*SpellSlotResult, error) {
	character, err := s.loadOwned(ctx, callerID, characterID)
	if err != nil {
		return nil, err
	}

	key := models.SpellSlotKey(level)
	slot, ok := character.SpellSlots[key]
	if !ok {
		return nil, errors.New(errors.ErrSpellSlotNotFound)
	}

	current, err := sheet.Expend(slot.Current, amount)
	if err != nil {
		return nil, spellSlotExpendError(err)
	}
	slot.Current = current
	character.SpellSlots[key] = slot

	if err := s.persist(ctx, character, "spell_slot_expended", key); err != nil {
		return nil, err
	}

	return &SpellSlotResult{SpellSlot: slot, Character: character}, nil
}

// GainSpellSlot 恢复法术位
func (s *sheetService) GainSpellSlot(ctx context.Context, callerID, characterID uint, level int, amount *int) (*SpellSlotResult, error) {
	character, err := s.loadOwned(ctx, callerID, characterID)
	if err != nil {
		return nil, err
	}

	key := models.SpellSlotKey(level)
	slot, ok := character.SpellSlots[key]
	if !ok {
		return nil, errors.New(errors.ErrSpellSlotNotFound)
	}

	current, err := sheet.Gain(slot.Current, slot.Total, amount)
	if err != nil {
		return nil, spellSlotGainError(err)
	}
	slot.Current = current
	character.SpellSlots[key] = slot

	if err := s.persist(ctx, character, "spell_slot_gained", key); err != nil {
		return nil, err
	}

	return &SpellSlotResult{SpellSlot: slot, Character: character}, nil
}

// ShortRest 短休
func (s *sheetService) ShortRest(ctx context.Context, callerID, characterID uint, hitDiceExpended *int) (*RestResult, error) {
	character, err := s.loadOwned(ctx, callerID, characterID)
	if err != nil {
		return nil, err
	}

	restored, err := sheet.ShortRest(character, hitDiceExpended, s.roller)
	if err != nil {
		switch {
		case stderrors.Is(err, sheet.ErrInvalidAmount):
			return nil, errors.New(errors.ErrInvalidAmount).
				WithMessage("Hit dice expended cannot be negative")
		case stderrors.Is(err, sheet.ErrExceedsAvailable):
			return nil, errors.New(errors.ErrExceedsAvailable).
				WithMessage("Hit dice expended cannot be greater than the remaining hit dice")
		default:
			return nil, errors.Wrap(err, errors.ErrUnknown)
		}
	}

	if err := s.persist(ctx, character, "short_rest", ""); err != nil {
		return nil, err
	}

	return &RestResult{RestoredHitpoints: restored, Character: character}, nil
}

// LongRest 长休
func (s *sheetService) LongRest(ctx context.Context, callerID, characterID uint) (*models.Character, error) {
	character, err := s.loadOwned(ctx, callerID, characterID)
	if err != nil {
		return nil, err
	}

	sheet.LongRest(character)

	if err := s.persist(ctx, character, "long_rest", ""); err != nil {
		return nil, err
	}

	return character, nil
}

// loadOwned 读取角色并做所有权校验：先404后403
func (s *sheetService) loadOwned(ctx context.Context, callerID, characterID uint) (*models.Character, error) {
	character, err := s.characterRepo.FindByID(ctx, characterID)
	if err != nil {
		if stderrors.Is(err, repository.ErrCharacterNotFound) {
			return nil, errors.New(errors.ErrCharacterNotFound)
		}
		return nil, errors.Wrap(err, errors.ErrDatabaseQuery)
	}

	if character.UserID != callerID {
		return nil, errors.New(errors.ErrNotOwner)
	}

	return character, nil
}

// persist 保存角色并推送变更
func (s *sheetService) persist(ctx context.Context, character *models.Character, event, resourceID string) error {
	if err := s.characterRepo.Update(ctx, character); err != nil {
		s.log.Error("保存角色失败",
			zap.Uint("character_id", character.ID),
			zap.String("event", event),
			zap.Error(err),
		)
		return errors.Wrap(err, errors.ErrDatabaseUpdate)
	}

	logger.LogSheetEvent(event, character.ID, map[string]interface{}{
		"resource_id": resourceID,
	})

	if s.publisher != nil {
		s.publisher.PublishCharacter(character)
	}

	return nil
}

// 有界计数错误到接口错误的映射，保留各资源的提示语

func featureExpendError(err error) error {
	switch {
	case stderrors.Is(err, sheet.ErrAlreadyAtMin):
		return errors.New(errors.ErrAlreadyAtMinimum).
			WithMessage("No uses left for this feature")
	case stderrors.Is(err, sheet.ErrExceedsAvailable):
		return errors.New(errors.ErrExceedsAvailable).
			WithMessage("Amount cannot be greater than the feature's remaining uses")
	default:
		return errors.New(errors.ErrInvalidAmount)
	}
}

func featureGainError(err error) error {
	switch {
	case stderrors.Is(err, sheet.ErrAlreadyAtMax):
		return errors.New(errors.ErrAlreadyAtMaximum).
			WithMessage("Feature is already at max uses")
	default:
		return errors.New(errors.ErrInvalidAmount)
	}
}

func itemUseError(err error) error {
	switch {
	case stderrors.Is(err, sheet.ErrAlreadyAtMin):
		return errors.New(errors.ErrAlreadyAtMinimum).
			WithMessage("Item amount is already at 0")
	case stderrors.Is(err, sheet.ErrExceedsAvailable):
		return errors.New(errors.ErrExceedsAvailable).
			WithMessage("Amount to use cannot be greater than the item's remaining count")
	default:
		return errors.New(errors.ErrInvalidAmount).
			WithMessage("Amount to use cannot be less than or equal to 0")
	}
}

func spellSlotExpendError(err error) error {
	switch {
	case stderrors.Is(err, sheet.ErrAlreadyAtMin):
		return errors.New(errors.ErrAlreadyAtMinimum).
			WithMessage("This level of spell slot is already at 0")
	case stderrors.Is(err, sheet.ErrExceedsAvailable):
		return errors.New(errors.ErrExceedsAvailable).
			WithMessage("Custom amount cannot be greater than the remaining spell slots")
	default:
		return errors.New(errors.ErrInvalidAmount).
			WithMessage("Custom amount cannot be less than or equal to 0")
	}
}

func spellSlotGainError(err error) error {
	switch {
	case stderrors.Is(err, sheet.ErrAlreadyAtMax):
		return errors.New(errors.ErrAlreadyAtMaximum).
			WithMessage("You cannot gain more spell slots for this level")
	case stderrors.Is(err, sheet.ErrExceedsCapacity):
		return errors.New(errors.ErrExceedsCapacity).
			WithMessage("Custom amount cannot be greater than the total spell slots for this level")
	case stderrors.Is(err, sheet.ErrExceedsHeadroom):
		return errors.New(errors.ErrExceedsHeadroom).
			WithMessage("Custom amount exceeds the missing spell slots for this level")
	default:
		return errors.New(errors.ErrInvalidAmount).
			WithMessage("Custom amount cannot be less than or equal to 0")
	}
}
