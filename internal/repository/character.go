package repository

import (
	"context"
	"errors"

	"github.com/wfunc/char-sheet/internal/models"
	"gorm.io/gorm"
)

// ErrCharacterNotFound 角色不存在
var ErrCharacterNotFound = errors.New("角色不存在")

// CharacterRepository 角色仓储接口
type CharacterRepository interface {
	BaseRepository
	Create(ctx context.Context, character *models.Character) error
	Update(ctx context.Context, character *models.Character) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*models.Character, error)
	FindByUserID(ctx context.Context, userID uint) ([]*models.Character, error)
	CountByUserID(ctx context.Context, userID uint) (int64, error)
}

// characterRepo 角色仓储实现
type characterRepo struct {
	*BaseRepo
}

// NewCharacterRepository 创建角色仓储
func NewCharacterRepository(db *gorm.DB) CharacterRepository {
	return &characterRepo{
		BaseRepo: &BaseRepo{db: db},
	}
}

// WithTx 使用事务
func (r *characterRepo) WithTx(tx *gorm.DB) BaseRepository {
	return &characterRepo{
		BaseRepo: r.BaseRepo.WithTx(tx),
	}
}

// Create 创建角色
func (r *characterRepo) Create(ctx context.Context, character *models.Character) error {
	return r.db.WithContext(ctx).Create(character).Error
}

// Update 更新角色（整卡覆盖写入）
func (r *characterRepo) Update(ctx context.Context, character *models.Character) error {
	return r.db.WithContext(ctx).Save(character).Error
}

// Delete 删除角色（软删除）
func (r *characterRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Character{}, id).Error
}

// FindByID 根据ID查找角色
func (r *characterRepo) FindByID(ctx context.Context, id uint) (*models.Character, error) {
	var character models.Character
	err := r.db.WithContext(ctx).First(&character, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCharacterNotFound
		}
		return nil, err
	}
	return &character, nil
}

// FindByUserID 查找用户名下的所有角色
func (r *characterRepo) FindByUserID(ctx context.Context, userID uint) ([]*models.Character, error) {
	var characters []*models.Character
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&characters).Error
	return characters, err
}

// CountByUserID 统计用户名下的角色数量
func (r *characterRepo) CountByUserID(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Character{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}
