package repository

import (
	"github.com/wfunc/char-sheet/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB 为测试套件设置测试数据库
func SetupTestDB() *gorm.DB {
	// 使用内存数据库进行测试（更快，不需要文件系统，在所有环境中都能工作）
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic(err)
	}

	// 自动迁移所有模型
	err = db.AutoMigrate(
		&models.User{},
		&models.Character{},
	)
	if err != nil {
		panic(err)
	}

	return db
}

// CleanupTestDB 清理测试数据库
func CleanupTestDB(db *gorm.DB) {
	sqlDB, _ := db.DB()
	if sqlDB != nil {
		sqlDB.Close()
	}
}

// NewTestCharacter 创建测试角色卡
func NewTestCharacter(userID uint) *models.Character {
	return &models.Character{
		UserID: userID,
		BasicInfo: models.BasicInfo{
			Name:       "Bruenor Battlehammer",
			Race:       "Dwarf",
			Class:      "Fighter",
			Level:      5,
			Alignment:  "Lawful Good",
			Background: "Soldier",
			PlayerName: "Bob",
		},
		Abilities: models.Abilities{
			Strength:     16,
			Dexterity:    12,
			Constitution: 15,
			Intelligence: 10,
			Wisdom:       13,
			Charisma:     8,
		},
		Stats: models.Stats{
			Initiative:       1,
			Speed:            25,
			ArmorClass:       17,
			HitPointsCurrent: 30,
			HitPointsTotal:   44,
			HitPointsTemp:    0,
			HitDice: models.HitDice{
				Remaining: 5,
				DiceType:  10,
				Total:     5,
			},
		},
		SavingThrows: models.SavingThrows{
			"strength":     {Value: 6, HasProficiency: true},
			"dexterity":    {Value: 1},
			"constitution": {Value: 5, HasProficiency: true},
			"intelligence": {Value: 0},
			"wisdom":       {Value: 1},
			"charisma":     {Value: -1},
		},
		Skills: models.Skills{
			"athletics":  {Value: 6, Ability: "strength", HasProficiency: true},
			"perception": {Value: 1, Ability: "wisdom"},
		},
		SpellSlots: models.SpellSlots{
			"level1": {Current: 2, Total: 4},
			"level2": {Current: 1, Total: 3},
		},
		FeaturesAndTraits: models.FeatureList{
			{
				ID:           "feature-second-wind",
				Name:         "Second Wind",
				Description:  "Regain hit points equal to 1d10 + fighter level.",
				IsExpendable: true,
				UsesTotal:    1,
				UsesLeft:     1,
				RechargeOn:   "shortRest",
				ActionType:   "bonusAction",
			},
		},
		Inventory: models.Inventory{
			Gold: 25,
			Items: []models.Item{
				{
					ID:           "item-potion",
					Name:         "Potion of Healing",
					Description:  "Restores 2d4+2 hit points.",
					Amount:       3,
					IsConsumable: true,
				},
			},
			Weight: 60,
		},
	}
}
