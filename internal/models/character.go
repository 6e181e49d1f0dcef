package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BasicInfo 角色基础信息
type BasicInfo struct {
	Name       string `json:"name"`
	Race       string `json:"race"`
	Class      string `json:"class"`
	Level      int    `json:"level"`
	Alignment  string `json:"alignment"`
	Background string `json:"background"`
	PlayerName string `json:"playerName"`
}

// Abilities 六项属性值
type Abilities struct {
	Strength     int `json:"strength"`
	Dexterity    int `json:"dexterity"`
	Constitution int `json:"constitution"`
	Intelligence int `json:"intelligence"`
	Wisdom       int `json:"wisdom"`
	Charisma     int `json:"charisma"`
}

// HitDice 生命骰
type HitDice struct {
	Remaining int `json:"remaining"`
	DiceType  int `json:"diceType"`
	Total     int `json:"total"`
}

// Stats 战斗数值
type Stats struct {
	Initiative       int     `json:"initiative"`
	Speed            int     `json:"speed"`
	ArmorClass       int     `json:"armorClass"`
	HitPointsCurrent int     `json:"hitPointsCurrent"`
	HitPointsTotal   int     `json:"hitPointsTotal"`
	HitPointsTemp    int     `json:"hitPointsTemp"`
	HitDice          HitDice `json:"hitDice"`
}

// SavingThrow 单项豁免
type SavingThrow struct {
	Value          int  `json:"value"`
	HasProficiency bool `json:"hasProficiency"`
}

// SavingThrows 豁免集合（按属性名索引）
type SavingThrows map[string]SavingThrow

// Skill 单项技能
type Skill struct {
	Value          int    `json:"value"`
	Ability        string `json:"ability"`
	HasProficiency bool   `json:"hasProficiency"`
	HasExpertise   bool   `json:"hasExpertise"`
	OtherModifier  int    `json:"otherModifier"`
}

// Skills 技能集合（按技能名索引）
type Skills map[string]Skill

// DeathSaves 死亡豁免计数
type DeathSaves struct {
	Success int `json:"success"`
	Failure int `json:"failure"`
}

// Item 背包物品
type Item struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Amount       int    `json:"amount"`
	IsConsumable bool   `json:"isConsumable"`
}

// Inventory 背包
type Inventory struct {
	Gold   float64 `json:"gold"`
	Items  []Item  `json:"items"`
	Weight float64 `json:"weight"`
}

// Appearance 外貌描述
type Appearance struct {
	Age    string `json:"age"`
	Height string `json:"height"`
	Weight string `json:"weight"`
	Eyes   string `json:"eyes"`
	Hair   string `json:"hair"`
	Skin   string `json:"skin"`
	Photo  string `json:"photo"`
}

// Spellcasting 施法属性
type Spellcasting struct {
	SpellcastingClass   string `json:"spellcastingClass"`
	SpellcastingAbility string `json:"spellcastingAbility"`
	SpellSaveDC         int    `json:"spellSaveDC"`
	SpellAttackBonus    int    `json:"spellAttackBonus"`
}

// SpellSlot 单级法术位（当前/上限）
type SpellSlot struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

// SpellSlots 法术位集合（level1..level9）
type SpellSlots map[string]SpellSlot

// Feature 特性（可有限次使用的资源）
type Feature struct {
	ID                           string `json:"id"`
	Name                         string `json:"name"`
	Description                  string `json:"description"`
	Source                       string `json:"source"`
	IsExpendable                 bool   `json:"isExpendable"`
	UsesTotal                    int    `json:"usesTotal"`
	UsesLeft                     int    `json:"usesLeft"`
	AreUsesTotalEqualToProfBonus bool   `json:"areUsesTotalEqualToProfBonus"`
	RechargeOn                   string `json:"rechargeOn"` // daily, longRest, shortRest, longOrShortRest
	ActionType                   string `json:"actionType"` // action, bonusAction, reaction
}

// FeatureList 特性列表
type FeatureList []Feature

// Attack 攻击方式
type Attack struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	AtkBonus    int    `json:"atkBonus"`
	Damage      string `json:"damage"`
	Type        string `json:"type"`
	Range       string `json:"range"`
	Reach       string `json:"reach"`
	Description string `json:"description"`
}

// AttackList 攻击列表
type AttackList []Attack

// Feat 专长
type Feat struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// FeatList 专长列表
type FeatList []Feat

// SpellComponents 法术成分
type SpellComponents struct {
	Verbal   bool     `json:"verbal"`
	Somatic  bool     `json:"somatic"`
	Material []string `json:"material"`
}

// Spell 法术
type Spell struct {
	ID                        string          `json:"id"`
	Source                    string          `json:"source"`
	Name                      string          `json:"name"`
	Level                     int             `json:"level"`
	School                    string          `json:"school"`
	CastingTime               string          `json:"castingTime"`
	Range                     string          `json:"range"`
	Components                SpellComponents `json:"components"`
	Duration                  string          `json:"duration"`
	Description               string          `json:"description"`
	DescriptionAtHigherLevels string          `json:"descriptionAtHigherLevels"`
}

// SpellList 法术列表
type SpellList []Spell

// Character 角色卡表（嵌套文档以JSON列存储）
type Character struct {
	BaseModel
	UserID uint `gorm:"index;not null" json:"userId"`

	BasicInfo         BasicInfo    `gorm:"type:json" json:"basicInfo"`
	Abilities         Abilities    `gorm:"type:json" json:"abilities"`
	Stats             Stats        `gorm:"type:json" json:"stats"`
	SavingThrows      SavingThrows `gorm:"type:json" json:"savingThrows"`
	Skills            Skills       `gorm:"type:json" json:"skills"`
	DeathSaves        DeathSaves   `gorm:"type:json" json:"deathSaves"`
	Inventory         Inventory    `gorm:"type:json" json:"inventory"`
	Appearance        Appearance   `gorm:"type:json" json:"appearance"`
	Spellcasting      Spellcasting `gorm:"type:json" json:"spellcasting"`
	SpellSlots        SpellSlots   `gorm:"type:json" json:"spellSlots"`
	FeaturesAndTraits FeatureList  `gorm:"type:json" json:"featuresAndTraits"`
	Attacks           AttackList   `gorm:"type:json" json:"attacks"`
	Feats             FeatList     `gorm:"type:json" json:"feats"`
	Spells            SpellList    `gorm:"type:json" json:"spells"`

	PassiveWisdom      int    `json:"passiveWisdom"`
	PersonalityTraits  string `gorm:"type:text" json:"personalityTraits"`
	Ideals             string `gorm:"type:text" json:"ideals"`
	Bonds              string `gorm:"type:text" json:"bonds"`
	Flaws              string `gorm:"type:text" json:"flaws"`
	OtherProficiencies string `gorm:"type:text" json:"otherProficiencies"`
	Languages          string `gorm:"type:text" json:"languages"`
	Inspiration        int    `json:"inspiration"`
	CharacterBackstory string `gorm:"type:text" json:"characterBackstory"`
	Notes              string `gorm:"type:text" json:"notes"`
}

// TableName 指定表名
func (Character) TableName() string {
	return "characters"
}

// ProficiencyBonus 熟练加值（由等级推导，不入库）
func (c *Character) ProficiencyBonus() int {
	level := c.BasicInfo.Level
	if level < 1 {
		level = 1
	}
	return (level+3)/4 + 1
}

// MarshalJSON 序列化时附加熟练加值
func (c Character) MarshalJSON() ([]byte, error) {
	type alias Character
	return json.Marshal(struct {
		alias
		ProficiencyBonus int `json:"proficiencyBonus"`
	}{
		alias:            alias(c),
		ProficiencyBonus: c.ProficiencyBonus(),
	})
}

// BeforeSave 入库前为嵌入资源补齐id
func (c *Character) BeforeSave(tx *gorm.DB) error {
	c.EnsureEmbeddedIDs()
	return nil
}

// EnsureEmbeddedIDs 为缺少id的嵌入资源分配uuid
func (c *Character) EnsureEmbeddedIDs() {
	for i := range c.FeaturesAndTraits {
		if c.FeaturesAndTraits[i].ID == "" {
			c.FeaturesAndTraits[i].ID = uuid.NewString()
		}
	}
	for i := range c.Inventory.Items {
		if c.Inventory.Items[i].ID == "" {
			c.Inventory.Items[i].ID = uuid.NewString()
		}
	}
	for i := range c.Attacks {
		if c.Attacks[i].ID == "" {
			c.Attacks[i].ID = uuid.NewString()
		}
	}
	for i := range c.Feats {
		if c.Feats[i].ID == "" {
			c.Feats[i].ID = uuid.NewString()
		}
	}
	for i := range c.Spells {
		if c.Spells[i].ID == "" {
			c.Spells[i].ID = uuid.NewString()
		}
	}
}

// FindFeature 按id查找特性，返回下标
func (c *Character) FindFeature(featureID string) (*Feature, int) {
	for i := range c.FeaturesAndTraits {
		if c.FeaturesAndTraits[i].ID == featureID {
			return &c.FeaturesAndTraits[i], i
		}
	}
	return nil, -1
}

// FindItem 按id查找物品，返回下标
func (c *Character) FindItem(itemID string) (*Item, int) {
	for i := range c.Inventory.Items {
		if c.Inventory.Items[i].ID == itemID {
			return &c.Inventory.Items[i], i
		}
	}
	return nil, -1
}

// SpellSlotKey 法术位等级对应的键名
func SpellSlotKey(level int) string {
	return fmt.Sprintf("level%d", level)
}

// JSON列的Scan/Value实现

func (b BasicInfo) Value() (driver.Value, error)  { return jsonValue(b) }
func (b *BasicInfo) Scan(value interface{}) error { return jsonScan(value, b) }

func (a Abilities) Value() (driver.Value, error)  { return jsonValue(a) }
func (a *Abilities) Scan(value interface{}) error { return jsonScan(value, a) }

func (s Stats) Value() (driver.Value, error)  { return jsonValue(s) }
func (s *Stats) Scan(value interface{}) error { return jsonScan(value, s) }

func (s SavingThrows) Value() (driver.Value, error)  { return jsonValue(s) }
func (s *SavingThrows) Scan(value interface{}) error { return jsonScan(value, s) }

func (s Skills) Value() (driver.Value, error)  { return jsonValue(s) }
func (s *Skills) Scan(value interface{}) error { return jsonScan(value, s) }

func (d DeathSaves) Value() (driver.Value, error)  { return jsonValue(d) }
func (d *DeathSaves) Scan(value interface{}) error { return jsonScan(value, d) }

func (i Inventory) Value() (driver.Value, error)  { return jsonValue(i) }
func (i *Inventory) Scan(value interface{}) error { return jsonScan(value, i) }

func (a Appearance) Value() (driver.Value, error)  { return jsonValue(a) }
func (a *Appearance) Scan(value interface{}) error { return jsonScan(value, a) }

func (s Spellcasting) Value() (driver.Value, error)  { return jsonValue(s) }
func (s *Spellcasting) Scan(value interface{}) error { return jsonScan(value, s) }

func (s SpellSlots) Value() (driver.Value, error)  { return jsonValue(s) }
func (s *SpellSlots) Scan(value interface{}) error { return jsonScan(value, s) }

func (f FeatureList) Value() (driver.Value, error)  { return jsonValue(f) }
func (f *FeatureList) Scan(value interface{}) error { return jsonScan(value, f) }

func (a AttackList) Value() (driver.Value, error)  { return jsonValue(a) }
func (a *AttackList) Scan(value interface{}) error { return jsonScan(value, a) }

func (f FeatList) Value() (driver.Value, error)  { return jsonValue(f) }
func (f *FeatList) Scan(value interface{}) error { return jsonScan(value, f) }

func (s SpellList) Value() (driver.Value, error)  { return jsonValue(s) }
func (s *SpellList) Scan(value interface{}) error { return jsonScan(value, s) }
