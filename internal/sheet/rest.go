package sheet

import (
	"strings"

	"github.com/wfunc/char-sheet/internal/models"
)

// rechargesOn 判断特性的恢复条件是否匹配给定休息类型。
// rechargeOn为自由文本，比较时去空白并忽略大小写。
func rechargesOn(rechargeOn string, accepted ...string) bool {
	normalized := strings.ToLower(strings.TrimSpace(rechargeOn))
	for _, candidate := range accepted {
		if normalized == candidate {
			return true
		}
	}
	return false
}

// ShortRest 执行短休。
// hitDiceExpended为可选的生命骰消耗数；恢复量按
// hitDiceExpended * roll(1, diceType) 计算，生命值不超过上限。
// 随后重置所有短休恢复的特性。返回恢复的生命值。
func ShortRest(c *models.Character, hitDiceExpended *int, roller Roller) (int, error) {
	restored := 0

	if hitDiceExpended != nil && *hitDiceExpended != 0 {
		n := *hitDiceExpended
		if n < 0 {
			return 0, ErrInvalidAmount
		}
		if n > c.Stats.HitDice.Remaining {
			return 0, ErrExceedsAvailable
		}

		c.Stats.HitDice.Remaining -= n
		restored = n * roller.Roll(1, c.Stats.HitDice.DiceType)

		c.Stats.HitPointsCurrent += restored
		if c.Stats.HitPointsCurrent > c.Stats.HitPointsTotal {
			c.Stats.HitPointsCurrent = c.Stats.HitPointsTotal
		}
	}

	resetFeatures(c, "shortrest", "longorshortrest")

	return restored, nil
}

// LongRest 执行长休：重置长休恢复的特性、全部法术位、
// 生命值、临时生命值和生命骰。
func LongRest(c *models.Character) {
	resetFeatures(c, "longrest", "longorshortrest")

	for key, slot := range c.SpellSlots {
		slot.Current = slot.Total
		c.SpellSlots[key] = slot
	}

	c.Stats.HitPointsCurrent = c.Stats.HitPointsTotal
	c.Stats.HitPointsTemp = 0
	c.Stats.HitDice.Remaining = c.Stats.HitDice.Total
}

// resetFeatures 重置恢复条件匹配的可消耗特性
func resetFeatures(c *models.Character, accepted ...string) {
	for i := range c.FeaturesAndTraits {
		feature := &c.FeaturesAndTraits[i]
		if !feature.IsExpendable {
			continue
		}
		if rechargesOn(feature.RechargeOn, accepted...) {
			feature.UsesLeft = feature.UsesTotal
		}
	}
}
