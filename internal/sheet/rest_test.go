package sheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wfunc/char-sheet/internal/models"
)

// fixedRoller 固定点数的骰子
type fixedRoller struct {
	value int
}

func (r *fixedRoller) Roll(min, max int) int {
	return r.value
}

func newRestCharacter() *models.Character {
	return &models.Character{
		Stats: models.Stats{
			HitPointsCurrent: 10,
			HitPointsTotal:   20,
			HitPointsTemp:    5,
			HitDice: models.HitDice{
				Remaining: 3,
				DiceType:  8,
				Total:     5,
			},
		},
		SpellSlots: models.SpellSlots{
			"level1": {Current: 0, Total: 4},
			"level2": {Current: 1, Total: 3},
		},
		FeaturesAndTraits: models.FeatureList{
			{Name: "Second Wind", IsExpendable: true, UsesTotal: 1, UsesLeft: 0, RechargeOn: "shortRest"},
			{Name: "Rage", IsExpendable: true, UsesTotal: 3, UsesLeft: 1, RechargeOn: "longRest"},
			{Name: "Channel Divinity", IsExpendable: true, UsesTotal: 2, UsesLeft: 0, RechargeOn: " LongOrShortRest "},
			{Name: "Darkvision", IsExpendable: false, UsesTotal: 0, UsesLeft: 0, RechargeOn: "longRest"},
		},
	}
}

func TestShortRestHealing(t *testing.T) {
	c := newRestCharacter()

	restored, err := ShortRest(c, intPtr(2), &fixedRoller{value: 4})
	require.NoError(t, err)

	// 恢复量为 2 * roll(1, 8) = 8
	assert.Equal(t, 8, restored)
	assert.Equal(t, 18, c.Stats.HitPointsCurrent)
	assert.Equal(t, 1, c.Stats.HitDice.Remaining)
}

func TestShortRestHealingClampedAtTotal(t *testing.T) {
	c := newRestCharacter()

	restored, err := ShortRest(c, intPtr(3), &fixedRoller{value: 8})
	require.NoError(t, err)

	assert.Equal(t, 24, restored)
	assert.Equal(t, 20, c.Stats.HitPointsCurrent)
	assert.Equal(t, 0, c.Stats.HitDice.Remaining)
}

func TestShortRestWithoutHitDice(t *testing.T) {
	c := newRestCharacter()

	restored, err := ShortRest(c, nil, &fixedRoller{value: 8})
	require.NoError(t, err)

	assert.Equal(t, 0, restored)
	assert.Equal(t, 10, c.Stats.HitPointsCurrent)
	assert.Equal(t, 3, c.Stats.HitDice.Remaining)

	// 短休恢复的特性仍然重置
	assert.Equal(t, 1, c.FeaturesAndTraits[0].UsesLeft)
	assert.Equal(t, 2, c.FeaturesAndTraits[2].UsesLeft)
	// 长休特性不受影响
	assert.Equal(t, 1, c.FeaturesAndTraits[1].UsesLeft)
}

func TestShortRestErrors(t *testing.T) {
	c := newRestCharacter()

	_, err := ShortRest(c, intPtr(-1), &fixedRoller{value: 1})
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = ShortRest(c, intPtr(4), &fixedRoller{value: 1})
	assert.ErrorIs(t, err, ErrExceedsAvailable)

	// 出错时状态不变
	assert.Equal(t, 3, c.Stats.HitDice.Remaining)
	assert.Equal(t, 10, c.Stats.HitPointsCurrent)
	assert.Equal(t, 0, c.FeaturesAndTraits[0].UsesLeft)
}

func TestLongRest(t *testing.T) {
	c := newRestCharacter()

	LongRest(c)

	assert.Equal(t, 20, c.Stats.HitPointsCurrent)
	assert.Equal(t, 0, c.Stats.HitPointsTemp)
	assert.Equal(t, 5, c.Stats.HitDice.Remaining)
	assert.Equal(t, models.SpellSlot{Current: 4, Total: 4}, c.SpellSlots["level1"])
	assert.Equal(t, models.SpellSlot{Current: 3, Total: 3}, c.SpellSlots["level2"])

	// 长休恢复的特性重置，大小写与空白不敏感
	assert.Equal(t, 3, c.FeaturesAndTraits[1].UsesLeft)
	assert.Equal(t, 2, c.FeaturesAndTraits[2].UsesLeft)
	// 短休特性不重置，非消耗性特性不动
	assert.Equal(t, 0, c.FeaturesAndTraits[0].UsesLeft)
	assert.Equal(t, 0, c.FeaturesAndTraits[3].UsesLeft)
}

func TestLongRestIdempotent(t *testing.T) {
	c := newRestCharacter()

	LongRest(c)
	first := *c

	LongRest(c)
	assert.Equal(t, first.Stats, c.Stats)
	assert.Equal(t, first.SpellSlots, c.SpellSlots)
	assert.Equal(t, first.FeaturesAndTraits, c.FeaturesAndTraits)
}

func TestRechargesOn(t *testing.T) {
	assert.True(t, rechargesOn("shortRest", "shortrest", "longorshortrest"))
	assert.True(t, rechargesOn("  LongOrShortRest ", "shortrest", "longorshortrest"))
	assert.False(t, rechargesOn("daily", "shortrest", "longorshortrest"))
	assert.False(t, rechargesOn("", "shortrest", "longorshortrest"))
}
