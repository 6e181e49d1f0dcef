package sheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(n int) *int {
	return &n
}

func TestExpend(t *testing.T) {
	tests := []struct {
		name     string
		current  int
		amount   *int
		expected int
		err      error
	}{
		{"默认扣1", 3, nil, 2, nil},
		{"自定义数量", 5, intPtr(3), 2, nil},
		{"扣到0", 2, intPtr(2), 0, nil},
		{"数量为0", 3, intPtr(0), 3, ErrInvalidAmount},
		{"数量为负", 3, intPtr(-2), 3, ErrInvalidAmount},
		{"已经是0", 0, nil, 0, ErrAlreadyAtMin},
		{"超过剩余", 2, intPtr(3), 2, ErrExceedsAvailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Expend(tt.current, tt.amount)
			assert.Equal(t, tt.expected, result)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestGain(t *testing.T) {
	tests := []struct {
		name     string
		current  int
		max      int
		amount   *int
		expected int
		err      error
	}{
		{"默认加1", 2, 4, nil, 3, nil},
		{"自定义数量加满", 1, 4, intPtr(3), 4, nil},
		{"数量为0", 2, 4, intPtr(0), 2, ErrInvalidAmount},
		{"数量为负", 2, 4, intPtr(-1), 2, ErrInvalidAmount},
		{"已经满了", 4, 4, nil, 4, ErrAlreadyAtMax},
		{"超过上限容量", 0, 4, intPtr(5), 0, ErrExceedsCapacity},
		{"超过剩余空间", 2, 4, intPtr(3), 2, ErrExceedsHeadroom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Gain(tt.current, tt.max, tt.amount)
			assert.Equal(t, tt.expected, result)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestGainUnbounded(t *testing.T) {
	result, err := GainUnbounded(3, nil)
	assert.NoError(t, err)
	assert.Equal(t, 4, result)

	result, err = GainUnbounded(3, intPtr(10))
	assert.NoError(t, err)
	assert.Equal(t, 13, result)

	result, err = GainUnbounded(3, intPtr(0))
	assert.ErrorIs(t, err, ErrInvalidAmount)
	assert.Equal(t, 3, result)
}
