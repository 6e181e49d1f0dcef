package sheet

import (
	"math/rand"
	"sync"
	"time"
)

// Roller 骰子接口，测试时可注入确定性实现
type Roller interface {
	// Roll 返回[min, max]区间内的均匀随机整数
	Roll(min, max int) int
}

// randRoller 基于math/rand的默认实现
type randRoller struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRoller 创建默认骰子
func NewRoller() Roller {
	return &randRoller{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Roll 掷骰
func (r *randRoller) Roll(min, max int) int {
	if max <= min {
		return min
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return min + r.rng.Intn(max-min+1)
}
