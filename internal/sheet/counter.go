// Package sheet 实现角色卡的核心变更规则：
// 有界资源计数、休息恢复和数据校验。
package sheet

import "errors"

// 有界计数器的边界违规错误
var (
	ErrInvalidAmount    = errors.New("amount must be greater than 0")
	ErrAlreadyAtMin     = errors.New("counter is already at 0")
	ErrAlreadyAtMax     = errors.New("counter is already at maximum")
	ErrExceedsAvailable = errors.New("amount exceeds the remaining count")
	ErrExceedsCapacity  = errors.New("amount exceeds the total capacity")
	ErrExceedsHeadroom  = errors.New("amount exceeds the missing count")
)

// resolveAmount 解析可选的自定义数量，缺省为1
func resolveAmount(amount *int) (int, error) {
	if amount == nil {
		return 1, nil
	}
	if *amount <= 0 {
		return 0, ErrInvalidAmount
	}
	return *amount, nil
}

// Expend 扣减有界计数器。amount为nil时默认扣1。
// 违规时返回错误且不改变计数。
func Expend(current int, amount *int) (int, error) {
	n, err := resolveAmount(amount)
	if err != nil {
		return current, err
	}

	if current <= 0 {
		return current, ErrAlreadyAtMin
	}
	if n > current {
		return current, ErrExceedsAvailable
	}

	return current - n, nil
}

// Gain 为有上限的计数器恢复数量。amount为nil时默认加1。
// 依次检查：已满、超过上限容量、超过剩余空间。
func Gain(current, max int, amount *int) (int, error) {
	n, err := resolveAmount(amount)
	if err != nil {
		return current, err
	}

	if current >= max {
		return current, ErrAlreadyAtMax
	}
	if n > max {
		return current, ErrExceedsCapacity
	}
	if n > max-current {
		return current, ErrExceedsHeadroom
	}

	return current + n, nil
}

// GainUnbounded 为无上限的计数器增加数量（背包物品没有数量上限）
func GainUnbounded(current int, amount *int) (int, error) {
	n, err := resolveAmount(amount)
	if err != nil {
		return current, err
	}
	return current + n, nil
}
