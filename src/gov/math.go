package gov

import "math"

// Checked uint64 arithmetic. Callers pick the error so treasury updates can
// fail with ErrOverflow while tally and pool updates fail with
// ErrCalculation.

func checkedAdd(a, b uint64) (uint64, bool) {
	if a > math.MaxUint64-b {
		return 0, false
	}
	return a + b, true
}

func checkedSub(a, b uint64) (uint64, bool) {
	if b > a {
		return 0, false
	}
	return a - b, true
}

func checkedMul(a, b uint64) (uint64, bool) {
	if a != 0 && b > math.MaxUint64/a {
		return 0, false
	}
	return a * b, true
}

func checkedDiv(a, b uint64) (uint64, bool) {
	if b == 0 {
		return 0, false
	}
	return a / b, true
}

// rewardCut computes floor(amount * RewardPercent / 100) with checked
// multiply then checked divide.
func rewardCut(amount uint64) (uint64, error) {
	prod, ok := checkedMul(amount, RewardPercent)
	if !ok {
		return 0, ErrCalculation
	}
	cut, ok := checkedDiv(prod, 100)
	if !ok {
		return 0, ErrCalculation
	}
	return cut, nil
}
