package common

import "golang.org/x/exp/constraints"

func Min[T constraints.Integer](l, r T) T {
	if l < r {
		return l
	}
	return r
}

func Max[T constraints.Integer](l, r T) T {
	if l > r {
		return l
	}
	return r
}

// Clamp limits v to [lo, hi].
func Clamp[T constraints.Integer](v, lo, hi T) T {
	return Max(lo, Min(v, hi))
}

func AbsDelta(x, y int) int {
	if x > y {
		return x - y
	}
	return y - x
}

func let(ok bool, yes, no int) int {
	if ok {
		return yes
	}
	return no
}
