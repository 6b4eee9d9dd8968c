package rounding

import "fmt"

// Decide resolves a truncated non-negative magnitude whose discarded part is
// non-zero. half classifies the discarded part against one half unit: -1
// below, 0 exactly half, +1 above. odd reports whether the truncated value is
// odd and is only consulted on a Nearest tie.
//
// roundUp reports whether the caller must add one unit to the truncated value;
// o is the ordering of the final value relative to the exact one.
func Decide(m Mode, odd bool, half int) (roundUp bool, o Ordering, err error) {
	switch m {
	case Down, Floor:
		return false, Less, nil
	case Up, Ceiling:
		return true, Greater, nil
	case Nearest:
		if half > 0 || (half == 0 && odd) {
			return true, Greater, nil
		}
		return false, Less, nil
	case Exact:
		return false, Equal, ErrInexact
	default:
		return false, Equal, fmt.Errorf("rounding: unknown mode %d", uint8(m))
	}
}
