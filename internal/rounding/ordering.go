package rounding

// Ordering relates a returned value to the exact mathematical value it
// approximates.
type Ordering int8

const (
	// Less means the returned value is below the exact value.
	Less Ordering = -1
	// Equal means the returned value is exact.
	Equal Ordering = 0
	// Greater means the returned value is above the exact value.
	Greater Ordering = 1
)

// OrderingOf converts a -1/0/+1 comparison result.
func OrderingOf(cmp int) Ordering {
	switch {
	case cmp < 0:
		return Less
	case cmp > 0:
		return Greater
	default:
		return Equal
	}
}

// Reverse returns the ordering seen from the negated value.
func (o Ordering) Reverse() Ordering {
	return -o
}

func (o Ordering) String() string {
	switch o {
	case Less:
		return "Less"
	case Equal:
		return "Equal"
	case Greater:
		return "Greater"
	default:
		return "Ordering(?)"
	}
}
