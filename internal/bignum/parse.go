package bignum

import (
	"fmt"
	"strings"

	"precis/internal/limbs"
	"precis/internal/word"
)

// ParseNat parses s as a Natural in the given base, 2 through 36.
// Underscores are ignored. With base 0 the base is taken from a 0x, 0o or 0b
// prefix and defaults to 10.
func ParseNat[W word.Word](s string, base int) (Nat[W], error) {
	return parseNat[W](s, base, true)
}

// ParseInt parses s as an Integer with an optional leading sign.
func ParseInt[W word.Word](s string, base int) (Int[W], error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Int[W]{}, ErrParse
	}
	neg := false
	switch s[0] {
	case '+':
		s = s[1:]
	case '-':
		neg = true
		s = s[1:]
	}
	abs, err := parseNat[W](s, base, false)
	if err != nil {
		return Int[W]{}, err
	}
	return IntFromNat(neg, abs), nil
}

func parseNat[W word.Word](s string, base int, allowLeadingPlus bool) (Nat[W], error) {
	s = strings.TrimSpace(s)
	if allowLeadingPlus && s != "" && s[0] == '+' {
		s = s[1:]
	}
	if s == "" {
		return Nat[W]{}, ErrParse
	}
	orig := s

	if strings.IndexByte(s, '_') >= 0 {
		s = strings.ReplaceAll(s, "_", "")
	}

	if base == 0 {
		base = 10
		if len(s) > 2 && s[0] == '0' {
			switch s[1] {
			case 'x', 'X':
				base = 16
				s = s[2:]
			case 'b', 'B':
				base = 2
				s = s[2:]
			case 'o', 'O':
				base = 8
				s = s[2:]
			}
		}
	}
	if base < 2 || base > 36 {
		return Nat[W]{}, fmt.Errorf("%w: base %d", ErrParse, base)
	}
	if s == "" {
		return Nat[W]{}, fmt.Errorf("%w: %q", ErrParse, orig)
	}
	bitsPerDigit := word.Len(uint64(base))
	if err := checkLimbs(uint64(len(s)) * uint64(bitsPerDigit) / uint64(word.Size[W]())); err != nil {
		return Nat[W]{}, err
	}

	b := W(base) //nolint:gosec // G115: base checked above
	bb, ndigits := chunkBase[W](base)
	var v []W
	var acc W
	pow := W(1)
	count := 0
	for i := range len(s) {
		d, ok := digitValue(s[i], base)
		if !ok {
			return Nat[W]{}, fmt.Errorf("%w: %q", ErrParse, orig)
		}
		acc = acc*b + W(d)
		pow *= b
		count++
		if count == ndigits {
			v = limbs.MulAddWW(v, v, bb, acc)
			acc, pow, count = 0, 1, 0
		}
	}
	if count > 0 {
		v = limbs.MulAddWW(v, v, pow, acc)
	}
	return natFrom(v), nil
}

func digitValue(ch byte, base int) (int, bool) {
	var d int
	switch {
	case ch >= '0' && ch <= '9':
		d = int(ch - '0')
	case ch >= 'a' && ch <= 'z':
		d = 10 + int(ch-'a')
	case ch >= 'A' && ch <= 'Z':
		d = 10 + int(ch-'A')
	default:
		return 0, false
	}
	return d, d < base
}
