package bignum

import (
	"fmt"
	"slices"
	"strings"

	"precis/internal/limbs"
	"precis/internal/word"
)

const (
	lowerDigits = "0123456789abcdefghijklmnopqrstuvwxyz"
	upperDigits = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// chunkBase returns the largest power of base that fits in a word and the
// number of digits it spans.
func chunkBase[W word.Word](base int) (bb W, ndigits int) {
	b := W(base) //nolint:gosec // G115: base checked to be in [2, 36]
	bb = b
	ndigits = 1
	for bb <= word.Max[W]()/b {
		bb *= b
		ndigits++
	}
	return bb, ndigits
}

func checkBase(base int) {
	if base < 2 || base > 36 {
		panic(fmt.Sprintf("bignum: invalid base %d", base))
	}
}

// appendText appends the digits of x in the given base. The vector is
// divided by the largest power of base that fits in a word and each
// remainder becomes a fixed-width group of digits.
func (x Nat[W]) appendText(buf []byte, base int, upper bool) []byte {
	checkBase(base)
	if x.IsZero() {
		return append(buf, '0')
	}
	digits := lowerDigits
	if upper {
		digits = upperDigits
	}
	bb, ndigits := chunkBase[W](base)

	var groups []W
	v := slices.Clone(x.vec())
	for len(v) > 0 {
		var r W
		v, r = limbs.DivW(v, v, bb)
		groups = append(groups, r)
	}

	b := W(base) //nolint:gosec // G115: base checked above
	chunk := make([]byte, ndigits)
	for gi := len(groups) - 1; gi >= 0; gi-- {
		g := groups[gi]
		for i := ndigits - 1; i >= 0; i-- {
			chunk[i] = digits[int(g%b)]
			g /= b
		}
		if gi == len(groups)-1 {
			buf = append(buf, strings.TrimLeft(string(chunk), "0")...)
			continue
		}
		buf = append(buf, chunk...)
	}
	return buf
}

// Text returns x in the given base, 2 through 36, using lower-case letters.
func (x Nat[W]) Text(base int) string {
	return string(x.appendText(nil, base, false))
}

// TextUpper is like Text but with upper-case letters.
func (x Nat[W]) TextUpper(base int) string {
	return string(x.appendText(nil, base, true))
}

// Text returns x in the given base with a leading '-' when negative.
func (x Int[W]) Text(base int) string {
	var buf []byte
	if x.neg {
		buf = append(buf, '-')
	}
	return string(x.abs.appendText(buf, base, false))
}

// verbBase maps a fmt verb to a base.
func verbBase(ch rune) (base int, upper bool, prefix string) {
	switch ch {
	case 'd', 's', 'v':
		return 10, false, ""
	case 'b':
		return 2, false, "0b"
	case 'o', 'O':
		return 8, false, "0o"
	case 'x':
		return 16, false, "0x"
	case 'X':
		return 16, true, "0X"
	}
	return 0, false, ""
}

func formatTo(s fmt.State, ch rune, neg bool, text func(base int, upper bool) []byte) {
	base, upper, prefix := verbBase(ch)
	if base == 0 {
		fmt.Fprintf(s, "%%!%c(bignum)", ch)
		return
	}
	var sign string
	switch {
	case neg:
		sign = "-"
	case s.Flag('+'):
		sign = "+"
	case s.Flag(' '):
		sign = " "
	}
	if !s.Flag('#') && ch != 'O' {
		prefix = ""
	}
	body := sign + prefix + string(text(base, upper))
	if w, ok := s.Width(); ok && len(body) < w {
		pad := strings.Repeat(" ", w-len(body))
		if s.Flag('-') {
			body += pad
		} else {
			body = pad + body
		}
	}
	_, _ = fmt.Fprint(s, body)
}

// Format implements fmt.Formatter for the verbs d, s, v, b, o, O, x and X.
func (x Nat[W]) Format(s fmt.State, ch rune) {
	formatTo(s, ch, false, func(base int, upper bool) []byte {
		return x.appendText(nil, base, upper)
	})
}

// Format implements fmt.Formatter for the verbs d, s, v, b, o, O, x and X.
func (x Int[W]) Format(s fmt.State, ch rune) {
	formatTo(s, ch, x.neg, func(base int, upper bool) []byte {
		return x.abs.appendText(nil, base, upper)
	})
}
