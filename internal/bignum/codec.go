package bignum

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"precis/internal/word"
)

var (
	_ msgpack.CustomEncoder = Natural{}
	_ msgpack.CustomDecoder = (*Natural)(nil)
	_ msgpack.CustomEncoder = Integer{}
	_ msgpack.CustomDecoder = (*Integer)(nil)
)

// EncodeMsgpack writes x as an array of its canonical little-endian words.
func (x Nat[W]) EncodeMsgpack(enc *msgpack.Encoder) error {
	n := x.Len()
	if err := enc.EncodeArrayLen(n); err != nil {
		return err
	}
	for i := range n {
		if err := enc.EncodeUint(uint64(x.Word(i))); err != nil {
			return err
		}
	}
	return nil
}

// DecodeMsgpack reads a word array written by EncodeMsgpack. The words are
// validated against the word width and trimmed, so non-canonical input with
// high zero words is accepted.
func (z *Nat[W]) DecodeMsgpack(dec *msgpack.Decoder) error {
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return err
	}
	if n <= 0 {
		*z = Nat[W]{}
		return nil
	}
	if err := checkLimbs(uint64(n)); err != nil {
		return err
	}
	v := make([]W, n)
	for i := range v {
		u, err := dec.DecodeUint64()
		if err != nil {
			return err
		}
		if u > uint64(word.Max[W]()) {
			return fmt.Errorf("%w: word %d (%#x) exceeds %d bits", ErrParse, i, u, word.Size[W]())
		}
		v[i] = W(u)
	}
	*z = natFrom(v)
	return nil
}

// EncodeMsgpack writes x as a two-element array: the sign flag and the
// magnitude.
func (x Int[W]) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeArrayLen(2); err != nil {
		return err
	}
	if err := enc.EncodeBool(x.neg); err != nil {
		return err
	}
	return x.abs.EncodeMsgpack(enc)
}

// DecodeMsgpack reads an Int written by EncodeMsgpack. A negative zero is
// normalized to zero.
func (z *Int[W]) DecodeMsgpack(dec *msgpack.Decoder) error {
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return err
	}
	if n != 2 {
		return fmt.Errorf("%w: integer array of length %d", ErrParse, n)
	}
	neg, err := dec.DecodeBool()
	if err != nil {
		return err
	}
	var abs Nat[W]
	if err := abs.DecodeMsgpack(dec); err != nil {
		return err
	}
	*z = IntFromNat(neg, abs)
	return nil
}
