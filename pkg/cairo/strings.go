package cairo

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/NethermindEth/juno/core/felt"
)

const bytesPerWord = 31

// ErrShortStringTooLong is returned for short strings over 31 bytes.
var ErrShortStringTooLong = errors.New("short string exceeds 31 bytes")

// ShortString packs an ASCII string of at most 31 bytes into a felt.
func ShortString(s string) (*felt.Felt, error) {
	if len(s) > bytesPerWord {
		return nil, fmt.Errorf("%w: %q", ErrShortStringTooLong, s)
	}
	for i := 0; i < len(s); i++ {
		if s[i] > 0x7f {
			return nil, fmt.Errorf("short string %q is not ASCII", s)
		}
	}
	return new(felt.Felt).SetBytes([]byte(s)), nil
}

// MustShortString is ShortString for compile time constants.
func MustShortString(s string) *felt.Felt {
	f, err := ShortString(s)
	if err != nil {
		panic(err)
	}
	return f
}

// DecodeShortString unpacks a short string, dropping leading zero bytes.
func DecodeShortString(f *felt.Felt) string {
	b := f.Bytes()
	return strings.TrimLeft(string(b[:]), "\x00")
}

// ByteArray is the Cairo core::byte_array::ByteArray layout.
type ByteArray struct {
	Data           []*felt.Felt
	PendingWord    *felt.Felt
	PendingWordLen int
}

// ByteArrayFromString splits s into full 31 byte words plus a pending word.
func ByteArrayFromString(s string) ByteArray {
	raw := []byte(s)
	ba := ByteArray{Data: make([]*felt.Felt, 0, len(raw)/bytesPerWord)}
	for len(raw) >= bytesPerWord {
		ba.Data = append(ba.Data, new(felt.Felt).SetBytes(raw[:bytesPerWord]))
		raw = raw[bytesPerWord:]
	}
	ba.PendingWord = new(felt.Felt).SetBytes(raw)
	ba.PendingWordLen = len(raw)
	return ba
}

// Felts serializes the byte array as [len, data..., pending_word, pending_word_len].
func (ba ByteArray) Felts() []*felt.Felt {
	out := make([]*felt.Felt, 0, len(ba.Data)+3)
	out = append(out, new(felt.Felt).SetUint64(uint64(len(ba.Data))))
	out = append(out, ba.Data...)
	pending := ba.PendingWord
	if pending == nil {
		pending = new(felt.Felt)
	}
	out = append(out, pending, new(felt.Felt).SetUint64(uint64(ba.PendingWordLen)))
	return out
}

// String reassembles the UTF-8 string.
func (ba ByteArray) String() string {
	var sb strings.Builder
	for _, w := range ba.Data {
		b := w.Bytes()
		sb.Write(b[32-bytesPerWord:])
	}
	if ba.PendingWordLen > 0 && ba.PendingWord != nil {
		b := ba.PendingWord.Bytes()
		sb.Write(b[32-ba.PendingWordLen:])
	}
	return sb.String()
}

// CompileString is shorthand for ByteArrayFromString(s).Felts().
func CompileString(s string) []*felt.Felt {
	return ByteArrayFromString(s).Felts()
}

// ReadByteArray decodes a serialized byte array from the head of felts and
// returns it with the number of felts consumed.
func ReadByteArray(felts []*felt.Felt) (ByteArray, int, error) {
	if len(felts) < 1 {
		return ByteArray{}, 0, errors.New("byte array: missing length")
	}
	n := ToBig(felts[0])
	if !n.IsInt64() || n.Int64() > int64(len(felts)) {
		return ByteArray{}, 0, fmt.Errorf("byte array: invalid length %s", n)
	}
	count := int(n.Int64())
	if len(felts) < count+3 {
		return ByteArray{}, 0, errors.New("byte array: truncated data")
	}
	pendingLen := ToBig(felts[count+2])
	if !pendingLen.IsInt64() || pendingLen.Int64() >= bytesPerWord {
		return ByteArray{}, 0, fmt.Errorf("byte array: invalid pending word length %s", pendingLen)
	}
	ba := ByteArray{
		Data:           felts[1 : 1+count],
		PendingWord:    felts[count+1],
		PendingWordLen: int(pendingLen.Int64()),
	}
	return ba, count + 3, nil
}

// U256 splits v into its (low, high) 128 bit limbs.
func U256(v *big.Int) (low, high *felt.Felt) {
	mask := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
	low = FeltFromBig(new(big.Int).And(v, mask))
	high = FeltFromBig(new(big.Int).Rsh(v, 128))
	return low, high
}

// JoinU256 is the inverse of U256.
func JoinU256(low, high *felt.Felt) *big.Int {
	v := new(big.Int).Lsh(ToBig(high), 128)
	return v.Or(v, ToBig(low))
}
