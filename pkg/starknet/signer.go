package starknet

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/NethermindEth/juno/core/felt"
	starkcurve "github.com/consensys/gnark-crypto/ecc/stark-curve"
	"github.com/consensys/gnark-crypto/ecc/stark-curve/ecdsa"
	"github.com/consensys/gnark-crypto/ecc/stark-curve/fr"

	"github.com/grugslair/blob-arena-contracts/pkg/cairo"
)

var (
	// ErrInvalidPrivateKey is returned for keys outside [1, n).
	ErrInvalidPrivateKey = errors.New("invalid stark private key")

	curveOrder   = fr.Modulus()
	maxSignValue = new(big.Int).Lsh(big.NewInt(1), 251)
)

const signAttempts = 64

// Signer signs transaction hashes with a Stark curve private key.
type Signer struct {
	key    *ecdsa.PrivateKey
	public *felt.Felt
}

// NewSigner validates key and derives its public key.
func NewSigner(key *felt.Felt) (*Signer, error) {
	d := cairo.ToBig(key)
	if d.Sign() == 0 || d.Cmp(curveOrder) >= 0 {
		return nil, ErrInvalidPrivateKey
	}
	var pub starkcurve.G1Affine
	pub.ScalarMultiplicationBase(d)

	// gnark takes the private key as compressed point || scalar
	point := pub.Bytes()
	scalar := key.Bytes()
	buf := append(point[:], scalar[:]...)

	priv := new(ecdsa.PrivateKey)
	if _, err := priv.SetBytes(buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPrivateKey, err)
	}
	x := pub.X.Bytes()
	return &Signer{key: priv, public: new(felt.Felt).SetBytes(x[:])}, nil
}

// PublicKey is the x coordinate of the public point.
func (s *Signer) PublicKey() *felt.Felt {
	return s.public
}

// Sign produces the (r, s) Stark ECDSA signature of msgHash. Starknet only
// accepts r and s^-1 below 2^251, so signatures outside that range are redrawn.
func (s *Signer) Sign(msgHash *felt.Felt) ([]*felt.Felt, error) {
	if cairo.ToBig(msgHash).Cmp(maxSignValue) >= 0 {
		return nil, fmt.Errorf("message hash %s exceeds 251 bits", cairo.Hex(msgHash))
	}
	msg := msgHash.Bytes()
	for range signAttempts {
		sig, err := s.key.Sign(msg[:], nil)
		if err != nil {
			return nil, fmt.Errorf("sign %s: %w", cairo.Hex(msgHash), err)
		}
		r := new(big.Int).SetBytes(sig[:fr.Bytes])
		sv := new(big.Int).SetBytes(sig[fr.Bytes:])
		w := new(big.Int).ModInverse(sv, curveOrder)
		if r.Cmp(maxSignValue) >= 0 || w == nil || w.Cmp(maxSignValue) >= 0 {
			continue
		}
		return []*felt.Felt{cairo.FeltFromBig(r), cairo.FeltFromBig(sv)}, nil
	}
	return nil, errors.New("failed to produce a signature")
}

// Verify checks a signature against the signer's public point.
func (s *Signer) Verify(msgHash *felt.Felt, signature []*felt.Felt) bool {
	if len(signature) != 2 {
		return false
	}
	r, sv := signature[0].Bytes(), signature[1].Bytes()
	msg := msgHash.Bytes()
	ok, err := s.key.PublicKey.Verify(append(r[:], sv[:]...), msg[:], nil)
	return err == nil && ok
}
