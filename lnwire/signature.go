package lnwire

import (
	"encoding/binary"
	"io"
)

// Signature is the wire encoding of an ECDSA signature over secp256k1:
// two 256-bit scalars (r, s), each split into four 64-bit limbs
// (r1..r4, s1..s4). Keeping the wire shape as fixed-width limbs rather than
// a DER blob keeps every message's MaxPayloadLength a constant, at the cost
// of a small encode/decode step translating to and from the DER signatures
// that the opaque signing capability actually produces.
type Signature struct {
	R [32]byte
	S [32]byte
}

// NewSignatureFromDER builds a Signature from a DER-encoded ECDSA signature,
// as produced by the signing capability this core treats as opaque.
func NewSignatureFromDER(der []byte) (Signature, error) {
	var sig Signature

	r, s, err := parseDERSignature(der)
	if err != nil {
		return sig, err
	}

	r.FillBytes(sig.R[:])
	s.FillBytes(sig.S[:])
	return sig, nil
}

// ToDER re-encodes the signature in DER form, suitable for handing to a
// verification capability.
func (s Signature) ToDER() []byte {
	return encodeDERSignature(s.R[:], s.S[:])
}

func (s Signature) encode(w io.Writer) error {
	for i := 0; i < 32; i += 8 {
		if err := binary.Write(w, binary.BigEndian, binary.BigEndian.Uint64(s.R[i:i+8])); err != nil {
			return err
		}
	}
	for i := 0; i < 32; i += 8 {
		if err := binary.Write(w, binary.BigEndian, binary.BigEndian.Uint64(s.S[i:i+8])); err != nil {
			return err
		}
	}
	return nil
}

func (s *Signature) decode(r io.Reader) error {
	for i := 0; i < 32; i += 8 {
		var limb uint64
		if err := binary.Read(r, binary.BigEndian, &limb); err != nil {
			return err
		}
		binary.BigEndian.PutUint64(s.R[i:i+8], limb)
	}
	for i := 0; i < 32; i += 8 {
		var limb uint64
		if err := binary.Read(r, binary.BigEndian, &limb); err != nil {
			return err
		}
		binary.BigEndian.PutUint64(s.S[i:i+8], limb)
	}
	return nil
}
