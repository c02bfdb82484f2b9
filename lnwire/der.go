package lnwire

import (
	"fmt"
	"math/big"
)

// parseDERSignature parses a minimal DER-encoded ECDSA signature
// (SEQUENCE { INTEGER r, INTEGER s }) into its two scalars. This core
// doesn't depend on any particular signing library's Signature type for
// this — it only needs the r, s pair to build the fixed-width wire
// Signature — so a small local DER reader avoids coupling the wire format
// to one ecdsa package's internal representation.
func parseDERSignature(der []byte) (r, s *big.Int, err error) {
	if len(der) < 8 || der[0] != 0x30 {
		return nil, nil, fmt.Errorf("invalid DER signature: bad sequence tag")
	}

	idx := 2
	if idx >= len(der) || der[idx] != 0x02 {
		return nil, nil, fmt.Errorf("invalid DER signature: expected r integer")
	}
	idx++
	rLen := int(der[idx])
	idx++
	if idx+rLen > len(der) {
		return nil, nil, fmt.Errorf("invalid DER signature: r out of bounds")
	}
	r = new(big.Int).SetBytes(der[idx : idx+rLen])
	idx += rLen

	if idx >= len(der) || der[idx] != 0x02 {
		return nil, nil, fmt.Errorf("invalid DER signature: expected s integer")
	}
	idx++
	sLen := int(der[idx])
	idx++
	if idx+sLen > len(der) {
		return nil, nil, fmt.Errorf("invalid DER signature: s out of bounds")
	}
	s = new(big.Int).SetBytes(der[idx : idx+sLen])

	return r, s, nil
}

// encodeDERSignature re-assembles a minimal DER signature from raw
// big-endian r, s byte slices.
func encodeDERSignature(r, s []byte) []byte {
	rEnc := derInteger(r)
	sEnc := derInteger(s)

	body := make([]byte, 0, len(rEnc)+len(sEnc))
	body = append(body, rEnc...)
	body = append(body, sEnc...)

	out := make([]byte, 0, len(body)+2)
	out = append(out, 0x30, byte(len(body)))
	out = append(out, body...)
	return out
}

// derInteger encodes a big-endian unsigned integer as a DER INTEGER,
// stripping leading zero bytes and re-adding a single zero pad byte when
// the high bit would otherwise make the value look negative.
func derInteger(b []byte) []byte {
	i := 0
	for i < len(b)-1 && b[i] == 0x00 {
		i++
	}
	v := b[i:]

	if len(v) == 0 {
		v = []byte{0x00}
	}

	if v[0]&0x80 != 0 {
		padded := make([]byte, len(v)+1)
		copy(padded[1:], v)
		v = padded
	}

	out := make([]byte, 0, len(v)+2)
	out = append(out, 0x02, byte(len(v)))
	out = append(out, v...)
	return out
}
