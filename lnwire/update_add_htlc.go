package lnwire

import (
	"io"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// UpdateAddHtlc proposes adding a new HTLC to the channel. This core
// tracks at most one in-flight HTLC proposal per peer session; Route
// carries the opaque onion-routing payload for the next hop and is never
// interpreted by the channel protocol engine itself.
type UpdateAddHtlc struct {
	ID         uint64
	AmountMsat MilliSatoshi
	RHash      chainhash.Hash
	Expiry     Locktime
	Route      []byte
}

func (u *UpdateAddHtlc) MsgType() MessageType { return MsgUpdateAddHtlc }

func (u *UpdateAddHtlc) MaxPayloadLength() uint32 { return 4096 }

func (u *UpdateAddHtlc) Encode(w io.Writer) error {
	return writeElements(w, u.ID, u.AmountMsat, u.RHash, u.Expiry, u.Route)
}

func (u *UpdateAddHtlc) Decode(r io.Reader) error {
	return readElements(r, &u.ID, &u.AmountMsat, &u.RHash, &u.Expiry, &u.Route)
}

// UpdateFulfillHtlc resolves a previously-added HTLC by releasing its
// payment preimage.
type UpdateFulfillHtlc struct {
	ID uint64
	R  chainhash.Hash
}

func (u *UpdateFulfillHtlc) MsgType() MessageType { return MsgUpdateFulfillHtlc }

func (u *UpdateFulfillHtlc) MaxPayloadLength() uint32 { return 64 }

func (u *UpdateFulfillHtlc) Encode(w io.Writer) error {
	return writeElements(w, u.ID, u.R)
}

func (u *UpdateFulfillHtlc) Decode(r io.Reader) error {
	return readElements(r, &u.ID, &u.R)
}

// UpdateFailHtlc cancels a previously-added HTLC without revealing the
// preimage.
type UpdateFailHtlc struct {
	ID     uint64
	Reason []byte
}

func (u *UpdateFailHtlc) MsgType() MessageType { return MsgUpdateFailHtlc }

func (u *UpdateFailHtlc) MaxPayloadLength() uint32 { return 1024 }

func (u *UpdateFailHtlc) Encode(w io.Writer) error {
	return writeElements(w, u.ID, u.Reason)
}

func (u *UpdateFailHtlc) Decode(r io.Reader) error {
	return readElements(r, &u.ID, &u.Reason)
}
