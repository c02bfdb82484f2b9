package lnwire

import (
	"io"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// UpdateAccept is the receiving side's response to an UpdateAddHtlc: a
// signature over the proposed next commitment, plus the next revocation
// hash to be used once this update commits. The commit-sig and
// next-revocation-hash fields always travel together in this round
// trip, so they're carried on one message rather than two.
type UpdateAccept struct {
	CommitSig          Signature
	NextRevocationHash chainhash.Hash
}

func (u *UpdateAccept) MsgType() MessageType { return MsgUpdateAccept }

func (u *UpdateAccept) MaxPayloadLength() uint32 { return 128 }

func (u *UpdateAccept) Encode(w io.Writer) error {
	return writeElements(w, u.CommitSig, u.NextRevocationHash)
}

func (u *UpdateAccept) Decode(r io.Reader) error {
	return readElements(r, &u.CommitSig, &u.NextRevocationHash)
}

// UpdateSignature echoes a signature over the counterparty's proposed
// commitment back to them, along with the revocation preimage for the
// commitment being superseded.
type UpdateSignature struct {
	CommitSig          Signature
	RevocationPreimage chainhash.Hash
}

func (u *UpdateSignature) MsgType() MessageType { return MsgUpdateSignature }

func (u *UpdateSignature) MaxPayloadLength() uint32 { return 128 }

func (u *UpdateSignature) Encode(w io.Writer) error {
	return writeElements(w, u.CommitSig, u.RevocationPreimage)
}

func (u *UpdateSignature) Decode(r io.Reader) error {
	return readElements(r, &u.CommitSig, &u.RevocationPreimage)
}

// UpdateComplete releases the final revocation preimage, retiring the
// prior commitment transaction and completing the HTLC-update round.
type UpdateComplete struct {
	RevocationPreimage chainhash.Hash
}

func (u *UpdateComplete) MsgType() MessageType { return MsgUpdateComplete }

func (u *UpdateComplete) MaxPayloadLength() uint32 { return 64 }

func (u *UpdateComplete) Encode(w io.Writer) error {
	return writeElements(w, u.RevocationPreimage)
}

func (u *UpdateComplete) Decode(r io.Reader) error {
	return readElements(r, &u.RevocationPreimage)
}
