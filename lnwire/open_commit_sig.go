package lnwire

import "io"

// OpenCommitSig carries a signature over the receiver's initial
// commitment transaction. The funder sends one immediately after
// OpenAnchor; the non-funder replies with its own over the funder's
// commitment.
type OpenCommitSig struct {
	Sig Signature
}

func (c *OpenCommitSig) MsgType() MessageType { return MsgOpenCommitSig }

func (c *OpenCommitSig) MaxPayloadLength() uint32 { return 64 }

func (c *OpenCommitSig) Encode(w io.Writer) error {
	return writeElements(w, c.Sig)
}

func (c *OpenCommitSig) Decode(r io.Reader) error {
	return readElements(r, &c.Sig)
}

// OpenComplete is a notification that the anchor output has buried to
// the negotiated min_depth, supplied by an external confirmation
// observer rather than derived from any prior packet's fields.
type OpenComplete struct{}

func (c *OpenComplete) MsgType() MessageType { return MsgOpenComplete }

func (c *OpenComplete) MaxPayloadLength() uint32 { return 0 }

func (c *OpenComplete) Encode(w io.Writer) error { return nil }

func (c *OpenComplete) Decode(r io.Reader) error { return nil }
