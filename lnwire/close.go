package lnwire

import "io"

// CloseShutdown and CloseSignature round out the message set. The
// close negotiation sub-protocol itself is out of scope for this
// core; these two types exist only so a wire decoder never chokes on
// a close message received from a peer running the fuller protocol.
type CloseShutdown struct {
	ScriptPubkey []byte
}

func (c *CloseShutdown) MsgType() MessageType { return MsgCloseShutdown }

func (c *CloseShutdown) MaxPayloadLength() uint32 { return 1024 }

func (c *CloseShutdown) Encode(w io.Writer) error {
	return writeElements(w, c.ScriptPubkey)
}

func (c *CloseShutdown) Decode(r io.Reader) error {
	return readElements(r, &c.ScriptPubkey)
}

type CloseSignature struct {
	CloseFee uint64
	Sig      Signature
}

func (c *CloseSignature) MsgType() MessageType { return MsgCloseSignature }

func (c *CloseSignature) MaxPayloadLength() uint32 { return 128 }

func (c *CloseSignature) Encode(w io.Writer) error {
	return writeElements(w, c.CloseFee, c.Sig)
}

func (c *CloseSignature) Decode(r io.Reader) error {
	return readElements(r, &c.CloseFee, &c.Sig)
}
