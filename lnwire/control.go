package lnwire

import "io"

// Error carries a human-readable problem description. It reports a
// peer-reportable failure (a malformed field, an unaffordable HTLC, a
// bad signature or preimage, a parameter outside policy) to the remote
// peer before the session is terminated. A packet arriving outside its
// legal state is an invariant-fatal error instead, and is not reported
// with an Error packet.
type Error struct {
	Problem string
}

func (e *Error) MsgType() MessageType { return MsgError }

func (e *Error) MaxPayloadLength() uint32 { return 1024 }

func (e *Error) Encode(w io.Writer) error {
	return writeElements(w, e.Problem)
}

func (e *Error) Decode(r io.Reader) error {
	return readElements(r, &e.Problem)
}

// Auth and Reconnect are transport-level messages handled by the
// connection manager rather than the channel protocol engine; they
// round-trip through Encode/Decode like every other packet kind but
// carry no payload the engine itself interprets.
type Auth struct{}

func (a *Auth) MsgType() MessageType { return MsgAuth }

func (a *Auth) MaxPayloadLength() uint32 { return 0 }

func (a *Auth) Encode(w io.Writer) error { return nil }

func (a *Auth) Decode(r io.Reader) error { return nil }

type Reconnect struct{}

func (r *Reconnect) MsgType() MessageType { return MsgReconnect }

func (r *Reconnect) MaxPayloadLength() uint32 { return 0 }

func (rc *Reconnect) Encode(w io.Writer) error { return nil }

func (rc *Reconnect) Decode(r io.Reader) error { return nil }
