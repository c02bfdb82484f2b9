package peer

import "fmt"

// ProtocolError is a peer-reportable error: malformed packet field,
// economic violation, signature/preimage mismatch, or a parameter
// outside policy. The caller is expected to send an Error packet
// carrying Reason and then terminate the session.
type ProtocolError struct {
	Reason string
}

func (e *ProtocolError) Error() string {
	return e.Reason
}

func newProtocolError(format string, args ...interface{}) *ProtocolError {
	return &ProtocolError{Reason: fmt.Sprintf(format, args...)}
}

// FatalError is an invariant-fatal error: balance conservation
// failure, a packet received outside its legal state, or any other
// condition indicating a bug in the implementation rather than peer
// misbehavior. The session must abort without reporting an Error
// packet.
type FatalError struct {
	Reason string
}

func (e *FatalError) Error() string {
	return e.Reason
}

func newFatalError(format string, args ...interface{}) *FatalError {
	return &FatalError{Reason: fmt.Sprintf(format, args...)}
}

// errUnexpectedPacket builds the FatalError for a packet received
// outside its legal state machine position.
func errUnexpectedPacket(state State, packet string) *FatalError {
	return newFatalError("error_unexpected(%s) in state %s", packet, state)
}
