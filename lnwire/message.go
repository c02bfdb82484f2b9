package lnwire

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/go-errors/errors"
)

// MessageType is the unique identifier for each wire message, prefixed to
// every framed packet so the reader knows which concrete type to decode
// into before dispatching to Decode.
type MessageType uint16

const (
	MsgOpenChannel      MessageType = 1
	MsgOpenAnchor       MessageType = 2
	MsgOpenCommitSig    MessageType = 3
	MsgOpenComplete     MessageType = 4
	MsgUpdateAddHtlc    MessageType = 5
	MsgUpdateAccept     MessageType = 6
	MsgUpdateSignature  MessageType = 7
	MsgUpdateComplete   MessageType = 8
	MsgUpdateFulfillHtlc MessageType = 9
	MsgUpdateFailHtlc   MessageType = 10
	MsgCloseShutdown    MessageType = 11
	MsgCloseSignature   MessageType = 12
	MsgError            MessageType = 13
	MsgAuth             MessageType = 14
	MsgReconnect        MessageType = 15
)

func (t MessageType) String() string {
	switch t {
	case MsgOpenChannel:
		return "OpenChannel"
	case MsgOpenAnchor:
		return "OpenAnchor"
	case MsgOpenCommitSig:
		return "OpenCommitSig"
	case MsgOpenComplete:
		return "OpenComplete"
	case MsgUpdateAddHtlc:
		return "UpdateAddHtlc"
	case MsgUpdateAccept:
		return "UpdateAccept"
	case MsgUpdateSignature:
		return "UpdateSignature"
	case MsgUpdateComplete:
		return "UpdateComplete"
	case MsgUpdateFulfillHtlc:
		return "UpdateFulfillHtlc"
	case MsgUpdateFailHtlc:
		return "UpdateFailHtlc"
	case MsgCloseShutdown:
		return "CloseShutdown"
	case MsgCloseSignature:
		return "CloseSignature"
	case MsgError:
		return "Error"
	case MsgAuth:
		return "Auth"
	case MsgReconnect:
		return "Reconnect"
	default:
		return "<unknown>"
	}
}

// Message is the interface implemented by every packet kind exchanged
// between peers. MaxPayloadLength declares the largest body a message
// variant is expected to carry; ReadMessage compares it only against
// maxMessagePayload and does not limit the bytes Decode reads.
type Message interface {
	Decode(r io.Reader) error
	Encode(w io.Writer) error
	MsgType() MessageType
	MaxPayloadLength() uint32
}

// maxMessagePayload is a hard ceiling on a message type's declared
// MaxPayloadLength: ReadMessage rejects any type that declares more.
const maxMessagePayload = 1024 * 1024

// makeEmptyMessage returns a freshly zeroed Message of the given type, to
// be populated by Decode.
func makeEmptyMessage(msgType MessageType) (Message, error) {
	switch msgType {
	case MsgOpenChannel:
		return &OpenChannel{}, nil
	case MsgOpenAnchor:
		return &OpenAnchor{}, nil
	case MsgOpenCommitSig:
		return &OpenCommitSig{}, nil
	case MsgOpenComplete:
		return &OpenComplete{}, nil
	case MsgUpdateAddHtlc:
		return &UpdateAddHtlc{}, nil
	case MsgUpdateAccept:
		return &UpdateAccept{}, nil
	case MsgUpdateSignature:
		return &UpdateSignature{}, nil
	case MsgUpdateComplete:
		return &UpdateComplete{}, nil
	case MsgUpdateFulfillHtlc:
		return &UpdateFulfillHtlc{}, nil
	case MsgUpdateFailHtlc:
		return &UpdateFailHtlc{}, nil
	case MsgCloseShutdown:
		return &CloseShutdown{}, nil
	case MsgCloseSignature:
		return &CloseSignature{}, nil
	case MsgError:
		return &Error{}, nil
	case MsgAuth:
		return &Auth{}, nil
	case MsgReconnect:
		return &Reconnect{}, nil
	default:
		return nil, errors.Errorf("unknown message type %d", msgType)
	}
}

// WriteMessage serializes a full framed packet: a 2-byte MessageType tag
// followed by the message's own Encode output.
func WriteMessage(w io.Writer, msg Message) (int, error) {
	var typeBuf [2]byte
	binary.BigEndian.PutUint16(typeBuf[:], uint16(msg.MsgType()))
	if _, err := w.Write(typeBuf[:]); err != nil {
		return 0, err
	}
	if err := msg.Encode(w); err != nil {
		return 0, err
	}
	return 2, nil
}

// ReadMessage reads the MessageType tag, allocates the matching empty
// Message, and decodes its body from r.
func ReadMessage(r io.Reader) (Message, error) {
	var typeBuf [2]byte
	if _, err := io.ReadFull(r, typeBuf[:]); err != nil {
		return nil, err
	}
	msgType := MessageType(binary.BigEndian.Uint16(typeBuf[:]))

	msg, err := makeEmptyMessage(msgType)
	if err != nil {
		return nil, err
	}

	if msg.MaxPayloadLength() > maxMessagePayload {
		return nil, fmt.Errorf("message type %v declares payload larger than allowed maximum", msgType)
	}

	if err := msg.Decode(r); err != nil {
		return nil, err
	}
	return msg, nil
}
