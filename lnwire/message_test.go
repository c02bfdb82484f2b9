package lnwire

import (
	"bytes"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/stretchr/testify/require"
)

func testPubKey(t *testing.T) *btcec.PublicKey {
	priv, err := btcec.NewPrivateKey()
	require.NoError(t, err)
	return priv.PubKey()
}

func testSig() Signature {
	var sig Signature
	sig.R[31] = 0x01
	sig.S[31] = 0x02
	return sig
}

// roundTrip writes msg through WriteMessage, reads it back through
// ReadMessage, asserts the message type survived, and returns the decoded
// message so the caller can check decode(encode(m)) == m field by field.
func roundTrip(t *testing.T, msg Message) Message {
	var buf bytes.Buffer
	_, err := WriteMessage(&buf, msg)
	require.NoError(t, err)

	got, err := ReadMessage(&buf)
	require.NoError(t, err)
	require.Equal(t, msg.MsgType(), got.MsgType())
	return got
}

func TestOpenChannelRoundTrip(t *testing.T) {
	msg := &OpenChannel{
		Delay:              NewLocktimeSeconds(3600),
		RevocationHash:     chainhash.HashH([]byte("r1")),
		NextRevocationHash: chainhash.HashH([]byte("r2")),
		CommitKey:          testPubKey(t),
		FinalKey:           testPubKey(t),
		Anch:               AnchorWill,
		MinDepth:           3,
		InitialFeeRate:     5000,
	}
	got := roundTrip(t, msg).(*OpenChannel)
	require.Equal(t, msg.Delay, got.Delay)
	require.Equal(t, msg.RevocationHash, got.RevocationHash)
	require.Equal(t, msg.NextRevocationHash, got.NextRevocationHash)
	require.True(t, msg.CommitKey.IsEqual(got.CommitKey))
	require.True(t, msg.FinalKey.IsEqual(got.FinalKey))
	require.Equal(t, msg.Anch, got.Anch)
	require.Equal(t, msg.MinDepth, got.MinDepth)
	require.Equal(t, msg.InitialFeeRate, got.InitialFeeRate)
}

func TestOpenAnchorRoundTrip(t *testing.T) {
	msg := &OpenAnchor{
		Txid:        chainhash.HashH([]byte("txid")),
		OutputIndex: 1,
		Amount:      1_000_000,
	}
	got := roundTrip(t, msg).(*OpenAnchor)
	require.Equal(t, msg, got)
}

func TestOpenCommitSigRoundTrip(t *testing.T) {
	msg := &OpenCommitSig{Sig: testSig()}
	got := roundTrip(t, msg).(*OpenCommitSig)
	require.Equal(t, msg, got)
}

func TestOpenCompleteRoundTrip(t *testing.T) {
	roundTrip(t, &OpenComplete{})
}

func TestUpdateAddHtlcRoundTrip(t *testing.T) {
	msg := &UpdateAddHtlc{
		ID:         7,
		AmountMsat: 150_000,
		RHash:      chainhash.HashH([]byte("preimage")),
		Expiry:     NewLocktimeSeconds(144),
		Route:      []byte{0x01, 0x02, 0x03},
	}
	got := roundTrip(t, msg).(*UpdateAddHtlc)
	require.Equal(t, msg, got)
}

func TestUpdateFulfillHtlcRoundTrip(t *testing.T) {
	msg := &UpdateFulfillHtlc{ID: 7, R: chainhash.HashH([]byte("preimage"))}
	got := roundTrip(t, msg).(*UpdateFulfillHtlc)
	require.Equal(t, msg, got)
}

func TestUpdateFailHtlcRoundTrip(t *testing.T) {
	msg := &UpdateFailHtlc{ID: 7, Reason: []byte("expired")}
	got := roundTrip(t, msg).(*UpdateFailHtlc)
	require.Equal(t, msg, got)
}

func TestUpdateAcceptRoundTrip(t *testing.T) {
	msg := &UpdateAccept{
		CommitSig:          testSig(),
		NextRevocationHash: chainhash.HashH([]byte("next")),
	}
	got := roundTrip(t, msg).(*UpdateAccept)
	require.Equal(t, msg, got)
}

func TestUpdateSignatureRoundTrip(t *testing.T) {
	msg := &UpdateSignature{
		CommitSig:          testSig(),
		RevocationPreimage: chainhash.HashH([]byte("preimage")),
	}
	got := roundTrip(t, msg).(*UpdateSignature)
	require.Equal(t, msg, got)
}

func TestUpdateCompleteRoundTrip(t *testing.T) {
	msg := &UpdateComplete{RevocationPreimage: chainhash.HashH([]byte("preimage"))}
	got := roundTrip(t, msg).(*UpdateComplete)
	require.Equal(t, msg, got)
}

func TestCloseShutdownRoundTrip(t *testing.T) {
	msg := &CloseShutdown{ScriptPubkey: []byte{0x00, 0x14}}
	got := roundTrip(t, msg).(*CloseShutdown)
	require.Equal(t, msg, got)
}

func TestCloseSignatureRoundTrip(t *testing.T) {
	msg := &CloseSignature{CloseFee: 500, Sig: testSig()}
	got := roundTrip(t, msg).(*CloseSignature)
	require.Equal(t, msg, got)
}

func TestErrorRoundTrip(t *testing.T) {
	msg := &Error{Problem: "unexpected packet in current state"}
	got := roundTrip(t, msg).(*Error)
	require.Equal(t, msg, got)
}

func TestAuthReconnectRoundTrip(t *testing.T) {
	roundTrip(t, &Auth{})
	roundTrip(t, &Reconnect{})
}

func TestSignatureDERRoundTrip(t *testing.T) {
	sig := testSig()
	der := sig.ToDER()

	got, err := NewSignatureFromDER(der)
	require.NoError(t, err)
	require.Equal(t, sig, got)
}

func TestLocktimeRejectsUnknownKind(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeElements(&buf, uint8(9), uint32(10)))

	var lt Locktime
	err := lt.decode(&buf)
	require.Error(t, err)
}
