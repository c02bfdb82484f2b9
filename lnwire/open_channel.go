package lnwire

import (
	"io"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// AnchorOffer records whether the sender of an OpenChannel is offering to
// fund the 2-of-2 anchor output. Exactly one side of a channel may offer
// it; the handshake rejects both WILL and both WONT.
type AnchorOffer uint8

const (
	AnchorWill AnchorOffer = 1
	AnchorWont AnchorOffer = 2
)

// OpenChannel is the first packet of the open handshake, proposing the
// static half of the channel parameters.
type OpenChannel struct {
	Delay             Locktime
	RevocationHash    chainhash.Hash
	NextRevocationHash chainhash.Hash
	CommitKey         *btcec.PublicKey
	FinalKey          *btcec.PublicKey
	Anch              AnchorOffer
	MinDepth          uint32
	InitialFeeRate    uint64
}

func (c *OpenChannel) MsgType() MessageType { return MsgOpenChannel }

func (c *OpenChannel) MaxPayloadLength() uint32 { return 256 }

func (c *OpenChannel) Encode(w io.Writer) error {
	return writeElements(w,
		c.Delay,
		c.RevocationHash,
		c.NextRevocationHash,
		c.CommitKey,
		c.FinalKey,
		uint8(c.Anch),
		c.MinDepth,
		c.InitialFeeRate,
	)
}

func (c *OpenChannel) Decode(r io.Reader) error {
	var anch uint8
	if err := readElements(r,
		&c.Delay,
		&c.RevocationHash,
		&c.NextRevocationHash,
		&c.CommitKey,
		&c.FinalKey,
		&anch,
		&c.MinDepth,
		&c.InitialFeeRate,
	); err != nil {
		return err
	}
	c.Anch = AnchorOffer(anch)
	return nil
}
