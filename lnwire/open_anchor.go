package lnwire

import (
	"io"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// OpenAnchor announces the on-chain funding output the anchor funder has
// broadcast: its txid, output index, and satoshi amount. The
// accompanying signature over the counterparty's initial commitment tx
// travels separately, in OpenCommitSig, immediately following.
type OpenAnchor struct {
	Txid        chainhash.Hash
	OutputIndex uint32
	Amount      uint64
}

func (a *OpenAnchor) MsgType() MessageType { return MsgOpenAnchor }

func (a *OpenAnchor) MaxPayloadLength() uint32 { return 64 }

func (a *OpenAnchor) Encode(w io.Writer) error {
	return writeElements(w, a.Txid, a.OutputIndex, a.Amount)
}

func (a *OpenAnchor) Decode(r io.Reader) error {
	return readElements(r, &a.Txid, &a.OutputIndex, &a.Amount)
}
