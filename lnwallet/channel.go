package lnwallet

import (
	"bytes"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"

	"github.com/lnpayflow/corenode/lnwire"
)

// PaymentHash is the 32-byte SHA-256 hash securing an HTLC.
type PaymentHash [32]byte

// HTLC is a single in-flight Hash Time-Locked Contract.
type HTLC struct {
	Msatoshis lnwire.MilliSatoshi
	RHash     PaymentHash
	Expiry    uint32
}

// ChannelBalances holds one side's view of the channel's funds: pay_msat
// (funds owned outright), fee_msat (reserved for the next on-chain commit
// fee), and any pending HTLCs. At most one HTLC proposal is in flight
// per peer session at a time, but every committed HTLC is appended here
// and nothing in this core removes one, so HTLCs grows by one element per
// committed round.
type ChannelBalances struct {
	PayMsat lnwire.MilliSatoshi
	FeeMsat lnwire.MilliSatoshi
	HTLCs   []HTLC
}

// Total returns the sum of this side's funds: pay + fee + Σ htlc.msat.
func (b ChannelBalances) Total() lnwire.MilliSatoshi {
	total := b.PayMsat + b.FeeMsat
	for _, h := range b.HTLCs {
		total += h.Msatoshis
	}
	return total
}

// CheckConservation verifies that the sum over both sides of pay + fee
// + Σ htlc.msat equals the channel's total funding in millisatoshi
// (anchor amount in satoshis * 1000).
func CheckConservation(a, b ChannelBalances, anchorSatoshis uint64) bool {
	return uint64(a.Total()+b.Total()) == anchorSatoshis*1000
}

// AnchorDescriptor records the on-chain 2-of-2 output funding the
// channel: its txid, output index, satoshi amount, and redeem script.
type AnchorDescriptor struct {
	Txid         chainhash.Hash
	OutputIndex  uint32
	Amount       uint64
	RedeemScript []byte
}

// NewAnchorDescriptor assembles the 2-of-2 redeem script from both
// sides' commit keys and records the funding output's on-chain location
// and value.
func NewAnchorDescriptor(txid chainhash.Hash, outputIndex uint32, amountSat uint64, ourCommitKey, theirCommitKey []byte) (*AnchorDescriptor, error) {
	redeemScript, err := genMultiSigScript(ourCommitKey, theirCommitKey)
	if err != nil {
		return nil, err
	}

	return &AnchorDescriptor{
		Txid:         txid,
		OutputIndex:  outputIndex,
		Amount:       amountSat,
		RedeemScript: redeemScript,
	}, nil
}

// BuildTxOut derives the on-chain p2wsh output this descriptor's
// RedeemScript pays to, at the descriptor's recorded Amount, from the
// same pair of commit keys used to build RedeemScript in the first
// place. Both sides can call this once the anchor amount is known and
// cross-check the result against whatever anchor transaction actually
// gets broadcast; it also catches a stale RedeemScript built against a
// different key pair.
func (d *AnchorDescriptor) BuildTxOut(ourCommitKey, theirCommitKey []byte) (*wire.TxOut, error) {
	redeemScript, txOut, err := genFundingPkScript(ourCommitKey, theirCommitKey, int64(d.Amount))
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(redeemScript, d.RedeemScript) {
		return nil, fmt.Errorf("anchor redeem script mismatch")
	}
	return txOut, nil
}
