package lnwallet

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"

	"github.com/lnpayflow/corenode/lnwire"
)

// Signer is the opaque signing and verification capability the protocol
// engine relies on: it treats ECDSA signing as an external collaborator
// and never manipulates private key material directly.
type Signer interface {
	Verifier
	SignCommitment(tx *wire.MsgTx, inputIndex int, amount int64, redeemScript []byte, key *btcec.PrivateKey) (lnwire.Signature, error)
}

// Verifier is the opaque verification capability: `verify(tx,
// redeemscript, key, sig) -> bool`.
type Verifier interface {
	VerifyCommitment(tx *wire.MsgTx, inputIndex int, amount int64, redeemScript []byte, key *btcec.PublicKey, sig lnwire.Signature) bool
}

// CommitBuilder is the opaque `build_commitment(params) -> tx` capability:
// given one owner's balances, the anchor, and the keys in params, it
// assembles that owner's commitment transaction. Callers build the
// other party's transaction with a second call.
type CommitBuilder interface {
	BuildCommitment(params CommitmentParams) (*wire.MsgTx, error)
}

// CommitmentParams carries everything a CommitBuilder needs to
// construct one party's commitment transaction: the anchor, both
// balances, the owner, counterparty and revocation keys, and the CSV
// delay. No revocation hash is part of the parameters, so the built
// transaction does not commit to one.
//
// RevocationKey is the key guarding the early-spend ("this commitment
// was revoked") branch of the owner's to-self output. The revocation
// chain here is hash-based, backed by an elkrem-style preimage source,
// rather than the elliptic-curve per-commitment-point scheme that
// would let this key be derived homomorphically from a revealed
// preimage; this core instead locks that branch to the counterparty's
// own commit key, which is sufficient to express the "revoked
// commitments are penalizable" shape on-chain without a point-based
// revocation scheme.
type CommitmentParams struct {
	Anchor           AnchorDescriptor
	OwnerBalance     ChannelBalances
	CounterBalance   ChannelBalances
	OwnerKey         *btcec.PublicKey
	CounterKey       *btcec.PublicKey
	RevocationKey    *btcec.PublicKey
	CSVDelay         uint32
}

// SECP256K1Signer is a concrete, in-process implementation of Signer and
// Verifier built directly on btcec/ecdsa, sufficient to exercise the
// protocol engine's signature-validated transitions end to end without a
// remote wallet process.
type SECP256K1Signer struct{}

func (SECP256K1Signer) SignCommitment(tx *wire.MsgTx, inputIndex int, amount int64, redeemScript []byte, key *btcec.PrivateKey) (lnwire.Signature, error) {
	sigHash, err := witnessSigHash(tx, inputIndex, amount, redeemScript)
	if err != nil {
		return lnwire.Signature{}, err
	}

	sig := ecdsa.Sign(key, sigHash)
	return lnwire.NewSignatureFromDER(sig.Serialize())
}

func (SECP256K1Signer) VerifyCommitment(tx *wire.MsgTx, inputIndex int, amount int64, redeemScript []byte, key *btcec.PublicKey, sig lnwire.Signature) bool {
	sigHash, err := witnessSigHash(tx, inputIndex, amount, redeemScript)
	if err != nil {
		return false
	}

	parsedSig, err := ecdsa.ParseDERSignature(sig.ToDER())
	if err != nil {
		return false
	}
	return parsedSig.Verify(sigHash, key)
}

// witnessSigHash computes the BIP-143 witness program sighash for the
// single input spending the anchor output. The commitment tx always has
// exactly one input (the anchor), so a canned previous-output fetcher
// carrying just that output's script and value is sufficient.
func witnessSigHash(tx *wire.MsgTx, inputIndex int, amount int64, redeemScript []byte) ([]byte, error) {
	pkScript, err := witnessScriptHash(redeemScript)
	if err != nil {
		return nil, err
	}

	prevOutFetcher := txscript.NewCannedPrevOutputFetcher(pkScript, amount)
	sigHashes := txscript.NewTxSigHashes(tx, prevOutFetcher)
	return txscript.CalcWitnessSigHash(
		redeemScript, sigHashes, txscript.SigHashAll, tx, inputIndex, amount,
	)
}
