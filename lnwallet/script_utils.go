package lnwallet

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"math/big"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
)

// witnessScriptHash generates a pay-to-witness-script-hash public key
// script paying to a version 0 witness program paying to the passed
// redeem script.
func witnessScriptHash(redeemScript []byte) ([]byte, error) {
	bldr := txscript.NewScriptBuilder()

	bldr.AddOp(txscript.OP_0)
	scriptHash := sha256.Sum256(redeemScript)
	bldr.AddData(scriptHash[:])
	return bldr.Script()
}

// genMultiSigScript generates the non-p2sh'd multisig script for the
// 2-of-2 anchor output, assembled from both sides' commit keys.
func genMultiSigScript(aPub, bPub []byte) ([]byte, error) {
	if len(aPub) != 33 || len(bPub) != 33 {
		return nil, fmt.Errorf("pubkey size error, compressed pubkeys only")
	}

	// Keys are sorted lexicographically so both sides build an
	// identical script regardless of call order.
	if bytes.Compare(aPub, bPub) == -1 {
		aPub, bPub = bPub, aPub
	}

	bldr := txscript.NewScriptBuilder()
	bldr.AddOp(txscript.OP_2)
	bldr.AddData(aPub)
	bldr.AddData(bPub)
	bldr.AddOp(txscript.OP_2)
	bldr.AddOp(txscript.OP_CHECKMULTISIG)
	return bldr.Script()
}

// genFundingPkScript creates the 2-of-2 redeem script and its matching
// p2wsh output for the anchor transaction.
func genFundingPkScript(aPub, bPub []byte, amt int64) ([]byte, *wire.TxOut, error) {
	if amt <= 0 {
		return nil, nil, fmt.Errorf("cannot create anchor output with zero or negative amount")
	}

	redeemScript, err := genMultiSigScript(aPub, bPub)
	if err != nil {
		return nil, nil, err
	}

	pkScript, err := witnessScriptHash(redeemScript)
	if err != nil {
		return nil, nil, err
	}

	return redeemScript, wire.NewTxOut(amt, pkScript), nil
}

// commitScriptToSelf constructs the output script paying to the owner of
// a commitment transaction. It is spendable either by the counterparty
// presenting a signature under the revocation key (if this commitment
// was ever revoked and then broadcast), or by the owner after a relative
// CSV delay.
func commitScriptToSelf(csvTimeout uint32, selfKey, revokeKey *btcec.PublicKey) ([]byte, error) {
	builder := txscript.NewScriptBuilder()

	builder.AddOp(txscript.OP_IF)
	builder.AddData(revokeKey.SerializeCompressed())
	builder.AddOp(txscript.OP_CHECKSIG)
	builder.AddOp(txscript.OP_ELSE)
	builder.AddData(selfKey.SerializeCompressed())
	builder.AddOp(txscript.OP_CHECKSIGVERIFY)
	builder.AddInt64(int64(csvTimeout))
	builder.AddOp(txscript.OP_CHECKSEQUENCEVERIFY)
	builder.AddOp(txscript.OP_ENDIF)

	return builder.Script()
}

// commitScriptUnencumbered constructs the public key script on the
// commitment transaction paying to the counterparty's output: a plain
// p2wkh output, spendable immediately with no contestation period.
func commitScriptUnencumbered(key *btcec.PublicKey) ([]byte, error) {
	builder := txscript.NewScriptBuilder()
	builder.AddOp(txscript.OP_0)
	builder.AddData(btcutil.Hash160(key.SerializeCompressed()))

	return builder.Script()
}

// deriveRevocationPubkey derives the revocation public key given the
// counterparty's commitment key and the revocation preimage, via the
// elliptic-curve group homomorphism: revokeKey = commitKey + G*preimage.
// Once the preimage is divulged, the counterparty can derive the
// matching private key the same way, and so spend the revoked output.
func deriveRevocationPubkey(commitPubKey *btcec.PublicKey, revokePreimage []byte) *btcec.PublicKey {
	curve := btcec.S256()
	commitECDSA := commitPubKey.ToECDSA()

	revokePointX, revokePointY := curve.ScalarBaseMult(revokePreimage)
	revokeX, revokeY := curve.Add(
		commitECDSA.X, commitECDSA.Y, revokePointX, revokePointY,
	)

	return parseCurvePoint(revokeX, revokeY)
}

// deriveRevocationPrivKey derives the revocation private key given a
// node's commitment private key and the preimage to a previously seen
// revocation hash: revokePriv = commitPriv + preimage mod N.
func deriveRevocationPrivKey(commitPrivKey *btcec.PrivateKey, revokePreimage []byte) *btcec.PrivateKey {
	curve := btcec.S256()

	revokeScalar := new(big.Int).SetBytes(revokePreimage)
	commitScalar := new(big.Int).SetBytes(commitPrivKey.Serialize())

	revokePriv := new(big.Int).Add(revokeScalar, commitScalar)
	revokePriv.Mod(revokePriv, curve.N)

	var privBuf [32]byte
	revokePriv.FillBytes(privBuf[:])
	priv, _ := btcec.PrivKeyFromBytes(privBuf[:])
	return priv
}

// parseCurvePoint re-serializes an (x, y) curve point in SEC1 compressed
// form and parses it back into a *btcec.PublicKey, since btcec/v2 does
// not expose a direct (x, y) -> PublicKey constructor.
func parseCurvePoint(x, y *big.Int) *btcec.PublicKey {
	var xBuf [32]byte
	x.FillBytes(xBuf[:])

	prefix := byte(0x02)
	if y.Bit(0) == 1 {
		prefix = 0x03
	}

	compressed := make([]byte, 33)
	compressed[0] = prefix
	copy(compressed[1:], xBuf[:])

	pub, err := btcec.ParsePubKey(compressed)
	if err != nil {
		return nil
	}
	return pub
}
