package peer

import (
	"fmt"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/stretchr/testify/require"

	"github.com/lnpayflow/corenode/elkrem"
	"github.com/lnpayflow/corenode/lnwallet"
	"github.com/lnpayflow/corenode/lnwire"
)

func testConfig() *Config {
	return &Config{
		RelLocktimeMax:    7200,
		AnchorConfirmsMax: 10,
		CommitmentFeeMin:  0,
	}
}

// preimageChain builds a deterministic, seed-keyed PreimageSource
// standing in for a real shachain: preimage(n) = SHA256(seed || n).
func preimageChain(seed string) PreimageSource {
	return func(index uint64) (chainhash.Hash, error) {
		return chainhash.HashH([]byte(fmt.Sprintf("%s-%d", seed, index))), nil
	}
}

func newTestSession(t *testing.T, isFunder bool, seed string) *Session {
	t.Helper()
	commitPriv, err := btcec.NewPrivateKey()
	require.NoError(t, err)
	finalPriv, err := btcec.NewPrivateKey()
	require.NoError(t, err)

	return NewSession(
		testConfig(), isFunder, commitPriv, finalPriv, preimageChain(seed),
		lnwallet.SECP256K1Signer{}, lnwallet.DefaultCommitBuilder{},
	)
}

// openChannel drives both sessions through the opening sub-protocol
// with the given anchor amount and commit fee, leaving both in
// StateNormal.
func openChannel(t *testing.T, a, b *Session, anchorSat, commitFee uint64) {
	t.Helper()

	openA, err := a.MakeOpen(3600, 3, commitFee, true)
	require.NoError(t, err)
	openB, err := b.MakeOpen(3600, 3, commitFee, false)
	require.NoError(t, err)

	require.NoError(t, a.AcceptOpen(openB))
	require.NoError(t, b.AcceptOpen(openA))

	txid := chainhash.HashH([]byte("anchor tx"))
	anchorMsg, commitSig, err := a.MakeOpenAnchor(txid, 0, anchorSat)
	require.NoError(t, err)

	replySig, err := b.AcceptOpenAnchor(anchorMsg, commitSig)
	require.NoError(t, err)

	require.NoError(t, a.AcceptOpenCommitSig(replySig))

	require.NoError(t, a.AcceptOpenComplete(&lnwire.OpenComplete{}))
	require.NoError(t, b.AcceptOpenComplete(&lnwire.OpenComplete{}))

	require.Equal(t, StateNormal, a.State)
	require.Equal(t, StateNormal, b.State)
}

// TestChannelOpen covers a funder and non-funder completing the
// opening sub-protocol and landing on matching, conservation-respecting
// balances.
func TestChannelOpen(t *testing.T) {
	a := newTestSession(t, true, "a-seed")
	b := newTestSession(t, false, "b-seed")

	openChannel(t, a, b, 1_000_000, 5000)

	require.Equal(t, lnwire.MilliSatoshi(995_000_000), b.BalanceThem.PayMsat)
	require.Equal(t, lnwire.MilliSatoshi(2_500_000), b.BalanceThem.FeeMsat)
	require.Equal(t, lnwire.MilliSatoshi(0), b.BalanceUs.PayMsat)
	require.Equal(t, lnwire.MilliSatoshi(2_500_000), b.BalanceUs.FeeMsat)

	require.True(t, lnwallet.CheckConservation(b.BalanceUs, b.BalanceThem, 1_000_000))
	require.True(t, lnwallet.CheckConservation(a.BalanceUs, a.BalanceThem, 1_000_000))
}

// TestHtlcAddRoundTrip has A propose a 400_000 msat HTLC to B, drives
// the full accept/signature/complete round trip to commit, and checks
// both sides land on the expected balances with num_htlcs advanced.
func TestHtlcAddRoundTrip(t *testing.T) {
	a := newTestSession(t, true, "a-seed")
	b := newTestSession(t, false, "b-seed")
	openChannel(t, a, b, 1000, 0)

	require.Equal(t, lnwire.MilliSatoshi(1_000_000), a.BalanceUs.PayMsat)
	require.Equal(t, lnwire.MilliSatoshi(0), a.BalanceThem.PayMsat)

	rhash := chainhash.HashH([]byte("payment secret"))
	addMsg, err := a.MakeUpdateAddHtlc(400_000, rhash, lnwire.NewLocktimeBlocks(500_000), nil)
	require.NoError(t, err)
	require.Equal(t, StateHtlcProposed, a.State)

	acceptMsg, failMsg, err := b.AcceptUpdateAddHtlc(addMsg)
	require.NoError(t, err)
	require.Nil(t, failMsg)
	require.NotNil(t, acceptMsg)
	require.Equal(t, StateHtlcAccepted, b.State)

	sigMsg, err := a.AcceptUpdateAccept(acceptMsg)
	require.NoError(t, err)
	require.Equal(t, StateNormal, a.State)

	completeMsg, err := b.AcceptUpdateSignature(sigMsg)
	require.NoError(t, err)
	require.Equal(t, StateNormal, b.State)

	require.NoError(t, a.AcceptUpdateComplete(completeMsg))

	require.Equal(t, uint64(1), a.NumHtlcs)
	require.Equal(t, uint64(1), b.NumHtlcs)

	require.Equal(t, lnwire.MilliSatoshi(600_000), a.BalanceUs.PayMsat)
	require.Len(t, a.BalanceUs.HTLCs, 1)
	require.Equal(t, lnwire.MilliSatoshi(400_000), a.BalanceUs.HTLCs[0].Msatoshis)

	require.Equal(t, lnwire.MilliSatoshi(600_000), b.BalanceThem.PayMsat)
	require.Len(t, b.BalanceThem.HTLCs, 1)

	require.True(t, lnwallet.CheckConservation(a.BalanceUs, a.BalanceThem, 1000))
	require.True(t, lnwallet.CheckConservation(b.BalanceUs, b.BalanceThem, 1000))
}

// TestHtlcAddUnderfunded checks that an HTLC exceeding the sender's
// balance is rejected with the exact "Cannot afford" reason by default,
// terminating the proposal without touching the receiver's channel
// state.
func TestHtlcAddUnderfunded(t *testing.T) {
	a := newTestSession(t, true, "a-seed")
	b := newTestSession(t, false, "b-seed")
	openChannel(t, a, b, 1000, 0)

	rhash := chainhash.HashH([]byte("payment secret"))
	oversized := &lnwire.UpdateAddHtlc{
		ID:         b.NumHtlcs,
		AmountMsat: 2_000_000,
		RHash:      rhash,
		Expiry:     lnwire.NewLocktimeBlocks(500_000),
	}

	accept, fail, err := b.AcceptUpdateAddHtlc(oversized)
	require.EqualError(t, err, "Cannot afford 2000000 milli-satoshis")
	require.Nil(t, accept)
	require.Nil(t, fail)

	require.Equal(t, StateNormal, b.State)
	require.Nil(t, b.current)
	require.Equal(t, uint64(0), b.NumHtlcs)
}

// TestHtlcAddUnderfundedDeclined checks that with
// DeclineInsteadOfTerminate set, the same oversized HTLC instead comes
// back as a non-nil UpdateFailHtlc with a nil error, and the session
// stays in StateNormal ready for another proposal.
func TestHtlcAddUnderfundedDeclined(t *testing.T) {
	a := newTestSession(t, true, "a-seed")
	b := newTestSession(t, false, "b-seed")
	b.Config.DeclineInsteadOfTerminate = true
	openChannel(t, a, b, 1000, 0)

	rhash := chainhash.HashH([]byte("payment secret"))
	oversized := &lnwire.UpdateAddHtlc{
		ID:         b.NumHtlcs,
		AmountMsat: 2_000_000,
		RHash:      rhash,
		Expiry:     lnwire.NewLocktimeBlocks(500_000),
	}

	accept, fail, err := b.AcceptUpdateAddHtlc(oversized)
	require.NoError(t, err)
	require.Nil(t, accept)
	require.NotNil(t, fail)
	require.Equal(t, oversized.ID, fail.ID)
	require.Equal(t, "Cannot afford 2000000 milli-satoshis", string(fail.Reason))

	require.Equal(t, StateNormal, b.State)
	require.Nil(t, b.current)
	require.Equal(t, uint64(0), b.NumHtlcs)
}

// TestUnexpectedPacketIsFatal verifies that a packet delivered outside
// its legal state machine position terminates the session with a
// FatalError rather than a peer-reportable one.
func TestUnexpectedPacketIsFatal(t *testing.T) {
	a := newTestSession(t, true, "a-seed")

	_, err := a.MakeUpdateAddHtlc(100, chainhash.Hash{}, lnwire.NewLocktimeBlocks(10), nil)
	require.Error(t, err)

	var fatal *FatalError
	require.ErrorAs(t, err, &fatal)
}

// TestRevocationChainConsistency checks, in the protocol engine's own
// context, that every revocation_hash recorded over the course of a
// session is the SHA256 of the preimage the same session's secret
// source produces at that index.
func TestRevocationChainConsistency(t *testing.T) {
	s := newTestSession(t, true, "consistency-seed")

	for n := uint64(0); n < 5; n++ {
		hash, err := s.revocationHashAt(n)
		require.NoError(t, err)

		preimage, err := s.preimages(n)
		require.NoError(t, err)

		require.Equal(t, chainhash.HashH(preimage[:]), hash)
	}
}

// TestElkremPreimageSource verifies that a Session backed by a real
// elkrem-derived PreimageSource (rather than the test seed-keyed stub)
// still satisfies the revocation chain invariant end to end.
func TestElkremPreimageSource(t *testing.T) {
	commitPriv, err := btcec.NewPrivateKey()
	require.NoError(t, err)
	finalPriv, err := btcec.NewPrivateKey()
	require.NoError(t, err)

	root := chainhash.HashH([]byte("channel seed"))
	source := ElkremPreimageSource(elkrem.NewElkremSender(root))

	s := NewSession(
		testConfig(), true, commitPriv, finalPriv, source,
		lnwallet.SECP256K1Signer{}, lnwallet.DefaultCommitBuilder{},
	)

	hash0, err := s.revocationHashAt(0)
	require.NoError(t, err)
	hash1, err := s.revocationHashAt(1)
	require.NoError(t, err)
	require.NotEqual(t, hash0, hash1)

	preimage0, err := s.preimages(0)
	require.NoError(t, err)
	require.Equal(t, chainhash.HashH(preimage0[:]), hash0)
}
