// Package peer drives the bilateral channel protocol state machine: the
// open handshake, HTLC updates, and the revocation hand-off between two
// peers, one Session per counterparty.
package peer

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"

	"github.com/lnpayflow/corenode/elkrem"
	"github.com/lnpayflow/corenode/lnwallet"
	"github.com/lnpayflow/corenode/lnwire"
)

// State is the peer session's current position in the channel
// protocol's state machine.
type State uint8

const (
	StateInit State = iota
	StateOpenWaitAnchor
	StateOpenWaitSig
	StateOpenWaitComplete
	StateNormal
	StateHtlcProposed
	StateHtlcAccepted
	StateClosing
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateOpenWaitAnchor:
		return "open_wait_anchor"
	case StateOpenWaitSig:
		return "open_wait_sig"
	case StateOpenWaitComplete:
		return "open_wait_complete"
	case StateNormal:
		return "normal"
	case StateHtlcProposed:
		return "htlc_proposed"
	case StateHtlcAccepted:
		return "htlc_accepted"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// ChannelParams is one side's static half of the channel parameters:
// commit key, final key, locktime, min depth, commit fee, and current
// revocation hash.
type ChannelParams struct {
	CommitKey      *btcec.PublicKey
	FinalKey       *btcec.PublicKey
	Locktime       uint32
	MinDepth       uint32
	CommitFee      uint64
	RevocationHash chainhash.Hash
}

// PreimageSource is the opaque per-commitment secret derivation
// capability: it returns the preimage at index n, with
// SHA256(preimage(n)) == revocation_hash(n).
type PreimageSource func(index uint64) (chainhash.Hash, error)

// ElkremPreimageSource adapts an elkrem sender, rooted at a single
// per-channel seed, into a PreimageSource.
func ElkremPreimageSource(sender *elkrem.ElkremSender) PreimageSource {
	return func(index uint64) (chainhash.Hash, error) {
		preimage, err := sender.AtIndex(index)
		if err != nil {
			return chainhash.Hash{}, err
		}
		return *preimage, nil
	}
}

// pendingProposal buffers an in-flight HTLC update: the tentative
// balances, both new commitment transactions, and the next revocation
// hashes, none of which are committed until the atomic commit
// succeeds.
type pendingProposal struct {
	weAreProposer bool
	htlc          lnwallet.HTLC

	tentativeUs   lnwallet.ChannelBalances
	tentativeThem lnwallet.ChannelBalances

	ourNextRevocationHash   chainhash.Hash
	theirNextRevocationHash chainhash.Hash

	commitUs   *wire.MsgTx
	commitThem *wire.MsgTx

	theirCommitSig lnwire.Signature
}

// Session is a peer relationship's channel protocol engine: static
// parameters for both sides, the current channel balances, the anchor
// descriptor, the current commitment transactions, and at most one
// in-flight HTLC proposal.
type Session struct {
	Config *Config

	State State

	// IsFunder is true when this node is the side that broadcasts the
	// on-chain 2-of-2 anchor output.
	IsFunder bool

	CommitPrivKey *btcec.PrivateKey
	FinalPrivKey  *btcec.PrivateKey

	Us   ChannelParams
	Them ChannelParams

	BalanceUs   lnwallet.ChannelBalances
	BalanceThem lnwallet.ChannelBalances

	Anchor *lnwallet.AnchorDescriptor

	CommitUs   *wire.MsgTx
	CommitThem *wire.MsgTx

	// NumHtlcs doubles as the index into the per-commitment secret
	// chain.
	NumHtlcs uint64

	current *pendingProposal

	// theirNextRevocationHash is the counterparty's next revocation
	// hash, known ahead of time: first learned from the open handshake's
	// next_revocation_hash field. Every atomic commit installs it as
	// Them.RevocationHash. Only the proposer's commit then replaces it,
	// with the hash the accepter sent in update_accept; the accepter's
	// commit leaves it unchanged. See peer/htlc.go's atomicCommit.
	theirNextRevocationHash chainhash.Hash

	// theirPreviousRevocationHash is the hash that guarded the
	// counterparty's just-superseded commitment, retained across our own
	// atomic commit so a later update_complete's revealed preimage (for
	// that same superseded commitment) can still be checked against it:
	// the proposer validates update_complete's preimage after already
	// having committed its own side in response to update_accept.
	theirPreviousRevocationHash chainhash.Hash

	Signer  lnwallet.Signer
	Builder lnwallet.CommitBuilder

	preimages PreimageSource
}

// NewSession constructs a fresh peer session in StateInit.
func NewSession(cfg *Config, isFunder bool, commitPriv, finalPriv *btcec.PrivateKey, preimages PreimageSource, signer lnwallet.Signer, builder lnwallet.CommitBuilder) *Session {
	return &Session{
		Config:        cfg,
		State:         StateInit,
		IsFunder:      isFunder,
		CommitPrivKey: commitPriv,
		FinalPrivKey:  finalPriv,
		Signer:        signer,
		Builder:       builder,
		preimages:     preimages,
	}
}

// revocationHashAt computes revocation_hash(n) = SHA256(preimage(n))
// via the opaque secret-derivation capability.
func (s *Session) revocationHashAt(n uint64) (chainhash.Hash, error) {
	preimage, err := s.preimages(n)
	if err != nil {
		return chainhash.Hash{}, err
	}
	return chainhash.HashH(preimage[:]), nil
}

// MakeOpen builds our outbound OpenChannel packet.
func (s *Session) MakeOpen(locktimeSeconds, minDepth uint32, commitFee uint64, willOfferAnchor bool) (*lnwire.OpenChannel, error) {
	revHash, err := s.revocationHashAt(0)
	if err != nil {
		return nil, err
	}
	nextRevHash, err := s.revocationHashAt(1)
	if err != nil {
		return nil, err
	}

	anch := lnwire.AnchorWont
	if willOfferAnchor {
		anch = lnwire.AnchorWill
	}

	s.Us = ChannelParams{
		CommitKey: s.CommitPrivKey.PubKey(),
		FinalKey:  s.FinalPrivKey.PubKey(),
		Locktime:  locktimeSeconds,
		MinDepth:  minDepth,
		CommitFee: commitFee,
	}

	return &lnwire.OpenChannel{
		Delay:              lnwire.NewLocktimeSeconds(locktimeSeconds),
		RevocationHash:     revHash,
		NextRevocationHash: nextRevHash,
		CommitKey:          s.Us.CommitKey,
		FinalKey:           s.Us.FinalKey,
		Anch:               anch,
		MinDepth:           minDepth,
		InitialFeeRate:     commitFee,
	}, nil
}

// AcceptOpen validates an inbound OpenChannel packet and, on success,
// records the counterparty's static channel parameters.
func (s *Session) AcceptOpen(msg *lnwire.OpenChannel) error {
	if s.State != StateInit {
		return errUnexpectedPacket(s.State, "open")
	}

	if msg.Delay.Kind != lnwire.LocktimeSeconds {
		return newProtocolError("Delay in blocks not accepted")
	}
	if msg.Delay.Value > s.Config.RelLocktimeMax {
		return newProtocolError("locktime %d exceeds configured maximum %d", msg.Delay.Value, s.Config.RelLocktimeMax)
	}
	if msg.MinDepth > s.Config.AnchorConfirmsMax {
		return newProtocolError("min_depth %d exceeds configured maximum %d", msg.MinDepth, s.Config.AnchorConfirmsMax)
	}
	if msg.InitialFeeRate < s.Config.CommitmentFeeMin {
		return newProtocolError("commitment fee %d below configured minimum %d", msg.InitialFeeRate, s.Config.CommitmentFeeMin)
	}

	theyOfferAnchor := msg.Anch == lnwire.AnchorWill
	if theyOfferAnchor == s.IsFunder {
		return newProtocolError("both sides claim to offer the anchor, or neither does")
	}

	if msg.CommitKey == nil || msg.FinalKey == nil {
		return newProtocolError("malformed keys")
	}

	s.Them = ChannelParams{
		CommitKey:      msg.CommitKey,
		FinalKey:       msg.FinalKey,
		Locktime:       msg.Delay.Value,
		MinDepth:       msg.MinDepth,
		CommitFee:      msg.InitialFeeRate,
		RevocationHash: msg.RevocationHash,
	}
	s.theirNextRevocationHash = msg.NextRevocationHash

	anchor, err := lnwallet.NewAnchorDescriptor(
		chainhash.Hash{}, 0, 0,
		s.Us.CommitKey.SerializeCompressed(), s.Them.CommitKey.SerializeCompressed(),
	)
	if err != nil {
		return newProtocolError("malformed keys")
	}
	s.Anchor = anchor

	s.State = StateOpenWaitAnchor
	return nil
}
