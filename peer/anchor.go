package peer

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"

	"github.com/lnpayflow/corenode/lnwallet"
	"github.com/lnpayflow/corenode/lnwire"
)

// MakeOpenAnchor is called by the funder once the open handshake has
// been accepted: it computes the initial channel balances, builds both
// unsigned commitment transactions, signs the counterparty's copy, and
// returns the OpenAnchor/OpenCommitSig pair to send.
//
// OpenAnchor itself carries only txid, output_index, amount; the
// funder's signature over the counterparty's initial commitment
// travels separately in the immediately-following OpenCommitSig,
// rather than overloading OpenAnchor with an unrelated field.
func (s *Session) MakeOpenAnchor(txid chainhash.Hash, outputIndex uint32, amountSat uint64) (*lnwire.OpenAnchor, *lnwire.OpenCommitSig, error) {
	if s.State != StateOpenWaitAnchor || !s.IsFunder {
		return nil, nil, errUnexpectedPacket(s.State, "open_anchor")
	}

	s.Anchor.Txid = txid
	s.Anchor.OutputIndex = outputIndex
	s.Anchor.Amount = amountSat

	if _, err := s.Anchor.BuildTxOut(s.Us.CommitKey.SerializeCompressed(), s.Them.CommitKey.SerializeCompressed()); err != nil {
		return nil, nil, newFatalError("build anchor output: %v", err)
	}

	if err := s.buildInitialBalances(); err != nil {
		return nil, nil, err
	}
	if err := s.buildInitialCommitments(); err != nil {
		return nil, nil, err
	}

	sig, err := s.Signer.SignCommitment(
		s.CommitThem, 0, int64(s.Anchor.Amount), s.Anchor.RedeemScript, s.CommitPrivKey,
	)
	if err != nil {
		return nil, nil, newFatalError("sign commitment: %v", err)
	}

	s.State = StateOpenWaitSig

	anchorMsg := &lnwire.OpenAnchor{
		Txid:        txid,
		OutputIndex: outputIndex,
		Amount:      amountSat,
	}
	return anchorMsg, &lnwire.OpenCommitSig{Sig: sig}, nil
}

// AcceptOpenAnchor processes the funder's OpenAnchor/OpenCommitSig pair
// on the non-funder's side: records the anchor, builds the initial
// balances and commitment pair, verifies the supplied signature, and
// replies with our own signature over the funder's commitment.
func (s *Session) AcceptOpenAnchor(anchorMsg *lnwire.OpenAnchor, sigMsg *lnwire.OpenCommitSig) (*lnwire.OpenCommitSig, error) {
	if s.State != StateOpenWaitAnchor || s.IsFunder {
		return nil, errUnexpectedPacket(s.State, "open_anchor")
	}

	s.Anchor.Txid = anchorMsg.Txid
	s.Anchor.OutputIndex = anchorMsg.OutputIndex
	s.Anchor.Amount = anchorMsg.Amount

	if _, err := s.Anchor.BuildTxOut(s.Us.CommitKey.SerializeCompressed(), s.Them.CommitKey.SerializeCompressed()); err != nil {
		return nil, newFatalError("build anchor output: %v", err)
	}

	if err := s.buildInitialBalances(); err != nil {
		return nil, err
	}
	if err := s.buildInitialCommitments(); err != nil {
		return nil, err
	}

	ok := s.Signer.VerifyCommitment(
		s.CommitUs, 0, int64(s.Anchor.Amount), s.Anchor.RedeemScript, s.Them.CommitKey, sigMsg.Sig,
	)
	if !ok {
		return nil, newProtocolError("Bad signature")
	}

	ourSig, err := s.Signer.SignCommitment(
		s.CommitThem, 0, int64(s.Anchor.Amount), s.Anchor.RedeemScript, s.CommitPrivKey,
	)
	if err != nil {
		return nil, newFatalError("sign commitment: %v", err)
	}

	s.State = StateOpenWaitComplete
	return &lnwire.OpenCommitSig{Sig: ourSig}, nil
}

// AcceptOpenCommitSig processes the non-funder's reply on the funder's
// side: verifies their signature over our commitment.
func (s *Session) AcceptOpenCommitSig(msg *lnwire.OpenCommitSig) error {
	if s.State != StateOpenWaitSig || !s.IsFunder {
		return errUnexpectedPacket(s.State, "open_commit_sig")
	}

	ok := s.Signer.VerifyCommitment(
		s.CommitUs, 0, int64(s.Anchor.Amount), s.Anchor.RedeemScript, s.Them.CommitKey, msg.Sig,
	)
	if !ok {
		return newProtocolError("Bad signature")
	}

	s.State = StateOpenWaitComplete
	return nil
}

// AcceptOpenComplete processes the anchor-confirmation notification,
// supplied by an external confirmation observer once the anchor output
// has buried to min_depth confirmations.
func (s *Session) AcceptOpenComplete(*lnwire.OpenComplete) error {
	if s.State != StateOpenWaitComplete {
		return errUnexpectedPacket(s.State, "open_complete")
	}
	s.State = StateNormal
	return nil
}

// buildInitialBalances constructs the initial channel balances: the
// anchor amount is credited to the funder, then the full commitment
// fee reserve is carved out of the funder's share and split in half
// between both sides (the funder pays for opening the channel; see
// DESIGN.md for why this diverges from a literal halving of the
// anchor amount itself). The non-funder's view is inverted so that
// "us" always denotes the local side.
func (s *Session) buildInitialBalances() error {
	commitFee := CommitFee(s.Us.CommitFee, s.Them.CommitFee)
	halfFee := commitFee / 2

	funderPay := lnwire.MilliSatoshi(s.Anchor.Amount*1000 - commitFee*1000)
	funderBalance := lnwallet.ChannelBalances{PayMsat: funderPay, FeeMsat: lnwire.MilliSatoshi(halfFee * 1000)}
	nonFunderBalance := lnwallet.ChannelBalances{PayMsat: 0, FeeMsat: lnwire.MilliSatoshi(halfFee * 1000)}

	if s.IsFunder {
		s.BalanceUs = funderBalance
		s.BalanceThem = nonFunderBalance
	} else {
		s.BalanceUs = nonFunderBalance
		s.BalanceThem = funderBalance
	}
	return nil
}

// buildInitialCommitments builds both unsigned commitment transactions
// from the current balances and anchor, via buildCommitmentPair.
func (s *Session) buildInitialCommitments() error {
	commitUs, commitThem, err := s.buildCommitmentPair(s.BalanceUs, s.BalanceThem)
	if err != nil {
		return err
	}
	s.CommitUs = commitUs
	s.CommitThem = commitThem
	return nil
}

// buildCommitmentPair builds both unsigned commitment transactions from
// a given pair of balances, the anchor, both commit keys, and both
// locktimes. The revocation hashes do not enter either transaction; each
// side's revocation key is the counterparty's commit key. It
// is shared by the opening sub-protocol (over the committed balances)
// and the HTLC update sub-protocol (over tentative balances, before
// the atomic commit).
func (s *Session) buildCommitmentPair(balUs, balThem lnwallet.ChannelBalances) (*wire.MsgTx, *wire.MsgTx, error) {
	paramsUs := lnwallet.CommitmentParams{
		Anchor:         *s.Anchor,
		OwnerBalance:   balUs,
		CounterBalance: balThem,
		OwnerKey:       s.Us.CommitKey,
		CounterKey:     s.Them.CommitKey,
		RevocationKey:  s.Them.CommitKey,
		CSVDelay:       s.Us.Locktime,
	}
	commitUs, err := s.Builder.BuildCommitment(paramsUs)
	if err != nil {
		return nil, nil, newFatalError("build commitment: %v", err)
	}

	paramsThem := lnwallet.CommitmentParams{
		Anchor:         *s.Anchor,
		OwnerBalance:   balThem,
		CounterBalance: balUs,
		OwnerKey:       s.Them.CommitKey,
		CounterKey:     s.Us.CommitKey,
		RevocationKey:  s.Us.CommitKey,
		CSVDelay:       s.Them.Locktime,
	}
	commitThem, err := s.Builder.BuildCommitment(paramsThem)
	if err != nil {
		return nil, nil, newFatalError("build commitment: %v", err)
	}

	return commitUs, commitThem, nil
}
