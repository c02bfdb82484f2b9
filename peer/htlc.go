package peer

import (
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/lnpayflow/corenode/lnwallet"
	"github.com/lnpayflow/corenode/lnwire"
)

// MakeUpdateAddHtlc proposes adding a new HTLC, paid out of our own
// balance, to the channel. At most one proposal may be in flight at a
// time.
func (s *Session) MakeUpdateAddHtlc(amountMsat lnwire.MilliSatoshi, rhash chainhash.Hash, expiry lnwire.Locktime, route []byte) (*lnwire.UpdateAddHtlc, error) {
	if s.State != StateNormal {
		return nil, errUnexpectedPacket(s.State, "update_add_htlc")
	}

	tentativeUs := s.BalanceUs
	if tentativeUs.PayMsat < amountMsat {
		return nil, newProtocolError("Cannot afford %d milli-satoshis", amountMsat)
	}
	tentativeUs.PayMsat -= amountMsat

	htlc := lnwallet.HTLC{
		Msatoshis: amountMsat,
		RHash:     lnwallet.PaymentHash(rhash),
		Expiry:    expiry.Value,
	}
	tentativeUs.HTLCs = appendHTLC(tentativeUs.HTLCs, htlc)

	s.current = &pendingProposal{
		weAreProposer: true,
		htlc:          htlc,
		tentativeUs:   tentativeUs,
		tentativeThem: s.BalanceThem,
	}
	s.State = StateHtlcProposed

	return &lnwire.UpdateAddHtlc{
		ID:         s.NumHtlcs,
		AmountMsat: amountMsat,
		RHash:      rhash,
		Expiry:     expiry,
		Route:      route,
	}, nil
}

// AcceptUpdateAddHtlc validates an inbound HTLC proposal, builds the
// tentative commitment pair, and buffers it as the in-flight proposal
// without yet touching committed state. If the sender can't afford the
// HTLC, the outcome depends on Config.DeclineInsteadOfTerminate: by
// default the session terminates with a peer-reportable error, but when
// set this returns an UpdateFailHtlc instead and the session stays in
// StateNormal, ready for another proposal. Exactly one of the returned
// *UpdateAccept, *UpdateFailHtlc is non-nil on a nil error.
func (s *Session) AcceptUpdateAddHtlc(msg *lnwire.UpdateAddHtlc) (*lnwire.UpdateAccept, *lnwire.UpdateFailHtlc, error) {
	if s.State != StateNormal {
		return nil, nil, errUnexpectedPacket(s.State, "update_add_htlc")
	}

	tentativeThem := s.BalanceThem
	if tentativeThem.PayMsat < msg.AmountMsat {
		reason := fmt.Sprintf("Cannot afford %d milli-satoshis", msg.AmountMsat)
		if s.Config.DeclineInsteadOfTerminate {
			return nil, &lnwire.UpdateFailHtlc{ID: msg.ID, Reason: []byte(reason)}, nil
		}
		return nil, nil, newProtocolError("%s", reason)
	}
	tentativeThem.PayMsat -= msg.AmountMsat

	htlc := lnwallet.HTLC{
		Msatoshis: msg.AmountMsat,
		RHash:     lnwallet.PaymentHash(msg.RHash),
		Expiry:    msg.Expiry.Value,
	}
	tentativeThem.HTLCs = appendHTLC(tentativeThem.HTLCs, htlc)

	ourNextRevHash, err := s.revocationHashAt(s.NumHtlcs + 1)
	if err != nil {
		return nil, nil, newFatalError("derive revocation hash: %v", err)
	}

	commitUs, commitThem, err := s.buildCommitmentPair(s.BalanceUs, tentativeThem)
	if err != nil {
		return nil, nil, err
	}

	sig, err := s.Signer.SignCommitment(
		commitThem, 0, int64(s.Anchor.Amount), s.Anchor.RedeemScript, s.CommitPrivKey,
	)
	if err != nil {
		return nil, nil, newFatalError("sign commitment: %v", err)
	}

	s.current = &pendingProposal{
		weAreProposer:         false,
		htlc:                  htlc,
		tentativeUs:           s.BalanceUs,
		tentativeThem:         tentativeThem,
		ourNextRevocationHash: ourNextRevHash,
		commitUs:              commitUs,
		commitThem:            commitThem,
	}
	s.State = StateHtlcAccepted

	return &lnwire.UpdateAccept{CommitSig: sig, NextRevocationHash: ourNextRevHash}, nil, nil
}

// AcceptUpdateAccept records the accepter's signature and next
// revocation hash, verifies the signature, performs the atomic commit,
// and replies with our own signature plus the preimage revoking our
// just-superseded commitment.
func (s *Session) AcceptUpdateAccept(msg *lnwire.UpdateAccept) (*lnwire.UpdateSignature, error) {
	if s.State != StateHtlcProposed || s.current == nil || !s.current.weAreProposer {
		return nil, errUnexpectedPacket(s.State, "update_accept")
	}
	prop := s.current

	prop.theirCommitSig = msg.CommitSig
	prop.theirNextRevocationHash = msg.NextRevocationHash

	commitUs, commitThem, err := s.buildCommitmentPair(prop.tentativeUs, prop.tentativeThem)
	if err != nil {
		return nil, err
	}
	prop.commitUs = commitUs
	prop.commitThem = commitThem

	ok := s.Signer.VerifyCommitment(
		prop.commitUs, 0, int64(s.Anchor.Amount), s.Anchor.RedeemScript, s.Them.CommitKey, prop.theirCommitSig,
	)
	if !ok {
		return nil, newProtocolError("Bad signature")
	}

	revokedIndex := s.NumHtlcs
	ourPreimage, err := s.preimages(revokedIndex)
	if err != nil {
		return nil, newFatalError("derive preimage: %v", err)
	}

	theirSig, err := s.Signer.SignCommitment(
		prop.commitThem, 0, int64(s.Anchor.Amount), s.Anchor.RedeemScript, s.CommitPrivKey,
	)
	if err != nil {
		return nil, newFatalError("sign commitment: %v", err)
	}

	if err := s.atomicCommit(prop, &prop.theirNextRevocationHash); err != nil {
		return nil, err
	}
	s.State = StateNormal

	return &lnwire.UpdateSignature{CommitSig: theirSig, RevocationPreimage: ourPreimage}, nil
}

// AcceptUpdateSignature verifies the proposer's signature and revoked
// preimage, performs the atomic commit, and replies with the preimage
// revoking our own just-superseded commitment.
func (s *Session) AcceptUpdateSignature(msg *lnwire.UpdateSignature) (*lnwire.UpdateComplete, error) {
	if s.State != StateHtlcAccepted || s.current == nil || s.current.weAreProposer {
		return nil, errUnexpectedPacket(s.State, "update_signature")
	}
	prop := s.current

	ok := s.Signer.VerifyCommitment(
		prop.commitUs, 0, int64(s.Anchor.Amount), s.Anchor.RedeemScript, s.Them.CommitKey, msg.CommitSig,
	)
	if !ok {
		return nil, newProtocolError("Bad signature")
	}

	if chainhash.HashH(msg.RevocationPreimage[:]) != s.Them.RevocationHash {
		return nil, newProtocolError("Bad revocation preimage")
	}

	revokedIndex := s.NumHtlcs
	ourPreimage, err := s.preimages(revokedIndex)
	if err != nil {
		return nil, newFatalError("derive preimage: %v", err)
	}

	if err := s.atomicCommit(prop, nil); err != nil {
		return nil, err
	}
	s.State = StateNormal

	return &lnwire.UpdateComplete{RevocationPreimage: ourPreimage}, nil
}

// AcceptUpdateComplete validates the accepter's revealed preimage
// against our recorded previous revocation hash for them, rejecting a
// mismatch with "Bad revocation preimage".
func (s *Session) AcceptUpdateComplete(msg *lnwire.UpdateComplete) error {
	if s.State != StateNormal {
		return errUnexpectedPacket(s.State, "update_complete")
	}

	if chainhash.HashH(msg.RevocationPreimage[:]) != s.theirPreviousRevocationHash {
		return newProtocolError("Bad revocation preimage")
	}
	return nil
}

// atomicCommit replaces the committed channel state with a pending
// proposal's tentative state, advancing the revocation chain and the
// HTLC counter. freshTheirNextHash, when non-nil, is the counterparty's
// freshly recomputed next revocation hash for the round after this one;
// it is nil when the caller has no fresher value to offer (this core's
// accepter role does not learn the proposer's next-round hash, a gap
// acknowledged in DESIGN.md).
func (s *Session) atomicCommit(prop *pendingProposal, freshTheirNextHash *chainhash.Hash) error {
	if !lnwallet.CheckConservation(prop.tentativeUs, prop.tentativeThem, s.Anchor.Amount) {
		log.Errorf("balance conservation violated at num_htlcs=%d", s.NumHtlcs)
		return newFatalError("balance conservation violated")
	}

	s.BalanceUs = prop.tentativeUs
	s.BalanceThem = prop.tentativeThem
	s.CommitUs = prop.commitUs
	s.CommitThem = prop.commitThem

	s.theirPreviousRevocationHash = s.Them.RevocationHash
	s.Them.RevocationHash = s.theirNextRevocationHash
	if freshTheirNextHash != nil {
		s.theirNextRevocationHash = *freshTheirNextHash
	}

	s.NumHtlcs++
	s.current = nil
	return nil
}

func appendHTLC(htlcs []lnwallet.HTLC, h lnwallet.HTLC) []lnwallet.HTLC {
	out := make([]lnwallet.HTLC, len(htlcs), len(htlcs)+1)
	copy(out, htlcs)
	return append(out, h)
}
