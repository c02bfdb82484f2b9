package lnwallet

import (
	"github.com/btcsuite/btcd/wire"
	"github.com/davecgh/go-spew/spew"
)

// logClosure defers an expensive logging operation until the log
// backend actually decides to format it, so a disabled Debugf level
// never pays for the Sdump below.
type logClosure func() string

func (c logClosure) String() string {
	return c()
}

func newLogClosure(c func() string) logClosure {
	return logClosure(c)
}

// DefaultCommitBuilder assembles an unsigned commitment transaction
// spending the anchor output to two outputs: the owner's balance behind
// commitScriptToSelf (revocable / CSV-delayed), and the counterparty's
// balance as a plain p2wkh output.
type DefaultCommitBuilder struct{}

func (DefaultCommitBuilder) BuildCommitment(params CommitmentParams) (*wire.MsgTx, error) {
	tx := wire.NewMsgTx(2)

	tx.AddTxIn(&wire.TxIn{
		PreviousOutPoint: wire.OutPoint{
			Hash:  params.Anchor.Txid,
			Index: params.Anchor.OutputIndex,
		},
		Sequence: wire.MaxTxInSequenceNum,
	})

	ownerAmt := params.OwnerBalance.Total().ToSatoshis()
	counterAmt := params.CounterBalance.Total().ToSatoshis()

	if ownerAmt > 0 {
		toSelfScript, err := commitScriptToSelf(
			params.CSVDelay, params.OwnerKey, params.RevocationKey,
		)
		if err != nil {
			return nil, err
		}
		pkScript, err := witnessScriptHash(toSelfScript)
		if err != nil {
			return nil, err
		}
		tx.AddTxOut(wire.NewTxOut(int64(ownerAmt), pkScript))
	}

	if counterAmt > 0 {
		pkScript, err := commitScriptUnencumbered(params.CounterKey)
		if err != nil {
			return nil, err
		}
		tx.AddTxOut(wire.NewTxOut(int64(counterAmt), pkScript))
	}

	log.Debugf("built commitment for owner balance %d, counter balance %d: %v",
		ownerAmt, counterAmt, newLogClosure(func() string {
			return spew.Sdump(tx)
		}),
	)

	return tx, nil
}
