package multisig

import (
	"context"

	"github.com/gagliardetto/solana-go"

	"github.com/solstice-labs/multisig/host"
)

// GetMultisig returns the current state of a multisig record.
func (e *Engine) GetMultisig(ctx context.Context, msig solana.PublicKey) (*Multisig, error) {
	var m *Multisig
	err := e.host.Transact(ctx, func(txn host.Txn) error {
		var err error
		m, err = loadMultisig(txn, msig)

		return err
	})
	if err != nil {
		return nil, err
	}

	return m, nil
}

// GetTransaction returns the current state of a transaction record.
func (e *Engine) GetTransaction(ctx context.Context, transaction solana.PublicKey) (*Transaction, error) {
	var tx *Transaction
	err := e.host.Transact(ctx, func(txn host.Txn) error {
		var err error
		tx, err = loadTransaction(txn, transaction)

		return err
	})
	if err != nil {
		return nil, err
	}

	return tx, nil
}
