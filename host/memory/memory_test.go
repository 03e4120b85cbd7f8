package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"gotest.tools/v3/assert"

	"github.com/solstice-labs/multisig/host"
	"github.com/solstice-labs/multisig/types"
)

func TestLedgerCreateGetPut(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ledger := New()
	address := solana.NewWallet().PublicKey()

	err := ledger.Transact(ctx, func(txn host.Txn) error {
		return txn.Create(address, 8, []byte{1, 2, 3})
	})
	assert.NilError(t, err)

	err = ledger.Transact(ctx, func(txn host.Txn) error {
		data, err := txn.Get(address)
		assert.NilError(t, err)
		assert.DeepEqual(t, []byte{1, 2, 3}, data)

		return txn.Put(address, []byte{4, 5, 6, 7})
	})
	assert.NilError(t, err)

	err = ledger.Transact(ctx, func(txn host.Txn) error {
		data, err := txn.Get(address)
		assert.NilError(t, err)
		assert.DeepEqual(t, []byte{4, 5, 6, 7}, data)

		return nil
	})
	assert.NilError(t, err)
}

func TestLedgerAccountErrors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ledger := New()
	address := solana.NewWallet().PublicKey()

	err := ledger.Transact(ctx, func(txn host.Txn) error {
		_, err := txn.Get(address)

		return err
	})
	assert.ErrorIs(t, err, host.ErrAccountNotFound)

	err = ledger.Transact(ctx, func(txn host.Txn) error {
		return txn.Create(address, 4, nil)
	})
	assert.NilError(t, err)

	err = ledger.Transact(ctx, func(txn host.Txn) error {
		return txn.Create(address, 4, nil)
	})
	assert.ErrorIs(t, err, host.ErrAccountExists)
}

func TestLedgerAllocationSize(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ledger := New()
	address := solana.NewWallet().PublicKey()

	// Undersized content is rejected at creation, not discovered later.
	err := ledger.Transact(ctx, func(txn host.Txn) error {
		return txn.Create(address, 2, []byte{1, 2, 3})
	})
	var allocErr *host.AllocationSizeError
	assert.Assert(t, errors.As(err, &allocErr))
	assert.Equal(t, uint64(2), allocErr.Space)
	assert.Equal(t, uint64(3), allocErr.Required)

	err = ledger.Transact(ctx, func(txn host.Txn) error {
		return txn.Create(address, 2, []byte{1, 2})
	})
	assert.NilError(t, err)

	// Allocations are fixed size for the life of the record.
	err = ledger.Transact(ctx, func(txn host.Txn) error {
		return txn.Put(address, []byte{1, 2, 3})
	})
	assert.Assert(t, errors.As(err, &allocErr))
}

func TestLedgerRollback(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ledger := New()
	address := solana.NewWallet().PublicKey()

	err := ledger.Transact(ctx, func(txn host.Txn) error {
		return txn.Create(address, 8, []byte{1})
	})
	assert.NilError(t, err)

	failure := errors.New("abort")
	err = ledger.Transact(ctx, func(txn host.Txn) error {
		if err := txn.Put(address, []byte{9, 9}); err != nil {
			return err
		}

		return failure
	})
	assert.ErrorIs(t, err, failure)

	err = ledger.Transact(ctx, func(txn host.Txn) error {
		data, err := txn.Get(address)
		assert.NilError(t, err)
		assert.DeepEqual(t, []byte{1}, data)

		return nil
	})
	assert.NilError(t, err)
}

func TestLedgerInvoke(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ledger := New()

	program := solana.NewWallet().PublicKey()
	base := solana.NewWallet().PublicKey()

	derived, bump, err := solana.FindProgramAddress([][]byte{[]byte("authority"), base.Bytes()}, program)
	assert.NilError(t, err)

	authority := types.Authority{
		Program: program,
		Seeds:   [][]byte{[]byte("authority"), base.Bytes(), {bump}},
	}

	var gotSigners []solana.PublicKey
	ledger.RegisterProgram(program, func(txn host.Txn, ix types.Instruction, signers []solana.PublicKey) error {
		gotSigners = signers

		return nil
	})

	ix := types.Instruction{
		ProgramID: program,
		Accounts:  []types.AccountMeta{{PublicKey: derived, IsSigner: true}},
	}

	err = ledger.Transact(ctx, func(txn host.Txn) error {
		return txn.Invoke(ix, authority)
	})
	assert.NilError(t, err)
	assert.DeepEqual(t, []solana.PublicKey{derived}, gotSigners)

	t.Run("unregistered program", func(t *testing.T) {
		unknown := ix
		unknown.ProgramID = solana.NewWallet().PublicKey()

		err := ledger.Transact(ctx, func(txn host.Txn) error {
			return txn.Invoke(unknown, authority)
		})
		assert.ErrorIs(t, err, host.ErrProgramNotFound)
	})

	t.Run("forged authority cannot satisfy a signer", func(t *testing.T) {
		forged := types.Authority{
			Program: program,
			Seeds:   [][]byte{[]byte("authority"), solana.NewWallet().PublicKey().Bytes(), {bump}},
		}

		err := ledger.Transact(ctx, func(txn host.Txn) error {
			return txn.Invoke(ix, forged)
		})
		assert.ErrorIs(t, err, host.ErrUnauthorizedSigner)
	})
}

func TestLedgerClock(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ledger := New()

	ledger.SetNow(1700000000)
	now, err := ledger.Now(ctx)
	assert.NilError(t, err)
	assert.Equal(t, int64(1700000000), now)

	ledger.Advance(90 * time.Second)
	now, err = ledger.Now(ctx)
	assert.NilError(t, err)
	assert.Equal(t, int64(1700000090), now)
}
