package multisig

import (
	"context"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"

	"github.com/solstice-labs/multisig/host"
	"github.com/solstice-labs/multisig/types"
)

func TestHandleInstructionUnknown(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	engine, ledger := newTestEngine(t)

	owners := newOwners(2)
	msig, err := engine.CreateMultisig(ctx, solana.NewWallet().PublicKey(), owners, 1, 0)
	require.NoError(t, err)

	err = ledger.Transact(ctx, func(txn host.Txn) error {
		ix := types.Instruction{
			ProgramID: ProgramID,
			Accounts:  []types.AccountMeta{{PublicKey: msig, IsSigner: true, IsWritable: true}},
			Data:      []byte{0xff},
		}

		return engine.HandleInstruction(txn, ix, []solana.PublicKey{msig})
	})
	require.ErrorIs(t, err, ErrUnknownInstruction)
}

func TestHandleInstructionRequiresSignerMeta(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	engine, ledger := newTestEngine(t)

	owners := newOwners(2)
	msig, err := engine.CreateMultisig(ctx, solana.NewWallet().PublicKey(), owners, 1, 0)
	require.NoError(t, err)

	ix, err := NewSetOwnersInstruction(msig, owners)
	require.NoError(t, err)
	ix.Accounts[0].IsSigner = false

	err = ledger.Transact(ctx, func(txn host.Txn) error {
		return engine.HandleInstruction(txn, ix, nil)
	})
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestHandleInstructionEmpty(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	engine, ledger := newTestEngine(t)

	err := ledger.Transact(ctx, func(txn host.Txn) error {
		return engine.HandleInstruction(txn, types.Instruction{ProgramID: ProgramID}, nil)
	})
	require.ErrorIs(t, err, ErrUnknownInstruction)
}
