// Package host defines the boundary between the authorization engine and the
// ledger runtime that stores records, keeps the clock, and dispatches
// instructions. The engine never talks to a ledger directly; it only consumes
// these interfaces.
package host

import (
	"context"

	"github.com/gagliardetto/solana-go"

	"github.com/solstice-labs/multisig/types"
)

// Program handles an instruction dispatched to a program id registered with
// the host. The signers slice holds the identity keys the host has verified
// for this dispatch; handlers must only ever check membership against it.
type Program func(txn Txn, ix types.Instruction, signers []solana.PublicKey) error

// Host is the ledger runtime collaborator.
type Host interface {
	// Now returns the current ledger time in unix seconds.
	Now(ctx context.Context) (int64, error)

	// Transact runs fn against a transactional view of the ledger. Writes
	// made through the Txn are committed only if fn returns nil; any error
	// discards them all. Transactions against the same ledger observe a
	// linear history.
	Transact(ctx context.Context, fn func(txn Txn) error) error
}

// Txn is a single atomic unit of work against the ledger.
type Txn interface {
	// Create allocates a new record of exactly space bytes at the given
	// address and writes its initial content. Content larger than the
	// requested space fails with AllocationSizeError.
	Create(address solana.PublicKey, space uint64, data []byte) error

	// Get returns the record content at the given address.
	Get(address solana.PublicKey) ([]byte, error)

	// Put replaces the record content at the given address. Content larger
	// than the record's allocated space fails with AllocationSizeError.
	Put(address solana.PublicKey, data []byte) error

	// Invoke dispatches an instruction authenticated as the given derived
	// authority, within the same transaction. The host verifies the
	// authority's derivation proof before any signer account meta is
	// considered satisfied.
	Invoke(ix types.Instruction, authority types.Authority) error
}
