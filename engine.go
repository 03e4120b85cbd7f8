package multisig

import (
	"context"
	"fmt"
	"math"
	"slices"

	"github.com/gagliardetto/solana-go"

	"github.com/solstice-labs/multisig/host"
	"github.com/solstice-labs/multisig/internal/utils/safecast"
	"github.com/solstice-labs/multisig/types"
)

// Engine implements the authorization state machine over a ledger host.
//
// Every operation runs as a single host transaction: either all of its record
// writes commit, or none do. Identity parameters are trusted to have signed
// the request; the host verifies cryptographic signatures before any of this
// logic runs, and the engine only ever checks owner-set membership.
type Engine struct {
	host host.Host
}

// NewEngine creates an engine backed by the given host.
func NewEngine(h host.Host) *Engine {
	return &Engine{host: h}
}

// CreateMultisig persists a new multisig record anchored at base and returns
// its address. The owner list, threshold and delay are validated with the
// same checks the mutate operations apply.
func (e *Engine) CreateMultisig(
	ctx context.Context,
	base solana.PublicKey,
	owners []solana.PublicKey,
	threshold uint64,
	delay int64,
) (solana.PublicKey, error) {
	address, bump, err := FindMultisigAddress(base)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("unable to derive multisig address: %w", err)
	}

	m := &Multisig{
		Base:        base,
		Bump:        bump,
		Threshold:   threshold,
		Delay:       delay,
		GracePeriod: DefaultGracePeriod,
		Owners:      slices.Clone(owners),
	}
	if err = m.Validate(); err != nil {
		return solana.PublicKey{}, err
	}

	data, err := m.Marshal()
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("unable to encode multisig record: %w", err)
	}

	err = e.host.Transact(ctx, func(txn host.Txn) error {
		return txn.Create(address, MultisigSpace(MaxOwners), data)
	})
	if err != nil {
		return solana.PublicKey{}, err
	}

	return address, nil
}

// SetOwners replaces the owner set of a multisig. The signer must be the
// multisig record itself; the operation is normally reached through the
// engine's own execute path via NewSetOwnersInstruction.
//
// Replacing the owner set bumps the owner seq, which permanently invalidates
// every in-flight transaction created under the old set. If the new list is
// shorter than the current threshold, the threshold is lowered to match so
// quorum never becomes unreachable.
func (e *Engine) SetOwners(ctx context.Context, msig solana.PublicKey, owners []solana.PublicKey, signer solana.PublicKey) error {
	return e.host.Transact(ctx, func(txn host.Txn) error {
		return e.setOwners(txn, msig, owners, signer)
	})
}

// ChangeThreshold sets a new quorum threshold. The signer must be the
// multisig record itself. Owner positions are unchanged, so the owner seq is
// not bumped and in-flight transactions stay valid.
func (e *Engine) ChangeThreshold(ctx context.Context, msig solana.PublicKey, threshold uint64, signer solana.PublicKey) error {
	return e.host.Transact(ctx, func(txn host.Txn) error {
		return e.changeThreshold(txn, msig, threshold, signer)
	})
}

// ChangeDelay sets a new timelock delay for future transactions. The signer
// must be the multisig record itself. ETAs of existing transactions are
// unaffected.
func (e *Engine) ChangeDelay(ctx context.Context, msig solana.PublicKey, delay int64, signer solana.PublicKey) error {
	return e.host.Transact(ctx, func(txn host.Txn) error {
		return e.changeDelay(txn, msig, delay, signer)
	})
}

// CreateTransaction allocates a new transaction record holding the given
// instruction batch and returns its address. The proposer must be a current
// owner; their creation act counts as the first approval. The record is
// allocated exactly sized for its content.
func (e *Engine) CreateTransaction(
	ctx context.Context,
	msig solana.PublicKey,
	instructions []types.Instruction,
	proposer solana.PublicKey,
) (solana.PublicKey, error) {
	now, err := e.host.Now(ctx)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("unable to read clock: %w", err)
	}

	var address solana.PublicKey
	err = e.host.Transact(ctx, func(txn host.Txn) error {
		m, err := loadMultisig(txn, msig)
		if err != nil {
			return err
		}

		ownerIndex, err := m.OwnerIndex(proposer)
		if err != nil {
			return err
		}

		signers := make([]bool, len(m.Owners))
		signers[ownerIndex] = true

		var bump uint8
		address, bump, err = FindTransactionAddress(msig, m.NumTransactions)
		if err != nil {
			return fmt.Errorf("unable to derive transaction address: %w", err)
		}

		tx := &Transaction{
			Multisig:     msig,
			Index:        m.NumTransactions,
			Bump:         bump,
			ETA:          now + m.Delay,
			OwnersSeqNo:  m.OwnersSeqNo,
			Proposer:     proposer,
			Instructions: instructions,
			Signers:      signers,
		}

		data, err := tx.Marshal()
		if err != nil {
			return fmt.Errorf("unable to encode transaction record: %w", err)
		}
		if err = txn.Create(address, tx.Space(), data); err != nil {
			return err
		}

		m.NumTransactions, err = checkedIncr(m.NumTransactions)
		if err != nil {
			return err
		}

		return storeMultisig(txn, msig, m)
	})
	if err != nil {
		return solana.PublicKey{}, err
	}

	return address, nil
}

// Approve records the approver's signature on a transaction. Approving twice
// is a no-op. A transaction created under an older owner set cannot be
// approved; it must be re-created against the current one.
func (e *Engine) Approve(ctx context.Context, msig, transaction solana.PublicKey, approver solana.PublicKey) error {
	return e.host.Transact(ctx, func(txn host.Txn) error {
		m, tx, err := loadPair(txn, msig, transaction)
		if err != nil {
			return err
		}

		ownerIndex, err := m.OwnerIndex(approver)
		if err != nil {
			return err
		}
		if m.OwnersSeqNo != tx.OwnersSeqNo {
			return NewStaleAuthorizationError(tx.OwnersSeqNo, m.OwnersSeqNo)
		}

		if tx.Signers[ownerIndex] {
			return nil
		}
		tx.Signers[ownerIndex] = true

		return storeTransaction(txn, transaction, tx)
	})
}

// Execute dispatches an approved transaction's instruction batch,
// authenticated as the multisig's derived authority.
//
// Preconditions are checked in order: executor membership, timelock (a
// transaction is eligible at exactly its ETA), prior execution, owner-set
// staleness, quorum. The execution fields are written before dispatch so a
// re-entrant call through the engine's own program observes AlreadyExecuted;
// if any instruction in the batch fails, the host transaction aborts and
// nothing, including those fields, is committed.
func (e *Engine) Execute(ctx context.Context, msig, transaction solana.PublicKey, executor solana.PublicKey) error {
	now, err := e.host.Now(ctx)
	if err != nil {
		return fmt.Errorf("unable to read clock: %w", err)
	}

	return e.host.Transact(ctx, func(txn host.Txn) error {
		m, tx, err := loadPair(txn, msig, transaction)
		if err != nil {
			return err
		}

		if !m.IsOwner(executor) {
			return NewNotAnOwnerError(executor)
		}
		if now < tx.ETA {
			return NewTimelockNotElapsedError(now, tx.ETA)
		}
		if tx.Executed() {
			return NewAlreadyExecutedError(tx.ExecutedAt)
		}
		if m.OwnersSeqNo != tx.OwnersSeqNo {
			return NewStaleAuthorizationError(tx.OwnersSeqNo, m.OwnersSeqNo)
		}

		approvals, err := safecast.IntToUint64(tx.ApprovalCount())
		if err != nil {
			return err
		}
		if approvals < m.Threshold {
			return NewQuorumNotMetError(tx.ApprovalCount(), m.Threshold)
		}

		tx.ExecutedAt = now
		tx.Executor = executor
		if err = storeTransaction(txn, transaction, tx); err != nil {
			return err
		}

		authority := m.Authority()
		for i, ix := range tx.Instructions {
			if err = txn.Invoke(ix, authority); err != nil {
				return fmt.Errorf("instruction %d dispatch failed: %w", i, err)
			}
		}

		return nil
	})
}

func (e *Engine) setOwners(txn host.Txn, msig solana.PublicKey, owners []solana.PublicKey, signer solana.PublicKey) error {
	m, err := loadMultisig(txn, msig)
	if err != nil {
		return err
	}
	if !signer.Equals(msig) {
		return ErrUnauthorized
	}
	if err = validateUniqueOwners(owners); err != nil {
		return err
	}

	if uint64(len(owners)) < m.Threshold {
		// Never leave quorum unreachable.
		m.Threshold = uint64(len(owners))
	}
	m.Owners = slices.Clone(owners)

	m.OwnersSeqNo, err = checkedIncr(m.OwnersSeqNo)
	if err != nil {
		return err
	}

	return storeMultisig(txn, msig, m)
}

func (e *Engine) changeThreshold(txn host.Txn, msig solana.PublicKey, threshold uint64, signer solana.PublicKey) error {
	m, err := loadMultisig(txn, msig)
	if err != nil {
		return err
	}
	if !signer.Equals(msig) {
		return ErrUnauthorized
	}
	if err = validateThreshold(threshold, len(m.Owners)); err != nil {
		return err
	}

	m.Threshold = threshold

	return storeMultisig(txn, msig, m)
}

func (e *Engine) changeDelay(txn host.Txn, msig solana.PublicKey, delay int64, signer solana.PublicKey) error {
	m, err := loadMultisig(txn, msig)
	if err != nil {
		return err
	}
	if !signer.Equals(msig) {
		return ErrUnauthorized
	}
	if err = validateDelay(delay); err != nil {
		return err
	}

	m.Delay = delay

	return storeMultisig(txn, msig, m)
}

// checkedIncr increments a monotonic counter, refusing to wrap.
func checkedIncr(v uint64) (uint64, error) {
	if v == math.MaxUint64 {
		return 0, ErrArithmeticOverflow
	}

	return v + 1, nil
}

func loadMultisig(txn host.Txn, address solana.PublicKey) (*Multisig, error) {
	data, err := txn.Get(address)
	if err != nil {
		return nil, fmt.Errorf("unable to load multisig record: %w", err)
	}

	var m Multisig
	if err := m.Unmarshal(data); err != nil {
		return nil, fmt.Errorf("unable to decode multisig record: %w", err)
	}

	return &m, nil
}

func storeMultisig(txn host.Txn, address solana.PublicKey, m *Multisig) error {
	data, err := m.Marshal()
	if err != nil {
		return fmt.Errorf("unable to encode multisig record: %w", err)
	}

	return txn.Put(address, data)
}

func loadTransaction(txn host.Txn, address solana.PublicKey) (*Transaction, error) {
	data, err := txn.Get(address)
	if err != nil {
		return nil, fmt.Errorf("unable to load transaction record: %w", err)
	}

	var tx Transaction
	if err := tx.Unmarshal(data); err != nil {
		return nil, fmt.Errorf("unable to decode transaction record: %w", err)
	}

	return &tx, nil
}

func storeTransaction(txn host.Txn, address solana.PublicKey, tx *Transaction) error {
	data, err := tx.Marshal()
	if err != nil {
		return fmt.Errorf("unable to encode transaction record: %w", err)
	}

	return txn.Put(address, data)
}

// loadPair loads a transaction together with the multisig it belongs to.
func loadPair(txn host.Txn, msig, transaction solana.PublicKey) (*Multisig, *Transaction, error) {
	m, err := loadMultisig(txn, msig)
	if err != nil {
		return nil, nil, err
	}

	tx, err := loadTransaction(txn, transaction)
	if err != nil {
		return nil, nil, err
	}
	if !tx.Multisig.Equals(msig) {
		return nil, nil, ErrWrongMultisig
	}

	return m, tx, nil
}
