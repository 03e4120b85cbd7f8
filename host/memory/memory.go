// Package memory implements the host contract with an in-process ledger.
// It is used by the test suite and by local tooling; a production deployment
// replaces it with a real ledger runtime.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"

	"github.com/solstice-labs/multisig/host"
	"github.com/solstice-labs/multisig/internal/utils/safecast"
	"github.com/solstice-labs/multisig/types"
)

type account struct {
	space uint64
	data  []byte
}

func (a *account) clone() *account {
	data := make([]byte, len(a.data))
	copy(data, a.data)

	return &account{space: a.space, data: data}
}

// Ledger is an in-memory ledger with serialized transactions, fixed-size
// account allocations, a settable clock, and a program registry for
// instruction dispatch.
type Ledger struct {
	mu       sync.Mutex
	now      int64
	accounts map[solana.PublicKey]*account
	programs map[solana.PublicKey]host.Program
}

var _ host.Host = (*Ledger)(nil)

// New returns an empty ledger with the clock set to wall time.
func New() *Ledger {
	return &Ledger{
		now:      time.Now().Unix(),
		accounts: make(map[solana.PublicKey]*account),
		programs: make(map[solana.PublicKey]host.Program),
	}
}

// RegisterProgram makes a program reachable through Txn.Invoke.
func (l *Ledger) RegisterProgram(id solana.PublicKey, program host.Program) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.programs[id] = program
}

// SetNow pins the ledger clock to the given unix time.
func (l *Ledger) SetNow(now int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.now = now
}

// Advance moves the ledger clock forward by d.
func (l *Ledger) Advance(d time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.now += int64(d / time.Second)
}

// Now implements host.Host.
func (l *Ledger) Now(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	return l.now, nil
}

// Transact implements host.Host. The ledger lock serializes all writers, so
// two transactions against the same records always observe a linear history.
func (l *Ledger) Transact(ctx context.Context, fn func(txn host.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	txn := &txn{ledger: l, staged: make(map[solana.PublicKey]*account)}
	if err := fn(txn); err != nil {
		return err
	}

	for address, acct := range txn.staged {
		l.accounts[address] = acct
	}

	return nil
}

// txn stages writes against the ledger; nothing is visible outside the
// transaction until Transact commits.
type txn struct {
	ledger *Ledger
	staged map[solana.PublicKey]*account
}

var _ host.Txn = (*txn)(nil)

func (t *txn) Create(address solana.PublicKey, space uint64, data []byte) error {
	if _, ok := t.staged[address]; ok {
		return host.ErrAccountExists
	}
	if _, ok := t.ledger.accounts[address]; ok {
		return host.ErrAccountExists
	}

	required, err := safecast.IntToUint64(len(data))
	if err != nil {
		return err
	}
	if required > space {
		return host.NewAllocationSizeError(address, space, required)
	}

	buf := make([]byte, len(data))
	copy(buf, data)
	t.staged[address] = &account{space: space, data: buf}

	return nil
}

func (t *txn) Get(address solana.PublicKey) ([]byte, error) {
	acct, err := t.lookup(address)
	if err != nil {
		return nil, err
	}

	data := make([]byte, len(acct.data))
	copy(data, acct.data)

	return data, nil
}

func (t *txn) Put(address solana.PublicKey, data []byte) error {
	acct, err := t.lookup(address)
	if err != nil {
		return err
	}

	required, err := safecast.IntToUint64(len(data))
	if err != nil {
		return err
	}
	if required > acct.space {
		return host.NewAllocationSizeError(address, acct.space, required)
	}

	buf := make([]byte, len(data))
	copy(buf, data)
	t.staged[address] = &account{space: acct.space, data: buf}

	return nil
}

// Invoke implements host.Txn. The derivation proof carried by the authority
// is re-checked here; a forged authority whose seeds do not land on its
// address can never satisfy a signer meta.
func (t *txn) Invoke(ix types.Instruction, authority types.Authority) error {
	derived, err := authority.Address()
	if err != nil {
		return host.ErrUnauthorizedSigner
	}

	for _, meta := range ix.Accounts {
		if meta.IsSigner && !meta.PublicKey.Equals(derived) {
			return host.ErrUnauthorizedSigner
		}
	}

	program, ok := t.ledger.programs[ix.ProgramID]
	if !ok {
		return host.ErrProgramNotFound
	}

	return program(t, ix, []solana.PublicKey{derived})
}

func (t *txn) lookup(address solana.PublicKey) (*account, error) {
	if acct, ok := t.staged[address]; ok {
		return acct, nil
	}
	if acct, ok := t.ledger.accounts[address]; ok {
		return acct.clone(), nil
	}

	return nil, host.ErrAccountNotFound
}
