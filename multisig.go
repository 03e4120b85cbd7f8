// Package multisig implements a timelocked multi-party authorization engine.
//
// A Multisig record holds an owner set, a quorum threshold and a timelock
// delay, and controls a derived signing authority for which no private key
// exists. Owners propose Transaction records (batches of instructions),
// collect approvals, and once quorum and timelock are satisfied against the
// current owner set any owner may trigger execution, which dispatches the
// batch authenticated as the derived authority.
package multisig

import (
	"slices"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/solstice-labs/multisig/types"
)

// ProgramID identifies the engine for record address derivation and for
// self-governing instruction dispatch.
var ProgramID = solana.MustPublicKeyFromBase58("Fg6PaFpoGXkYsidMpWTK6W2BeZ7FEfcYkg476zPFsLnS")

const (
	// MaxDelay bounds the timelock delay applied to new transactions.
	MaxDelay = 30 * 24 * 3600

	// DefaultGracePeriod is the window after the ETA during which execution
	// is meant to remain valid. Carried on every multisig record; not
	// enforced by the engine yet.
	DefaultGracePeriod = 14 * 24 * 3600

	// MaxOwners is the owner capacity a multisig record is allocated with.
	// Growing the owner set past it fails with the host's allocation error.
	MaxOwners = 15
)

// Multisig is the persistent record describing an owner set, quorum threshold
// and timelock for a shared authority. Field order is the borsh wire layout.
type Multisig struct {
	Base            solana.PublicKey   `json:"base" validate:"required"`
	Bump            uint8              `json:"bump"`
	Threshold       uint64             `json:"threshold"`
	Delay           int64              `json:"delay"`
	GracePeriod     int64              `json:"gracePeriod"`
	NumTransactions uint64             `json:"numTransactions"`
	OwnersSeqNo     uint64             `json:"ownersSeqNo"`
	Owners          []solana.PublicKey `json:"owners" validate:"required,min=1"`
	Reserved        [16]uint64         `json:"-"`
}

// Validate checks the record invariants: unique owners, a reachable quorum
// threshold, and a bounded delay.
func (m *Multisig) Validate() error {
	if err := validate.Struct(m); err != nil {
		return err
	}
	if err := validateUniqueOwners(m.Owners); err != nil {
		return err
	}
	if err := validateThreshold(m.Threshold, len(m.Owners)); err != nil {
		return err
	}

	return validateDelay(m.Delay)
}

// IsOwner reports whether key is a current owner.
func (m *Multisig) IsOwner(key solana.PublicKey) bool {
	return slices.Contains(m.Owners, key)
}

// OwnerIndex returns the position of key in the owner list. The position is
// the key's index in every transaction approval bitmap created at the current
// owner seq.
func (m *Multisig) OwnerIndex(key solana.PublicKey) (int, error) {
	idx := slices.Index(m.Owners, key)
	if idx < 0 {
		return 0, NewNotAnOwnerError(key)
	}

	return idx, nil
}

// Authority returns the derived signing identity controlled exclusively by
// the engine's execute path. Its address is the multisig record address.
func (m *Multisig) Authority() types.Authority {
	return types.Authority{
		Program: ProgramID,
		Seeds:   [][]byte{[]byte(multisigSeed), m.Base.Bytes(), {m.Bump}},
	}
}

// Marshal serializes the record to its borsh wire form.
func (m *Multisig) Marshal() ([]byte, error) {
	return bin.MarshalBorsh(m)
}

// Unmarshal deserializes the record from its borsh wire form.
func (m *Multisig) Unmarshal(data []byte) error {
	return bin.UnmarshalBorsh(m, data)
}

// MultisigSpace returns the allocation size of a multisig record with
// capacity for numOwners owner keys. Mirrors Marshal byte for byte: the
// fixed header, the length-prefixed owner vector, and the reserved tail.
func MultisigSpace(numOwners int) uint64 {
	return 32 + 1 + 8 + 8 + 8 + 8 + 8 + // base, bump, threshold, delay, grace, tx count, owner seq
		4 + uint64(numOwners)*32 + // owners
		128 // reserved
}
