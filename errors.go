package multisig

import (
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

var (
	// ErrArithmeticOverflow is returned when a monotonic counter would wrap.
	ErrArithmeticOverflow = errors.New("arithmetic overflow")

	// ErrUnauthorized is returned when a self-governing operation was not
	// signed by the multisig record itself.
	ErrUnauthorized = errors.New("multisig record has not signed this request")

	// ErrWrongMultisig is returned when a transaction record does not belong
	// to the multisig it was submitted against.
	ErrWrongMultisig = errors.New("transaction does not belong to this multisig")

	// ErrUnknownInstruction is returned when the engine is dispatched an
	// instruction it cannot decode.
	ErrUnknownInstruction = errors.New("unknown instruction")
)

// NotAnOwnerError is returned when an identity key is not part of the
// multisig's current owner list.
type NotAnOwnerError struct {
	Key solana.PublicKey
}

// NewNotAnOwnerError creates a new NotAnOwnerError.
func NewNotAnOwnerError(key solana.PublicKey) *NotAnOwnerError {
	return &NotAnOwnerError{Key: key}
}

func (e *NotAnOwnerError) Error() string {
	return fmt.Sprintf("key %s is not an owner of this multisig", e.Key)
}

// DuplicateOwnersError is returned when a supplied owner list contains the
// same key more than once.
type DuplicateOwnersError struct {
	Owner solana.PublicKey
}

// NewDuplicateOwnersError creates a new DuplicateOwnersError.
func NewDuplicateOwnersError(owner solana.PublicKey) *DuplicateOwnersError {
	return &DuplicateOwnersError{Owner: owner}
}

func (e *DuplicateOwnersError) Error() string {
	return fmt.Sprintf("duplicate owner detected: %s", e.Owner)
}

// InvalidThresholdError is returned when a requested threshold is zero or
// exceeds the owner count.
type InvalidThresholdError struct {
	Threshold uint64
	NumOwners int
}

// NewInvalidThresholdError creates a new InvalidThresholdError.
func NewInvalidThresholdError(threshold uint64, numOwners int) *InvalidThresholdError {
	return &InvalidThresholdError{Threshold: threshold, NumOwners: numOwners}
}

func (e *InvalidThresholdError) Error() string {
	return fmt.Sprintf("invalid threshold %d for %d owners", e.Threshold, e.NumOwners)
}

// InvalidDelayError is returned when a requested timelock delay is negative
// or exceeds the maximum bound.
type InvalidDelayError struct {
	Delay int64
}

// NewInvalidDelayError creates a new InvalidDelayError.
func NewInvalidDelayError(delay int64) *InvalidDelayError {
	return &InvalidDelayError{Delay: delay}
}

func (e *InvalidDelayError) Error() string {
	return fmt.Sprintf("invalid delay %ds, must be between 0 and %ds", e.Delay, int64(MaxDelay))
}

// StaleAuthorizationError is returned when the owner set has changed since a
// transaction was created; its approval bitmap no longer maps to the current
// owner list and the transaction must be re-created.
type StaleAuthorizationError struct {
	TransactionSeqNo uint64
	MultisigSeqNo    uint64
}

// NewStaleAuthorizationError creates a new StaleAuthorizationError.
func NewStaleAuthorizationError(transactionSeqNo, multisigSeqNo uint64) *StaleAuthorizationError {
	return &StaleAuthorizationError{TransactionSeqNo: transactionSeqNo, MultisigSeqNo: multisigSeqNo}
}

func (e *StaleAuthorizationError) Error() string {
	return fmt.Sprintf("owners changed: transaction created at owner seq %d, multisig is at %d", e.TransactionSeqNo, e.MultisigSeqNo)
}

// TimelockNotElapsedError is returned when execution is attempted before the
// transaction's ETA.
type TimelockNotElapsedError struct {
	Now int64
	ETA int64
}

// NewTimelockNotElapsedError creates a new TimelockNotElapsedError.
func NewTimelockNotElapsedError(now, eta int64) *TimelockNotElapsedError {
	return &TimelockNotElapsedError{Now: now, ETA: eta}
}

func (e *TimelockNotElapsedError) Error() string {
	return fmt.Sprintf("timelock not elapsed: now %d is before eta %d", e.Now, e.ETA)
}

// AlreadyExecutedError is returned when execution is attempted on a
// transaction that has already been executed.
type AlreadyExecutedError struct {
	ExecutedAt int64
}

// NewAlreadyExecutedError creates a new AlreadyExecutedError.
func NewAlreadyExecutedError(executedAt int64) *AlreadyExecutedError {
	return &AlreadyExecutedError{ExecutedAt: executedAt}
}

func (e *AlreadyExecutedError) Error() string {
	return fmt.Sprintf("transaction already executed at %d", e.ExecutedAt)
}

// QuorumNotMetError is returned when a transaction does not carry enough
// approvals to meet the multisig's threshold.
type QuorumNotMetError struct {
	Approvals int
	Threshold uint64
}

// NewQuorumNotMetError creates a new QuorumNotMetError.
func NewQuorumNotMetError(approvals int, threshold uint64) *QuorumNotMetError {
	return &QuorumNotMetError{Approvals: approvals, Threshold: threshold}
}

func (e *QuorumNotMetError) Error() string {
	return fmt.Sprintf("quorum not met: %d approvals, threshold is %d", e.Approvals, e.Threshold)
}
