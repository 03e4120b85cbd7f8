package host

import (
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

var (
	// ErrAccountNotFound is returned when no record exists at an address.
	ErrAccountNotFound = errors.New("account not found")

	// ErrAccountExists is returned when creating a record at an address that
	// is already allocated.
	ErrAccountExists = errors.New("account already exists")

	// ErrProgramNotFound is returned when an instruction targets a program id
	// that is not registered with the host.
	ErrProgramNotFound = errors.New("program not found")

	// ErrUnauthorizedSigner is returned when an instruction requires a signer
	// that the dispatching authority cannot satisfy.
	ErrUnauthorizedSigner = errors.New("unauthorized signer")
)

// AllocationSizeError is returned when record content does not fit in the
// allocated space.
type AllocationSizeError struct {
	Address  solana.PublicKey
	Space    uint64
	Required uint64
}

// NewAllocationSizeError creates a new AllocationSizeError.
func NewAllocationSizeError(address solana.PublicKey, space, required uint64) *AllocationSizeError {
	return &AllocationSizeError{Address: address, Space: space, Required: required}
}

func (e *AllocationSizeError) Error() string {
	return fmt.Sprintf("account %s allocated %d bytes, content requires %d", e.Address, e.Space, e.Required)
}
