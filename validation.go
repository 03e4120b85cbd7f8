package multisig

import (
	"github.com/gagliardetto/solana-go"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// validateUniqueOwners rejects owner lists that contain the same key twice.
func validateUniqueOwners(owners []solana.PublicKey) error {
	seen := make(map[solana.PublicKey]struct{}, len(owners))
	for _, owner := range owners {
		if _, ok := seen[owner]; ok {
			return NewDuplicateOwnersError(owner)
		}
		seen[owner] = struct{}{}
	}

	return nil
}

// validateThreshold checks a quorum threshold against an owner count.
func validateThreshold(threshold uint64, numOwners int) error {
	if threshold == 0 || threshold > uint64(numOwners) {
		return NewInvalidThresholdError(threshold, numOwners)
	}

	return nil
}

// validateDelay checks a timelock delay against the maximum bound.
func validateDelay(delay int64) error {
	if delay < 0 || delay > MaxDelay {
		return NewInvalidDelayError(delay)
	}

	return nil
}
