package multisig

import (
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/solstice-labs/multisig/host"
	"github.com/solstice-labs/multisig/types"
)

// Instruction tags for the engine's self-governing operations. Payloads are
// a single tag byte followed by borsh-encoded args.
const (
	instructionSetOwners uint8 = iota
	instructionChangeThreshold
	instructionChangeDelay
)

type setOwnersArgs struct {
	Owners []solana.PublicKey
}

type changeThresholdArgs struct {
	Threshold uint64
}

type changeDelayArgs struct {
	Delay int64
}

// NewSetOwnersInstruction builds an instruction that replaces the owner set
// when executed under the multisig's own derived authority. Routing group
// management through an approved transaction is the only way to reach it on a
// live multisig.
func NewSetOwnersInstruction(msig solana.PublicKey, owners []solana.PublicKey) (types.Instruction, error) {
	return governInstruction(msig, instructionSetOwners, setOwnersArgs{Owners: owners})
}

// NewChangeThresholdInstruction builds an instruction that sets a new quorum
// threshold when executed under the multisig's own derived authority.
func NewChangeThresholdInstruction(msig solana.PublicKey, threshold uint64) (types.Instruction, error) {
	return governInstruction(msig, instructionChangeThreshold, changeThresholdArgs{Threshold: threshold})
}

// NewChangeDelayInstruction builds an instruction that sets a new timelock
// delay when executed under the multisig's own derived authority.
func NewChangeDelayInstruction(msig solana.PublicKey, delay int64) (types.Instruction, error) {
	return governInstruction(msig, instructionChangeDelay, changeDelayArgs{Delay: delay})
}

func governInstruction(msig solana.PublicKey, tag uint8, args any) (types.Instruction, error) {
	payload, err := bin.MarshalBorsh(args)
	if err != nil {
		return types.Instruction{}, fmt.Errorf("unable to encode instruction args: %w", err)
	}

	return types.Instruction{
		ProgramID: ProgramID,
		Accounts: []types.AccountMeta{
			{PublicKey: msig, IsSigner: true, IsWritable: true},
		},
		Data: append([]byte{tag}, payload...),
	}, nil
}

// HandleInstruction implements host.Program, making the group-management
// operations reachable through the engine's own execute path. The multisig
// record is the instruction's first account and must have signed; the host
// has already verified the derivation proof behind each signer key.
func (e *Engine) HandleInstruction(txn host.Txn, ix types.Instruction, signers []solana.PublicKey) error {
	if len(ix.Accounts) == 0 || len(ix.Data) == 0 {
		return ErrUnknownInstruction
	}

	msig := ix.Accounts[0].PublicKey
	if !ix.Accounts[0].IsSigner {
		return ErrUnauthorized
	}

	var signer solana.PublicKey
	if len(signers) > 0 {
		signer = signers[0]
	}

	tag, payload := ix.Data[0], ix.Data[1:]
	switch tag {
	case instructionSetOwners:
		var args setOwnersArgs
		if err := bin.UnmarshalBorsh(&args, payload); err != nil {
			return fmt.Errorf("unable to decode set-owners args: %w", err)
		}

		return e.setOwners(txn, msig, args.Owners, signer)

	case instructionChangeThreshold:
		var args changeThresholdArgs
		if err := bin.UnmarshalBorsh(&args, payload); err != nil {
			return fmt.Errorf("unable to decode change-threshold args: %w", err)
		}

		return e.changeThreshold(txn, msig, args.Threshold, signer)

	case instructionChangeDelay:
		var args changeDelayArgs
		if err := bin.UnmarshalBorsh(&args, payload); err != nil {
			return fmt.Errorf("unable to decode change-delay args: %w", err)
		}

		return e.changeDelay(txn, msig, args.Delay, signer)

	default:
		return ErrUnknownInstruction
	}
}
