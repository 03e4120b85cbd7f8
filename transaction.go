package multisig

import (
	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/solstice-labs/multisig/types"
)

// Transaction is the persistent record describing a batch of instructions
// awaiting sufficient owner approval and timelock expiry before execution.
// Field order is the borsh wire layout.
type Transaction struct {
	Multisig     solana.PublicKey    `json:"multisig"`
	Index        uint64              `json:"index"`
	Bump         uint8               `json:"bump"`
	ETA          int64               `json:"eta"`
	OwnersSeqNo  uint64              `json:"ownersSeqNo"`
	Proposer     solana.PublicKey    `json:"proposer"`
	Instructions []types.Instruction `json:"instructions"`
	Signers      []bool              `json:"signers"`
	Executor     solana.PublicKey    `json:"executor"`
	ExecutedAt   int64               `json:"executedAt"`
	Reserved     [16]uint64          `json:"-"`
}

// ApprovalCount returns the number of owners that have approved. Signer
// positions map to the multisig's owner list as of the transaction's owner
// seq; the count can never exceed that owner count.
func (t *Transaction) ApprovalCount() int {
	count := 0
	for _, signed := range t.Signers {
		if signed {
			count++
		}
	}

	return count
}

// Executed reports whether the transaction has already been dispatched.
func (t *Transaction) Executed() bool {
	return t.ExecutedAt != 0
}

// Marshal serializes the record to its borsh wire form.
func (t *Transaction) Marshal() ([]byte, error) {
	return bin.MarshalBorsh(t)
}

// Unmarshal deserializes the record from its borsh wire form.
func (t *Transaction) Unmarshal(data []byte) error {
	return bin.UnmarshalBorsh(t, data)
}

// Space returns the exact serialized size of the record. The record is
// allocated with this size at creation, so the sizing here must mirror
// Marshal byte for byte; it is kept next to the layout above so the two
// cannot drift. The size never changes after creation: approvals flip bits in
// place and the execution fields are fixed width.
func (t *Transaction) Space() uint64 {
	space := uint64(32 + 8 + 1 + 8 + 8 + 32) // multisig, index, bump, eta, owner seq, proposer

	space += 4
	for _, ix := range t.Instructions {
		space += 32                               // program id
		space += 4 + uint64(len(ix.Accounts))*34 // account metas: key, signer flag, writable flag
		space += 4 + uint64(len(ix.Data))        // payload
	}

	space += 4 + uint64(len(t.Signers))
	space += 32 + 8 // executor, executed at
	space += 128    // reserved

	return space
}
