package types

import (
	"github.com/gagliardetto/solana-go"
)

// AccountMeta describes a single account referenced by an instruction. Field
// order is the borsh wire layout: key, signer flag, writable flag.
type AccountMeta struct {
	PublicKey  solana.PublicKey `json:"publicKey"`
	IsSigner   bool             `json:"isSigner"`
	IsWritable bool             `json:"isWritable"`
}

// Instruction is a single sub-action of a transaction: a target program, the
// accounts it touches, and an opaque payload interpreted by that program.
type Instruction struct {
	ProgramID solana.PublicKey `json:"programId"`
	Accounts  []AccountMeta    `json:"accounts"`
	Data      []byte           `json:"data"`
}
