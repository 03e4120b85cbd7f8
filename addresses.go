package multisig

import (
	"encoding/binary"

	"github.com/gagliardetto/solana-go"
)

const (
	multisigSeed    = "multisig"
	transactionSeed = "transaction"
)

// FindMultisigAddress derives the record address for a multisig anchored at
// base. The same address doubles as the multisig's derived signing authority.
func FindMultisigAddress(base solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress(
		[][]byte{[]byte(multisigSeed), base.Bytes()},
		ProgramID,
	)
}

// FindTransactionAddress derives the record address for the index-th
// transaction of the given multisig.
func FindTransactionAddress(msig solana.PublicKey, index uint64) (solana.PublicKey, uint8, error) {
	var indexBytes [8]byte
	binary.LittleEndian.PutUint64(indexBytes[:], index)

	return solana.FindProgramAddress(
		[][]byte{[]byte(transactionSeed), msig.Bytes(), indexBytes[:]},
		ProgramID,
	)
}
