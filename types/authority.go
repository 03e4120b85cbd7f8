package types

import (
	"github.com/gagliardetto/solana-go"
)

// Authority identifies a program-derived signing identity. No private key
// exists for it; the value carries the full derivation preimage so a host can
// re-derive the address at dispatch time and verify that the caller controls
// it.
type Authority struct {
	Program solana.PublicKey `json:"program"`
	Seeds   [][]byte         `json:"seeds"`
}

// Address re-derives the authority's address from its seeds. Fails if the
// seeds do not land on a valid program-derived address.
func (a Authority) Address() (solana.PublicKey, error) {
	return solana.CreateProgramAddress(a.Seeds, a.Program)
}
