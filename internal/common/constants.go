// Package common contains common constants and variables used across services
package common

import "github.com/gagliardetto/solana-go"

var (
	TokenProgramID = solana.MustPublicKeyFromBase58("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")
	Token2022ID    = solana.MustPublicKeyFromBase58("TokenzQdBNbLqP5VEhdkAS6EPFLC1PHnBqCXEpPxuEb")

	// WrappedNativeMint is wrapped SOL. It is never used as the
	// intermediate token of a two-hop route.
	WrappedNativeMint = solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112")
)

// IsTokenProgram reports whether owner is one of the SPL token programs.
// Vault accounts owned by anything else cannot hold pool reserves.
func IsTokenProgram(owner solana.PublicKey) bool {
	return owner.Equals(TokenProgramID) || owner.Equals(Token2022ID)
}
