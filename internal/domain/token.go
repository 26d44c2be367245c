package domain

import (
	"github.com/gagliardetto/solana-go"
)

// Token describes one SPL mint known to the registry. Immutable after load.
type Token struct {
	Mint     solana.PublicKey `json:"mint"`
	Symbol   string           `json:"symbol"`
	Name     string           `json:"name"`
	Decimals uint8            `json:"decimals"`
	LogoURI  string           `json:"logoUri,omitempty"`
}

type TokenMap map[solana.PublicKey]*Token

func (m TokenMap) Decimals(mint solana.PublicKey) (uint8, bool) {
	t, ok := m[mint]
	if !ok {
		return 0, false
	}
	return t.Decimals, true
}
