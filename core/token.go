package core

import (
	"context"
)

// SupportedToken a token with a vault and its price feed reference
type SupportedToken struct {
	Token    string `json:"token"`
	Feed     string `json:"feed"`
	Decimals uint8  `json:"decimals"`
}

// TokenRegistry tokens are added once and never removed
type TokenRegistry interface {
	Find(ctx context.Context, token string) (*SupportedToken, error)
	List(ctx context.Context) ([]*SupportedToken, error)
	Add(ctx context.Context, token *SupportedToken) error
	Update(ctx context.Context, token *SupportedToken) error
}
