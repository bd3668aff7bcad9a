package mint

import (
	"context"
	"fmt"

	"github.com/ctsync/ctsync/client"
	"github.com/ctsync/ctsync/constants"
	"github.com/shopspring/decimal"
)

// Validator checks that a signer is eligible to write before any upload or
// signing is attempted. It is read-only and short-circuits on the first
// failed check.
type Validator struct {
	chainId       uint64
	minBalanceWei decimal.Decimal
}

// NewValidator builds a validator for the supported network and the
// configured minimum balance.
func NewValidator() *Validator {
	return &Validator{
		chainId: constants.ChainIdSepolia,
		// ether to wei
		minBalanceWei: decimal.RequireFromString(constants.MinBalanceEther).Mul(decimal.New(1, 18)),
	}
}

// Validate checks, in order: a signer is present, the signer's network is
// the supported one, and the balance covers the configured minimum. No
// network write happens here.
func (v *Validator) Validate(ctx context.Context, signer client.Signer) error {
	if signer == nil {
		return ErrNoWallet
	}
	chainId, err := signer.ChainId(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNoWallet, err)
	}
	if chainId != v.chainId {
		return fmt.Errorf("%w: connected to chain %d, want %d", ErrWrongNetwork, chainId, v.chainId)
	}
	balance, err := signer.Balance(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInsufficientFunds, err)
	}
	if balance.LessThan(v.minBalanceWei) {
		return fmt.Errorf("%w: balance %s wei below minimum %s wei",
			ErrInsufficientFunds, balance.String(), v.minBalanceWei.String())
	}
	return nil
}
