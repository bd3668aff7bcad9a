package mint

import (
	"context"
	"errors"
	"testing"

	"github.com/ctsync/ctsync/constants"
	"github.com/shopspring/decimal"
)

func TestValidateNilSigner(t *testing.T) {
	if err := NewValidator().Validate(context.Background(), nil); !errors.Is(err, ErrNoWallet) {
		t.Fatalf("err %v, want ErrNoWallet", err)
	}
}

func TestValidateWrongNetwork(t *testing.T) {
	signer := fundedSigner()
	signer.chainId = 1
	err := NewValidator().Validate(context.Background(), signer)
	if !errors.Is(err, ErrWrongNetwork) {
		t.Fatalf("err %v, want ErrWrongNetwork", err)
	}
}

func TestValidateBalanceBoundary(t *testing.T) {
	minWei := decimal.RequireFromString(constants.MinBalanceEther).Mul(decimal.New(1, 18))

	signer := fundedSigner()
	signer.balance = minWei
	if err := NewValidator().Validate(context.Background(), signer); err != nil {
		t.Fatalf("balance exactly at the minimum must pass: %v", err)
	}

	signer.balance = minWei.Sub(decimal.New(1, 0))
	err := NewValidator().Validate(context.Background(), signer)
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("err %v, want ErrInsufficientFunds", err)
	}
}

func TestGuardRejectsHeldToken(t *testing.T) {
	guard := NewGuard()
	if err := guard.Acquire("tok"); err != nil {
		t.Fatal(err)
	}
	if err := guard.Acquire("tok"); !errors.Is(err, ErrMintInProgress) {
		t.Fatalf("err %v, want ErrMintInProgress", err)
	}
	if err := guard.Acquire("other"); err != nil {
		t.Fatalf("distinct tokens must not contend: %v", err)
	}
	guard.Release("tok")
	if err := guard.Acquire("tok"); err != nil {
		t.Fatalf("released token must be reusable: %v", err)
	}
}

func TestUserMessageCoversEveryKind(t *testing.T) {
	kinds := []error{
		ErrNoWallet, ErrWrongNetwork, ErrInsufficientFunds, ErrUploadFailed,
		ErrUserRejected, ErrBroadcastFailed, ErrConfirmationTimeout, ErrMintInProgress,
	}
	fallback := UserMessage(errors.New("something else"))
	for _, kind := range kinds {
		if UserMessage(kind) == fallback {
			t.Fatalf("%v has no dedicated user message", kind)
		}
	}
}

func TestStagePercentMonotonic(t *testing.T) {
	order := []Stage{StageUploading, StageBuildingMetadata, StageAwaitingSignature, StageAwaitingConfirmation, StageSucceeded}
	last := -1
	for _, stage := range order {
		if stage.Percent() <= last {
			t.Fatalf("stage %s percent %d not increasing", stage, stage.Percent())
		}
		last = stage.Percent()
	}
	if last != 100 {
		t.Fatalf("terminal percent %d, want 100", last)
	}
}
