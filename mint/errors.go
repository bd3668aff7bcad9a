package mint

import "errors"

// Terminal failure kinds for the submission pipeline. The first three are
// pre-flight and user-fixable; upload and broadcast failures are transient
// and user-retriable; a confirmation timeout is ambiguous and deliberately
// not retried, since resubmitting risks a duplicate anchor.
var (
	ErrNoWallet            = errors.New("NoWallet")
	ErrWrongNetwork        = errors.New("WrongNetwork")
	ErrInsufficientFunds   = errors.New("InsufficientFunds")
	ErrUploadFailed        = errors.New("UploadFailed")
	ErrUserRejected        = errors.New("UserRejected")
	ErrBroadcastFailed     = errors.New("BroadcastFailed")
	ErrConfirmationTimeout = errors.New("ConfirmationTimeout")
	ErrMintInProgress      = errors.New("MintInProgress")
)

var userMessages = map[error]string{
	ErrNoWallet:            "Please connect your wallet first",
	ErrWrongNetwork:        "Please switch to Sepolia testnet in your wallet",
	ErrInsufficientFunds:   "Insufficient balance to cover the anchoring transaction",
	ErrUploadFailed:        "Evidence upload failed. Please try again",
	ErrUserRejected:        "Transaction was cancelled in the wallet",
	ErrBroadcastFailed:     "Broadcast failed. Please try again",
	ErrConfirmationTimeout: "Confirmation timed out. The transaction may still confirm - check the explorer before resubmitting",
	ErrMintInProgress:      "A submission is already in progress for this session",
}

// UserMessage returns the user-facing message for a terminal pipeline
// failure.
func UserMessage(err error) string {
	for kind, msg := range userMessages {
		if errors.Is(err, kind) {
			return msg
		}
	}
	return "Submission failed. Please try again"
}

// ResultLabel names the terminal outcome for metrics: "ok" on success, the
// failure kind otherwise.
func ResultLabel(err error) string {
	if err == nil {
		return "ok"
	}
	for kind := range userMessages {
		if errors.Is(err, kind) {
			return kind.Error()
		}
	}
	return "Unknown"
}
