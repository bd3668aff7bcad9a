package mint

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ctsync/ctsync/client"
	"github.com/ctsync/ctsync/constants"
	"github.com/ctsync/ctsync/internal/metrics"
	"github.com/ctsync/ctsync/pkg/log"
	"github.com/ctsync/ctsync/storage"
)

// Confirmer waits on the ledger's acknowledgment of a broadcast
// transaction.
type Confirmer interface {
	TransactionReceipt(ctx context.Context, txHash string) (*client.Receipt, error)
}

// Submission is one evidence submission attempt.
type Submission struct {
	// Token is the caller-supplied session token; a second concurrent
	// run with the same token is rejected. Empty means unguarded.
	Token       string
	Data        []byte
	ContentType string
	Name        string
	Description string
	Attributes  []storage.Attribute
	// DryRun stops after the metadata build; nothing is signed or
	// broadcast.
	DryRun bool
}

// Result is the terminal success value of one run.
type Result struct {
	RecordId    string            `json:"record_id"`
	Owner       string            `json:"owner"`
	TxHash      string            `json:"tx_hash"`
	ImageRef    storage.Reference `json:"-"`
	MetadataRef storage.Reference `json:"-"`
	ImageURI    string            `json:"image_uri"`
	MetadataURI string            `json:"metadata_uri"`
	ExplorerURL string            `json:"explorer_url"`
}

// Minter sequences validation, upload, metadata build, and the on-chain
// anchor, emitting progress events and producing a terminal result. Steps
// run strictly sequentially; nothing is started speculatively. Re-running
// after any failure is always safe and produces a new, independent record.
type Minter struct {
	options *MinterOptions
}

type MinterOptions struct {
	signer          client.Signer
	confirmer       Confirmer
	validator       *Validator
	addresser       *storage.Addresser
	builder         *storage.Builder
	guard           *Guard
	contract        string
	confirmInterval time.Duration
	confirmWait     time.Duration
}

type MinterOption func(*MinterOptions)

func WithSigner(signer client.Signer) MinterOption {
	return func(o *MinterOptions) {
		o.signer = signer
	}
}

func WithConfirmer(confirmer Confirmer) MinterOption {
	return func(o *MinterOptions) {
		o.confirmer = confirmer
	}
}

func WithValidator(validator *Validator) MinterOption {
	return func(o *MinterOptions) {
		o.validator = validator
	}
}

func WithAddresser(addresser *storage.Addresser) MinterOption {
	return func(o *MinterOptions) {
		o.addresser = addresser
	}
}

func WithBuilder(builder *storage.Builder) MinterOption {
	return func(o *MinterOptions) {
		o.builder = builder
	}
}

func WithGuard(guard *Guard) MinterOption {
	return func(o *MinterOptions) {
		o.guard = guard
	}
}

func WithContract(contract string) MinterOption {
	return func(o *MinterOptions) {
		o.contract = contract
	}
}

func WithConfirmInterval(interval time.Duration) MinterOption {
	return func(o *MinterOptions) {
		o.confirmInterval = interval
	}
}

func WithConfirmWait(wait time.Duration) MinterOption {
	return func(o *MinterOptions) {
		o.confirmWait = wait
	}
}

func NewMinter(opts ...MinterOption) (*Minter, error) {
	options := &MinterOptions{
		validator:       NewValidator(),
		guard:           NewGuard(),
		confirmInterval: 3 * time.Second,
		confirmWait:     constants.ConfirmWait,
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.addresser == nil {
		return nil, fmt.Errorf("addresser is nil")
	}
	if options.builder == nil {
		return nil, fmt.Errorf("builder is nil")
	}
	if options.contract == "" {
		return nil, fmt.Errorf("contract address is empty")
	}
	return &Minter{options: options}, nil
}

// Mint runs the full pipeline for one submission. progress may be nil. The
// returned error, if any, wraps exactly one of the terminal failure kinds.
func (m *Minter) Mint(ctx context.Context, sub *Submission, progress ProgressFunc) (result *Result, err error) {
	defer func() {
		metrics.MintResults.WithLabelValues(ResultLabel(err)).Inc()
	}()

	if sub.Token != "" {
		if err = m.options.guard.Acquire(sub.Token); err != nil {
			return nil, err
		}
		defer m.options.guard.Release(sub.Token)
	}

	emit := func(stage Stage) {
		if progress == nil {
			return
		}
		progress(Progress{
			Step:    int(stage),
			Message: stage.Message(),
			Percent: stage.Percent(),
		})
	}

	// Pre-flight. A missing signer fails immediately with no progress
	// emitted; nothing has been uploaded or signed at this point.
	if m.options.signer == nil {
		return nil, ErrNoWallet
	}
	if err = m.options.validator.Validate(ctx, m.options.signer); err != nil {
		return nil, err
	}

	emit(StageUploading)
	imageRef, err := m.options.addresser.Upload(ctx, sub.Data, sub.ContentType)
	if err != nil {
		// Not retried here: resubmission is cheap and idempotent by
		// content hash.
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	log.Log.Infow("evidence uploaded", "hash", imageRef.Hash(), "size", len(sub.Data))

	emit(StageBuildingMetadata)
	metadataRef, err := m.options.builder.Build(ctx, sub.Name, sub.Description, sub.Attributes, imageRef)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	log.Log.Infow("metadata anchored to storage", "hash", metadataRef.Hash())

	result = &Result{
		Owner:       m.options.signer.Address(),
		ImageRef:    imageRef,
		MetadataRef: metadataRef,
		ImageURI:    imageRef.URI(),
		MetadataURI: metadataRef.URI(),
	}
	if sub.DryRun {
		log.Log.Info("dry run success")
		return result, nil
	}

	emit(StageAwaitingSignature)
	txHash, err := m.options.signer.SendTransaction(ctx, &client.TxRequest{
		To:   m.options.contract,
		Data: client.EncodeAnchorData(metadataRef.URI()),
	})
	if err != nil {
		var rpcErr *client.RPCError
		if errors.As(err, &rpcErr) && rpcErr.Code == client.CodeUserRejected {
			return nil, fmt.Errorf("%w: %v", ErrUserRejected, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrBroadcastFailed, err)
	}
	result.TxHash = txHash
	result.ExplorerURL = constants.ExplorerTxPrefix + txHash
	log.Log.Infow("anchor transaction broadcast", "tx", txHash)

	emit(StageAwaitingConfirmation)
	recordId, err := m.confirm(ctx, txHash)
	if err != nil {
		return result, err
	}
	result.RecordId = recordId

	emit(StageSucceeded)
	log.Log.Infow("evidence recorded", "record_id", recordId, "tx", txHash)
	return result, nil
}

// confirm polls for the transaction receipt until the bounded wait expires.
// The broadcast cannot be cancelled once sent; on timeout the outcome is
// ambiguous, so the error carries explorer guidance instead of retrying.
func (m *Minter) confirm(ctx context.Context, txHash string) (string, error) {
	if m.options.confirmer == nil {
		return "", fmt.Errorf("%w: no confirmer configured", ErrConfirmationTimeout)
	}
	deadline := time.NewTimer(m.options.confirmWait)
	defer deadline.Stop()
	ticker := time.NewTicker(m.options.confirmInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return "", fmt.Errorf("%w: %v", ErrConfirmationTimeout, ctx.Err())
		case <-deadline.C:
			return "", fmt.Errorf("%w: no acknowledgment for %s within %s",
				ErrConfirmationTimeout, txHash, m.options.confirmWait)
		case <-ticker.C:
			receipt, err := m.options.confirmer.TransactionReceipt(ctx, txHash)
			if err != nil {
				log.Log.Warnw("receipt poll failed", "tx", txHash, "err", err)
				continue
			}
			if receipt == nil {
				continue
			}
			if !receipt.Ok() {
				return "", fmt.Errorf("%w: transaction %s reverted", ErrBroadcastFailed, txHash)
			}
			recordId, err := receipt.RecordId()
			if err != nil {
				return "", fmt.Errorf("%w: %v", ErrBroadcastFailed, err)
			}
			return recordId, nil
		}
	}
}
