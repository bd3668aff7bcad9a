package server

import (
	"context"
	"fmt"
	"time"

	"github.com/ctsync/ctsync/client"
	"github.com/ctsync/ctsync/internal/sentry"
	"github.com/ctsync/ctsync/model"
	"github.com/ctsync/ctsync/pkg/log"
	"github.com/ctsync/ctsync/server/dao"
	"github.com/ctsync/ctsync/server/tables"
)

// Syncer periodically pulls the public record set from the ledger query
// service into the local index. Anchored fields never change, so each pass
// is a plain upsert keyed by record id.
type Syncer struct {
	options *SyncerOptions
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
}

type SyncerOptions struct {
	db       *dao.DB
	ledger   client.Ledger
	interval time.Duration
}

type SyncerOption func(*SyncerOptions)

func WithSyncDB(db *dao.DB) SyncerOption {
	return func(options *SyncerOptions) {
		options.db = db
	}
}

func WithSyncLedger(ledger client.Ledger) SyncerOption {
	return func(options *SyncerOptions) {
		options.ledger = ledger
	}
}

func WithSyncInterval(interval time.Duration) SyncerOption {
	return func(options *SyncerOptions) {
		options.interval = interval
	}
}

func NewSyncer(opts ...SyncerOption) *Syncer {
	options := &SyncerOptions{}
	for _, opt := range opts {
		opt(options)
	}
	if options.interval <= 0 {
		options.interval = 30 * time.Second
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Syncer{
		options: options,
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
}

func (s *Syncer) Start() {
	go func() {
		defer sentry.RecoverPanic()
		defer close(s.done)

		s.syncOnce()
		ticker := time.NewTicker(s.options.interval)
		defer ticker.Stop()
		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.syncOnce()
			}
		}
	}()
}

func (s *Syncer) Stop() {
	s.cancel()
	<-s.done
	log.Sync.Info("syncer stopped")
}

func (s *Syncer) syncOnce() {
	records, err := s.options.ledger.ListRecords(s.ctx, model.SortNewest)
	if err != nil {
		log.Sync.Errorw("list records", "err", err)
		return
	}
	// One transaction per pass so readers never see a partially refreshed
	// mirror.
	err = s.options.db.Transaction(func(tx *dao.DB) error {
		for i := range records {
			if err := tx.SaveRecord(tables.FromRecord(&records[i])); err != nil {
				return fmt.Errorf("save record %s: %w", records[i].ID, err)
			}
		}
		return nil
	})
	if err != nil {
		log.Sync.Errorw("sync pass rolled back", "err", err)
		return
	}
	log.Sync.Infow("sync pass", "records", len(records))
}
