package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ctsync/ctsync/model"
)

// Ledger is the query collaborator over the public record set.
type Ledger interface {
	ListRecords(ctx context.Context, sort model.SortOrder) ([]model.EvidenceRecord, error)
	GetRecord(ctx context.Context, id string) (*model.EvidenceRecord, error)
}

// LedgerClient reads records from the ledger query service over HTTP.
type LedgerClient struct {
	baseUrl string
	client  *http.Client
}

func NewLedgerClient(baseUrl string) *LedgerClient {
	return &LedgerClient{
		baseUrl: baseUrl,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (l *LedgerClient) ListRecords(ctx context.Context, sort model.SortOrder) ([]model.EvidenceRecord, error) {
	if sort == "" {
		sort = model.SortNewest
	}
	url := fmt.Sprintf("%s/records?sort=%s", l.baseUrl, sort)
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	records := make([]model.EvidenceRecord, 0)
	if err := l.doRetry(request, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (l *LedgerClient) GetRecord(ctx context.Context, id string) (*model.EvidenceRecord, error) {
	url := fmt.Sprintf("%s/record/%s", l.baseUrl, id)
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.client.Do(request)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ledger query: %s", resp.Status)
	}
	record := &model.EvidenceRecord{}
	if err := json.NewDecoder(resp.Body).Decode(record); err != nil {
		return nil, err
	}
	return record, nil
}

func (l *LedgerClient) doRetry(request *http.Request, result interface{}) error {
	idx := 0
	for {
		idx++
		if idx > 1 {
			if idx > 3 {
				return fmt.Errorf("retry 3 times")
			}
			time.Sleep(time.Second)
		}
		resp, err := l.client.Do(request)
		if err != nil {
			continue
		}
		if resp.StatusCode != http.StatusOK {
			_ = resp.Body.Close()
			continue
		}
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			_ = resp.Body.Close()
			continue
		}
		_ = resp.Body.Close()
		return nil
	}
}
