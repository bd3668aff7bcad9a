package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/ctsync/ctsync/constants"
)

// ErrTooLarge is returned before any bytes reach the storage backend, so an
// oversize failure is attributable to the input rather than infrastructure.
var ErrTooLarge = fmt.Errorf("content exceeds %d bytes", constants.MaxUploadBytes)

// Addresser uploads raw bytes to content-addressed storage and returns a
// stable content reference. It never retries internally; retries are the
// orchestrator's call.
type Addresser struct {
	options *AddresserOptions
}

type AddresserOptions struct {
	endpoint string
	apiKey   string
	maxBytes int64
	client   *http.Client
}

type AddresserOption func(*AddresserOptions)

func WithEndpoint(endpoint string) AddresserOption {
	return func(o *AddresserOptions) {
		o.endpoint = endpoint
	}
}

func WithApiKey(apiKey string) AddresserOption {
	return func(o *AddresserOptions) {
		o.apiKey = apiKey
	}
}

func WithMaxBytes(n int64) AddresserOption {
	return func(o *AddresserOptions) {
		o.maxBytes = n
	}
}

func WithHTTPClient(client *http.Client) AddresserOption {
	return func(o *AddresserOptions) {
		o.client = client
	}
}

func NewAddresser(opts ...AddresserOption) (*Addresser, error) {
	options := &AddresserOptions{
		maxBytes: constants.MaxUploadBytes,
		client:   &http.Client{Timeout: 5 * time.Minute},
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.endpoint == "" {
		return nil, fmt.Errorf("storage endpoint is empty")
	}
	return &Addresser{options: options}, nil
}

type uploadResp struct {
	Hash string `json:"IpfsHash"`
}

// Upload posts data to the pinning endpoint and returns its content
// reference. The same bytes always yield the same hash; that determinism is
// what makes "permanently recorded" meaningful.
func (a *Addresser) Upload(ctx context.Context, data []byte, mimeHint string) (Reference, error) {
	if int64(len(data)) > a.options.maxBytes {
		return Reference{}, ErrTooLarge
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "evidence")
	if err != nil {
		return Reference{}, err
	}
	if _, err := part.Write(data); err != nil {
		return Reference{}, err
	}
	if err := writer.Close(); err != nil {
		return Reference{}, err
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, a.options.endpoint, body)
	if err != nil {
		return Reference{}, err
	}
	request.Header.Set("Content-Type", writer.FormDataContentType())
	if mimeHint != "" {
		request.Header.Set("X-Content-Hint", mimeHint)
	}
	if a.options.apiKey != "" {
		request.Header.Set("Authorization", "Bearer "+a.options.apiKey)
	}

	resp, err := a.options.client.Do(request)
	if err != nil {
		return Reference{}, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return Reference{}, fmt.Errorf("error reading upload reply: %v", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if len(respBytes) == 0 {
			return Reference{}, fmt.Errorf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
		}
		return Reference{}, fmt.Errorf("%s", respBytes)
	}

	result := &uploadResp{}
	if err := json.Unmarshal(respBytes, result); err != nil {
		return Reference{}, err
	}
	if result.Hash == "" {
		return Reference{}, fmt.Errorf("storage backend returned an empty hash")
	}
	return NewHashReference(result.Hash), nil
}
