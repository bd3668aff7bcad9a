package storage

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/ctsync/ctsync/constants"
	"github.com/ctsync/ctsync/internal/metrics"
)

// ErrContentUnavailable is the terminal value after every mirror has been
// tried. It is an explicit state, not a crash; callers render it as an
// unavailable placeholder.
var ErrContentUnavailable = errors.New("content unavailable on all gateways")

// Resolver materializes stored content references into viewable bytes by
// walking an ordered list of independent mirrors. The order is fixed and
// deterministic; no mirror is re-ranked on past failures within a session.
type Resolver struct {
	options *ResolverOptions
}

type ResolverOptions struct {
	gateways []string
	client   *http.Client
}

type ResolverOption func(*ResolverOptions)

func WithGateways(gateways []string) ResolverOption {
	return func(o *ResolverOptions) {
		o.gateways = gateways
	}
}

func WithResolverHTTPClient(client *http.Client) ResolverOption {
	return func(o *ResolverOptions) {
		o.client = client
	}
}

func NewResolver(opts ...ResolverOption) *Resolver {
	options := &ResolverOptions{
		gateways: constants.Gateways,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(options)
	}
	return &Resolver{options: options}
}

// Candidates returns the ordered fetch URL sequence for a stored reference
// string.
func (r *Resolver) Candidates(stored string) []string {
	return ParseReference(stored).Candidates(r.options.gateways)
}

// Fetch walks the candidate sequence in order, returning the first
// successful body and its content type. It returns ErrContentUnavailable
// once the sequence is exhausted.
func (r *Resolver) Fetch(ctx context.Context, ref Reference) ([]byte, string, error) {
	candidates := ref.Candidates(r.options.gateways)
	for i, candidate := range candidates {
		gateway := "opaque"
		if ref.Kind != OpaqueURL {
			gateway = r.options.gateways[i]
		}
		body, contentType, err := r.fetchOne(ctx, candidate)
		if err != nil {
			if ctx.Err() != nil {
				return nil, "", ctx.Err()
			}
			metrics.GatewayAttempts.WithLabelValues(gateway, "miss").Inc()
			continue
		}
		metrics.GatewayAttempts.WithLabelValues(gateway, "hit").Inc()
		return body, contentType, nil
	}
	return nil, "", ErrContentUnavailable
}

func (r *Resolver) fetchOne(ctx context.Context, url string) ([]byte, string, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := r.options.client.Do(request)
	if err != nil {
		return nil, "", err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return nil, "", errors.New(resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = constants.ContentTypeOctetStream.String()
	}
	return body, contentType, nil
}
