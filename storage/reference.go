package storage

import (
	"strings"

	"github.com/ctsync/ctsync/constants"
)

// RefKind tags the stored form a content reference was ingested from.
type RefKind int

const (
	// BareHash is a plain content hash with no scheme.
	BareHash RefKind = iota
	// NativeURI is an ipfs:// URI.
	NativeURI
	// GatewayURL is an already-resolved gateway URL containing the hash.
	GatewayURL
	// OpaqueURL is a non-content-addressed URL used as-is.
	OpaqueURL
)

func (k RefKind) String() string {
	switch k {
	case BareHash:
		return "bare_hash"
	case NativeURI:
		return "native_uri"
	case GatewayURL:
		return "gateway_url"
	case OpaqueURL:
		return "opaque_url"
	}
	return "unknown"
}

// Reference is a tagged content reference. For the content-addressed kinds
// the value is the bare hash; for OpaqueURL it is the full URL. Parsing
// happens once at the ingestion boundary so downstream code never re-sniffs
// strings.
type Reference struct {
	Kind  RefKind
	value string
}

// ParseReference normalizes an arbitrary stored form into a Reference.
func ParseReference(s string) Reference {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, constants.NativeScheme):
		return Reference{Kind: NativeURI, value: strings.TrimPrefix(s, constants.NativeScheme)}
	case strings.Contains(s, constants.GatewaySegment):
		parts := strings.SplitN(s, constants.GatewaySegment, 2)
		return Reference{Kind: GatewayURL, value: parts[1]}
	case strings.Contains(s, "://"):
		return Reference{Kind: OpaqueURL, value: s}
	default:
		return Reference{Kind: BareHash, value: s}
	}
}

// NewHashReference builds a Reference from a bare content hash returned by
// the storage backend.
func NewHashReference(hash string) Reference {
	return Reference{Kind: BareHash, value: hash}
}

// Hash returns the bare content hash, or "" for an opaque URL.
func (r Reference) Hash() string {
	if r.Kind == OpaqueURL {
		return ""
	}
	return r.value
}

// URI returns the canonical stored form: ipfs://<hash> for content-addressed
// references, the untouched URL otherwise.
func (r Reference) URI() string {
	if r.Kind == OpaqueURL {
		return r.value
	}
	return constants.NativeScheme + r.value
}

// IsZero reports whether the reference carries no value.
func (r Reference) IsZero() bool {
	return r.value == ""
}

// Candidates produces the ordered fetch URL sequence for the reference. An
// opaque URL is its own single candidate; content-addressed references fan
// out across the mirror list in fixed order.
func (r Reference) Candidates(gateways []string) []string {
	if r.Kind == OpaqueURL {
		return []string{r.value}
	}
	urls := make([]string, 0, len(gateways))
	for _, base := range gateways {
		urls = append(urls, base+r.value)
	}
	return urls
}
