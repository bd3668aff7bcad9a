package storage

import (
	"testing"

	"github.com/ctsync/ctsync/constants"
)

func TestParseReference(t *testing.T) {
	for _, v := range []struct {
		raw  string
		kind RefKind
		hash string
	}{
		{"Qm123", BareHash, "Qm123"},
		{"ipfs://Qm123", NativeURI, "Qm123"},
		{"https://ipfs.io/ipfs/Qm123", GatewayURL, "Qm123"},
		{"https://example.com/evidence.png", OpaqueURL, ""},
		{"  Qm123  ", BareHash, "Qm123"},
	} {
		ref := ParseReference(v.raw)
		if ref.Kind != v.kind {
			t.Fatalf("%s: kind %v, want %v", v.raw, ref.Kind, v.kind)
		}
		if ref.Hash() != v.hash {
			t.Fatalf("%s: hash %q, want %q", v.raw, ref.Hash(), v.hash)
		}
	}
}

func TestParseReferenceEmpty(t *testing.T) {
	if !ParseReference("").IsZero() {
		t.Fatal("empty input must parse to the zero reference")
	}
	if !ParseReference("   ").IsZero() {
		t.Fatal("blank input must parse to the zero reference")
	}
}

// Equivalent spellings of the same content hash must resolve through the
// same mirror first.
func TestCandidatesEquivalentSpellings(t *testing.T) {
	spellings := []string{
		"ipfs://Qm123",
		constants.Gateways[1] + "Qm123",
		"Qm123",
	}
	want := constants.Gateways[0] + "Qm123"
	for _, raw := range spellings {
		candidates := ParseReference(raw).Candidates(constants.Gateways)
		if len(candidates) != len(constants.Gateways) {
			t.Fatalf("%s: %d candidates, want %d", raw, len(candidates), len(constants.Gateways))
		}
		if candidates[0] != want {
			t.Fatalf("%s: first candidate %q, want %q", raw, candidates[0], want)
		}
	}
}

func TestCandidatesOpaque(t *testing.T) {
	raw := "https://example.com/evidence.png"
	candidates := ParseReference(raw).Candidates(constants.Gateways)
	if len(candidates) != 1 {
		t.Fatalf("opaque reference must have exactly one candidate, got %d", len(candidates))
	}
	if candidates[0] != raw {
		t.Fatalf("opaque candidate %q, want %q", candidates[0], raw)
	}
}

func TestReferenceURI(t *testing.T) {
	if uri := NewHashReference("Qm123").URI(); uri != "ipfs://Qm123" {
		t.Fatalf("uri %q, want ipfs://Qm123", uri)
	}
	raw := "https://example.com/evidence.png"
	if uri := ParseReference(raw).URI(); uri != raw {
		t.Fatalf("opaque uri %q, want %q", uri, raw)
	}
}
