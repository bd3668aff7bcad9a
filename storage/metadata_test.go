package storage

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/ugorji/go/codec"
)

func TestBuildCanonicalDocument(t *testing.T) {
	var uploaded []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		file, _, err := r.FormFile("file")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		uploaded, _ = io.ReadAll(file)
		_ = json.NewEncoder(w).Encode(map[string]string{"IpfsHash": "QmMeta"})
	}))
	defer srv.Close()

	addresser, err := NewAddresser(WithEndpoint(srv.URL))
	if err != nil {
		t.Fatal(err)
	}
	attributes := []Attribute{
		{TraitType: "Urgency", Value: "High"},
		{TraitType: "Location", Value: "City Hall"},
		{TraitType: "Status", Value: "Open"},
	}
	ref, err := NewBuilder(addresser).Build(context.Background(), "Broken streetlight", "Out for weeks", attributes, NewHashReference("QmImage"))
	if err != nil {
		t.Fatal(err)
	}
	if ref.Hash() != "QmMeta" {
		t.Fatalf("metadata hash %q", ref.Hash())
	}

	doc := &Document{}
	if err := json.Unmarshal(uploaded, doc); err != nil {
		t.Fatal(err)
	}
	if doc.Name != "Broken streetlight" {
		t.Fatalf("name %q", doc.Name)
	}
	if doc.Image != "ipfs://QmImage" {
		t.Fatalf("image %q", doc.Image)
	}
	if len(doc.Attributes) != 3 {
		t.Fatalf("%d attributes", len(doc.Attributes))
	}
	// Insertion order survives the round trip.
	for i, attr := range attributes {
		if doc.Attributes[i] != attr {
			t.Fatalf("attribute %d is %+v, want %+v", i, doc.Attributes[i], attr)
		}
	}
}

func TestBuildNilAttributes(t *testing.T) {
	var uploaded []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		file, _, _ := r.FormFile("file")
		uploaded, _ = io.ReadAll(file)
		_ = json.NewEncoder(w).Encode(map[string]string{"IpfsHash": "QmMeta"})
	}))
	defer srv.Close()

	addresser, err := NewAddresser(WithEndpoint(srv.URL))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewBuilder(addresser).Build(context.Background(), "t", "", nil, NewHashReference("QmImage")); err != nil {
		t.Fatal(err)
	}
	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(uploaded, &raw); err != nil {
		t.Fatal(err)
	}
	// attributes must serialize as [] rather than null.
	if string(raw["attributes"]) != "[]" {
		t.Fatalf("attributes %s", raw["attributes"])
	}
}

func TestAttributesFromJsonFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "attrs.json")
	if err := os.WriteFile(path, []byte(`[{"trait_type":"Category","value":"Infrastructure"}]`), 0o644); err != nil {
		t.Fatal(err)
	}
	attrs, err := AttributesFromJsonFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(attrs) != 1 || attrs[0].TraitType != "Category" || attrs[0].Value != "Infrastructure" {
		t.Fatalf("attrs %+v", attrs)
	}
}

func TestAttributesFromCborFile(t *testing.T) {
	want := []Attribute{{TraitType: "Category", Value: "Safety"}}
	raw := make([]byte, 0, 64)
	if err := codec.NewEncoderBytes(&raw, &codec.CborHandle{}).Encode(want); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "attrs.cbor")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatal(err)
	}
	attrs, err := AttributesFromCborFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(attrs) != 1 || attrs[0] != want[0] {
		t.Fatalf("attrs %+v", attrs)
	}
}
