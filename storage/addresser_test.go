package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

// sha-addressed fake so identical bytes always produce identical hashes,
// like the real backend.
func storageServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		file, _, err := r.FormFile("file")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		data, err := io.ReadAll(file)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		sum := sha256.Sum256(data)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"IpfsHash": "Qm" + hex.EncodeToString(sum[:8]),
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestUploadDeterministic(t *testing.T) {
	srv := storageServer(t)
	addresser, err := NewAddresser(WithEndpoint(srv.URL))
	if err != nil {
		t.Fatal(err)
	}
	first, err := addresser.Upload(context.Background(), []byte("same bytes"), "image/png")
	if err != nil {
		t.Fatal(err)
	}
	second, err := addresser.Upload(context.Background(), []byte("same bytes"), "image/png")
	if err != nil {
		t.Fatal(err)
	}
	if first.Hash() != second.Hash() {
		t.Fatalf("same bytes must address to the same hash: %q vs %q", first.Hash(), second.Hash())
	}
	other, err := addresser.Upload(context.Background(), []byte("other bytes"), "image/png")
	if err != nil {
		t.Fatal(err)
	}
	if other.Hash() == first.Hash() {
		t.Fatal("different bytes must not collide")
	}
}

func TestUploadTooLarge(t *testing.T) {
	srv := storageServer(t)
	addresser, err := NewAddresser(WithEndpoint(srv.URL), WithMaxBytes(8))
	if err != nil {
		t.Fatal(err)
	}
	_, err = addresser.Upload(context.Background(), []byte("way past the ceiling"), "")
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("err %v, want ErrTooLarge", err)
	}
}

func TestUploadBackendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(w, "pin queue full")
	}))
	defer srv.Close()
	addresser, err := NewAddresser(WithEndpoint(srv.URL))
	if err != nil {
		t.Fatal(err)
	}
	_, err = addresser.Upload(context.Background(), []byte("data"), "")
	if err == nil {
		t.Fatal("expected error from failing backend")
	}
}

func TestNewAddresserRequiresEndpoint(t *testing.T) {
	if _, err := NewAddresser(); err == nil {
		t.Fatal("empty endpoint must be rejected")
	}
}
