package assess

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ctsync/ctsync/constants"
	"github.com/stretchr/testify/require"
)

func chatServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": content}},
			},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestAssessMissingKeyFallsBack(t *testing.T) {
	a := NewAssessor()
	got := a.Assess(context.Background(), "title", "description")
	require.Equal(t, Fallback(), got)
}

func TestAssessUnreachableFallsBack(t *testing.T) {
	a := NewAssessor(
		WithApiKey("k"),
		WithEndpoint("http://127.0.0.1:1/v1/chat/completions"),
	)
	start := time.Now()
	got := a.Assess(context.Background(), "title", "description")
	require.Equal(t, constants.SeverityMedium, got.Level)
	require.Equal(t, 60, got.Confidence)
	require.Less(t, time.Since(start), constants.AssessTimeout)
}

func TestAssessServerErrorFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()
	a := NewAssessor(WithApiKey("k"), WithEndpoint(srv.URL))
	require.Equal(t, Fallback(), a.Assess(context.Background(), "title", ""))
}

func TestAssessParsesSeverity(t *testing.T) {
	for _, v := range []struct {
		content string
		level   constants.Severity
	}{
		{"High | Exposed wiring near a school crossing is an immediate hazard.", constants.SeverityHigh},
		{"LOW | Cosmetic damage only.", constants.SeverityLow},
		{"This looks like a medium priority issue.", constants.SeverityMedium},
		{"No clear signal either way.", constants.SeverityMedium},
	} {
		srv := chatServer(t, v.content)
		a := NewAssessor(WithApiKey("k"), WithEndpoint(srv.URL))
		got := a.Assess(context.Background(), v.content, "")
		require.Equal(t, v.level, got.Level, v.content)
		require.Equal(t, v.content, got.Text)
	}
}

func TestConfidenceRanges(t *testing.T) {
	for _, v := range []struct {
		content  string
		min, max int
	}{
		{"High | urgent.", 80, 95},
		{"Medium | notable.", 70, 85},
		{"Low | minor.", 60, 75},
	} {
		srv := chatServer(t, v.content)
		// intn pinned to both ends of the range
		low := NewAssessor(WithApiKey("k"), WithEndpoint(srv.URL), WithIntn(func(n int) int { return 0 }))
		require.Equal(t, v.min, low.Assess(context.Background(), v.content, "").Confidence)
		high := NewAssessor(WithApiKey("k"), WithEndpoint(srv.URL), WithIntn(func(n int) int { return n - 1 }))
		require.Equal(t, v.max, high.Assess(context.Background(), v.content+"x", "").Confidence)
	}
}

func TestLevelFromConfidence(t *testing.T) {
	require.Equal(t, constants.SeverityHigh, LevelFromConfidence(76))
	require.Equal(t, constants.SeverityMedium, LevelFromConfidence(75))
	require.Equal(t, constants.SeverityMedium, LevelFromConfidence(51))
	require.Equal(t, constants.SeverityLow, LevelFromConfidence(50))
	require.Equal(t, constants.SeverityLow, LevelFromConfidence(0))
}

func TestAssessCoalescesIdenticalCalls(t *testing.T) {
	calls := 0
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		<-block
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "High | hazard."}},
			},
		})
	}))
	defer srv.Close()

	a := NewAssessor(WithApiKey("k"), WithEndpoint(srv.URL))
	results := make(chan Assessment, 2)
	for i := 0; i < 2; i++ {
		go func() {
			results <- a.Assess(context.Background(), "same title", "same description")
		}()
	}
	// Let both goroutines reach the singleflight before releasing the
	// backend.
	time.Sleep(100 * time.Millisecond)
	close(block)
	first, second := <-results, <-results
	require.Equal(t, first, second)
	require.Equal(t, 1, calls)
}
