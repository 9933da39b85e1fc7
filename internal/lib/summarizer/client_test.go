package summarizer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"rentnova/internal/config"
	"rentnova/internal/domain"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func chatServer(t *testing.T, status int, content string, seen *string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		body, _ := io.ReadAll(r.Body)
		if seen != nil {
			*seen = string(body)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
			return
		}

		resp := map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"model":  "gpt-4o-mini",
			"choices": []map[string]any{
				{"index": 0, "finish_reason": "stop", "message": map[string]string{"role": "assistant", "content": content}},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func testConfig(baseURL string) config.LLMConfig {
	return config.LLMConfig{
		Enabled: true,
		BaseURL: baseURL,
		APIKey:  "test-key",
		Model:   "gpt-4o-mini",
		Timeout: 5 * time.Second,
	}
}

var testEntries = []Entry{
	{Title: "Sunny loft", City: "Austin", MatchPercentage: 85, Reasons: []string{"Within your budget range", "In your preferred location"}},
	{Title: "Quiet studio", City: "Dallas", MatchPercentage: 60},
}

func TestNewFromConfig_Disabled(t *testing.T) {
	s := NewFromConfig(config.LLMConfig{Enabled: false}, newTestLogger())

	assert.False(t, s.IsEnabled())

	_, err := s.Summarize(context.Background(), testEntries, domain.UserPreferences{})
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestNewFromConfig_Enabled(t *testing.T) {
	s := NewFromConfig(testConfig("http://localhost:0"), newTestLogger())

	assert.True(t, s.IsEnabled())
	_, ok := s.(*Guard)
	assert.True(t, ok)
}

func TestClient_Summarize_JSONAnswer(t *testing.T) {
	var body string
	srv := chatServer(t, http.StatusOK, "Sure! {\"summary\": \"Sunny loft in Austin is your best bet.\"}", &body)
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), newTestLogger())
	prefs := domain.UserPreferences{
		Budget:    domain.Budget{Min: 1000, Max: 2000},
		Locations: []string{"Austin"},
		WorkStyle: domain.WorkStyleRemote,
		PetOwner:  true,
	}

	got, err := c.Summarize(context.Background(), testEntries, prefs)
	require.NoError(t, err)
	assert.Equal(t, "Sunny loft in Austin is your best bet.", got)

	assert.Contains(t, body, "Sunny loft in Austin, 85% match")
	assert.Contains(t, body, "Work style: remote")
	assert.Contains(t, body, "Has pets")
}

func TestClient_Summarize_PlainTextAnswer(t *testing.T) {
	srv := chatServer(t, http.StatusOK, "  Two good options near you.  ", nil)
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), newTestLogger())

	got, err := c.Summarize(context.Background(), testEntries, domain.UserPreferences{})
	require.NoError(t, err)
	assert.Equal(t, "Two good options near you.", got)
}

func TestClient_Summarize_EmptyAnswer(t *testing.T) {
	srv := chatServer(t, http.StatusOK, `{"summary": "   "}`, nil)
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), newTestLogger())

	_, err := c.Summarize(context.Background(), testEntries, domain.UserPreferences{})
	assert.ErrorIs(t, err, ErrEmptySummary)
}

func TestClient_Summarize_ServerError(t *testing.T) {
	srv := chatServer(t, http.StatusInternalServerError, "", nil)
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), newTestLogger())

	_, err := c.Summarize(context.Background(), testEntries, domain.UserPreferences{})
	assert.Error(t, err)
}

func TestClient_Summarize_ContextCancelled(t *testing.T) {
	srv := chatServer(t, http.StatusOK, `{"summary": "late"}`, nil)
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), newTestLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Summarize(ctx, testEntries, domain.UserPreferences{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "pure json", input: `{"summary": "x"}`, want: `{"summary": "x"}`},
		{name: "json with prefix", input: `Here you go: {"summary": "x"}`, want: `{"summary": "x"}`},
		{name: "json with suffix", input: `{"summary": "x"} hope this helps`, want: `{"summary": "x"}`},
		{name: "no json", input: "plain text", want: "plain text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractJSON(tt.input))
		})
	}
}

func TestEntriesFrom(t *testing.T) {
	recs := []domain.Recommendation{
		{
			Property: domain.Property{Title: "Loft", City: "Austin"},
			Score:    domain.RecommendationScore{MatchPercentage: 72, Reasons: []string{"In your preferred location"}},
		},
	}

	got := EntriesFrom(recs)

	assert.Equal(t, []Entry{{Title: "Loft", City: "Austin", MatchPercentage: 72, Reasons: []string{"In your preferred location"}}}, got)
	assert.Empty(t, EntriesFrom(nil))
}
