package riot

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/capao/capitascore/internal/platform/logging"
	"github.com/capao/capitascore/internal/platform/resilience"
	"github.com/capao/capitascore/internal/usecase"
)

func newTestClient(t *testing.T, handler http.Handler, cfg ClientConfig) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg.BaseURL = server.URL
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNop()
	}
	return NewClient(cfg)
}

func TestListMatchIDsSendsAuthAndWindow(t *testing.T) {
	var gotPath, gotToken, gotStart, gotCount string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotToken = r.Header.Get("X-Riot-Token")
		gotStart = r.URL.Query().Get("start")
		gotCount = r.URL.Query().Get("count")
		w.Write([]byte(`["BR1_10","BR1_9","BR1_8"]`))
	})
	client := newTestClient(t, handler, ClientConfig{APIKey: "RGAPI-test-key"})

	ids, err := client.ListMatchIDs(context.Background(), "puuid-a", 5, 3)
	require.NoError(t, err)
	require.Equal(t, []string{"BR1_10", "BR1_9", "BR1_8"}, ids)

	require.Equal(t, "/lol/match/v5/matches/by-puuid/puuid-a/ids", gotPath)
	require.Equal(t, "RGAPI-test-key", gotToken)
	require.Equal(t, "5", gotStart)
	require.Equal(t, "3", gotCount)
}

func TestListMatchIDsValidatesArguments(t *testing.T) {
	client := NewClient(ClientConfig{Logger: logging.NewNop()})

	_, err := client.ListMatchIDs(context.Background(), "", 0, 10)
	require.Error(t, err)
	_, err = client.ListMatchIDs(context.Background(), "puuid-a", -1, 10)
	require.Error(t, err)
	_, err = client.ListMatchIDs(context.Background(), "puuid-a", 0, 0)
	require.Error(t, err)
}

func TestFetchMatchMapsEnvelope(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/lol/match/v5/matches/BR1_42", r.URL.Path)
		w.Write([]byte(`{
			"metadata": {"matchId": "BR1_42", "participants": ["puuid-a", "puuid-b"]},
			"info": {
				"gameId": 42,
				"gameDuration": 1800,
				"gameMode": "CLASSIC",
				"participants": [
					{"puuid": "puuid-a", "riotIdGameName": "Player A", "teamId": 100, "championName": "Ahri", "kills": 7, "deaths": 2, "assists": 4, "win": true},
					{"puuid": "puuid-b", "teamId": 200, "championName": "Garen", "kills": 1}
				]
			}
		}`))
	})
	client := newTestClient(t, handler, ClientConfig{})

	ext, err := client.FetchMatch(context.Background(), "BR1_42")
	require.NoError(t, err)

	require.Equal(t, "BR1_42", ext.Metadata.MatchID)
	require.Equal(t, []string{"puuid-a", "puuid-b"}, ext.Metadata.Participants)
	require.EqualValues(t, 1800, ext.Info.GameDuration)
	require.Len(t, ext.Info.Participants, 2)

	first := ext.Info.Participants[0]
	require.Equal(t, "Player A", first.RiotIDGameName)
	require.Equal(t, "Ahri", first.ChampionName)
	require.Equal(t, 7, first.Kills)
	require.True(t, first.Win)
}

func TestFetchRawTimelineReturnsBodyVerbatim(t *testing.T) {
	body := `{"metadata":{"participants":["puuid-a"]},"info":{"frames":[]}}`
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/lol/match/v5/matches/BR1_42/timeline", r.URL.Path)
		w.Write([]byte(body))
	})
	client := newTestClient(t, handler, ClientConfig{})

	raw, err := client.FetchRawTimeline(context.Background(), "BR1_42")
	require.NoError(t, err)
	require.Equal(t, body, string(raw))
}

func TestDoRawRetriesTransientStatuses(t *testing.T) {
	var calls atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`["BR1_1"]`))
	})
	client := newTestClient(t, handler, ClientConfig{MaxRetries: 1})

	ids, err := client.ListMatchIDs(context.Background(), "puuid-a", 0, 1)
	require.NoError(t, err)
	require.Equal(t, []string{"BR1_1"}, ids)
	require.EqualValues(t, 2, calls.Load())
}

func TestDoRawFailsFastOnNonRetryableStatus(t *testing.T) {
	var calls atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"status":{"message":"match not found"}}`))
	})
	client := newTestClient(t, handler, ClientConfig{MaxRetries: 3})

	_, err := client.FetchMatch(context.Background(), "BR1_missing")
	require.Error(t, err)
	require.Contains(t, err.Error(), "status=404")
	require.EqualValues(t, 1, calls.Load(), "non-retryable status must not be retried")
}

func TestDoRawExhaustsRetriesOnRateLimit(t *testing.T) {
	var calls atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	})
	client := newTestClient(t, handler, ClientConfig{MaxRetries: 0})

	_, err := client.ListMatchIDs(context.Background(), "puuid-a", 0, 1)
	require.Error(t, err)
	require.ErrorIs(t, err, errRiotTransient)
	require.EqualValues(t, 1, calls.Load())
}

func TestOpenCircuitRejectsWithoutCallingUpstream(t *testing.T) {
	var calls atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	client := newTestClient(t, handler, ClientConfig{
		MaxRetries: 0,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 1,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	})

	_, err := client.ListMatchIDs(context.Background(), "puuid-a", 0, 1)
	require.Error(t, err)
	require.EqualValues(t, 1, calls.Load())

	_, err = client.ListMatchIDs(context.Background(), "puuid-a", 0, 1)
	require.True(t, errors.Is(err, usecase.ErrDependencyUnavailable), "err = %v", err)
	require.EqualValues(t, 1, calls.Load(), "open circuit must short-circuit the request")
}

func TestSanitizeSensitiveTextRedactsAPIKey(t *testing.T) {
	redacted := sanitizeSensitiveText(`Get "https://host?api_key=RGAPI-secret": timeout`, "RGAPI-secret")
	require.NotContains(t, redacted, "RGAPI-secret")
	require.Contains(t, redacted, "REDACTED")

	require.Equal(t, "no key here", sanitizeSensitiveText("no key here", ""))
}

func TestEndpointLabel(t *testing.T) {
	require.Equal(t, "match_ids", endpointLabel("/lol/match/v5/matches/by-puuid/puuid-a/ids"))
	require.Equal(t, "match_timeline", endpointLabel("/lol/match/v5/matches/BR1_1/timeline"))
	require.Equal(t, "match_detail", endpointLabel("/lol/match/v5/matches/BR1_1"))
}
