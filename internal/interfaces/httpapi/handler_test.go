package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/stretchr/testify/require"

	"github.com/capao/capitascore/internal/domain/member"
	"github.com/capao/capitascore/internal/domain/metric"
	"github.com/capao/capitascore/internal/domain/syncrun"
	"github.com/capao/capitascore/internal/domain/timeline"
	"github.com/capao/capitascore/internal/platform/logging"
	"github.com/capao/capitascore/internal/usecase"
)

const testJobToken = "job-token-for-tests"

type fakeServices struct {
	members    []member.Member
	listErr    error
	created    *usecase.CreateMemberInput
	createErr  error
	syncReport usecase.MatchSyncReport
	syncErr    error
	syncPUUID  string
	syncStart  int
	syncCount  int
	runID      string
	startErr   error
	run        syncrun.Run
	getRunErr  error
	compute    usecase.ComputeReport
	computeErr error
	ranking    []metric.RankingRow
	rankingErr error
	minGames   int
	blob       timeline.Blob
	blobErr    error
	blobID     string
}

func (f *fakeServices) List(context.Context) ([]member.Member, error) {
	return f.members, f.listErr
}

func (f *fakeServices) Create(_ context.Context, input usecase.CreateMemberInput) (member.Member, error) {
	if f.createErr != nil {
		return member.Member{}, f.createErr
	}
	f.created = &input
	return member.Member{ID: 99, PUUID: input.PUUID, Name: input.Name, Nick: input.Nick, Tag: input.Tag}, nil
}

func (f *fakeServices) SyncMatches(_ context.Context, puuid string, start, count int) (usecase.MatchSyncReport, error) {
	f.syncPUUID, f.syncStart, f.syncCount = puuid, start, count
	return f.syncReport, f.syncErr
}

func (f *fakeServices) StartRosterSync(context.Context, int, int) (string, error) {
	return f.runID, f.startErr
}

func (f *fakeServices) GetRun(context.Context, string) (syncrun.Run, error) {
	return f.run, f.getRunErr
}

func (f *fakeServices) Compute(context.Context) (usecase.ComputeReport, error) {
	return f.compute, f.computeErr
}

func (f *fakeServices) Ranking(_ context.Context, minGames int) ([]metric.RankingRow, error) {
	f.minGames = minGames
	return f.ranking, f.rankingErr
}

func (f *fakeServices) GetRawTimeline(_ context.Context, matchID string) (timeline.Blob, error) {
	f.blobID = matchID
	return f.blob, f.blobErr
}

func newTestRouter(services *fakeServices) http.Handler {
	logger := logging.NewNop()
	handler := NewHandler(services, services, services, services, services, services, logger)
	return NewRouter(handler, logger, RouterConfig{InternalJobToken: testJobToken})
}

func doRequest(t *testing.T, router http.Handler, method, target, body string, authorized bool) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if authorized {
		req.Header.Set(internalJobTokenHeader, testJobToken)
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func decodeEnvelope(t *testing.T, recorder *httptest.ResponseRecorder) responseEnvelope {
	t.Helper()

	var envelope responseEnvelope
	require.NoError(t, sonic.Unmarshal(recorder.Body.Bytes(), &envelope))
	require.Equal(t, apiVersion, envelope.APIVersion)
	return envelope
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(&fakeServices{})

	recorder := doRequest(t, router, http.MethodGet, "/healthz", "", false)
	require.Equal(t, http.StatusOK, recorder.Code)

	envelope := decodeEnvelope(t, recorder)
	require.Nil(t, envelope.Error)
}

func TestListMembersEnvelope(t *testing.T) {
	services := &fakeServices{
		members: []member.Member{
			{ID: 1, PUUID: "puuid-a", Name: "A", Tag: "BR1"},
			{ID: 2, PUUID: "puuid-b", Name: "B"},
		},
	}
	router := newTestRouter(services)

	recorder := doRequest(t, router, http.MethodGet, "/v1/members", "", false)
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Contains(t, recorder.Header().Get("Content-Type"), "application/json")

	body := recorder.Body.String()
	require.Contains(t, body, `"puuid":"puuid-a"`)
	require.Contains(t, body, `"members":[`)
}

func TestCreateMemberHappyPath(t *testing.T) {
	services := &fakeServices{}
	router := newTestRouter(services)

	payload := `{"puuid":"a-long-enough-puuid","name":"Player","tag":"BR1"}`
	recorder := doRequest(t, router, http.MethodPost, "/v1/members", payload, true)
	require.Equal(t, http.StatusCreated, recorder.Code)

	require.NotNil(t, services.created)
	require.Equal(t, "a-long-enough-puuid", services.created.PUUID)
}

func TestCreateMemberValidation(t *testing.T) {
	cases := []struct {
		name    string
		payload string
	}{
		{name: "missing puuid", payload: `{"name":"Player"}`},
		{name: "short puuid", payload: `{"puuid":"short","name":"Player"}`},
		{name: "missing name", payload: `{"puuid":"a-long-enough-puuid"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			services := &fakeServices{}
			router := newTestRouter(services)

			recorder := doRequest(t, router, http.MethodPost, "/v1/members", tc.payload, true)
			require.Equal(t, http.StatusBadRequest, recorder.Code)

			envelope := decodeEnvelope(t, recorder)
			require.NotNil(t, envelope.Error)
			require.Equal(t, "INVALID_ARGUMENT", envelope.Error.Status)
			require.NotEmpty(t, envelope.Error.Errors)
			require.Nil(t, services.created)
		})
	}
}

func TestCreateMemberRejectsMalformedJSON(t *testing.T) {
	router := newTestRouter(&fakeServices{})

	recorder := doRequest(t, router, http.MethodPost, "/v1/members", `{"puuid":`, true)
	require.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestSyncMemberPassesWindowThrough(t *testing.T) {
	services := &fakeServices{syncReport: usecase.MatchSyncReport{Requested: 5, Listed: 5, Ingested: 3, Skipped: 2}}
	router := newTestRouter(services)

	recorder := doRequest(t, router, http.MethodPost, "/v1/internal/sync/members/puuid-a?start=2&count=5", "", true)
	require.Equal(t, http.StatusOK, recorder.Code)

	require.Equal(t, "puuid-a", services.syncPUUID)
	require.Equal(t, 2, services.syncStart)
	require.Equal(t, 5, services.syncCount)
	require.Contains(t, recorder.Body.String(), `"ingested":3`)
}

func TestSyncMemberDefaultsWindowWhenAbsent(t *testing.T) {
	services := &fakeServices{}
	router := newTestRouter(services)

	recorder := doRequest(t, router, http.MethodPost, "/v1/internal/sync/members/puuid-a", "", true)
	require.Equal(t, http.StatusOK, recorder.Code)

	// Absent params reach the service as -1; it substitutes its configured
	// window defaults.
	require.Equal(t, -1, services.syncStart)
	require.Equal(t, -1, services.syncCount)
}

func TestSyncMemberRejectsMalformedQuery(t *testing.T) {
	router := newTestRouter(&fakeServices{})

	for _, target := range []string{
		"/v1/internal/sync/members/puuid-a?start=abc",
		"/v1/internal/sync/members/puuid-a?count=-2",
	} {
		recorder := doRequest(t, router, http.MethodPost, target, "", true)
		require.Equal(t, http.StatusBadRequest, recorder.Code, "target %s", target)
	}
}

func TestStartRosterSyncReturnsAccepted(t *testing.T) {
	services := &fakeServices{runID: "run-123"}
	router := newTestRouter(services)

	recorder := doRequest(t, router, http.MethodPost, "/v1/internal/sync/roster", "", true)
	require.Equal(t, http.StatusAccepted, recorder.Code)
	require.Contains(t, recorder.Body.String(), `"runId":"run-123"`)
}

func TestGetSyncRunStatusMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "found", err: nil, wantStatus: http.StatusOK},
		{name: "invalid", err: fmt.Errorf("%w: run id is required", usecase.ErrInvalidInput), wantStatus: http.StatusBadRequest},
		{name: "missing", err: fmt.Errorf("%w: sync run x", usecase.ErrNotFound), wantStatus: http.StatusNotFound},
		{name: "unknown", err: fmt.Errorf("db exploded"), wantStatus: http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			services := &fakeServices{
				run:       syncrun.Run{RunID: "run-1", Scope: syncrun.ScopeRoster, Status: syncrun.StatusSucceeded},
				getRunErr: tc.err,
			}
			router := newTestRouter(services)

			recorder := doRequest(t, router, http.MethodGet, "/v1/internal/sync/runs/run-1", "", true)
			require.Equal(t, tc.wantStatus, recorder.Code)
		})
	}
}

func TestGetMatchTimelineReturnsArchivedDocument(t *testing.T) {
	services := &fakeServices{
		blob: timeline.Blob{
			MatchID: "BR1_77",
			RawJSON: []byte(`{"info":{"frames":[{"events":[]}]}}`),
		},
	}
	router := newTestRouter(services)

	recorder := doRequest(t, router, http.MethodGet, "/v1/internal/matches/BR1_77/timeline", "", true)
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Equal(t, "BR1_77", services.blobID)

	body := recorder.Body.String()
	require.Contains(t, body, `"matchId":"BR1_77"`)
	// The stored document is embedded verbatim, not re-encoded as a string.
	require.Contains(t, body, `"timeline":{"info":{"frames":[{"events":[]}]}}`)
}

func TestGetMatchTimelineMissingIsNotFound(t *testing.T) {
	services := &fakeServices{
		blobErr: fmt.Errorf("%w: timeline for match BR1_0", usecase.ErrNotFound),
	}
	router := newTestRouter(services)

	recorder := doRequest(t, router, http.MethodGet, "/v1/internal/matches/BR1_0/timeline", "", true)
	require.Equal(t, http.StatusNotFound, recorder.Code)

	envelope := decodeEnvelope(t, recorder)
	require.Equal(t, "NOT_FOUND", envelope.Error.Status)
}

func TestGetMatchTimelineRequiresJobToken(t *testing.T) {
	router := newTestRouter(&fakeServices{})

	recorder := doRequest(t, router, http.MethodGet, "/v1/internal/matches/BR1_77/timeline", "", false)
	require.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestComputeMetricsReturnsReport(t *testing.T) {
	services := &fakeServices{compute: usecase.ComputeReport{MatchesScanned: 4, MatchesScored: 3, RowsUpserted: 30}}
	router := newTestRouter(services)

	recorder := doRequest(t, router, http.MethodPost, "/v1/internal/metrics/compute", "", true)
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Contains(t, recorder.Body.String(), `"rowsUpserted":30`)
}

func TestRankingRanksRows(t *testing.T) {
	services := &fakeServices{
		ranking: []metric.RankingRow{
			{PUUID: "puuid-a", Name: "A", Games: 5, AverageScore: 72.4},
			{PUUID: "puuid-b", Name: "B", Games: 4, AverageScore: 61.0},
		},
	}
	router := newTestRouter(services)

	recorder := doRequest(t, router, http.MethodGet, "/v1/ranking?minGames=2", "", false)
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Equal(t, 2, services.minGames)

	body := recorder.Body.String()
	require.Contains(t, body, `"rank":1`)
	require.Contains(t, body, `"rank":2`)
	require.Contains(t, body, `"puuid":"puuid-a"`)
}

func TestSyncFailureMapsToServiceUnavailable(t *testing.T) {
	services := &fakeServices{
		syncErr: fmt.Errorf("%w: provider down", usecase.ErrDependencyUnavailable),
	}
	router := newTestRouter(services)

	recorder := doRequest(t, router, http.MethodPost, "/v1/internal/sync/members/puuid-a", "", true)
	require.Equal(t, http.StatusServiceUnavailable, recorder.Code)

	envelope := decodeEnvelope(t, recorder)
	require.Equal(t, "UNAVAILABLE", envelope.Error.Status)
}

func TestInternalErrorHidesDetail(t *testing.T) {
	services := &fakeServices{listErr: fmt.Errorf("password=hunter2 leaked")}
	router := newTestRouter(services)

	recorder := doRequest(t, router, http.MethodGet, "/v1/members", "", false)
	require.Equal(t, http.StatusInternalServerError, recorder.Code)
	require.NotContains(t, recorder.Body.String(), "hunter2")
}
