package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doglog-app/doglog/internal/insights"
	"github.com/doglog-app/doglog/internal/journal"
	"github.com/doglog-app/doglog/internal/llm"
	"github.com/doglog-app/doglog/internal/store/memory"
)

var fixedNow = time.Date(2024, time.March, 20, 15, 30, 0, 0, time.UTC)

// fakeAnalyst records calls and serves canned results.
type fakeAnalyst struct {
	mu       sync.Mutex
	err      error
	cached   map[string]*llm.Analysis
	requests int
	lastPlan *llm.Analysis
}

func (f *fakeAnalyst) HasCredential() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err != llm.ErrMissingCredential
}

func (f *fakeAnalyst) IsLoading() bool { return false }

func (f *fakeAnalyst) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeAnalyst) RequestAnalysis(_ context.Context, j journal.Journal, r journal.TimeRange, local insights.DogInsights) (*llm.Analysis, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests++
	if f.err != nil {
		return nil, f.err
	}
	a := &llm.Analysis{Summary: fmt.Sprintf("%s over %s with %d activities", j.Dog.Name, r.Tag(), local.ActivityCount)}
	if f.cached == nil {
		f.cached = map[string]*llm.Analysis{}
	}
	f.cached[llm.CacheKey(j.Dog.ID, r)] = a
	return a, nil
}

func (f *fakeAnalyst) RequestTrainingPlan(_ context.Context, d journal.Dog, prior *llm.Analysis) (*llm.TrainingPlan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.lastPlan = prior
	return &llm.TrainingPlan{WeekTitle: "Training week for " + d.Name}, nil
}

func (f *fakeAnalyst) CachedAnalysis(_ context.Context, dogID string, r journal.TimeRange) (*llm.Analysis, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.cached[llm.CacheKey(dogID, r)]
	return a, ok, nil
}

type testEnv struct {
	ts      *httptest.Server
	analyst *fakeAnalyst
	svc     *journal.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	analyst := &fakeAnalyst{}
	now := func() time.Time { return fixedNow }
	svc := journal.NewService(memory.New(), journal.WithClock(now))
	ts := httptest.NewServer(NewRouter(Options{
		Service:        svc,
		Analyst:        analyst,
		AllowedOrigins: []string{"http://localhost:5173"},
		Now:            now,
	}))
	t.Cleanup(ts.Close)
	return &testEnv{ts: ts, analyst: analyst, svc: svc}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) (int, []byte) {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, e.ts.URL+path, rdr)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func (e *testEnv) createDog(t *testing.T, name string) journal.Dog {
	t.Helper()
	st, body := e.do(t, http.MethodPost, "/api/dogs", map[string]any{"name": name, "breed": "Beagle", "birth_date": "2021-06-01"})
	require.Equal(t, http.StatusCreated, st, string(body))
	var d journal.Dog
	require.NoError(t, json.Unmarshal(body, &d))
	return d
}

// logWeek saves seven days of walks and good ratings ending yesterday.
func (e *testEnv) logWeek(t *testing.T, dogID string) {
	t.Helper()
	for i := 1; i <= 7; i++ {
		date := fixedNow.AddDate(0, 0, -i).Format(time.DateOnly)
		st, body := e.do(t, http.MethodPut, "/api/dogs/"+dogID+"/days/"+date, map[string]any{
			"activities": []map[string]any{{"activity_type": "Walk", "outcome": "good"}},
			"rating":     "good",
		})
		require.Equal(t, http.StatusOK, st, string(body))
	}
}

func TestHealth(t *testing.T) {
	e := newTestEnv(t)
	st, body := e.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, st)
	assert.JSONEq(t, `{"status":"ok","llm_configured":true,"llm_loading":false}`, string(body))
}

func TestDogLifecycle(t *testing.T) {
	e := newTestEnv(t)
	d := e.createDog(t, "Rex")
	require.NotNil(t, d.BirthDate)

	st, body := e.do(t, http.MethodGet, "/api/dogs", nil)
	require.Equal(t, http.StatusOK, st)
	var dogs []journal.Dog
	require.NoError(t, json.Unmarshal(body, &dogs))
	require.Len(t, dogs, 1)

	st, body = e.do(t, http.MethodPatch, "/api/dogs/"+d.ID, map[string]any{"name": "Rexy", "birth_date": nil})
	require.Equal(t, http.StatusOK, st, string(body))
	var updated journal.Dog
	require.NoError(t, json.Unmarshal(body, &updated))
	assert.Equal(t, "Rexy", updated.Name)
	assert.Equal(t, "Beagle", updated.Breed)
	assert.Nil(t, updated.BirthDate)

	st, _ = e.do(t, http.MethodDelete, "/api/dogs/"+d.ID, nil)
	assert.Equal(t, http.StatusNoContent, st)
	st, _ = e.do(t, http.MethodGet, "/api/dogs/"+d.ID, nil)
	assert.Equal(t, http.StatusNotFound, st)
}

func TestCreateDog_Validation(t *testing.T) {
	e := newTestEnv(t)
	tests := []struct {
		name string
		body any
	}{
		{"missing name", map[string]any{"breed": "Beagle"}},
		{"bad birth date", map[string]any{"name": "Rex", "birth_date": "June 1st"}},
		{"unknown field", map[string]any{"name": "Rex", "species": "cat"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			st, body := e.do(t, http.MethodPost, "/api/dogs", tc.body)
			assert.Equal(t, http.StatusBadRequest, st, string(body))
			assert.Contains(t, string(body), `"error"`)
		})
	}
}

func TestDays(t *testing.T) {
	e := newTestEnv(t)
	d := e.createDog(t, "Rex")

	path := "/api/dogs/" + d.ID + "/days/2024-03-18"
	st, body := e.do(t, http.MethodPut, path, map[string]any{
		"activities": []map[string]any{
			{"activity_type": "Walk", "outcome": "good", "notes": "long one"},
			{"activity_type": "Bath", "outcome": "bad"},
		},
		"rating":       "okay",
		"rating_notes": "tired",
	})
	require.Equal(t, http.StatusOK, st, string(body))

	st, body = e.do(t, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, st)
	var day journal.Day
	require.NoError(t, json.Unmarshal(body, &day))
	assert.Equal(t, "2024-03-18", day.Date)
	assert.Len(t, day.Activities, 2)
	require.NotNil(t, day.Rating)
	assert.Equal(t, journal.OutcomeOkay, day.Rating.Rating)

	st, _ = e.do(t, http.MethodPut, path, map[string]any{
		"activities": []map[string]any{{"activity_type": "Walk", "outcome": "great"}},
	})
	assert.Equal(t, http.StatusBadRequest, st)

	st, _ = e.do(t, http.MethodGet, "/api/dogs/"+d.ID+"/days/yesterday", nil)
	assert.Equal(t, http.StatusBadRequest, st)

	st, _ = e.do(t, http.MethodPut, "/api/dogs/missing/days/2024-03-18", map[string]any{})
	assert.Equal(t, http.StatusNotFound, st)
}

func TestInsights(t *testing.T) {
	e := newTestEnv(t)
	d := e.createDog(t, "Rex")

	st, body := e.do(t, http.MethodGet, "/api/dogs/"+d.ID+"/insights", nil)
	require.Equal(t, http.StatusOK, st)
	var sparse insights.DogInsights
	require.NoError(t, json.Unmarshal(body, &sparse))
	assert.Equal(t, 0.1, sparse.Confidence)

	e.logWeek(t, d.ID)

	st, body = e.do(t, http.MethodGet, "/api/dogs/"+d.ID+"/insights?range=month", nil)
	require.Equal(t, http.StatusOK, st)
	var got insights.DogInsights
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "2024-03", got.TimeRange)
	assert.Equal(t, 7, got.ActivityCount)
	require.NotEmpty(t, got.Patterns)
	assert.Equal(t, "Walk", got.Patterns[0].ActivityType)

	st, body = e.do(t, http.MethodGet, "/api/dogs/"+d.ID+"/insights?month=2024-02", nil)
	require.Equal(t, http.StatusOK, st)
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "2024-02", got.TimeRange)
	assert.Equal(t, 0, got.ActivityCount)

	st, _ = e.do(t, http.MethodGet, "/api/dogs/"+d.ID+"/insights?range=fortnight", nil)
	assert.Equal(t, http.StatusBadRequest, st)
}

func TestAnalysisAndPlan(t *testing.T) {
	e := newTestEnv(t)
	d := e.createDog(t, "Rex")
	e.logWeek(t, d.ID)
	base := "/api/dogs/" + d.ID

	st, _ := e.do(t, http.MethodGet, base+"/analysis", nil)
	assert.Equal(t, http.StatusNotFound, st)

	st, body := e.do(t, http.MethodPost, base+"/training-plan", nil)
	assert.Equal(t, http.StatusConflict, st, string(body))

	st, body = e.do(t, http.MethodPost, base+"/analysis", nil)
	require.Equal(t, http.StatusOK, st, string(body))
	var a llm.Analysis
	require.NoError(t, json.Unmarshal(body, &a))
	assert.Equal(t, "Rex over alltime with 7 activities", a.Summary)

	st, _ = e.do(t, http.MethodGet, base+"/analysis", nil)
	assert.Equal(t, http.StatusOK, st)

	st, body = e.do(t, http.MethodPost, base+"/training-plan", nil)
	require.Equal(t, http.StatusOK, st, string(body))
	var plan llm.TrainingPlan
	require.NoError(t, json.Unmarshal(body, &plan))
	assert.Equal(t, "Training week for Rex", plan.WeekTitle)
	e.analyst.mu.Lock()
	defer e.analyst.mu.Unlock()
	assert.Equal(t, a.Summary, e.analyst.lastPlan.Summary)
}

func TestAnalysis_ErrorMapping(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{llm.ErrMissingCredential, http.StatusBadRequest},
		{llm.ErrRateLimited, http.StatusTooManyRequests},
		{llm.ErrInvalidCredential, http.StatusBadGateway},
		{fmt.Errorf("%w: no braces", llm.ErrMalformedResponse), http.StatusBadGateway},
		{&llm.RemoteError{StatusCode: 503}, http.StatusBadGateway},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(tc.err.Error(), func(t *testing.T) {
			e := newTestEnv(t)
			d := e.createDog(t, "Rex")
			e.analyst.setErr(tc.err)

			st, body := e.do(t, http.MethodPost, "/api/dogs/"+d.ID+"/analysis", nil)
			assert.Equal(t, tc.want, st, string(body))
		})
	}

	e := newTestEnv(t)
	st, _ := e.do(t, http.MethodPost, "/api/dogs/missing/analysis", nil)
	assert.Equal(t, http.StatusNotFound, st)
	e.analyst.mu.Lock()
	defer e.analyst.mu.Unlock()
	assert.Zero(t, e.analyst.requests)
}

func TestCatalog(t *testing.T) {
	e := newTestEnv(t)

	st, body := e.do(t, http.MethodPost, "/api/activities/catalog", map[string]any{"name": "Agility"})
	require.Equal(t, http.StatusCreated, st, string(body))

	st, body = e.do(t, http.MethodGet, "/api/activities/catalog", nil)
	require.Equal(t, http.StatusOK, st)
	var got catalogResponse
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Contains(t, got.Activities, "Walk")
	assert.Contains(t, got.Activities, "Agility")

	st, _ = e.do(t, http.MethodPost, "/api/activities/catalog", map[string]any{"name": "  "})
	assert.Equal(t, http.StatusBadRequest, st)
}

func TestCORS(t *testing.T) {
	e := newTestEnv(t)

	req, _ := http.NewRequest(http.MethodOptions, e.ts.URL+"/api/dogs", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))

	req, _ = http.NewRequest(http.MethodGet, e.ts.URL+"/health", nil)
	req.Header.Set("Origin", "http://evil.example")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, "127.0.0.1:0", http.NotFoundHandler(), discardLogger())
	}()
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
