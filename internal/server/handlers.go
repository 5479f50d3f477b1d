package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/doglog-app/doglog/internal/insights"
	"github.com/doglog-app/doglog/internal/journal"
)

type healthResponse struct {
	Status        string `json:"status"`
	LLMConfigured bool   `json:"llm_configured"`
	LLMLoading    bool   `json:"llm_loading"`
}

func (a *api) health(w http.ResponseWriter, _ *http.Request) {
	resp := healthResponse{Status: "ok"}
	if a.analyst != nil {
		resp.LLMConfigured = a.analyst.HasCredential()
		resp.LLMLoading = a.analyst.IsLoading()
	}
	writeJSON(w, http.StatusOK, resp)
}

// Catalog

type catalogResponse struct {
	Activities []string `json:"activities"`
}

type addCatalogRequest struct {
	Name string `json:"name"`
}

func (a *api) listCatalog(w http.ResponseWriter, r *http.Request) {
	names, err := a.svc.Catalog(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, catalogResponse{Activities: names})
}

func (a *api) addCatalogEntry(w http.ResponseWriter, r *http.Request) {
	var req addCatalogRequest
	if err := decodeJSON(r, &req); err != nil {
		fail(w, r, err)
		return
	}
	c, err := a.svc.AddCustomActivity(r.Context(), req.Name)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// Dogs

type createDogRequest struct {
	Name      string `json:"name"`
	Breed     string `json:"breed"`
	BirthDate string `json:"birth_date"` // YYYY-MM-DD, optional
	Gender    string `json:"gender"`
	Notes     string `json:"notes"`
}

// updateDogRequest patches only the fields present. birth_date is kept raw
// so that an explicit null clears it.
type updateDogRequest struct {
	Name      *string         `json:"name"`
	Breed     *string         `json:"breed"`
	BirthDate json.RawMessage `json:"birth_date"`
	Gender    *string         `json:"gender"`
	Notes     *string         `json:"notes"`
}

func (a *api) listDogs(w http.ResponseWriter, r *http.Request) {
	dogs, err := a.svc.ListDogs(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dogs)
}

func (a *api) createDog(w http.ResponseWriter, r *http.Request) {
	var req createDogRequest
	if err := decodeJSON(r, &req); err != nil {
		fail(w, r, err)
		return
	}
	birth, err := a.parseBirthDate(req.BirthDate)
	if err != nil {
		fail(w, r, err)
		return
	}
	d, err := a.svc.CreateDog(r.Context(), journal.DogInput{
		Name:      req.Name,
		Breed:     req.Breed,
		BirthDate: birth,
		Gender:    req.Gender,
		Notes:     req.Notes,
	})
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

func (a *api) getDog(w http.ResponseWriter, r *http.Request) {
	d, err := a.svc.GetDog(r.Context(), chi.URLParam(r, "dogID"))
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (a *api) updateDog(w http.ResponseWriter, r *http.Request) {
	var req updateDogRequest
	if err := decodeJSON(r, &req); err != nil {
		fail(w, r, err)
		return
	}
	d, err := a.svc.GetDog(r.Context(), chi.URLParam(r, "dogID"))
	if err != nil {
		fail(w, r, err)
		return
	}

	in := journal.DogInput{Name: d.Name, Breed: d.Breed, BirthDate: d.BirthDate, Gender: d.Gender, Notes: d.Notes}
	if req.Name != nil {
		in.Name = *req.Name
	}
	if req.Breed != nil {
		in.Breed = *req.Breed
	}
	if req.Gender != nil {
		in.Gender = *req.Gender
	}
	if req.Notes != nil {
		in.Notes = *req.Notes
	}
	if len(req.BirthDate) > 0 {
		if bytes.Equal(req.BirthDate, []byte("null")) {
			in.BirthDate = nil
		} else {
			var s string
			if err := json.Unmarshal(req.BirthDate, &s); err != nil {
				fail(w, r, fmt.Errorf("%w: birth_date must be a YYYY-MM-DD string", journal.ErrInvalidInput))
				return
			}
			if in.BirthDate, err = a.parseBirthDate(s); err != nil {
				fail(w, r, err)
				return
			}
		}
	}

	updated, err := a.svc.UpdateDog(r.Context(), d.ID, in)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (a *api) deleteDog(w http.ResponseWriter, r *http.Request) {
	if err := a.svc.DeleteDog(r.Context(), chi.URLParam(r, "dogID")); err != nil {
		fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Days

func (a *api) getDay(w http.ResponseWriter, r *http.Request) {
	day, err := a.parseDay(chi.URLParam(r, "date"))
	if err != nil {
		fail(w, r, err)
		return
	}
	out, err := a.svc.Day(r.Context(), chi.URLParam(r, "dogID"), day)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *api) saveDay(w http.ResponseWriter, r *http.Request) {
	day, err := a.parseDay(chi.URLParam(r, "date"))
	if err != nil {
		fail(w, r, err)
		return
	}
	var in journal.DayInput
	if err := decodeJSON(r, &in); err != nil {
		fail(w, r, err)
		return
	}
	out, err := a.svc.SaveDay(r.Context(), chi.URLParam(r, "dogID"), day, in)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// Insights and analysis

func (a *api) getInsights(w http.ResponseWriter, r *http.Request) {
	tr, err := a.timeRange(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	j, err := a.svc.Journal(r.Context(), chi.URLParam(r, "dogID"))
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, insights.Analyze(j, tr))
}

func (a *api) getAnalysis(w http.ResponseWriter, r *http.Request) {
	tr, err := a.timeRange(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	d, err := a.svc.GetDog(r.Context(), chi.URLParam(r, "dogID"))
	if err != nil {
		fail(w, r, err)
		return
	}
	analysis, ok, err := a.analyst.CachedAnalysis(r.Context(), d.ID, tr)
	if err != nil {
		fail(w, r, err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "no cached analysis for this range")
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

func (a *api) requestAnalysis(w http.ResponseWriter, r *http.Request) {
	tr, err := a.timeRange(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	j, err := a.svc.Journal(r.Context(), chi.URLParam(r, "dogID"))
	if err != nil {
		fail(w, r, err)
		return
	}
	analysis, err := a.analyst.RequestAnalysis(r.Context(), j, tr, insights.Analyze(j, tr))
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

func (a *api) requestTrainingPlan(w http.ResponseWriter, r *http.Request) {
	tr, err := a.timeRange(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	d, err := a.svc.GetDog(r.Context(), chi.URLParam(r, "dogID"))
	if err != nil {
		fail(w, r, err)
		return
	}
	prior, ok, err := a.analyst.CachedAnalysis(r.Context(), d.ID, tr)
	if err != nil {
		fail(w, r, err)
		return
	}
	if !ok {
		fail(w, r, errNoAnalysis)
		return
	}
	plan, err := a.analyst.RequestTrainingPlan(r.Context(), d, prior)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

// Parameters

// timeRange reads ?range=all|month|YYYY-MM; ?month=YYYY-MM selects a month
// directly.
func (a *api) timeRange(r *http.Request) (journal.TimeRange, error) {
	q := r.URL.Query()
	raw := q.Get("range")
	if m := q.Get("month"); m != "" {
		raw = m
	}
	tr, err := journal.ParseTimeRange(raw, a.now())
	if err != nil {
		return journal.TimeRange{}, fmt.Errorf("%w: %v", journal.ErrInvalidInput, err)
	}
	return tr, nil
}

// parseDay turns a YYYY-MM-DD path segment into the instant records of that
// day are stamped with: now for today, noon otherwise.
func (a *api) parseDay(s string) (time.Time, error) {
	now := a.now()
	d, err := time.ParseInLocation(time.DateOnly, s, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must be YYYY-MM-DD", journal.ErrInvalidInput)
	}
	if journal.DayKey(d) == journal.DayKey(now) {
		return now, nil
	}
	return d.Add(12 * time.Hour), nil
}

func (a *api) parseBirthDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(time.DateOnly, s, a.now().Location())
	if err != nil {
		return nil, fmt.Errorf("%w: birth_date must be YYYY-MM-DD", journal.ErrInvalidInput)
	}
	return &t, nil
}
