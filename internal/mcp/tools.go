package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/doglog-app/doglog/internal/analyzer"
	"github.com/doglog-app/doglog/internal/insights"
	"github.com/doglog-app/doglog/internal/journal"
	"github.com/doglog-app/doglog/internal/suggest"
)

// DogSummary is one entry of list_dogs.
type DogSummary struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Breed         string `json:"breed,omitempty"`
	ActivityCount int    `json:"activity_count"`
	RatingCount   int    `json:"rating_count"`
	LastLogged    string `json:"last_logged,omitempty"`
}

// ListDogsResult is the list_dogs payload.
type ListDogsResult struct {
	Dogs []DogSummary `json:"dogs"`
}

// InsightsResult is the get_insights payload.
type InsightsResult struct {
	DogID     string               `json:"dog_id"`
	DogName   string               `json:"dog_name"`
	RangeName string               `json:"range_name"`
	Insights  insights.DogInsights `json:"insights"`
}

// RecommendationsResult is the get_recommendations payload, ordered by
// priority.
type RecommendationsResult struct {
	DogID           string                   `json:"dog_id"`
	DogName         string                   `json:"dog_name"`
	TimeRange       string                   `json:"time_range"`
	Confidence      float64                  `json:"confidence"`
	CurrentMood     journal.Outcome          `json:"current_mood"`
	MoodDirection   analyzer.TrendDirection  `json:"trend_direction"`
	Recommendations []suggest.Recommendation `json:"recommendations"`
}

type dogRangeArgs struct {
	DogID string `json:"dog_id"`
	Range string `json:"range"`
}

type dayArgs struct {
	DogID string `json:"dog_id"`
	Date  string `json:"date"`
}

var (
	noArgsSchema   = json.RawMessage(`{"type":"object","properties":{},"additionalProperties":false}`)
	dogRangeSchema = json.RawMessage(`{"type":"object","properties":{"dog_id":{"type":"string","description":"Dog id or name"},"range":{"type":"string","description":"all, month or YYYY-MM (default all)"}},"required":["dog_id"],"additionalProperties":false}`)
	daySchema      = json.RawMessage(`{"type":"object","properties":{"dog_id":{"type":"string","description":"Dog id or name"},"date":{"type":"string","description":"YYYY-MM-DD (default today)"}},"required":["dog_id"],"additionalProperties":false}`)
)

func addTools(s *Server) {
	s.registerTool(toolDef{
		Name:        "list_dogs",
		Description: "Every dog in the journal with record counts and the last logged day.",
		InputSchema: noArgsSchema,
		Handler:     s.handleListDogs,
	})
	s.registerTool(toolDef{
		Name:        "get_insights",
		Description: "Mood trend, activity patterns, weekly trend, insights and recommendations for one dog.",
		InputSchema: dogRangeSchema,
		Handler:     s.handleGetInsights,
	})
	s.registerTool(toolDef{
		Name:        "get_recommendations",
		Description: "Prioritized recommendations for one dog, high priority first.",
		InputSchema: dogRangeSchema,
		Handler:     s.handleGetRecommendations,
	})
	s.registerTool(toolDef{
		Name:        "get_day",
		Description: "Activities and rating logged for one dog on one day.",
		InputSchema: daySchema,
		Handler:     s.handleGetDay,
	})
}

func (s *Server) handleListDogs(ctx context.Context, _ json.RawMessage) (any, error) {
	dogs, err := s.svc.ListDogs(ctx)
	if err != nil {
		return nil, err
	}
	out := ListDogsResult{Dogs: make([]DogSummary, 0, len(dogs))}
	for _, d := range dogs {
		j, err := s.svc.Journal(ctx, d.ID)
		if err != nil {
			return nil, err
		}
		out.Dogs = append(out.Dogs, DogSummary{
			ID:            d.ID,
			Name:          d.Name,
			Breed:         d.Breed,
			ActivityCount: len(j.Activities),
			RatingCount:   len(j.Ratings),
			LastLogged:    lastLogged(j),
		})
	}
	return out, nil
}

func (s *Server) handleGetInsights(ctx context.Context, raw json.RawMessage) (any, error) {
	j, r, err := s.loadRange(ctx, raw)
	if err != nil {
		return nil, err
	}
	return InsightsResult{
		DogID:     j.Dog.ID,
		DogName:   j.Dog.Name,
		RangeName: r.DisplayName(),
		Insights:  insights.Analyze(j, r),
	}, nil
}

func (s *Server) handleGetRecommendations(ctx context.Context, raw json.RawMessage) (any, error) {
	j, r, err := s.loadRange(ctx, raw)
	if err != nil {
		return nil, err
	}
	di := insights.Analyze(j, r)
	return RecommendationsResult{
		DogID:           j.Dog.ID,
		DogName:         j.Dog.Name,
		TimeRange:       di.TimeRange,
		Confidence:      di.Confidence,
		CurrentMood:     di.Mood.Current,
		MoodDirection:   di.Mood.Direction,
		Recommendations: suggest.RankRecommendations(di.Recommendations),
	}, nil
}

func (s *Server) handleGetDay(ctx context.Context, raw json.RawMessage) (any, error) {
	var args dayArgs
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	d, err := s.resolveDog(ctx, args.DogID)
	if err != nil {
		return nil, err
	}
	day := s.now()
	if strings.TrimSpace(args.Date) != "" {
		day, err = time.ParseInLocation(time.DateOnly, strings.TrimSpace(args.Date), day.Location())
		if err != nil {
			return nil, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", args.Date)
		}
	}
	return s.svc.Day(ctx, d.ID, day)
}

// loadRange decodes {dog_id, range} and loads the dog's journal.
func (s *Server) loadRange(ctx context.Context, raw json.RawMessage) (journal.Journal, journal.TimeRange, error) {
	var args dogRangeArgs
	if err := decodeArgs(raw, &args); err != nil {
		return journal.Journal{}, journal.TimeRange{}, err
	}
	r, err := journal.ParseTimeRange(args.Range, s.now())
	if err != nil {
		return journal.Journal{}, journal.TimeRange{}, err
	}
	d, err := s.resolveDog(ctx, args.DogID)
	if err != nil {
		return journal.Journal{}, journal.TimeRange{}, err
	}
	j, err := s.svc.Journal(ctx, d.ID)
	if err != nil {
		return journal.Journal{}, journal.TimeRange{}, err
	}
	return j, r, nil
}

func (s *Server) resolveDog(ctx context.Context, ref string) (journal.Dog, error) {
	if strings.TrimSpace(ref) == "" {
		return journal.Dog{}, errors.New("dog_id is required")
	}
	d, err := s.svc.ResolveDog(ctx, ref)
	if errors.Is(err, journal.ErrNotFound) {
		return journal.Dog{}, fmt.Errorf("no dog with id or name %q", ref)
	}
	return d, err
}

func decodeArgs(raw json.RawMessage, v any) error {
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// lastLogged returns the latest activity or rating day, or "" when the
// journal is empty.
func lastLogged(j journal.Journal) string {
	var latest time.Time
	for _, a := range j.Activities {
		if a.Date.After(latest) {
			latest = a.Date
		}
	}
	for _, r := range j.Ratings {
		if r.Date.After(latest) {
			latest = r.Date
		}
	}
	if latest.IsZero() {
		return ""
	}
	return journal.DayKey(latest)
}
