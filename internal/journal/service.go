package journal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = validator.New()

// DogInput holds the editable fields of a dog.
type DogInput struct {
	Name      string     `json:"name" yaml:"name" validate:"required,max=100"`
	Breed     string     `json:"breed" yaml:"breed" validate:"max=100"`
	BirthDate *time.Time `json:"birth_date" yaml:"birth_date"`
	Gender    string     `json:"gender" yaml:"gender" validate:"max=20"`
	Notes     string     `json:"notes" yaml:"notes" validate:"max=2000"`
}

// ActivityInput is one activity in a day log. Time defaults to the day
// itself when omitted.
type ActivityInput struct {
	ActivityType string     `json:"activity_type" validate:"required,max=100"`
	Outcome      string     `json:"outcome" validate:"required,oneof=good okay bad"`
	Notes        string     `json:"notes" validate:"max=2000"`
	Time         *time.Time `json:"time"`
}

// DayInput is the full log of one day. An empty Rating leaves the day
// unrated.
type DayInput struct {
	Activities  []ActivityInput `json:"activities" validate:"dive"`
	Rating      string          `json:"rating" validate:"omitempty,oneof=good okay bad"`
	RatingNotes string          `json:"rating_notes" validate:"max=2000"`
}

// Service applies validation and cache invalidation on top of a Repository.
type Service struct {
	repo        Repository
	invalidator CacheInvalidator
	now         func() time.Time
	logger      *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithInvalidator registers the cache to clear when a dog's records change.
func WithInvalidator(inv CacheInvalidator) ServiceOption {
	return func(s *Service) { s.invalidator = inv }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) { s.logger = l }
}

// NewService builds a Service over repo.
func NewService(repo Repository, opts ...ServiceOption) *Service {
	s := &Service{
		repo:   repo,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func validateInput(v any) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

// CreateDog validates in and stores a new dog.
func (s *Service) CreateDog(ctx context.Context, in DogInput) (Dog, error) {
	if err := validateInput(in); err != nil {
		return Dog{}, err
	}
	now := s.now()
	d := Dog{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(in.Name),
		Breed:     strings.TrimSpace(in.Breed),
		BirthDate: in.BirthDate,
		Gender:    strings.TrimSpace(in.Gender),
		Notes:     in.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateDog(ctx, d); err != nil {
		return Dog{}, fmt.Errorf("creating dog: %w", err)
	}
	s.logger.Info("dog created", "dog_id", d.ID, "name", d.Name)
	return d, nil
}

// UpdateDog replaces the editable fields of an existing dog. Profile
// fields feed the remote analysis prompt, so cached analyses are dropped.
func (s *Service) UpdateDog(ctx context.Context, id string, in DogInput) (Dog, error) {
	if err := validateInput(in); err != nil {
		return Dog{}, err
	}
	d, err := s.repo.GetDog(ctx, id)
	if err != nil {
		return Dog{}, err
	}
	d.Name = strings.TrimSpace(in.Name)
	d.Breed = strings.TrimSpace(in.Breed)
	d.BirthDate = in.BirthDate
	d.Gender = strings.TrimSpace(in.Gender)
	d.Notes = in.Notes
	d.UpdatedAt = s.now()
	if err := s.repo.UpdateDog(ctx, d); err != nil {
		return Dog{}, fmt.Errorf("updating dog: %w", err)
	}
	if err := s.invalidate(ctx, d.ID); err != nil {
		return Dog{}, err
	}
	return d, nil
}

// GetDog returns a dog by id.
func (s *Service) GetDog(ctx context.Context, id string) (Dog, error) {
	return s.repo.GetDog(ctx, id)
}

// ListDogs returns every dog.
func (s *Service) ListDogs(ctx context.Context) ([]Dog, error) {
	return s.repo.ListDogs(ctx)
}

// ResolveDog finds a dog by id or, failing that, by case-insensitive name.
func (s *Service) ResolveDog(ctx context.Context, ref string) (Dog, error) {
	d, err := s.repo.GetDog(ctx, ref)
	if err == nil {
		return d, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Dog{}, err
	}
	dogs, err := s.repo.ListDogs(ctx)
	if err != nil {
		return Dog{}, err
	}
	for _, d := range dogs {
		if strings.EqualFold(d.Name, strings.TrimSpace(ref)) {
			return d, nil
		}
	}
	return Dog{}, fmt.Errorf("dog %q: %w", ref, ErrNotFound)
}

// DeleteDog removes a dog, its records and its cached analyses.
func (s *Service) DeleteDog(ctx context.Context, id string) error {
	if err := s.repo.DeleteDog(ctx, id); err != nil {
		return err
	}
	s.logger.Info("dog deleted", "dog_id", id)
	return s.invalidate(ctx, id)
}

// Journal loads a dog with all of its records.
func (s *Service) Journal(ctx context.Context, dogID string) (Journal, error) {
	d, err := s.repo.GetDog(ctx, dogID)
	if err != nil {
		return Journal{}, err
	}
	acts, err := s.repo.ListActivities(ctx, dogID)
	if err != nil {
		return Journal{}, fmt.Errorf("listing activities: %w", err)
	}
	ratings, err := s.repo.ListRatings(ctx, dogID)
	if err != nil {
		return Journal{}, fmt.Errorf("listing ratings: %w", err)
	}
	return Journal{Dog: d, Activities: acts, Ratings: ratings}, nil
}

// Day returns what was logged on day's calendar date.
func (s *Service) Day(ctx context.Context, dogID string, day time.Time) (Day, error) {
	j, err := s.Journal(ctx, dogID)
	if err != nil {
		return Day{}, err
	}
	key := DayKey(day)
	out := Day{Date: key, Activities: []Activity{}}
	for _, a := range SortActivities(j.Activities) {
		if DayKey(a.Date.In(day.Location())) == key {
			out.Activities = append(out.Activities, a)
		}
	}
	for _, r := range j.Ratings {
		if DayKey(r.Date.In(day.Location())) == key {
			if out.Rating == nil || !r.Date.Before(out.Rating.Date) {
				out.Rating = &r
			}
		}
	}
	return out, nil
}

// SaveDay replaces everything logged on day's calendar date with in and
// drops the dog's cached analyses.
func (s *Service) SaveDay(ctx context.Context, dogID string, day time.Time, in DayInput) (Day, error) {
	if err := validateInput(in); err != nil {
		return Day{}, err
	}
	if _, err := s.repo.GetDog(ctx, dogID); err != nil {
		return Day{}, err
	}

	from := StartOfDay(day)
	to := from.AddDate(0, 0, 1)

	out := Day{Date: DayKey(from), Activities: make([]Activity, 0, len(in.Activities))}
	for _, ai := range in.Activities {
		at := day
		if ai.Time != nil && !ai.Time.Before(from) && ai.Time.Before(to) {
			at = *ai.Time
		}
		out.Activities = append(out.Activities, Activity{
			ID:           uuid.NewString(),
			DogID:        dogID,
			Date:         at,
			ActivityType: strings.TrimSpace(ai.ActivityType),
			Outcome:      Outcome(ai.Outcome),
			Notes:        ai.Notes,
		})
	}
	if in.Rating != "" {
		out.Rating = &DailyRating{
			ID:     uuid.NewString(),
			DogID:  dogID,
			Date:   day,
			Rating: Outcome(in.Rating),
			Notes:  in.RatingNotes,
		}
	}

	if err := s.repo.ReplaceDay(ctx, dogID, from, to, out.Activities, out.Rating); err != nil {
		return Day{}, fmt.Errorf("saving day %s: %w", out.Date, err)
	}
	s.logger.Debug("day saved", "dog_id", dogID, "date", out.Date, "activities", len(out.Activities))

	if err := s.invalidate(ctx, dogID); err != nil {
		return Day{}, err
	}
	return out, nil
}

// Catalog returns the predefined and custom activity names.
func (s *Service) Catalog(ctx context.Context) ([]string, error) {
	custom, err := s.repo.ListCustomActivities(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing custom activities: %w", err)
	}
	return Catalog(custom), nil
}

// AddCustomActivity stores a new custom activity label.
func (s *Service) AddCustomActivity(ctx context.Context, name string) (CustomActivity, error) {
	name = strings.TrimSpace(name)
	if err := validate.Var(name, "required,max=100"); err != nil {
		return CustomActivity{}, fmt.Errorf("%w: activity name: %v", ErrInvalidInput, err)
	}
	c := CustomActivity{ID: uuid.NewString(), Name: name, CreatedAt: s.now()}
	if err := s.repo.AddCustomActivity(ctx, c); err != nil {
		return CustomActivity{}, fmt.Errorf("adding custom activity: %w", err)
	}
	return c, nil
}

func (s *Service) invalidate(ctx context.Context, dogID string) error {
	if s.invalidator == nil {
		return nil
	}
	if err := s.invalidator.InvalidateCache(ctx, dogID); err != nil {
		return fmt.Errorf("invalidating analysis cache: %w", err)
	}
	return nil
}
