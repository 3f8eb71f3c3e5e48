package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/dsdaea/aerovault-backend/internal/config"
	"github.com/dsdaea/aerovault-backend/internal/model"
	"github.com/dsdaea/aerovault-backend/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// eventListTTL keeps the public catalogue fresh without hammering Postgres
// on every page load.
const eventListTTL = 5 * time.Minute

// EventService serves the event catalogue with a Redis read-through cache
// and handles admin mutations, invalidating the cache on every write.
type EventService struct {
	repo *repository.EventRepository
	rdb  *redis.Client
	log  zerolog.Logger
}

// NewEventService creates an EventService.
func NewEventService(repo *repository.EventRepository, rdb *redis.Client, log zerolog.Logger) *EventService {
	return &EventService{
		repo: repo,
		rdb:  rdb,
		log:  log.With().Str("component", "event_service").Logger(),
	}
}

// List returns all events, live ones first.
func (s *EventService) List(ctx context.Context) ([]model.Event, error) {
	key := config.CacheKey.EventListKey()
	if cached, err := s.rdb.Get(ctx, key).Result(); err == nil {
		var events []model.Event
		if err := json.Unmarshal([]byte(cached), &events); err == nil {
			return events, nil
		}
		s.rdb.Del(ctx, key)
	}

	rows, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	events := make([]model.Event, 0, len(rows))
	for _, ev := range rows {
		events = append(events, *ev)
	}

	if payload, err := json.Marshal(events); err == nil {
		if err := s.rdb.Set(ctx, key, payload, eventListTTL).Err(); err != nil {
			s.log.Warn().Err(err).Msg("Event list cache write failed")
		}
	}
	return events, nil
}

// Get returns one event by ID.
func (s *EventService) Get(ctx context.Context, id int) (*model.Event, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return event, nil
}

// Create persists a new event and drops the catalogue cache.
func (s *EventService) Create(ctx context.Context, event *model.Event) error {
	if err := s.repo.Create(ctx, event); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// Update rewrites an event and drops the catalogue cache.
func (s *EventService) Update(ctx context.Context, event *model.Event) error {
	if err := s.repo.Update(ctx, event); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrEventNotFound
		}
		return err
	}
	s.invalidate(ctx)
	return nil
}

// Delete removes an event and drops the catalogue cache.
func (s *EventService) Delete(ctx context.Context, id int) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrEventNotFound
		}
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *EventService) invalidate(ctx context.Context) {
	if err := s.rdb.Del(ctx, config.CacheKey.EventListKey()).Err(); err != nil {
		s.log.Warn().Err(err).Msg("Event list cache invalidation failed")
	}
}
