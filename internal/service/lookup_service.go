package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dsdaea/aerovault-backend/internal/config"
	"github.com/dsdaea/aerovault-backend/internal/model"
	"github.com/dsdaea/aerovault-backend/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Typed lookup failures. Handlers map these onto the response envelope.
var (
	ErrRecordNotFound    = errors.New("no certificate record for this roll number")
	ErrRecordInvalid     = errors.New("certificate record is missing required fields")
	ErrLookupUnavailable = errors.New("certificate vault backend is unreachable")
)

// RecordSource is the backing store contract for certificate lookups.
// Implementations translate their native failures into the typed errors
// above and never return partial records.
type RecordSource interface {
	Lookup(ctx context.Context, rollNo string) (*model.CertificateRecord, error)
}

// LookupService resolves certificate records with a Redis read-through
// cache in front of the configured source.
type LookupService struct {
	source RecordSource
	rdb    *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

// NewLookupService creates a LookupService.
func NewLookupService(source RecordSource, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *LookupService {
	return &LookupService{
		source: source,
		rdb:    rdb,
		ttl:    cfg.LookupCacheTTL,
		log:    log.With().Str("component", "lookup_service").Logger(),
	}
}

// Lookup resolves a record by roll number. The identifier is trimmed and
// uppercased before hitting cache or source; responses are structurally
// validated before being trusted.
func (s *LookupService) Lookup(ctx context.Context, rollNo string) (*model.CertificateRecord, error) {
	rollNo = strings.ToUpper(strings.TrimSpace(rollNo))
	if rollNo == "" {
		return nil, ErrRecordNotFound
	}

	cacheKey := config.CacheKey.LookupRecordKey(rollNo)
	if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
		var rec model.CertificateRecord
		if err := json.Unmarshal([]byte(cached), &rec); err == nil {
			return &rec, nil
		}
		// Corrupt cache entry: drop it and fall through to the source.
		s.rdb.Del(ctx, cacheKey)
	}

	rec, err := s.source.Lookup(ctx, rollNo)
	if err != nil {
		return nil, err
	}

	if err := validateRecord(rec); err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(rec); err == nil {
		if err := s.rdb.Set(ctx, cacheKey, payload, s.ttl).Err(); err != nil {
			s.log.Warn().Err(err).Str("roll_no", rollNo).Msg("Record cache write failed")
		}
	}

	return rec, nil
}

// Invalidate drops the cached record for a roll number. Called after admin
// mutations so stale certificates are never issued.
func (s *LookupService) Invalidate(ctx context.Context, rollNo string) {
	rollNo = strings.ToUpper(strings.TrimSpace(rollNo))
	if rollNo == "" {
		return
	}
	if err := s.rdb.Del(ctx, config.CacheKey.LookupRecordKey(rollNo)).Err(); err != nil {
		s.log.Warn().Err(err).Str("roll_no", rollNo).Msg("Record cache invalidation failed")
	}
}

// validateRecord enforces the structural contract: a record without a name
// and roll number must not reach the renderer.
func validateRecord(rec *model.CertificateRecord) error {
	if rec == nil || strings.TrimSpace(rec.Name) == "" || strings.TrimSpace(rec.RollNo) == "" {
		return ErrRecordInvalid
	}
	return nil
}

// ────────────────────────────────────────────────────────────────────────────
// Postgres source
// ────────────────────────────────────────────────────────────────────────────

// PostgresRecordSource serves lookups from the local record repository.
type PostgresRecordSource struct {
	repo *repository.RecordRepository
}

// NewPostgresRecordSource creates a PostgresRecordSource.
func NewPostgresRecordSource(repo *repository.RecordRepository) *PostgresRecordSource {
	return &PostgresRecordSource{repo: repo}
}

// Lookup implements RecordSource.
func (s *PostgresRecordSource) Lookup(ctx context.Context, rollNo string) (*model.CertificateRecord, error) {
	rec, err := s.repo.GetByRollNo(ctx, rollNo)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrLookupUnavailable, err)
	}
	return rec, nil
}
