package service

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/codequest-platform/backend/internal/domain"
	"github.com/codequest-platform/backend/internal/source"
)

const challengeCacheKeyPrefix = "daily_challenge:"

// ProblemFetcher retrieves candidate problems from the external catalog
type ProblemFetcher interface {
	FetchProblems(ctx context.Context, category string) ([]source.Problem, error)
}

// ChallengeService orchestrates cache-or-fetch of the problem of the day.
// The Postgres row keyed by date is the durable single-writer cache; Redis is
// a read-through hot cache in front of it and may be absent.
type ChallengeService struct {
	problemRepo domain.DailyProblemRepository
	fetcher     ProblemFetcher
	hotCache    *redis.Client
	hotCacheTTL time.Duration
	category    string
	tracer      trace.Tracer
	logger      *zap.Logger
	rng         *rand.Rand
	rngMu       sync.Mutex // Protects rng for concurrent access
}

// NewChallengeService creates a new daily challenge service. hotCache may be
// nil to disable the Redis layer.
func NewChallengeService(
	problemRepo domain.DailyProblemRepository,
	fetcher ProblemFetcher,
	hotCache *redis.Client,
	hotCacheTTL time.Duration,
	category string,
	tracer trace.Tracer,
	logger *zap.Logger,
) *ChallengeService {
	return &ChallengeService{
		problemRepo: problemRepo,
		fetcher:     fetcher,
		hotCache:    hotCache,
		hotCacheTTL: hotCacheTTL,
		category:    category,
		tracer:      tracer,
		logger:      logger,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// GetDailyChallenge returns today's problem, fetching and pinning one on the
// first request of the day. A nil problem with nil error means no challenge
// is available today; source failures never propagate to the caller.
func (s *ChallengeService) GetDailyChallenge(ctx context.Context) (*domain.DailyProblem, error) {
	return s.ChallengeForDate(ctx, domain.Today())
}

// ChallengeForDate returns the problem pinned for the given calendar date,
// fetching one from the external catalog when the date has no entry yet.
func (s *ChallengeService) ChallengeForDate(ctx context.Context, date string) (*domain.DailyProblem, error) {
	ctx, span := s.tracer.Start(ctx, "ChallengeService.ChallengeForDate")
	defer span.End()

	span.SetAttributes(attribute.String("challenge.date", date))

	if problem := s.hotCacheGet(ctx, date); problem != nil {
		span.SetAttributes(attribute.String("challenge.cache", "redis"))
		return problem, nil
	}

	problem, err := s.problemRepo.FindByDate(date)
	if err != nil {
		return nil, err
	}
	if problem != nil {
		span.SetAttributes(attribute.String("challenge.cache", "database"))
		s.hotCacheSet(ctx, problem)
		return problem, nil
	}

	// Cache miss: pull a pool from the catalog and pin one problem for the
	// date. Fail closed on any source trouble.
	candidate, ok := s.pickCandidate(ctx)
	if !ok {
		span.SetAttributes(attribute.Bool("challenge.available", false))
		return nil, nil
	}

	normalized := s.normalize(candidate, date)
	stored, err := s.problemRepo.CreateIfAbsent(normalized)
	if err != nil {
		s.logger.Error("Failed to pin daily problem",
			zap.String("date", date),
			zap.Error(err),
		)
		return nil, err
	}

	if stored.SourceID != normalized.SourceID {
		s.logger.Info("Lost cache-fill race, serving stored problem",
			zap.String("date", date),
			zap.String("stored_source_id", stored.SourceID),
		)
	} else {
		s.logger.Info("Daily problem pinned",
			zap.String("date", date),
			zap.String("source_id", stored.SourceID),
			zap.String("difficulty", string(stored.Difficulty)),
		)
	}

	s.hotCacheSet(ctx, stored)
	return stored, nil
}

// pickCandidate fetches the catalog pool and picks one well-formed problem at
// random. When the configured category yields nothing it widens to the
// unfiltered pool before giving up.
func (s *ChallengeService) pickCandidate(ctx context.Context) (source.Problem, bool) {
	pool := s.fetchWellFormed(ctx, s.category)
	if len(pool) == 0 && s.category != "" {
		s.logger.Warn("Category pool empty, widening to unfiltered catalog",
			zap.String("category", s.category),
		)
		pool = s.fetchWellFormed(ctx, "")
	}
	if len(pool) == 0 {
		return source.Problem{}, false
	}

	s.rngMu.Lock()
	idx := s.rng.Intn(len(pool))
	s.rngMu.Unlock()

	return pool[idx], true
}

func (s *ChallengeService) fetchWellFormed(ctx context.Context, category string) []source.Problem {
	problems, err := s.fetcher.FetchProblems(ctx, category)
	if err != nil {
		if !errors.Is(err, domain.ErrSourceUnavailable) {
			s.logger.Error("Unexpected catalog error", zap.Error(err))
		}
		return nil
	}

	wellFormed := problems[:0]
	for _, p := range problems {
		if p.WellFormed() {
			wellFormed = append(wellFormed, p)
		}
	}
	return wellFormed
}

// normalize converts an external catalog record into the internal shape,
// deriving difficulty from the source rating and points from difficulty.
func (s *ChallengeService) normalize(p source.Problem, date string) *domain.DailyProblem {
	difficulty := domain.DifficultyFromRating(p.Rating)

	examples := make(domain.ProblemExamples, 0, len(p.Examples))
	for _, e := range p.Examples {
		examples = append(examples, domain.ProblemExample{
			Input:       e.Input,
			Output:      e.Output,
			Explanation: e.Explanation,
		})
	}

	return &domain.DailyProblem{
		SourceID:    p.ID,
		Title:       p.Title,
		Description: p.Body,
		Difficulty:  difficulty,
		Points:      domain.PointsForDifficulty(difficulty),
		Date:        date,
		Topics:      p.Tags,
		Examples:    examples,
	}
}

func (s *ChallengeService) hotCacheGet(ctx context.Context, date string) *domain.DailyProblem {
	if s.hotCache == nil {
		return nil
	}

	b, err := s.hotCache.Get(ctx, challengeCacheKeyPrefix+date).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Debug("Hot cache read failed", zap.Error(err))
		}
		return nil
	}

	var problem domain.DailyProblem
	if err := json.Unmarshal(b, &problem); err != nil {
		return nil
	}
	return &problem
}

func (s *ChallengeService) hotCacheSet(ctx context.Context, problem *domain.DailyProblem) {
	if s.hotCache == nil {
		return
	}

	b, err := json.Marshal(problem)
	if err != nil {
		return
	}
	if err := s.hotCache.Set(ctx, challengeCacheKeyPrefix+problem.Date, b, s.hotCacheTTL).Err(); err != nil {
		s.logger.Debug("Hot cache write failed", zap.Error(err))
	}
}
