package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/codequest-platform/backend/internal/domain"
)

// dailyProblemRepository implements domain.DailyProblemRepository using GORM
type dailyProblemRepository struct {
	db *gorm.DB
}

// NewDailyProblemRepository creates a new daily problem repository
func NewDailyProblemRepository(db *gorm.DB) domain.DailyProblemRepository {
	return &dailyProblemRepository{db: db}
}

// FindByDate returns the cached problem for a calendar date, or nil when no
// problem has been pinned for that date yet.
func (r *dailyProblemRepository) FindByDate(date string) (*domain.DailyProblem, error) {
	var problem domain.DailyProblem
	result := r.db.Where("date = ?", date).First(&problem)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &problem, nil
}

// CreateIfAbsent pins a problem for its date using ON CONFLICT DO NOTHING on
// the date unique index, then re-reads the row. When two fetchers race on a
// cache miss, exactly one insert wins and both callers observe the winner;
// the loser's fetched problem is discarded.
func (r *dailyProblemRepository) CreateIfAbsent(problem *domain.DailyProblem) (*domain.DailyProblem, error) {
	result := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}},
		DoNothing: true,
	}).Create(problem)
	if result.Error != nil {
		return nil, result.Error
	}

	stored, err := r.FindByDate(problem.Date)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		// A winning insert must be visible on re-read.
		return nil, domain.ErrInternalServer
	}
	return stored, nil
}

// WithContext returns a repository with the given context for tracing
func (r *dailyProblemRepository) WithContext(ctx context.Context) domain.DailyProblemRepository {
	return &dailyProblemRepository{db: r.db.WithContext(ctx)}
}
