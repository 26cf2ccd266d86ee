package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// DateLayout is the calendar-date format used as the daily challenge key.
// All "days" are computed in UTC so every caller sees the same problem.
const DateLayout = "2006-01-02"

// Today returns the current UTC calendar date in DateLayout.
func Today() string {
	return time.Now().UTC().Format(DateLayout)
}

// ParseDate validates a calendar date string in DateLayout.
func ParseDate(s string) (string, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return "", ErrBadRequest
	}
	return t.Format(DateLayout), nil
}

// Difficulty represents the difficulty tier of a daily problem
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Rating thresholds for mapping a source's numeric rating into tiers.
const (
	easyRatingCeiling   = 1200
	mediumRatingCeiling = 1800
)

// DifficultyFromRating maps a numeric source rating into a difficulty tier.
// The mapping is deterministic: same rating always yields the same tier.
func DifficultyFromRating(rating int) Difficulty {
	switch {
	case rating < easyRatingCeiling:
		return DifficultyEasy
	case rating < mediumRatingCeiling:
		return DifficultyMedium
	default:
		return DifficultyHard
	}
}

// PointsForDifficulty returns the fixed point value awarded for an approved
// solution of the given difficulty.
func PointsForDifficulty(d Difficulty) int {
	switch d {
	case DifficultyEasy:
		return 10
	case DifficultyMedium:
		return 25
	case DifficultyHard:
		return 50
	default:
		return 0
	}
}

// ProblemExample is a worked example attached to a problem statement
type ProblemExample struct {
	Input       string `json:"input"`
	Output      string `json:"output"`
	Explanation string `json:"explanation,omitempty"`
}

// ProblemExamples is stored as a jsonb column
type ProblemExamples []ProblemExample

// Value implements driver.Valuer for jsonb storage
func (e ProblemExamples) Value() (driver.Value, error) {
	if e == nil {
		return nil, nil
	}
	return json.Marshal(e)
}

// Scan implements sql.Scanner for jsonb storage
func (e *ProblemExamples) Scan(value interface{}) error {
	if value == nil {
		*e = nil
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		s, ok := value.(string)
		if !ok {
			return errors.New("unsupported type for ProblemExamples")
		}
		b = []byte(s)
	}
	return json.Unmarshal(b, e)
}

// DailyProblem is the problem of the day. One row exists per calendar date;
// once written for a date it is never replaced, so every user sees the same
// problem for that day.
type DailyProblem struct {
	ID          uuid.UUID       `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	SourceID    string          `json:"source_id" gorm:"not null"`
	Title       string          `json:"title" gorm:"not null"`
	Description string          `json:"description" gorm:"type:text;not null"`
	Difficulty  Difficulty      `json:"difficulty" gorm:"type:varchar(10);not null"`
	Points      int             `json:"points" gorm:"not null"`
	Date        string          `json:"date" gorm:"type:varchar(10);uniqueIndex;not null"`
	Topics      pq.StringArray  `json:"topics" gorm:"type:text[]"`
	Examples    ProblemExamples `json:"examples" gorm:"type:jsonb"`
	CreatedAt   time.Time       `json:"created_at"`
}

// TableName specifies the table name for GORM
func (DailyProblem) TableName() string {
	return "daily_problems"
}

// DailyProblemRepository defines the interface for the durable per-date cache
type DailyProblemRepository interface {
	FindByDate(date string) (*DailyProblem, error)
	// CreateIfAbsent inserts the problem unless a row for its date already
	// exists, and returns the row that won - either the given one or the
	// previously stored one. Write-once-per-date semantics.
	CreateIfAbsent(problem *DailyProblem) (*DailyProblem, error)
}

// DailyProblemResponse represents the problem of the day in API responses
type DailyProblemResponse struct {
	ID          uuid.UUID        `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Difficulty  Difficulty       `json:"difficulty"`
	Points      int              `json:"points"`
	Date        string           `json:"date"`
	Topics      []string         `json:"topics"`
	Examples    []ProblemExample `json:"examples,omitempty"`
}

// ToResponse converts a DailyProblem to a DailyProblemResponse
func (p *DailyProblem) ToResponse() DailyProblemResponse {
	return DailyProblemResponse{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Difficulty:  p.Difficulty,
		Points:      p.Points,
		Date:        p.Date,
		Topics:      p.Topics,
		Examples:    p.Examples,
	}
}
