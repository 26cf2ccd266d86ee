package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/codequest-platform/backend/internal/domain"
	"github.com/codequest-platform/backend/internal/source"
)

// In-memory repository fakes implementing the same contracts as the GORM
// repositories, including the guarded-transition and write-once semantics.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.UserProfile
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*domain.UserProfile)}
}

func (r *fakeUserRepo) Create(user *domain.UserProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return domain.ErrUserAlreadyExists
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now()
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) FindByID(id uuid.UUID) (*domain.UserProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) FindByEmail(email string) (*domain.UserProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) Update(user *domain.UserProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.users[user.ID]
	if !ok {
		return domain.ErrUserNotFound
	}
	stored.Email = user.Email
	stored.DisplayName = user.DisplayName
	stored.PasswordHash = user.PasswordHash
	stored.IsAdmin = user.IsAdmin
	return nil
}

func (r *fakeUserRepo) addUser(isAdmin bool) *domain.UserProfile {
	u := &domain.UserProfile{
		ID:          uuid.New(),
		Email:       uuid.NewString() + "@example.com",
		DisplayName: "Test User",
		IsAdmin:     isAdmin,
	}
	r.mu.Lock()
	r.users[u.ID] = u
	r.mu.Unlock()
	return u
}

type fakeProblemRepo struct {
	mu       sync.Mutex
	byDate   map[string]*domain.DailyProblem
	findErr  error
	putCalls int
}

func newFakeProblemRepo() *fakeProblemRepo {
	return &fakeProblemRepo{byDate: make(map[string]*domain.DailyProblem)}
}

func (r *fakeProblemRepo) FindByDate(date string) (*domain.DailyProblem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	p, ok := r.byDate[date]
	if !ok {
		return nil, nil
	}
	copied := *p
	return &copied, nil
}

func (r *fakeProblemRepo) CreateIfAbsent(problem *domain.DailyProblem) (*domain.DailyProblem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.putCalls++
	if existing, ok := r.byDate[problem.Date]; ok {
		copied := *existing
		return &copied, nil
	}
	if problem.ID == uuid.Nil {
		problem.ID = uuid.New()
	}
	stored := *problem
	r.byDate[problem.Date] = &stored
	copied := stored
	return &copied, nil
}

type fakeSubmissionRepo struct {
	mu       sync.Mutex
	byID     map[uuid.UUID]*domain.Submission
	userRepo *fakeUserRepo
}

func newFakeSubmissionRepo(userRepo *fakeUserRepo) *fakeSubmissionRepo {
	return &fakeSubmissionRepo{
		byID:     make(map[uuid.UUID]*domain.Submission),
		userRepo: userRepo,
	}
}

func (r *fakeSubmissionRepo) Create(submission *domain.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.byID {
		if s.UserID == submission.UserID && s.ChallengeDate == submission.ChallengeDate {
			return domain.ErrAlreadySubmitted
		}
	}
	if submission.ID == uuid.Nil {
		submission.ID = uuid.New()
	}
	stored := *submission
	r.byID[submission.ID] = &stored
	return nil
}

func (r *fakeSubmissionRepo) FindByID(id uuid.UUID) (*domain.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrSubmissionNotFound
	}
	copied := *s
	return &copied, nil
}

func (r *fakeSubmissionRepo) FindByUserAndDate(userID uuid.UUID, date string) (*domain.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.byID {
		if s.UserID == userID && s.ChallengeDate == date {
			copied := *s
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeSubmissionRepo) FindByDate(date string) ([]domain.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Submission
	for _, s := range r.byID {
		if s.ChallengeDate == date {
			out = append(out, *s)
		}
	}
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].SubmittedAt.Before(out[i].SubmittedAt) {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out, nil
}

func (r *fakeSubmissionRepo) ApplyTransition(t domain.StatusTransition) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byID[t.SubmissionID]
	if !ok {
		return domain.ErrSubmissionNotFound
	}
	if s.Status != t.From {
		return domain.ErrConcurrentModification
	}

	r.userRepo.mu.Lock()
	profile, ok := r.userRepo.users[t.UserID]
	if !ok {
		r.userRepo.mu.Unlock()
		return domain.ErrUserNotFound
	}
	profile.Points += t.PointsDelta
	profile.DailyChallengeStreak += t.StreakDelta
	r.userRepo.mu.Unlock()

	s.Status = t.To
	s.AdminNotes = t.Notes
	reviewedAt := t.ReviewedAt
	s.ReviewedAt = &reviewedAt
	s.AwardedPoints = t.AwardedPoints
	return nil
}

type fakeFetcher struct {
	mu         sync.Mutex
	byCategory map[string][]source.Problem
	err        error
	calls      int
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{byCategory: make(map[string][]source.Problem)}
}

func (f *fakeFetcher) FetchProblems(ctx context.Context, category string) ([]source.Problem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.byCategory[category], nil
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeCampaignRepo struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*domain.Campaign
}

func newFakeCampaignRepo() *fakeCampaignRepo {
	return &fakeCampaignRepo{byID: make(map[uuid.UUID]*domain.Campaign)}
}

func (r *fakeCampaignRepo) Create(campaign *domain.Campaign) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if campaign.ID == uuid.Nil {
		campaign.ID = uuid.New()
	}
	stored := *campaign
	r.byID[campaign.ID] = &stored
	return nil
}

func (r *fakeCampaignRepo) FindByID(id uuid.UUID) (*domain.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrCampaignNotFound
	}
	copied := *c
	return &copied, nil
}

func (r *fakeCampaignRepo) FindAll() ([]domain.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Campaign, 0, len(r.byID))
	for _, c := range r.byID {
		out = append(out, *c)
	}
	return out, nil
}

func (r *fakeCampaignRepo) Update(campaign *domain.Campaign) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *campaign
	r.byID[campaign.ID] = &stored
	return nil
}

type fakeApplicationRepo struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*domain.CampaignApplication
}

func newFakeApplicationRepo() *fakeApplicationRepo {
	return &fakeApplicationRepo{byID: make(map[uuid.UUID]*domain.CampaignApplication)}
}

func (r *fakeApplicationRepo) Create(application *domain.CampaignApplication) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.byID {
		if a.UserID == application.UserID && a.CampaignID == application.CampaignID {
			return domain.ErrAlreadyApplied
		}
	}
	if application.ID == uuid.Nil {
		application.ID = uuid.New()
	}
	stored := *application
	r.byID[application.ID] = &stored
	return nil
}

func (r *fakeApplicationRepo) FindByID(id uuid.UUID) (*domain.CampaignApplication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrApplicationNotFound
	}
	copied := *a
	return &copied, nil
}

func (r *fakeApplicationRepo) FindByCampaign(campaignID uuid.UUID) ([]domain.CampaignApplication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.CampaignApplication
	for _, a := range r.byID {
		if a.CampaignID == campaignID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeApplicationRepo) UpdateStatusFrom(id uuid.UUID, from, to domain.ApplicationStatus, notes string, reviewedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return domain.ErrApplicationNotFound
	}
	if a.Status != from {
		return domain.ErrConcurrentModification
	}
	a.Status = to
	a.Notes = notes
	a.ReviewedAt = &reviewedAt
	return nil
}
