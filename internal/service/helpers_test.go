package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/quantum-mirror/internal/events"
	"github.com/dtroode/quantum-mirror/internal/model"
	"github.com/dtroode/quantum-mirror/internal/repository"
	"github.com/dtroode/quantum-mirror/internal/repository/memory"
	"github.com/dtroode/quantum-mirror/internal/testutil"
)

// MockConsentStore mocks the ConsentStore interface
type MockConsentStore struct {
	mock.Mock
}

func (m *MockConsentStore) LoadConsent(ctx context.Context) *model.ConsentRecord {
	args := m.Called(ctx)
	record, _ := args.Get(0).(*model.ConsentRecord)
	return record
}

func (m *MockConsentStore) SaveConsent(ctx context.Context, record model.ConsentRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockConsentStore) DeleteConsent(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockAvatarStore mocks the AvatarStore interface
type MockAvatarStore struct {
	mock.Mock
}

func (m *MockAvatarStore) LoadAvatars(ctx context.Context) []model.AvatarRecord {
	args := m.Called(ctx)
	avatars, _ := args.Get(0).([]model.AvatarRecord)
	return avatars
}

func (m *MockAvatarStore) SaveAvatars(ctx context.Context, avatars []model.AvatarRecord) error {
	args := m.Called(ctx, avatars)
	return args.Error(0)
}

// MockAchievementStore mocks the AchievementStore interface
type MockAchievementStore struct {
	mock.Mock
}

func (m *MockAchievementStore) LoadAchievements(ctx context.Context) model.AchievementSet {
	args := m.Called(ctx)
	set, _ := args.Get(0).(model.AchievementSet)
	return set
}

func (m *MockAchievementStore) SaveAchievements(ctx context.Context, set model.AchievementSet) error {
	args := m.Called(ctx, set)
	return args.Error(0)
}

// fixedRandom returns the queued values in order, then repeats the last one.
type fixedRandom struct {
	values []int
	calls  []int
}

func (r *fixedRandom) IntN(n int) int {
	r.calls = append(r.calls, n)
	if len(r.values) == 0 {
		return 0
	}
	v := r.values[0]
	if len(r.values) > 1 {
		r.values = r.values[1:]
	}
	return v % n
}

type staticGate bool

func (g staticGate) HasValidConsent() bool { return bool(g) }

var testNow = time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)

func newMemoryState() *repository.Store {
	return repository.NewStore(memory.New(), testutil.MakeNoopLogger())
}

func newMemoryBus() *events.Bus {
	return events.NewBus()
}

func newRecorderBus() (*events.Bus, *events.Recorder) {
	bus := events.NewBus()
	rec := &events.Recorder{}
	bus.Subscribe(rec.Record)
	return bus, rec
}

func validAnswers(w *ConsentWizard) {
	_ = w.SetAcknowledgement(model.AcknowledgePrivacyPolicy, true)
	_ = w.SetAcknowledgement(model.AcknowledgeTerms, true)
	_ = w.SetAcknowledgement(model.AcknowledgeAge, true)
}

func toReview(w *ConsentWizard) {
	for range model.ConsentSteps {
		w.Advance()
	}
}

// grantConsent commits a valid consent record through the wizard.
func grantConsent(ctx context.Context, w *ConsentWizard) (model.ConsentRecord, error) {
	w.Reopen()
	validAnswers(w)
	toReview(w)
	return w.Commit(ctx)
}
