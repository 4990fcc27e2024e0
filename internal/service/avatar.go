package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/quantum-mirror/internal/logger"
	"github.com/dtroode/quantum-mirror/internal/model"
)

// AnalysisDelay is the simulated video analysis time before an avatar is created.
const AnalysisDelay = 3 * time.Second

// AvatarManager owns the avatar collection of a session. Every mutation
// rewrites the whole collection in the store.
type AvatarManager struct {
	store     model.AvatarStore
	consent   model.ConsentGate
	publisher model.EventPublisher
	random    model.RandomSource
	logger    *logger.Logger

	now           func() time.Time
	newID         func() (uuid.UUID, error)
	analysisDelay time.Duration

	mu       sync.Mutex
	avatars  []model.AvatarRecord
	pending  model.Style
	creating bool
}

func NewAvatarManager(
	store model.AvatarStore,
	consent model.ConsentGate,
	publisher model.EventPublisher,
	random model.RandomSource,
	logger *logger.Logger,
) *AvatarManager {
	return &AvatarManager{
		store:         store,
		consent:       consent,
		publisher:     publisher,
		random:        random,
		logger:        logger,
		now:           time.Now,
		newID:         uuid.NewV7,
		analysisDelay: AnalysisDelay,
		avatars:       []model.AvatarRecord{},
	}
}

// Load replaces the in-memory collection with the persisted one.
func (m *AvatarManager) Load(ctx context.Context) {
	avatars := m.store.LoadAvatars(ctx)
	if avatars == nil {
		avatars = []model.AvatarRecord{}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.avatars = avatars
}

// IsCreationAllowed reports whether valid consent is held right now.
func (m *AvatarManager) IsCreationAllowed() bool {
	return m.consent.HasValidConsent()
}

// SelectStyle makes style the pending choice, replacing any previous one.
func (m *AvatarManager) SelectStyle(style model.Style) error {
	if !style.IsValid() {
		return fmt.Errorf("%w: %q", model.ErrInvalidStyle, style)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = style
	return nil
}

// PendingStyle returns the pending style, if any.
func (m *AvatarManager) PendingStyle() (model.Style, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending, m.pending != ""
}

// claimLocked validates the creation preconditions and returns the pending style.
func (m *AvatarManager) claimLocked() (model.Style, error) {
	if !m.consent.HasValidConsent() {
		return "", model.ErrNotAuthorized
	}
	if m.creating {
		return "", model.ErrCreationInProgress
	}
	if m.pending == "" {
		return "", model.ErrNoStyleSelected
	}
	return m.pending, nil
}

// Create builds an avatar from the pending style, appends and persists it.
func (m *AvatarManager) Create(ctx context.Context, params model.CreateAvatarParams) (model.AvatarRecord, error) {
	m.mu.Lock()
	style, err := m.claimLocked()
	if err != nil {
		m.mu.Unlock()
		return model.AvatarRecord{}, err
	}

	record, err := m.appendLocked(ctx, style, params)
	if err != nil {
		m.mu.Unlock()
		return model.AvatarRecord{}, err
	}
	m.pending = ""
	m.mu.Unlock()

	m.created(record)
	return record, nil
}

// CreateAfterAnalysis claims the pending style, waits for the simulated
// analysis and then creates the avatar. Other creations fail with
// ErrCreationInProgress meanwhile. If ctx ends first nothing is written
// and the style is pending again.
func (m *AvatarManager) CreateAfterAnalysis(ctx context.Context, params model.CreateAvatarParams) (model.AvatarRecord, error) {
	m.mu.Lock()
	style, err := m.claimLocked()
	if err != nil {
		m.mu.Unlock()
		return model.AvatarRecord{}, err
	}
	m.pending = ""
	m.creating = true
	m.mu.Unlock()

	m.logger.Debug("analyzing video", "style", style, "delay", m.analysisDelay)

	timer := time.NewTimer(m.analysisDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		m.release(style)
		return model.AvatarRecord{}, ctx.Err()
	case <-timer.C:
	}

	m.mu.Lock()
	m.creating = false
	if !m.consent.HasValidConsent() {
		m.restoreLocked(style)
		m.mu.Unlock()
		return model.AvatarRecord{}, model.ErrNotAuthorized
	}
	record, err := m.appendLocked(ctx, style, params)
	if err != nil {
		m.restoreLocked(style)
		m.mu.Unlock()
		return model.AvatarRecord{}, err
	}
	m.mu.Unlock()

	m.created(record)
	return record, nil
}

func (m *AvatarManager) release(style model.Style) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creating = false
	m.restoreLocked(style)
}

// restoreLocked returns style to pending unless another one was selected meanwhile.
func (m *AvatarManager) restoreLocked(style model.Style) {
	if m.pending == "" {
		m.pending = style
	}
}

func (m *AvatarManager) appendLocked(ctx context.Context, style model.Style, params model.CreateAvatarParams) (model.AvatarRecord, error) {
	id, err := m.newID()
	if err != nil {
		return model.AvatarRecord{}, fmt.Errorf("failed to generate avatar id: %w", err)
	}

	name := strings.TrimSpace(params.Name)
	if name == "" {
		name = fmt.Sprintf("Quantum Self %d", len(m.avatars)+1)
	}

	record := model.AvatarRecord{
		ID:        id.String(),
		Name:      name,
		Style:     style,
		CreatedAt: m.now().UTC(),
		MediaRef:  params.MediaRef,
		Match:     model.MinMatch + m.random.IntN(model.MaxMatch-model.MinMatch+1),
	}

	next := append(slices.Clone(m.avatars), record)
	if err := m.store.SaveAvatars(ctx, next); err != nil {
		m.logger.Error("failed to persist avatars", "error", err)
		return model.AvatarRecord{}, fmt.Errorf("failed to save avatars: %w", err)
	}
	m.avatars = next
	return record, nil
}

func (m *AvatarManager) created(record model.AvatarRecord) {
	m.logger.Info("avatar created", "avatar_id", record.ID, "style", record.Style, "match", record.Match)
	m.publisher.Publish(model.Event{Kind: model.EventAvatarCreated, Avatar: &record, AvatarID: record.ID})
}

func (m *AvatarManager) indexLocked(id string) (int, error) {
	idx := slices.IndexFunc(m.avatars, func(a model.AvatarRecord) bool { return a.ID == id })
	if idx < 0 {
		return -1, fmt.Errorf("%w: %s", model.ErrUnknownRecordID, id)
	}
	return idx, nil
}

// Delete removes the avatar with id. Unknown ids are ignored.
func (m *AvatarManager) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	idx, err := m.indexLocked(id)
	if err != nil {
		m.mu.Unlock()
		m.logger.Debug("delete skipped", "avatar_id", id, "error", err)
		return nil
	}

	next := slices.Delete(slices.Clone(m.avatars), idx, idx+1)
	if err := m.store.SaveAvatars(ctx, next); err != nil {
		m.mu.Unlock()
		m.logger.Error("failed to persist avatars", "error", err)
		return fmt.Errorf("failed to save avatars: %w", err)
	}
	m.avatars = next
	m.mu.Unlock()

	m.logger.Info("avatar deleted", "avatar_id", id)
	m.publisher.Publish(model.Event{Kind: model.EventAvatarDeleted, AvatarID: id})
	return nil
}

// IncrementARSession records an AR viewing of the avatar. Unknown ids are ignored.
func (m *AvatarManager) IncrementARSession(ctx context.Context, id string) error {
	return m.update(ctx, id, func(stats *model.AvatarStats) { stats.ARSessions++ })
}

// IncrementConversation records a conversation with the avatar. Unknown ids are ignored.
func (m *AvatarManager) IncrementConversation(ctx context.Context, id string) error {
	return m.update(ctx, id, func(stats *model.AvatarStats) { stats.Conversations++ })
}

func (m *AvatarManager) update(ctx context.Context, id string, apply func(stats *model.AvatarStats)) error {
	m.mu.Lock()
	idx, err := m.indexLocked(id)
	if err != nil {
		m.mu.Unlock()
		if errors.Is(err, model.ErrUnknownRecordID) {
			m.logger.Debug("update skipped", "avatar_id", id, "error", err)
			return nil
		}
		return err
	}

	next := slices.Clone(m.avatars)
	apply(&next[idx].Stats)
	if err := m.store.SaveAvatars(ctx, next); err != nil {
		m.mu.Unlock()
		m.logger.Error("failed to persist avatars", "error", err)
		return fmt.Errorf("failed to save avatars: %w", err)
	}
	m.avatars = next
	record := next[idx]
	m.mu.Unlock()

	m.publisher.Publish(model.Event{Kind: model.EventAvatarUpdated, Avatar: &record, AvatarID: id})
	return nil
}

// List returns a copy of the collection in creation order.
func (m *AvatarManager) List() []model.AvatarRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.avatars)
}

// Get returns the avatar with id.
func (m *AvatarManager) Get(id string) (model.AvatarRecord, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx, err := m.indexLocked(id)
	if err != nil {
		return model.AvatarRecord{}, false
	}
	return m.avatars[idx], true
}
