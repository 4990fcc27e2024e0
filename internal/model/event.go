package model

// EventKind names a core-to-presentation notification.
type EventKind string

const (
	EventConsentCompleted    EventKind = "consent-completed"
	EventConsentWithdrawn    EventKind = "consent-withdrawn"
	EventConsentGateChanged  EventKind = "consent-gate-changed"
	EventAvatarCreated       EventKind = "avatar-created"
	EventAvatarUpdated       EventKind = "avatar-updated"
	EventAvatarDeleted       EventKind = "avatar-deleted"
	EventAchievementUnlocked EventKind = "achievement-unlocked"
	EventStatsChanged        EventKind = "stats-changed"
)

// Event is emitted by the core after a state change. Only the fields
// relevant to Kind are set.
type Event struct {
	Kind        EventKind
	GateEnabled bool
	Consent     *ConsentRecord
	Avatar      *AvatarRecord
	AvatarID    string
	Achievement AchievementKey
	Score       int
	Level       int
}

// EventPublisher delivers events to subscribers.
type EventPublisher interface {
	Publish(event Event)
}
