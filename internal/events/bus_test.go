package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/quantum-mirror/internal/model"
)

func TestBus_PublishOrder(t *testing.T) {
	bus := NewBus()
	var order []string
	bus.Subscribe(func(model.Event) { order = append(order, "first") })
	bus.Subscribe(func(model.Event) { order = append(order, "second") })

	bus.Publish(model.Event{Kind: model.EventConsentCompleted})

	assert.Equal(t, []string{"first", "second"}, order)
}

func TestBus_SubscribeKind(t *testing.T) {
	bus := NewBus()
	rec := &Recorder{}
	bus.SubscribeKind(rec.Record, model.EventAvatarDeleted)

	bus.Publish(model.Event{Kind: model.EventAvatarCreated})
	bus.Publish(model.Event{Kind: model.EventAvatarDeleted, AvatarID: "a1"})

	got := rec.Events()
	require.Len(t, got, 1)
	assert.Equal(t, "a1", got[0].AvatarID)
}

func TestBus_NestedPublish(t *testing.T) {
	bus := NewBus()
	rec := &Recorder{}
	bus.Subscribe(rec.Record)
	bus.SubscribeKind(func(model.Event) {
		bus.Publish(model.Event{Kind: model.EventStatsChanged, Score: 1000, Level: 2})
	}, model.EventAvatarCreated)

	bus.Publish(model.Event{Kind: model.EventAvatarCreated})

	got := rec.Events()
	require.Len(t, got, 2)
	assert.Equal(t, model.EventAvatarCreated, got[0].Kind)
	assert.Equal(t, model.EventStatsChanged, got[1].Kind)
}

func TestBus_NestedPublishReachesLaterSubscribersInOrder(t *testing.T) {
	bus := NewBus()
	bus.SubscribeKind(func(model.Event) {
		bus.Publish(model.Event{Kind: model.EventAchievementUnlocked, Achievement: model.AchievementVideoMaster})
		bus.Publish(model.Event{Kind: model.EventStatsChanged, Score: 2000, Level: 3})
	}, model.EventAvatarCreated)
	rec := &Recorder{}
	bus.Subscribe(rec.Record)

	bus.Publish(model.Event{Kind: model.EventAvatarCreated})

	got := rec.Events()
	require.Len(t, got, 3)
	assert.Equal(t, model.EventAvatarCreated, got[0].Kind)
	assert.Equal(t, model.EventAchievementUnlocked, got[1].Kind)
	assert.Equal(t, model.EventStatsChanged, got[2].Kind)
}

func TestRecorder_OfKindAndReset(t *testing.T) {
	rec := &Recorder{}
	rec.Record(model.Event{Kind: model.EventAchievementUnlocked, Achievement: model.AchievementFirstStep})
	rec.Record(model.Event{Kind: model.EventStatsChanged})
	rec.Record(model.Event{Kind: model.EventAchievementUnlocked, Achievement: model.AchievementVideoMaster})

	unlocked := rec.OfKind(model.EventAchievementUnlocked)
	require.Len(t, unlocked, 2)
	assert.Equal(t, model.AchievementVideoMaster, unlocked[1].Achievement)

	rec.Reset()
	assert.Empty(t, rec.Events())
}
