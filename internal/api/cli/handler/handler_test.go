package handler

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/dtroode/quantum-mirror/internal/events"
	"github.com/dtroode/quantum-mirror/internal/model"
	"github.com/dtroode/quantum-mirror/internal/random"
	"github.com/dtroode/quantum-mirror/internal/repository"
	"github.com/dtroode/quantum-mirror/internal/repository/memory"
	"github.com/dtroode/quantum-mirror/internal/service"
	"github.com/dtroode/quantum-mirror/internal/testutil"
)

// MockAvatarService mocks the AvatarService interface
type MockAvatarService struct {
	mock.Mock
}

func (m *MockAvatarService) IsCreationAllowed() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockAvatarService) SelectStyle(style model.Style) error {
	args := m.Called(style)
	return args.Error(0)
}

func (m *MockAvatarService) Create(ctx context.Context, params model.CreateAvatarParams) (model.AvatarRecord, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(model.AvatarRecord), args.Error(1)
}

func (m *MockAvatarService) CreateAfterAnalysis(ctx context.Context, params model.CreateAvatarParams) (model.AvatarRecord, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(model.AvatarRecord), args.Error(1)
}

func (m *MockAvatarService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAvatarService) Get(id string) (model.AvatarRecord, bool) {
	args := m.Called(id)
	return args.Get(0).(model.AvatarRecord), args.Bool(1)
}

func (m *MockAvatarService) List() []model.AvatarRecord {
	args := m.Called()
	avatars, _ := args.Get(0).([]model.AvatarRecord)
	return avatars
}

func (m *MockAvatarService) IncrementARSession(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAvatarService) IncrementConversation(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockMediaService mocks the MediaService interface
type MockMediaService struct {
	mock.Mock
}

func (m *MockMediaService) Accept(ctx context.Context, r io.Reader, size int64) (string, error) {
	args := m.Called(ctx, r, size)
	return args.String(0), args.Error(1)
}

func (m *MockMediaService) Available(ctx context.Context, ref string) (bool, error) {
	args := m.Called(ctx, ref)
	return args.Bool(0), args.Error(1)
}

func (m *MockMediaService) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	args := m.Called(ctx, ref)
	rc, _ := args.Get(0).(io.ReadCloser)
	return rc, args.Error(1)
}

func (m *MockMediaService) Release(ctx context.Context, ref string) {
	m.Called(ctx, ref)
}

// runAction runs action as a standalone command with args.
func runAction(t *testing.T, action cli.ActionFunc, flags []cli.Flag, args ...string) error {
	t.Helper()
	cmd := &cli.Command{
		Name:   "test",
		Flags:  flags,
		Action: action,
		Writer: io.Discard,
	}
	return cmd.Run(context.Background(), append([]string{"test"}, args...))
}

func newTestSession(t *testing.T) *service.Session {
	t.Helper()
	store := repository.NewStore(memory.New(), testutil.MakeNoopLogger())
	source, err := random.NewSeededSource()
	require.NoError(t, err)
	s := service.NewSession(store, events.NewBus(), source, testutil.MakeNoopLogger())
	require.NoError(t, s.Load(context.Background()))
	return s
}

func newBuffer() *bytes.Buffer {
	return &bytes.Buffer{}
}
