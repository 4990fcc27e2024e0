package handler

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/quantum-mirror/internal/model"
	"github.com/dtroode/quantum-mirror/internal/testutil"
)

var testAvatar = model.AvatarRecord{
	ID:        "0192f1a4-7c00-7000-8000-000000000001",
	Name:      "Quantum Self 1",
	Style:     model.StyleCyberpunk,
	CreatedAt: time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC),
	MediaRef:  "videos/clip.mp4",
	Match:     87,
}

func TestAvatar_Create(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		setup      func(avatars *MockAvatarService)
		wantStatus int
		wantOutput string
	}{
		{
			name: "without video",
			args: []string{"--style", "cyberpunk", "--name", "Neo"},
			setup: func(avatars *MockAvatarService) {
				avatars.On("SelectStyle", model.StyleCyberpunk).Return(nil)
				avatars.On("Create", mock.Anything, model.CreateAvatarParams{Name: "Neo"}).
					Return(model.AvatarRecord{ID: "id-1", Name: "Neo", Style: model.StyleCyberpunk, Match: 91}, nil)
			},
			wantStatus: ExitOK,
			wantOutput: "Created Neo (cyberpunk, 91% match)\n  id: id-1\n",
		},
		{
			name:       "unknown style",
			args:       []string{"--style", "baroque"},
			setup:      func(*MockAvatarService) {},
			wantStatus: ExitInvalidInput,
		},
		{
			name: "no consent",
			args: []string{"--style", "nature"},
			setup: func(avatars *MockAvatarService) {
				avatars.On("SelectStyle", model.StyleNature).Return(nil)
				avatars.On("Create", mock.Anything, model.CreateAvatarParams{}).
					Return(model.AvatarRecord{}, model.ErrNotAuthorized)
			},
			wantStatus: ExitNotPermitted,
		},
		{
			name: "store failure",
			args: []string{"--style", "energy"},
			setup: func(avatars *MockAvatarService) {
				avatars.On("SelectStyle", model.StyleEnergy).Return(nil)
				avatars.On("Create", mock.Anything, model.CreateAvatarParams{}).
					Return(model.AvatarRecord{}, errors.New("failed to save avatars: disk full"))
			},
			wantStatus: ExitInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			avatars := new(MockAvatarService)
			media := new(MockMediaService)
			tt.setup(avatars)
			out := newBuffer()
			h := NewAvatar(avatars, media, out, testutil.MakeNoopLogger())

			err := runAction(t, h.Create, h.CreateFlags(), tt.args...)

			assert.Equal(t, tt.wantStatus, ExitStatus(err))
			if tt.wantOutput != "" {
				assert.Equal(t, tt.wantOutput, out.String())
			}
			avatars.AssertExpectations(t)
			media.AssertNotCalled(t, "Accept", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func writeVideo(t *testing.T) (string, int64) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "me.mp4")
	content := []byte("\x00\x00\x00\x18ftypisom\x00\x00\x02\x00isomiso2avc1mp41")
	require.NoError(t, os.WriteFile(path, content, 0o600))
	return path, int64(len(content))
}

func TestAvatar_CreateWithVideo(t *testing.T) {
	path, size := writeVideo(t)
	avatars := new(MockAvatarService)
	media := new(MockMediaService)
	avatars.On("SelectStyle", model.StyleCyberpunk).Return(nil)
	avatars.On("IsCreationAllowed").Return(true)
	media.On("Accept", mock.Anything, mock.Anything, size).Return("videos/abc.mp4", nil)
	avatars.On("CreateAfterAnalysis", mock.Anything, model.CreateAvatarParams{MediaRef: "videos/abc.mp4"}).
		Return(testAvatar, nil)
	out := newBuffer()
	h := NewAvatar(avatars, media, out, testutil.MakeNoopLogger())

	err := runAction(t, h.Create, h.CreateFlags(), "--style", "cyberpunk", "--video", path)

	require.NoError(t, err)
	assert.Contains(t, out.String(), "Analyzing video...")
	assert.Contains(t, out.String(), "Created Quantum Self 1 (cyberpunk, 87% match)")
	avatars.AssertExpectations(t)
	media.AssertExpectations(t)
	media.AssertNotCalled(t, "Release", mock.Anything, mock.Anything)
}

func TestAvatar_CreateWithVideoReleasesOnFailure(t *testing.T) {
	path, size := writeVideo(t)
	avatars := new(MockAvatarService)
	media := new(MockMediaService)
	avatars.On("SelectStyle", model.StyleNature).Return(nil)
	avatars.On("IsCreationAllowed").Return(true)
	media.On("Accept", mock.Anything, mock.Anything, size).Return("videos/abc.mp4", nil)
	avatars.On("CreateAfterAnalysis", mock.Anything, mock.Anything).Return(model.AvatarRecord{}, model.ErrNotAuthorized)
	media.On("Release", mock.Anything, "videos/abc.mp4").Return().Once()
	h := NewAvatar(avatars, media, newBuffer(), testutil.MakeNoopLogger())

	err := runAction(t, h.Create, h.CreateFlags(), "--style", "nature", "--video", path)

	assert.Equal(t, ExitNotPermitted, ExitStatus(err))
	media.AssertExpectations(t)
}

func TestAvatar_CreateWithVideoWithoutConsent(t *testing.T) {
	path, _ := writeVideo(t)
	avatars := new(MockAvatarService)
	media := new(MockMediaService)
	avatars.On("SelectStyle", model.StyleNature).Return(nil)
	avatars.On("IsCreationAllowed").Return(false)
	h := NewAvatar(avatars, media, newBuffer(), testutil.MakeNoopLogger())

	err := runAction(t, h.Create, h.CreateFlags(), "--style", "nature", "--video", path)

	assert.Equal(t, ExitNotPermitted, ExitStatus(err))
	assert.ErrorIs(t, err, model.ErrNotAuthorized)
	media.AssertNotCalled(t, "Accept", mock.Anything, mock.Anything, mock.Anything)
	avatars.AssertNotCalled(t, "CreateAfterAnalysis", mock.Anything, mock.Anything)
}

func TestAvatar_CreateWithBadVideo(t *testing.T) {
	tests := []struct {
		name       string
		path       func(t *testing.T) string
		acceptErr  error
		wantStatus int
	}{
		{
			name:       "missing file",
			path:       func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.mp4") },
			wantStatus: ExitInvalidInput,
		},
		{
			name:       "directory",
			path:       func(t *testing.T) string { return t.TempDir() },
			wantStatus: ExitInvalidInput,
		},
		{
			name: "unsupported format",
			path: func(t *testing.T) string {
				p, _ := writeVideo(t)
				return p
			},
			acceptErr:  model.ErrUnsupportedMedia,
			wantStatus: ExitInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			avatars := new(MockAvatarService)
			media := new(MockMediaService)
			avatars.On("SelectStyle", model.StyleEnergy).Return(nil)
			avatars.On("IsCreationAllowed").Return(true)
			if tt.acceptErr != nil {
				media.On("Accept", mock.Anything, mock.Anything, mock.Anything).Return("", tt.acceptErr)
			}
			h := NewAvatar(avatars, media, newBuffer(), testutil.MakeNoopLogger())

			err := runAction(t, h.Create, h.CreateFlags(), "--style", "energy", "--video", tt.path(t))

			assert.Equal(t, tt.wantStatus, ExitStatus(err))
			avatars.AssertNotCalled(t, "CreateAfterAnalysis", mock.Anything, mock.Anything)
			avatars.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestAvatar_List(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		avatars := new(MockAvatarService)
		avatars.On("List").Return([]model.AvatarRecord{})
		out := newBuffer()
		h := NewAvatar(avatars, new(MockMediaService), out, testutil.MakeNoopLogger())

		require.NoError(t, runAction(t, h.List, nil))
		assert.Equal(t, "No avatars yet.\n", out.String())
	})

	t.Run("records", func(t *testing.T) {
		second := testAvatar
		second.ID = "id-2"
		second.Name = "Fern"
		second.Style = model.StyleNature
		second.Stats = model.AvatarStats{ARSessions: 2, Conversations: 5}
		avatars := new(MockAvatarService)
		avatars.On("List").Return([]model.AvatarRecord{testAvatar, second})
		out := newBuffer()
		h := NewAvatar(avatars, new(MockMediaService), out, testutil.MakeNoopLogger())

		require.NoError(t, runAction(t, h.List, nil))
		assert.Contains(t, out.String(), testAvatar.ID)
		assert.Contains(t, out.String(), "Fern")
		assert.Contains(t, out.String(), "ar:2 talk:5")
		assert.Contains(t, out.String(), "2026-10-16")
	})
}

func TestAvatar_Delete(t *testing.T) {
	t.Run("known id releases media", func(t *testing.T) {
		avatars := new(MockAvatarService)
		media := new(MockMediaService)
		avatars.On("Get", testAvatar.ID).Return(testAvatar, true)
		avatars.On("Delete", mock.Anything, testAvatar.ID).Return(nil)
		media.On("Release", mock.Anything, testAvatar.MediaRef).Return().Once()
		out := newBuffer()
		h := NewAvatar(avatars, media, out, testutil.MakeNoopLogger())

		require.NoError(t, runAction(t, h.Delete, nil, testAvatar.ID))
		assert.Equal(t, "Deleted Quantum Self 1.\n", out.String())
		avatars.AssertExpectations(t)
		media.AssertExpectations(t)
	})

	t.Run("unknown id is not an error", func(t *testing.T) {
		avatars := new(MockAvatarService)
		media := new(MockMediaService)
		avatars.On("Get", "xyz").Return(model.AvatarRecord{}, false)
		avatars.On("Delete", mock.Anything, "xyz").Return(nil)
		out := newBuffer()
		h := NewAvatar(avatars, media, out, testutil.MakeNoopLogger())

		require.NoError(t, runAction(t, h.Delete, nil, "xyz"))
		assert.Equal(t, "No avatar with id xyz.\n", out.String())
		media.AssertNotCalled(t, "Release", mock.Anything, mock.Anything)
	})

	t.Run("missing argument", func(t *testing.T) {
		h := NewAvatar(new(MockAvatarService), new(MockMediaService), newBuffer(), testutil.MakeNoopLogger())

		err := runAction(t, h.Delete, nil)

		assert.Equal(t, ExitInvalidInput, ExitStatus(err))
	})
}

func TestAvatar_Show(t *testing.T) {
	noVideo := testAvatar
	noVideo.MediaRef = ""

	tests := []struct {
		name      string
		record    model.AvatarRecord
		stored    bool
		storedErr error
		wantVideo string
	}{
		{name: "stored video", record: testAvatar, stored: true, wantVideo: "stored"},
		{name: "missing video", record: testAvatar, stored: false, wantVideo: "missing"},
		{name: "storage failure", record: testAvatar, storedErr: errors.New("timeout"), wantVideo: "unknown"},
		{name: "created without video", record: noVideo, wantVideo: "none"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			avatars := new(MockAvatarService)
			media := new(MockMediaService)
			avatars.On("Get", tt.record.ID).Return(tt.record, true)
			if tt.record.MediaRef != "" {
				media.On("Available", mock.Anything, tt.record.MediaRef).Return(tt.stored, tt.storedErr)
			}
			out := newBuffer()
			h := NewAvatar(avatars, media, out, testutil.MakeNoopLogger())

			require.NoError(t, runAction(t, h.Show, nil, tt.record.ID))

			assert.Contains(t, out.String(), "Quantum Self 1 (cyberpunk, 87% match)\n")
			assert.Contains(t, out.String(), "  created:       2026-10-16 09:30:00 UTC\n")
			assert.Contains(t, out.String(), "  video:         "+tt.wantVideo+"\n")
			media.AssertExpectations(t)
		})
	}

	t.Run("unknown id", func(t *testing.T) {
		avatars := new(MockAvatarService)
		avatars.On("Get", "xyz").Return(model.AvatarRecord{}, false)
		out := newBuffer()
		h := NewAvatar(avatars, new(MockMediaService), out, testutil.MakeNoopLogger())

		require.NoError(t, runAction(t, h.Show, nil, "xyz"))
		assert.Equal(t, "No avatar with id xyz.\n", out.String())
	})
}

func TestAvatar_Export(t *testing.T) {
	t.Run("copies the video", func(t *testing.T) {
		avatars := new(MockAvatarService)
		media := new(MockMediaService)
		avatars.On("Get", testAvatar.ID).Return(testAvatar, true)
		media.On("Open", mock.Anything, testAvatar.MediaRef).
			Return(io.NopCloser(strings.NewReader("video bytes")), nil)
		dest := filepath.Join(t.TempDir(), "copy.mp4")
		out := newBuffer()
		h := NewAvatar(avatars, media, out, testutil.MakeNoopLogger())

		require.NoError(t, runAction(t, h.Export, nil, testAvatar.ID, dest))

		content, err := os.ReadFile(dest)
		require.NoError(t, err)
		assert.Equal(t, "video bytes", string(content))
		assert.Equal(t, "Exported the video of Quantum Self 1 to "+dest+" (11 B).\n", out.String())
	})

	existing := filepath.Join(t.TempDir(), "taken.mp4")
	require.NoError(t, os.WriteFile(existing, []byte("keep"), 0o600))
	noVideo := testAvatar
	noVideo.MediaRef = ""

	tests := []struct {
		name    string
		args    []string
		record  model.AvatarRecord
		found   bool
		openErr error
		wantMsg string
	}{
		{name: "missing destination", args: []string{testAvatar.ID}, wantMsg: "destination path"},
		{name: "unknown id", args: []string{"xyz", "out.mp4"}, wantMsg: "no avatar with id xyz"},
		{name: "no video", args: []string{testAvatar.ID, "out.mp4"}, record: noVideo, found: true, wantMsg: "without a video"},
		{name: "video gone", args: []string{testAvatar.ID, "out.mp4"}, record: testAvatar, found: true, openErr: model.ErrNotFound, wantMsg: "no longer stored"},
		{name: "destination exists", args: []string{testAvatar.ID, existing}, record: testAvatar, found: true, wantMsg: "cannot create"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			avatars := new(MockAvatarService)
			media := new(MockMediaService)
			avatars.On("Get", tt.args[0]).Return(tt.record, tt.found)
			media.On("Open", mock.Anything, mock.Anything).
				Return(io.NopCloser(strings.NewReader("video bytes")), tt.openErr)
			h := NewAvatar(avatars, media, newBuffer(), testutil.MakeNoopLogger())

			err := runAction(t, h.Export, nil, tt.args...)

			assert.Equal(t, ExitInvalidInput, ExitStatus(err))
			assert.ErrorContains(t, err, tt.wantMsg)
		})
	}

	content, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "keep", string(content))
}

func TestAvatar_Interactions(t *testing.T) {
	avatars := new(MockAvatarService)
	avatars.On("Get", testAvatar.ID).Return(testAvatar, true)
	avatars.On("Get", "ghost").Return(model.AvatarRecord{}, false)
	avatars.On("IncrementARSession", mock.Anything, testAvatar.ID).Return(nil).Once()
	avatars.On("IncrementConversation", mock.Anything, testAvatar.ID).Return(nil).Once()
	out := newBuffer()
	h := NewAvatar(avatars, new(MockMediaService), out, testutil.MakeNoopLogger())

	require.NoError(t, runAction(t, h.AR, nil, testAvatar.ID))
	require.NoError(t, runAction(t, h.Talk, nil, testAvatar.ID))
	require.NoError(t, runAction(t, h.AR, nil, "ghost"))

	assert.Equal(t,
		"Viewing Quantum Self 1 in AR.\nTalking with Quantum Self 1.\nNo avatar with id ghost.\n",
		out.String())
	avatars.AssertExpectations(t)
}

func TestAvatar_Styles(t *testing.T) {
	out := newBuffer()
	h := NewAvatar(new(MockAvatarService), new(MockMediaService), out, testutil.MakeNoopLogger())

	require.NoError(t, runAction(t, h.Styles, nil))

	for _, example := range model.StyleExamples {
		assert.Contains(t, out.String(), example.Name)
	}
}
