package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"course-notes-be/internal/config"
	"course-notes-be/internal/pkg/logger"
	"course-notes-be/pkg/notes"
	"course-notes-be/pkg/notesclient"
	"course-notes-be/pkg/notesync"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	color.NoColor = true
}

type fakeBackend struct {
	mu      sync.Mutex
	file    *notesclient.UserFile
	records []notes.RawRecord
	listErr error
	saves   []notesync.WriteRequest
}

func (f *fakeBackend) ListNotes(_ context.Context, _, _ int64) ([]notes.RawRecord, error) {
	return f.records, f.listErr
}

func (f *fakeBackend) SaveNotes(_ context.Context, req notesync.WriteRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves = append(f.saves, req)
	return nil
}

func (f *fakeBackend) RecordDataItem(_ context.Context, _ notesync.DataItem) error {
	return nil
}

func (f *fakeBackend) GetUserFile(_ context.Context, seriesId, userFileId int64) (*notesclient.UserFile, error) {
	if f.file == nil {
		return nil, &notesclient.APIError{Status: 404, Message: "User file not found"}
	}
	return f.file, nil
}

func (f *fakeBackend) savedRequests() []notesync.WriteRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]notesync.WriteRequest(nil), f.saves...)
}

func str(s string) *string { return &s }

func testWiring(backend *fakeBackend) (commandWiring, *bytes.Buffer) {
	var out bytes.Buffer
	return commandWiring{
		stdout:     &out,
		stderr:     &bytes.Buffer{},
		newBackend: func(config.Profile) notesBackend { return backend },
		loadProfile: func(string) (config.Profile, error) {
			return config.Profile{BaseURL: "http://notes.test/api", UserId: 1, SyncDelayMs: 200, TimeoutMs: 1000}, nil
		},
		newLogger: func(bool) logger.ILogger { return logger.NewNopLogger() },
	}, &out
}

func calculusFile() *notesclient.UserFile {
	return &notesclient.UserFile{Id: 8, SeriesId: 4, Name: "calculus.pdf", TotalPages: 2}
}

func TestShowPrintsMineAndShared(t *testing.T) {
	backend := &fakeBackend{
		file: calculusFile(),
		records: []notes.RawRecord{
			{UserId: 1, Page: 1, Notes: str("my limit notes")},
			{UserId: 2, Page: 1, Notes: str("their limit notes")},
		},
	}
	wiring, out := testWiring(backend)

	require.NoError(t, NewShowCommand(wiring).Run([]string{"4", "8"}))

	text := out.String()
	assert.Contains(t, text, "calculus.pdf (series 4, 2 pages)")
	assert.Contains(t, text, "MINE")
	assert.Contains(t, text, "SHARED")
	assert.Contains(t, text, "my limit notes")
	assert.Contains(t, text, "their limit notes")
}

func TestShowSingleViewAndPage(t *testing.T) {
	backend := &fakeBackend{
		file:    calculusFile(),
		records: []notes.RawRecord{{UserId: 2, Page: 2, Notes: str("shared page two")}},
	}
	wiring, out := testWiring(backend)

	require.NoError(t, NewShowCommand(wiring).Run([]string{"--view", "shared", "--page", "2", "4", "8"}))
	assert.Contains(t, out.String(), "shared page two")
	assert.NotContains(t, out.String(), "MINE")

	err := NewShowCommand(wiring).Run([]string{"--page", "9", "4", "8"})
	assert.ErrorContains(t, err, "out of range")

	err = NewShowCommand(wiring).Run([]string{"--view", "everyone", "4", "8"})
	assert.ErrorContains(t, err, "unknown view")
}

func TestShowRejectsBadArguments(t *testing.T) {
	wiring, _ := testWiring(&fakeBackend{file: calculusFile()})

	assert.Error(t, NewShowCommand(wiring).Run([]string{"4"}))
	assert.ErrorContains(t, NewShowCommand(wiring).Run([]string{"x", "8"}), "series-id")
	assert.ErrorContains(t, NewShowCommand(wiring).Run([]string{"4", "0"}), "user-file-id")
}

func TestEditFlushesSingleWrite(t *testing.T) {
	backend := &fakeBackend{file: calculusFile()}
	wiring, out := testWiring(backend)

	require.NoError(t, NewEditCommand(wiring).Run([]string{"4", "8", "2", "chain rule"}))

	saves := backend.savedRequests()
	require.Len(t, saves, 1)
	assert.Equal(t, notesync.WriteRequest{
		UserFileId:  8,
		SeriesId:    4,
		UpdateNotes: true,
		Notes:       str("chain rule"),
		Page:        2,
	}, saves[0])
	assert.Contains(t, out.String(), "page 2 of calculus.pdf sent")
}

func TestEditAnnotationOnly(t *testing.T) {
	backend := &fakeBackend{file: calculusFile()}
	wiring, _ := testWiring(backend)

	require.NoError(t, NewEditCommand(wiring).Run([]string{"--annotation", `{"paths":[]}`, "--scale", "1.5", "4", "8", "1"}))

	saves := backend.savedRequests()
	require.Len(t, saves, 1)
	assert.False(t, saves[0].UpdateNotes)
	assert.True(t, saves[0].UpdateAnnotations)
	assert.Equal(t, 1.5, saves[0].Annotations.Scale)

	err := NewEditCommand(wiring).Run([]string{"--annotation", "{", "4", "8", "1"})
	assert.ErrorContains(t, err, "valid JSON")
}

func TestEditNoteAndAnnotationSendsBoth(t *testing.T) {
	backend := &fakeBackend{file: calculusFile()}
	wiring, out := testWiring(backend)

	require.NoError(t, NewEditCommand(wiring).Run([]string{"--annotation", `{"paths":[]}`, "4", "8", "1", "hello"}))

	saves := backend.savedRequests()
	require.Len(t, saves, 1)
	assert.True(t, saves[0].UpdateNotes)
	require.NotNil(t, saves[0].Notes)
	assert.Equal(t, "hello", *saves[0].Notes)
	assert.True(t, saves[0].UpdateAnnotations)
	require.NotNil(t, saves[0].Annotations)
	assert.JSONEq(t, `{"paths":[]}`, string(saves[0].Annotations.Data))
	assert.Contains(t, out.String(), "page 1 of calculus.pdf sent")
}

func TestEditFailures(t *testing.T) {
	backend := &fakeBackend{file: calculusFile()}
	wiring, _ := testWiring(backend)

	err := NewEditCommand(wiring).Run([]string{"4", "8", "3", "past the end"})
	assert.ErrorIs(t, err, notes.ErrEntryNotFound)

	backend.listErr = errors.New("502 bad gateway")
	err = NewEditCommand(wiring).Run([]string{"4", "8", "1", "x"})
	assert.ErrorContains(t, err, "fetch notes")

	var apiErr *notesclient.APIError
	backend.file = nil
	err = NewEditCommand(wiring).Run([]string{"4", "8", "1", "x"})
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.Status)

	assert.Empty(t, backend.savedRequests())
}

func TestProfileSavesOverrides(t *testing.T) {
	for _, key := range []string{"NOTES_BASE_URL", "NOTES_TOKEN", "NOTES_SYNC_DELAY_MS"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	path := filepath.Join(t.TempDir(), "notesync.toml")

	wiring, out := testWiring(&fakeBackend{})
	wiring.loadProfile = config.LoadProfile

	require.NoError(t, NewProfileCommand(wiring).Run([]string{
		"--profile", path, "--base-url", "https://notes.example.com/api", "--user-id", "12", "--save",
	}))
	assert.Contains(t, out.String(), "notes.example.com")

	saved, err := config.LoadProfile(path)
	require.NoError(t, err)
	assert.Equal(t, "https://notes.example.com/api", saved.BaseURL)
	assert.Equal(t, int64(12), saved.UserId)
	assert.Equal(t, 500, saved.SyncDelayMs)
}

func TestBuildCommandsRegistersAll(t *testing.T) {
	commands := buildCommands(defaultCommandWiring(nil, nil))
	for _, name := range []string{"show", "edit", "profile"} {
		assert.Contains(t, commands, name)
	}
}
