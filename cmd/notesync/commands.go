package main

import (
	"context"
	"io"
	"os"

	"course-notes-be/internal/config"
	"course-notes-be/internal/pkg/logger"
	"course-notes-be/pkg/notes"
	"course-notes-be/pkg/notesclient"
	"course-notes-be/pkg/notesync"
)

const defaultProfilePath = "notesync.toml"

type commandRunner interface {
	Run(args []string) error
}

// notesBackend is everything the CLI needs from the REST API.
type notesBackend interface {
	ListNotes(ctx context.Context, seriesId, userFileId int64) ([]notes.RawRecord, error)
	SaveNotes(ctx context.Context, req notesync.WriteRequest) error
	RecordDataItem(ctx context.Context, item notesync.DataItem) error
	GetUserFile(ctx context.Context, seriesId, userFileId int64) (*notesclient.UserFile, error)
}

type backendFactory func(profile config.Profile) notesBackend

type commandWiring struct {
	stdout      io.Writer
	stderr      io.Writer
	newBackend  backendFactory
	loadProfile func(path string) (config.Profile, error)
	newLogger   func(verbose bool) logger.ILogger
}

func defaultCommandWiring(stdout, stderr io.Writer) commandWiring {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return commandWiring{
		stdout:      stdout,
		stderr:      stderr,
		newBackend:  newRESTBackend,
		loadProfile: config.LoadProfile,
		newLogger: func(verbose bool) logger.ILogger {
			return logger.NewConsoleLogger(verbose)
		},
	}
}

func newRESTBackend(profile config.Profile) notesBackend {
	return notesclient.New(profile.BaseURL, profile.Token).WithTimeout(profile.Timeout())
}

func buildCommands(wiring commandWiring) map[string]commandRunner {
	return map[string]commandRunner{
		"show":    NewShowCommand(wiring),
		"edit":    NewEditCommand(wiring),
		"profile": NewProfileCommand(wiring),
	}
}
