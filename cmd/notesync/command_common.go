package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"course-notes-be/internal/config"
	"course-notes-be/internal/pkg/logger"
	"course-notes-be/pkg/eventbus"
	"course-notes-be/pkg/notes"
	"course-notes-be/pkg/notesclient"
	"course-notes-be/pkg/notesstore"
	"course-notes-be/pkg/notesync"

	"github.com/fatih/color"
)

const flushTimeout = 15 * time.Second

var (
	headerColor = color.New(color.FgCyan, color.Bold)
	okColor     = color.New(color.FgGreen)
	warnColor   = color.New(color.FgYellow)
)

func exitOnErr(label string, err error, stderr io.Writer) {
	if err == nil {
		return
	}
	color.New(color.FgRed).Fprintf(stderr, "%s error: %v\n", label, err)
	os.Exit(1)
}

func parseID(name, raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", name, raw)
	}
	return id, nil
}

func parsePage(raw string) (int, error) {
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 0, fmt.Errorf("page must be a positive integer, got %q", raw)
	}
	return page, nil
}

// session is one opened document: the store is loaded and edits flow
// through the debounced scheduler.
type session struct {
	file      *notesclient.UserFile
	doc       notes.DocumentKey
	store     *notesstore.Store
	scheduler *notesync.Scheduler
	bus       *eventbus.Bus
	cancel    context.CancelFunc
	logger    logger.ILogger
}

func openSession(ctx context.Context, wiring commandWiring, profile config.Profile, seriesId, userFileId int64) (*session, error) {
	log := wiring.newLogger(profile.Verbose)
	backend := wiring.newBackend(profile)

	file, err := backend.GetUserFile(ctx, seriesId, userFileId)
	if err != nil {
		return nil, fmt.Errorf("load user file: %w", err)
	}

	scheduler := notesync.NewScheduler(notesync.Config{Delay: profile.SyncDelay()}, backend, backend, log)
	bus := eventbus.New(log)

	subCtx, cancel := context.WithCancel(context.Background())
	if err := notesstore.RecordPageViews(subCtx, bus, backend); err != nil {
		log.Warn("NoteSyncCLI", "Page view telemetry disabled", map[string]interface{}{"error": err.Error()})
	}

	store := notesstore.New(profile.UserId, backend, scheduler, bus, log)
	s := &session{
		file:      file,
		doc:       notes.DocumentKey{SeriesId: seriesId, DocumentId: userFileId},
		store:     store,
		scheduler: scheduler,
		bus:       bus,
		cancel:    cancel,
		logger:    log,
	}

	if err := store.FetchDocumentNotes(ctx, seriesId, userFileId, file.TotalPages); err != nil {
		s.close(ctx)
		return nil, fmt.Errorf("fetch notes: %w", err)
	}
	return s, nil
}

// close sends pending writes before tearing the session down.
func (s *session) close(ctx context.Context) {
	flushCtx, cancel := context.WithTimeout(ctx, flushTimeout)
	defer cancel()

	s.scheduler.Flush(flushCtx)
	s.scheduler.Close()
	s.cancel()
	if err := s.bus.Close(); err != nil {
		s.logger.Warn("NoteSyncCLI", "Failed to close event bus", map[string]interface{}{"error": err.Error()})
	}
}

func oneLine(text string) string {
	text = strings.ReplaceAll(text, "\r\n", " ")
	return strings.ReplaceAll(text, "\n", " ")
}

func printPages(output io.Writer, s *session, pages []int, views []notesstore.View) {
	writer := tabwriter.NewWriter(output, 0, 8, 2, ' ', 0)
	fmt.Fprint(writer, "PAGE")
	for _, v := range views {
		fmt.Fprintf(writer, "\t%s\tDRAWING", strings.ToUpper(v.String()))
	}
	fmt.Fprintln(writer)

	panel := notesstore.NewPanel(s.store, s.doc)
	for _, page := range pages {
		s.store.SetCurrentPage(s.doc, page)
		fmt.Fprintf(writer, "%d", page)
		for _, v := range views {
			panel.SetView(v)
			text := panel.Text()
			if text == "" {
				text = "-"
			}
			drawing := "-"
			if _, ok := s.store.Annotation(s.doc.Page(page), v); ok {
				drawing = "yes"
			}
			fmt.Fprintf(writer, "\t%s\t%s", oneLine(text), drawing)
		}
		fmt.Fprintln(writer)
	}
	_ = writer.Flush()
}
