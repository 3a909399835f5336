package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"

	"course-notes-be/pkg/notes"
)

type EditCommand struct {
	wiring commandWiring
}

func NewEditCommand(wiring commandWiring) *EditCommand {
	return &EditCommand{wiring: wiring}
}

// Run applies the edit locally, then flushes the scheduled write before exit.
// Without a successful fetch the edit stays local and nothing is sent.
func (c *EditCommand) Run(args []string) error {
	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	fs.SetOutput(c.wiring.stderr)
	profilePath := fs.String("profile", defaultProfilePath, "TOML profile path")
	annotation := fs.String("annotation", "", "drawing data as JSON, replaces the page drawing")
	scale := fs.Float64("scale", 1, "viewer scale the drawing was made at")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var text *string
	switch {
	case fs.NArg() == 4:
		t := fs.Arg(3)
		text = &t
	case fs.NArg() == 3 && *annotation != "":
	default:
		return errors.New("usage: notesync edit [flags] <series-id> <user-file-id> <page> [text]")
	}

	var payload *notes.AnnotationPayload
	if *annotation != "" {
		if !json.Valid([]byte(*annotation)) {
			return errors.New("annotation must be valid JSON")
		}
		payload = &notes.AnnotationPayload{Scale: *scale, Data: json.RawMessage(*annotation)}
	}

	seriesId, err := parseID("series-id", fs.Arg(0))
	if err != nil {
		return err
	}
	userFileId, err := parseID("user-file-id", fs.Arg(1))
	if err != nil {
		return err
	}
	page, err := parsePage(fs.Arg(2))
	if err != nil {
		return err
	}

	profile, err := c.wiring.loadProfile(*profilePath)
	if err != nil {
		return err
	}

	ctx := context.Background()
	s, err := openSession(ctx, c.wiring, profile, seriesId, userFileId)
	if err != nil {
		return err
	}
	defer s.close(ctx)

	key := s.doc.Page(page)
	s.store.SetCurrentPage(s.doc, page)
	if err := s.store.UpdatePage(key, text, payload); err != nil {
		return fmt.Errorf("page %d: %w", page, err)
	}

	if !s.store.Snapshot().RemoteUpdateEnabled {
		warnColor.Fprintf(c.wiring.stdout, "page %d changed locally only\n", page)
		return nil
	}
	flushCtx, cancel := context.WithTimeout(ctx, flushTimeout)
	defer cancel()
	s.scheduler.Flush(flushCtx)

	// write failures are logged by the scheduler, never reported here
	okColor.Fprintf(c.wiring.stdout, "page %d of %s sent\n", page, s.file.Name)
	return nil
}
