package main

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"course-notes-be/pkg/notesstore"
)

type ShowCommand struct {
	wiring commandWiring
}

func NewShowCommand(wiring commandWiring) *ShowCommand {
	return &ShowCommand{wiring: wiring}
}

func (c *ShowCommand) Run(args []string) error {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	fs.SetOutput(c.wiring.stderr)
	profilePath := fs.String("profile", defaultProfilePath, "TOML profile path")
	view := fs.String("view", "", "mine or shared (default both)")
	page := fs.Int("page", 0, "only print this page")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return errors.New("usage: notesync show [flags] <series-id> <user-file-id>")
	}

	views, err := parseViews(*view)
	if err != nil {
		return err
	}
	seriesId, err := parseID("series-id", fs.Arg(0))
	if err != nil {
		return err
	}
	userFileId, err := parseID("user-file-id", fs.Arg(1))
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

	pages := s.store.Snapshot().Notes.Pages(s.doc)
	if *page > 0 {
		if !containsPage(pages, *page) {
			return fmt.Errorf("page %d is out of range (file has %d pages)", *page, s.file.TotalPages)
		}
		pages = []int{*page}
	}

	headerColor.Fprintf(c.wiring.stdout, "%s (series %d, %d pages)\n", s.file.Name, seriesId, s.file.TotalPages)
	printPages(c.wiring.stdout, s, pages, views)
	return nil
}

func parseViews(raw string) ([]notesstore.View, error) {
	switch raw {
	case "":
		return []notesstore.View{notesstore.Mine, notesstore.Shared}, nil
	case notesstore.TabMine:
		return []notesstore.View{notesstore.Mine}, nil
	case notesstore.TabShared:
		return []notesstore.View{notesstore.Shared}, nil
	default:
		return nil, fmt.Errorf("unknown view %q, expected mine or shared", raw)
	}
}

func containsPage(pages []int, page int) bool {
	for _, p := range pages {
		if p == page {
			return true
		}
	}
	return false
}
