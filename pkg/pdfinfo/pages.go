package pdfinfo

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

var ErrNoPages = errors.New("pdf has no pages")

// CountPages validates the document and returns its page count.
func CountPages(rs io.ReadSeeker) (int, error) {
	conf := model.NewDefaultConfiguration()
	ctx, err := api.ReadValidateAndOptimize(rs, conf)
	if err != nil {
		return 0, fmt.Errorf("pdfcpu read: %w", err)
	}
	if ctx.PageCount < 1 {
		return 0, ErrNoPages
	}
	return ctx.PageCount, nil
}

// CountFilePages is CountPages for a file on disk.
func CountFilePages(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return CountPages(f)
}

// PageCounter is satisfied by FileCounter and by test doubles.
type PageCounter interface {
	CountFilePages(path string) (int, error)
}

type FileCounter struct{}

func (FileCounter) CountFilePages(path string) (int, error) {
	return CountFilePages(path)
}
