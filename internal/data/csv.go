package data

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/contactkeval/vix-spread-backtest/internal/logger"
)

// ErrNoQuotes marks a dataset with no usable rows after validation.
var ErrNoQuotes = errors.New("no usable quote rows")

// Load reads an option-quote CSV from disk. A .zip path is treated as an
// archive wrapping a single CSV member.
func Load(path string) ([]Quote, error) {
	if strings.HasSuffix(strings.ToLower(path), ".zip") {
		return loadZip(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open quotes file: %w", err)
	}
	defer f.Close()

	return LoadReader(f)
}

// LoadReader parses quote rows from r, derives DTE, and drops rows that
// cannot participate in candidate selection.
func LoadReader(r io.Reader) ([]Quote, error) {
	var rows []*Quote
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("parse quotes csv: %w", err)
	}

	out := make([]Quote, 0, len(rows))
	dropped := 0
	for _, row := range rows {
		if row == nil || !row.valid() {
			dropped++
			continue
		}
		q := *row
		q.DTE = int(q.Expiration.Sub(q.QuoteDate.Time).Hours() / 24)
		out = append(out, q)
	}
	if dropped > 0 {
		logger.Debugf("dropped %d malformed quote rows", dropped)
	}
	if len(out) == 0 {
		return nil, ErrNoQuotes
	}
	logger.Infof("loaded %d quote rows", len(out))
	return out, nil
}

func loadZip(path string) ([]Quote, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open quotes archive: %w", err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if !strings.HasSuffix(strings.ToLower(f.Name), ".csv") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open archive member %s: %w", f.Name, err)
		}
		defer rc.Close()
		return LoadReader(rc)
	}
	return nil, fmt.Errorf("no csv member found in %s", path)
}
