// Package loader reads raw bar sequences from files. Validation is the
// series package's job; the loader only parses.
package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/quantgeo/gannwheel/internal/core"
)

const dateLayout = "2006-01-02"

// LoadCSV reads bars from a CSV file with columns
// date,open,high,low,close,volume and an optional seventh amount
// column. A header row is detected and skipped.
func LoadCSV(path string) ([]core.Bar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, core.WrapError(core.ErrLoaderFailed, err)
	}
	defer f.Close()

	bars, err := ParseCSV(f)
	if err != nil {
		return nil, core.WrapError(core.ErrLoaderFailed, fmt.Errorf("%s: %w", path, err))
	}
	return bars, nil
}

// ParseCSV parses bars from CSV content.
func ParseCSV(r io.Reader) ([]core.Bar, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var bars []core.Bar
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line+1, err)
		}
		line++

		if line == 1 && isHeader(record) {
			continue
		}
		bar, err := parseRecord(record)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		bars = append(bars, bar)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("no bars found")
	}
	return bars, nil
}

func isHeader(record []string) bool {
	if len(record) == 0 {
		return false
	}
	_, err := time.Parse(dateLayout, strings.TrimSpace(record[0]))
	return err != nil
}

func parseRecord(record []string) (core.Bar, error) {
	if len(record) < 6 {
		return core.Bar{}, fmt.Errorf("expected at least 6 fields, got %d", len(record))
	}

	date, err := time.Parse(dateLayout, strings.TrimSpace(record[0]))
	if err != nil {
		return core.Bar{}, fmt.Errorf("parsing date %q: %w", record[0], err)
	}

	fields := make([]float64, 4)
	for i := 0; i < 4; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(record[i+1]), 64)
		if err != nil {
			return core.Bar{}, fmt.Errorf("parsing %s %q: %w", []string{"open", "high", "low", "close"}[i], record[i+1], err)
		}
		fields[i] = v
	}

	volume, err := strconv.ParseInt(strings.TrimSpace(record[5]), 10, 64)
	if err != nil {
		return core.Bar{}, fmt.Errorf("parsing volume %q: %w", record[5], err)
	}

	bar := core.Bar{
		Date:   date.UTC(),
		Open:   fields[0],
		High:   fields[1],
		Low:    fields[2],
		Close:  fields[3],
		Volume: volume,
	}
	if len(record) >= 7 && strings.TrimSpace(record[6]) != "" {
		amount, err := strconv.ParseFloat(strings.TrimSpace(record[6]), 64)
		if err != nil {
			return core.Bar{}, fmt.Errorf("parsing amount %q: %w", record[6], err)
		}
		bar.Amount = amount
	}
	return bar, nil
}
