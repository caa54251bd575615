package feed

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ulikunitz/xz"
	"github.com/xyproto/unzip"
)

// LoadTicks reads recorded ticks from a CSV file:
//
//	time,instrument,price
//
// with RFC3339 timestamps. Compressed recordings are handled by extension:
// .xz files are decompressed on the fly, .zip archives are extracted and
// the first .csv member is loaded.
func LoadTicks(path string) ([]Tick, error) {
	switch {
	case strings.HasSuffix(path, ".xz"):
		return loadXZ(path)
	case strings.HasSuffix(path, ".zip"):
		return loadZip(path)
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open ticks: %w", err)
		}
		defer f.Close()
		return parseTicks(f)
	}
}

func loadXZ(path string) ([]Tick, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ticks: %w", err)
	}
	defer f.Close()

	r, err := xz.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("xz ticks: %w", err)
	}
	return parseTicks(r)
}

func loadZip(path string) ([]Tick, error) {
	dir, err := os.MkdirTemp("", "ticks-*")
	if err != nil {
		return nil, fmt.Errorf("zip ticks: %w", err)
	}
	defer os.RemoveAll(dir)

	if err := unzip.Extract(path, dir); err != nil {
		return nil, fmt.Errorf("zip ticks: %w", err)
	}

	matches, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil || len(matches) == 0 {
		return nil, fmt.Errorf("zip ticks: no csv member in %s", path)
	}

	f, err := os.Open(matches[0])
	if err != nil {
		return nil, fmt.Errorf("zip ticks: %w", err)
	}
	defer f.Close()
	return parseTicks(f)
}

func parseTicks(r io.Reader) ([]Tick, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 3

	var out []Tick
	for line := 1; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse ticks line %d: %w", line, err)
		}

		ts, err := time.Parse(time.RFC3339, strings.TrimSpace(row[0]))
		if err != nil {
			return nil, fmt.Errorf("parse ticks line %d: bad time: %w", line, err)
		}
		price, err := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
		if err != nil {
			return nil, fmt.Errorf("parse ticks line %d: bad price: %w", line, err)
		}

		out = append(out, Tick{
			Time:       ts,
			Instrument: strings.TrimSpace(row[1]),
			Price:      price,
		})
	}
	return out, nil
}
