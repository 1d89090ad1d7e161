// Package knowledge holds the per-100g nutrition table loaded from CSV and
// derives per-serving nutrition features from it.
package knowledge

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/dellavent/glycemicguard/pkg/common/errors"
)

// FoodRecord is one row of the nutrition table, keyed by its normalized
// name. Numeric fields are per 100 g; nil means the source cell was empty
// or unparseable. Records are immutable after load.
type FoodRecord struct {
	Name            string
	GlycemicIndex   *float64
	Carbohydrates   *float64
	Fiber           *float64
	Protein         *float64
	Fat             *float64
	ProcessingLevel string
	ServingGrams    *float64
}

// Store is the in-memory knowledge base. It is built once and read-only
// afterwards, so unsynchronized concurrent reads are safe.
type Store struct {
	records map[string]FoodRecord
	names   []string
}

// Expected CSV columns. Order in the file does not matter; the header row
// decides the mapping.
const (
	colName            = "name"
	colGlycemicIndex   = "glycemic_index"
	colCarbohydrates   = "carbohydrates"
	colFiber           = "fiber"
	colProtein         = "protein"
	colFat             = "fat"
	colProcessingLevel = "processing_level"
	colServingGrams    = "serving_size_grams"
)

// Open loads the nutrition CSV at path. A file that cannot be opened or
// whose header cannot be read is fatal; malformed numeric cells in data
// rows are tolerated and recorded as absent.
func Open(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &errors.SourceError{Path: path, Err: err}
	}
	defer f.Close()

	s, err := Read(f)
	if err != nil {
		return nil, &errors.SourceError{Path: path, Err: err}
	}
	return s, nil
}

// Read parses nutrition records from r. Duplicate normalized names resolve
// last-wins: the later row overwrites the earlier one.
func Read(r io.Reader) (*Store, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // rows may be ragged; short rows read as absent

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.TrimSpace(strings.ToLower(h))] = i
	}
	if _, ok := cols[colName]; !ok {
		return nil, fmt.Errorf("header missing %q column", colName)
	}

	records := make(map[string]FoodRecord)
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		key := Normalize(cell(row, cols, colName))
		if key == "" {
			continue
		}

		records[key] = FoodRecord{
			Name:            key,
			GlycemicIndex:   parseCell(cell(row, cols, colGlycemicIndex)),
			Carbohydrates:   parseCell(cell(row, cols, colCarbohydrates)),
			Fiber:           parseCell(cell(row, cols, colFiber)),
			Protein:         parseCell(cell(row, cols, colProtein)),
			Fat:             parseCell(cell(row, cols, colFat)),
			ProcessingLevel: strings.TrimSpace(cell(row, cols, colProcessingLevel)),
			ServingGrams:    parseCell(cell(row, cols, colServingGrams)),
		}
	}

	names := make([]string, 0, len(records))
	for name := range records {
		names = append(names, name)
	}
	sort.Strings(names)

	return &Store{records: records, names: names}, nil
}

// Normalize maps a free-text food name to its lookup key: lowercased,
// trimmed, internal whitespace runs collapsed to single spaces. Applied
// identically at load time and at query time.
func Normalize(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// ListNames returns all canonical keys in sorted order. The returned slice
// is shared; callers must not mutate it.
func (s *Store) ListNames() []string {
	return s.names
}

// Len returns the number of loaded records.
func (s *Store) Len() int {
	return len(s.records)
}

// Lookup returns the record for a (not necessarily normalized) name.
func (s *Store) Lookup(name string) (FoodRecord, bool) {
	rec, ok := s.records[Normalize(name)]
	return rec, ok
}

// Records returns a copy of the full table, keyed by canonical name.
func (s *Store) Records() map[string]FoodRecord {
	out := make(map[string]FoodRecord, len(s.records))
	for k, v := range s.records {
		out[k] = v
	}
	return out
}

func cell(row []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

// parseCell converts a CSV cell to a number. Empty and malformed cells are
// absent, not zero and not an error.
func parseCell(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
