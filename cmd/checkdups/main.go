// Command checkdups reports foods whose normalized names collide in a
// nutrition CSV. The store keeps the last row for each normalized name,
// so collisions silently shadow earlier rows; this tool makes them
// visible before a dataset ships.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sort"

	"github.com/dellavent/glycemicguard/pkg/knowledge"
)

func main() {
	top := flag.Int("top", 20, "show at most this many duplicated names")
	flag.Parse()

	path := "nutrition_data.csv"
	if flag.NArg() >= 1 {
		path = flag.Arg(0)
	}

	counts, raws, err := scan(path)
	if err != nil {
		log.Fatalf("Failed to scan %s: %v", path, err)
	}

	type dup struct {
		name  string
		count int
	}
	var dups []dup
	for name, n := range counts {
		if n > 1 {
			dups = append(dups, dup{name, n})
		}
	}
	if len(dups) == 0 {
		fmt.Printf("%s: no duplicate names among %d rows\n", path, len(counts))
		return
	}

	sort.Slice(dups, func(i, j int) bool {
		if dups[i].count != dups[j].count {
			return dups[i].count > dups[j].count
		}
		return dups[i].name < dups[j].name
	})

	fmt.Printf("%s: %d duplicated names (later rows shadow earlier ones)\n\n", path, len(dups))
	limit := *top
	if len(dups) < limit {
		limit = len(dups)
	}
	for _, d := range dups[:limit] {
		fmt.Printf("%4dx %s\n", d.count, d.name)
		for _, raw := range raws[d.name] {
			fmt.Printf("      raw: %q\n", raw)
		}
	}
	if len(dups) > limit {
		fmt.Printf("... and %d more\n", len(dups)-limit)
	}
	os.Exit(1)
}

// scan counts rows per normalized name and records the raw spellings
// behind each one.
func scan(path string) (map[string]int, map[string][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}
	nameCol := -1
	for i, col := range header {
		if knowledge.Normalize(col) == "name" {
			nameCol = i
		}
	}
	if nameCol == -1 {
		return nil, nil, fmt.Errorf("no name column in header %v", header)
	}

	counts := make(map[string]int)
	raws := make(map[string][]string)
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		if nameCol >= len(record) {
			continue
		}
		key := knowledge.Normalize(record[nameCol])
		if key == "" {
			continue
		}
		counts[key]++
		raws[key] = append(raws[key], record[nameCol])
	}
	return counts, raws, nil
}
