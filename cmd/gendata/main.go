// Command gendata writes a synthetic nutrition CSV for development and
// load testing. Rows are generated from per-category templates, so the
// values are plausible rather than measured.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strconv"
)

type template struct {
	base       string
	variations []string
	giLo, giHi int
	carbs      [2]float64
	fiber      [2]float64
	protein    [2]float64
	fat        [2]float64
	processing []string
	serving    int
}

var templates = []template{
	{"apple", []string{"raw", "red delicious", "granny smith", "fuji", "gala"},
		28, 44, [2]float64{12, 15}, [2]float64{2.0, 2.8}, [2]float64{0.2, 0.4}, [2]float64{0.1, 0.3},
		[]string{"whole"}, 182},
	{"banana", []string{"raw", "ripe", "green", "overripe"},
		42, 62, [2]float64{20, 25}, [2]float64{2.2, 3.0}, [2]float64{1.0, 1.4}, [2]float64{0.2, 0.4},
		[]string{"whole"}, 118},
	{"rice", []string{"white boiled", "brown boiled", "basmati", "jasmine", "wild"},
		50, 89, [2]float64{22, 30}, [2]float64{0.3, 2.0}, [2]float64{2.2, 3.0}, [2]float64{0.2, 1.0},
		[]string{"minimally_processed"}, 158},
	{"bread", []string{"white", "whole wheat", "sourdough", "rye", "multigrain"},
		50, 75, [2]float64{43, 50}, [2]float64{2.5, 7.0}, [2]float64{8.0, 13.0}, [2]float64{1.0, 4.5},
		[]string{"processed"}, 28},
	{"pasta", []string{"spaghetti", "penne", "whole wheat", "fettuccine"},
		40, 60, [2]float64{25, 31}, [2]float64{1.2, 4.5}, [2]float64{5.0, 6.0}, [2]float64{0.8, 1.5},
		[]string{"processed"}, 140},
	{"potato", []string{"boiled", "baked", "mashed", "sweet baked", "russet"},
		44, 94, [2]float64{15, 21}, [2]float64{1.5, 3.3}, [2]float64{1.5, 2.5}, [2]float64{0.1, 0.2},
		[]string{"whole", "minimally_processed"}, 150},
	{"cabbage", []string{"raw", "boiled", "red raw", "napa"},
		10, 20, [2]float64{4, 7}, [2]float64{2.0, 3.0}, [2]float64{1.0, 1.5}, [2]float64{0.1, 0.2},
		[]string{"whole"}, 98},
	{"broccoli", []string{"raw", "steamed", "roasted"},
		10, 20, [2]float64{5, 8}, [2]float64{2.5, 3.5}, [2]float64{2.5, 3.5}, [2]float64{0.3, 0.5},
		[]string{"whole"}, 91},
	{"chicken", []string{"breast", "thigh", "drumstick", "ground", "rotisserie"},
		0, 0, [2]float64{0, 0}, [2]float64{0, 0}, [2]float64{20, 32}, [2]float64{1, 15},
		[]string{"minimally_processed"}, 100},
	{"fish", []string{"salmon", "tuna", "cod", "tilapia", "sardines"},
		0, 0, [2]float64{0, 0}, [2]float64{0, 0}, [2]float64{18, 30}, [2]float64{0.5, 15},
		[]string{"minimally_processed"}, 100},
	{"bean", []string{"black", "kidney", "pinto", "navy", "chickpea"},
		25, 40, [2]float64{20, 28}, [2]float64{6, 10}, [2]float64{7, 10}, [2]float64{0.3, 1.5},
		[]string{"minimally_processed"}, 172},
	{"lentil", []string{"brown", "green", "red", "cooked"},
		25, 35, [2]float64{18, 22}, [2]float64{7, 10}, [2]float64{8, 10}, [2]float64{0.3, 0.6},
		[]string{"minimally_processed"}, 198},
	{"yogurt", []string{"greek plain", "greek vanilla", "regular plain", "low-fat"},
		11, 35, [2]float64{3, 15}, [2]float64{0, 0}, [2]float64{3, 17}, [2]float64{0, 10},
		[]string{"processed"}, 170},
	{"cereal", []string{"cornflakes", "granola", "muesli", "bran flakes", "oatmeal"},
		40, 90, [2]float64{60, 90}, [2]float64{2, 15}, [2]float64{5, 15}, [2]float64{1, 20},
		[]string{"processed", "ultra_processed"}, 28},
	{"soda", []string{"cola", "lemon lime", "orange", "root beer"},
		59, 68, [2]float64{10, 12}, [2]float64{0, 0}, [2]float64{0, 0}, [2]float64{0, 0},
		[]string{"ultra_processed"}, 355},
	{"chocolate", []string{"dark 70%", "dark 85%", "milk", "white"},
		20, 45, [2]float64{30, 60}, [2]float64{7, 12}, [2]float64{5, 10}, [2]float64{30, 50},
		[]string{"processed"}, 28},
}

func main() {
	out := flag.String("out", "nutrition_data.csv", "output CSV path")
	seed := flag.Int64("seed", 1, "random seed, fixed for reproducible datasets")
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))

	f, err := os.Create(*out)
	if err != nil {
		log.Fatalf("Failed to create %s: %v", *out, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{
		"name", "glycemic_index", "carbohydrates", "fiber", "protein",
		"fat", "processing_level", "serving_size_grams",
	}); err != nil {
		log.Fatalf("Failed to write header: %v", err)
	}

	count := 0
	for _, tpl := range templates {
		for _, variation := range tpl.variations {
			if err := w.Write(row(rng, tpl, variation)); err != nil {
				log.Fatalf("Failed to write row: %v", err)
			}
			count++
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		log.Fatalf("Failed to flush CSV: %v", err)
	}
	fmt.Printf("Wrote %d foods to %s\n", count, *out)
}

func row(rng *rand.Rand, tpl template, variation string) []string {
	name := variation + " " + tpl.base
	if variation == tpl.base {
		name = tpl.base
	}

	gi := tpl.giLo
	if tpl.giHi > tpl.giLo {
		gi += rng.Intn(tpl.giHi - tpl.giLo + 1)
	}
	processing := tpl.processing[rng.Intn(len(tpl.processing))]

	// Serving sizes vary a little around the template's reference mass.
	serving := int(float64(tpl.serving) * (0.9 + 0.2*rng.Float64()))

	return []string{
		name,
		strconv.Itoa(gi),
		uniform1(rng, tpl.carbs),
		uniform1(rng, tpl.fiber),
		uniform1(rng, tpl.protein),
		uniform1(rng, tpl.fat),
		processing,
		strconv.Itoa(serving),
	}
}

// uniform1 draws from [lo, hi] and formats with one decimal place.
func uniform1(rng *rand.Rand, bounds [2]float64) string {
	v := bounds[0] + (bounds[1]-bounds[0])*rng.Float64()
	return strconv.FormatFloat(v, 'f', 1, 64)
}
