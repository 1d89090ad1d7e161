// Package repl implements the interactive terminal advisor: resolve a food
// name, pick a serving size, show the nutrition features and the safety
// verdict.
package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	apperrors "github.com/dellavent/glycemicguard/pkg/common/errors"
	"github.com/dellavent/glycemicguard/pkg/knowledge"
	"github.com/dellavent/glycemicguard/pkg/match"
	"github.com/dellavent/glycemicguard/pkg/safety"
)

type session struct {
	cfg     Config
	store   *knowledge.Store
	matcher *match.Matcher
	engine  *safety.Engine
	scanner *bufio.Scanner
}

// Run starts the interactive loop and blocks until the user quits or input
// is exhausted.
func Run(ctx context.Context, cfg Config, store *knowledge.Store, matcher *match.Matcher, engine *safety.Engine) {
	if cfg.TopK <= 0 {
		cfg.TopK = 5
	}
	if cfg.DefaultServing == "" {
		cfg.DefaultServing = "100g"
	}

	s := &session{
		cfg:     cfg,
		store:   store,
		matcher: matcher,
		engine:  engine,
		scanner: bufio.NewScanner(cfg.In),
	}

	fmt.Fprintln(cfg.Out, "\n--- GlycemicGuard Food Safety Advisor ---")
	fmt.Fprintf(cfg.Out, "Loaded %d foods.", store.Len())
	if matcher.UsingEmbeddings() {
		fmt.Fprintln(cfg.Out, " Similarity search: embeddings.")
	} else {
		fmt.Fprintln(cfg.Out, " Similarity search: substring fallback.")
	}

	for {
		name, ok := s.promptFoodSelection(ctx)
		if !ok {
			fmt.Fprintln(cfg.Out, "Goodbye.")
			return
		}
		if name == "" {
			continue
		}

		serving, ok := s.promptServing()
		if !ok {
			fmt.Fprintln(cfg.Out, "Goodbye.")
			return
		}

		features, verdict, err := s.engine.EvaluateFood(name, serving)
		if err != nil {
			// MissingData is the only store error reachable here; the name
			// came from the corpus and the serving was already validated.
			fmt.Fprintf(cfg.Out, "Cannot evaluate %q: %v\n", name, err)
			continue
		}
		s.displayVerdict(name, features, verdict)
	}
}

// promptFoodSelection resolves a typed name to a canonical food. Exact
// matches return immediately without prompting; otherwise candidates are
// paged topK at a time. Returns ok=false on quit or EOF, name=="" when the
// user cancelled a search.
func (s *session) promptFoodSelection(ctx context.Context) (string, bool) {
	query, ok := s.readLine("\nEnter food name (or 'quit'): ")
	if !ok || strings.EqualFold(query, "quit") {
		return "", false
	}
	if query == "" {
		return "", true
	}

	// Exact match bypasses similarity search entirely.
	if name, found := s.matcher.ResolveExact(query); found {
		return name, true
	}

	offset := 0
	for {
		candidates, err := s.matcher.FindCandidates(ctx, query, s.cfg.TopK, offset)
		if err != nil {
			fmt.Fprintf(s.cfg.Out, "Search failed: %v\n", err)
			return "", true
		}
		if len(candidates) == 0 {
			fmt.Fprintf(s.cfg.Out, "No similar foods found for %q.\n", query)
			s.suggestSimilar(query)
			return "", true
		}

		fmt.Fprintf(s.cfg.Out, "\nFound %d similar foods:\n", len(candidates))
		for i, c := range candidates {
			fmt.Fprintf(s.cfg.Out, "  %d. %s (similarity: %.2f)\n", i+1, c.Name, c.Score)
		}
		fmt.Fprintf(s.cfg.Out, "Enter 1-%d to select, 'next' for more, 'cancel' to go back.\n", len(candidates))

		choice, ok := s.readLine("Your choice: ")
		if !ok {
			return "", false
		}
		switch strings.ToLower(choice) {
		case "cancel":
			return "", true
		case "next":
			offset += s.cfg.TopK
			continue
		}

		n, err := strconv.Atoi(choice)
		if err != nil || n < 1 || n > len(candidates) {
			fmt.Fprintf(s.cfg.Out, "Please enter a number between 1 and %d, 'next', or 'cancel'.\n", len(candidates))
			continue
		}
		return candidates[n-1].Name, true
	}
}

// promptServing reads a serving expression, re-prompting until it parses.
// The base mass does not matter for validation, only the grammar and sign.
func (s *session) promptServing() (string, bool) {
	for {
		serving, ok := s.readLine(fmt.Sprintf("Enter serving size [%s]: ", s.cfg.DefaultServing))
		if !ok {
			return "", false
		}
		if serving == "" {
			return s.cfg.DefaultServing, true
		}

		if _, err := knowledge.ParseServing(serving, 100); err != nil {
			if errors.Is(err, apperrors.ErrInvalidServing) {
				fmt.Fprintf(s.cfg.Out, "%v\n", err)
				continue
			}
			return "", false
		}
		return serving, true
	}
}

// suggestSimilar prints fuzzy "did you mean" hints when candidate search
// comes back empty, which mostly happens in fallback mode with typos.
func (s *session) suggestSimilar(query string) {
	suggestions := FindSimilarFoods(query, s.store.ListNames())
	if len(suggestions) == 0 {
		return
	}
	fmt.Fprintln(s.cfg.Out, "Did you mean:")
	for _, name := range suggestions {
		fmt.Fprintf(s.cfg.Out, "  - %s\n", name)
	}
}

func (s *session) displayVerdict(name string, f knowledge.Features, v safety.Verdict) {
	symbol := "•"
	switch v.Label {
	case safety.LabelSafe:
		symbol = "✓"
	case safety.LabelCaution:
		symbol = "⚠"
	case safety.LabelUnsafe:
		symbol = "✗"
	}

	out := s.cfg.Out
	fmt.Fprintln(out, "\n"+strings.Repeat("=", 50))
	fmt.Fprintf(out, "FOOD SAFETY ANALYSIS: %s\n", name)
	fmt.Fprintln(out, strings.Repeat("=", 50))
	fmt.Fprintf(out, "\nSafety: %s %s\n", symbol, strings.ToUpper(string(v.Label)))
	fmt.Fprintf(out, "Explanation: %s\n", v.Explanation)
	fmt.Fprintf(out, "\nNutrition (per %.0f g):\n", f.ServingGrams)
	fmt.Fprintf(out, "  Glycemic Index:  %.1f\n", f.GlycemicIndex)
	fmt.Fprintf(out, "  Glycemic Load:   %.1f\n", f.GlycemicLoad)
	fmt.Fprintf(out, "  Carbohydrates:   %.1f g\n", f.Carbohydrates)
	fmt.Fprintf(out, "  Fiber:           %.1f g\n", f.Fiber)
	fmt.Fprintf(out, "  Protein:         %.1f g\n", f.Protein)
	fmt.Fprintf(out, "  Fat:             %.1f g\n", f.Fat)
	fmt.Fprintf(out, "  Processing:      %s\n", f.ProcessingLevel)
}

// readLine prompts and reads one trimmed line. ok=false on EOF.
func (s *session) readLine(prompt string) (string, bool) {
	fmt.Fprint(s.cfg.Out, prompt)
	if !s.scanner.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.scanner.Text()), true
}
