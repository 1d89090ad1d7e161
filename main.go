package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/dellavent/glycemicguard/internal/manager"
	"github.com/dellavent/glycemicguard/pkg/knowledge"
	"github.com/dellavent/glycemicguard/pkg/match"
	"github.com/dellavent/glycemicguard/pkg/mcp"
	"github.com/dellavent/glycemicguard/pkg/repl"
	"github.com/dellavent/glycemicguard/pkg/safety"
	"github.com/dellavent/glycemicguard/pkg/server"
	"github.com/dellavent/glycemicguard/pkg/service/ai"
)

func main() {
	serverMode := flag.Bool("server", false, "run REST API server over a dataset directory")
	mcpMode := flag.Bool("mcp", false, "run MCP server on stdio")
	noEmbed := flag.Bool("no-embed", false, "disable the embedding provider, use substring matching")
	thresholdsFlag := flag.String("thresholds", "", "path to a YAML thresholds override file")

	flag.Parse()

	_ = godotenv.Load()

	ctx := context.Background()

	thresholds := safety.DefaultThresholds()
	if *thresholdsFlag != "" {
		t, err := safety.LoadThresholds(*thresholdsFlag)
		if err != nil {
			log.Fatalf("Failed to load thresholds: %v", err)
		}
		thresholds = t
	}

	// Missing embedding capability is a degraded mode, never fatal: the
	// matcher falls back to substring search.
	var embedder match.Embedder
	if !*noEmbed {
		svc, err := ai.NewEmbeddingService(ctx, "")
		if err != nil {
			log.Printf("Warning: embedding provider unavailable (%v), falling back to substring matching", err)
		} else {
			defer svc.Close()
			embedder = svc
		}
	}

	args := flag.Args()

	if *serverMode {
		dataDir := "./data"
		if len(args) >= 1 {
			dataDir = args[0]
		}
		fmt.Printf("Starting REST API server. Dataset directory: %s\n", dataDir)

		mgr := manager.NewDatasetManager(dataDir, embedder, thresholds)
		datasets, err := mgr.ListDatasets()
		if err != nil {
			log.Fatalf("Failed to list datasets: %v", err)
		}
		defaultDataset := ""
		if len(datasets) == 1 {
			defaultDataset = datasets[0].ID
		}

		srv := server.NewServer(mgr, defaultDataset)
		port := os.Getenv("PORT")
		if port == "" {
			port = "8080"
		}
		if err := srv.Run(":" + port); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
		return
	}

	// === Single dataset mode (advisor / MCP) ===

	csvPath := "./nutrition_data.csv"
	if len(args) >= 1 {
		csvPath = args[0]
	}

	store, err := knowledge.Open(csvPath)
	if err != nil {
		log.Fatalf("Failed to load knowledge source: %v", err)
	}
	fmt.Printf("Loaded %d foods from %s\n", store.Len(), filepath.Base(csvPath))

	var matcher *match.Matcher
	if embedder != nil {
		fmt.Println("Pre-computing food name embeddings...")
		matcher = match.NewWithEmbedder(ctx, store.ListNames(), embedder)
		if matcher.UsingEmbeddings() {
			fmt.Println("Embeddings ready.")
		}
	} else {
		matcher = match.New(store.ListNames())
	}

	engine := safety.NewEngineWithThresholds(store, thresholds)

	if *mcpMode {
		if err := mcp.Run(ctx, store, matcher, engine); err != nil && !strings.Contains(err.Error(), "EOF") {
			log.Fatalf("MCP server failed: %v", err)
		}
		return
	}

	repl.Run(ctx, repl.DefaultConfig(), store, matcher, engine)
}
