// Package mcp exposes the advisor over the Model Context Protocol so that
// agent frontends can resolve foods and run safety checks as tools.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/dellavent/glycemicguard/pkg/knowledge"
	"github.com/dellavent/glycemicguard/pkg/match"
	"github.com/dellavent/glycemicguard/pkg/safety"
)

// MCPServer wraps one loaded dataset and its advisor pipeline.
type MCPServer struct {
	store   *knowledge.Store
	matcher *match.Matcher
	engine  *safety.Engine
}

// Run starts the MCP server on Stdio.
func Run(ctx context.Context, store *knowledge.Store, matcher *match.Matcher, engine *safety.Engine) error {
	s := server.NewMCPServer(
		"GlycemicGuard",
		"0.1.0",
		server.WithResourceCapabilities(true, true),
		server.WithLogging(),
	)

	ms := &MCPServer{store: store, matcher: matcher, engine: engine}

	// --- Resources ---

	s.AddResource(
		mcp.NewResource(
			"glycemicguard://dataset/summary",
			"Dataset Summary",
			mcp.WithResourceDescription("Summary statistics of the loaded nutrition dataset"),
			mcp.WithMIMEType("application/json"),
		),
		ms.handleDatasetSummary,
	)

	s.AddResource(
		mcp.NewResource(
			"glycemicguard://safety/conventions",
			"Safety Conventions",
			mcp.WithResourceDescription("Threshold bands and labels used by the safety classifier"),
			mcp.WithMIMEType("text/markdown"),
		),
		ms.handleSafetyConventions,
	)

	// --- Tools ---

	s.AddTool(
		mcp.NewTool(
			"search_foods",
			mcp.WithDescription("Resolve a free-text food name to canonical names, ranked by similarity."),
			mcp.WithString("query", mcp.Required(), mcp.Description("The food name to search for")),
			mcp.WithNumber("limit", mcp.Description("Max number of results (default 5)")),
			mcp.WithNumber("offset", mcp.Description("Skip the first N results for pagination")),
		),
		ms.handleSearchFoods,
	)

	s.AddTool(
		mcp.NewTool(
			"get_nutrition_features",
			mcp.WithDescription("Get per-serving nutrition features (GI, GL, macros) for a canonical food name."),
			mcp.WithString("food", mcp.Required(), mcp.Description("The food name")),
			mcp.WithString("serving", mcp.Description("Serving size, e.g. \"100g\" or \"2 servings\" (default \"100g\")")),
		),
		ms.handleGetFeatures,
	)

	s.AddTool(
		mcp.NewTool(
			"evaluate_food_safety",
			mcp.WithDescription("Classify a food serving as safe, caution or unsafe for blood glucose."),
			mcp.WithString("food", mcp.Required(), mcp.Description("The food name")),
			mcp.WithString("serving", mcp.Description("Serving size, e.g. \"100g\" or \"2 servings\" (default \"100g\")")),
		),
		ms.handleEvaluate,
	)

	s.AddTool(
		mcp.NewTool(
			"list_foods",
			mcp.WithDescription("List canonical food names, optionally filtered by substring."),
			mcp.WithString("contains", mcp.Description("Substring filter")),
			mcp.WithNumber("limit", mcp.Description("Max number of names (default 50)")),
		),
		ms.handleListFoods,
	)

	slog.Info("Starting MCP server on Stdio")
	return server.ServeStdio(s)
}

// --- Resource Handlers ---

func (ms *MCPServer) handleDatasetSummary(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	summary := map[string]interface{}{
		"food_count":     ms.store.Len(),
		"embedding_mode": ms.matcher.UsingEmbeddings(),
		"thresholds":     ms.engine.Thresholds(),
	}

	jsonBytes, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal summary: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}

func (ms *MCPServer) handleSafetyConventions(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	t := ms.engine.Thresholds()
	content := fmt.Sprintf(`
# GlycemicGuard Safety Conventions

## 1. Labels
- 'safe': both axes within their safe band.
- 'caution': at least one axis above safe, none above caution.
- 'unsafe': at least one axis above its caution threshold.

## 2. Axes and Bands
- Glycemic Load (GL): safe <= %.1f, caution <= %.1f, unsafe above.
- Glycemic Index (GI): safe <= %.1f, caution <= %.1f, unsafe above.
- Boundaries are inclusive on the lower-severity side.

## 3. Usage Guidelines
- Resolve names with 'search_foods' first; pass the returned canonical name.
- Serving sizes accept "<number>g" and "<number> servings".
- GL scales with serving mass; GI does not.
`, t.SafeGL, t.CautionGL, t.SafeGI, t.CautionGI)

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "text/markdown",
			Text:     content,
		},
	}, nil
}

// --- Tool Handlers ---

func (ms *MCPServer) handleSearchFoods(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	query, ok := args["query"].(string)
	if !ok {
		return mcp.NewToolResultError("query argument required"), nil
	}

	limit := 5
	if l, ok := args["limit"].(float64); ok {
		limit = int(l)
	}
	offset := 0
	if o, ok := args["offset"].(float64); ok {
		offset = int(o)
	}

	if name, found := ms.matcher.ResolveExact(query); found {
		return mcp.NewToolResultText(fmt.Sprintf("exact match: %s", name)), nil
	}

	candidates, err := ms.matcher.FindCandidates(ctx, query, limit, offset)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}
	if len(candidates) == 0 {
		return mcp.NewToolResultText("No similar foods found."), nil
	}

	var lines []string
	for _, c := range candidates {
		lines = append(lines, fmt.Sprintf("%s (similarity: %.2f)", c.Name, c.Score))
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (ms *MCPServer) handleGetFeatures(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	food, ok := args["food"].(string)
	if !ok {
		return mcp.NewToolResultError("food argument required"), nil
	}
	serving, _ := args["serving"].(string)
	if serving == "" {
		serving = "100g"
	}

	features, err := ms.store.GetFeatures(food, serving)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	jsonBytes, err := json.MarshalIndent(features, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal features: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (ms *MCPServer) handleEvaluate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	food, ok := args["food"].(string)
	if !ok {
		return mcp.NewToolResultError("food argument required"), nil
	}
	serving, _ := args["serving"].(string)
	if serving == "" {
		serving = "100g"
	}

	features, verdict, err := ms.engine.EvaluateFood(food, serving)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := map[string]interface{}{
		"features": features,
		"verdict":  verdict,
	}
	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (ms *MCPServer) handleListFoods(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	contains, _ := args["contains"].(string)
	contains = strings.ToLower(contains)

	limit := 50
	if l, ok := args["limit"].(float64); ok && l > 0 {
		limit = int(l)
	}

	var names []string
	for _, name := range ms.store.ListNames() {
		if contains != "" && !strings.Contains(name, contains) {
			continue
		}
		names = append(names, name)
		if len(names) >= limit {
			break
		}
	}

	if len(names) == 0 {
		return mcp.NewToolResultText("No foods found."), nil
	}
	return mcp.NewToolResultText(strings.Join(names, "\n")), nil
}
