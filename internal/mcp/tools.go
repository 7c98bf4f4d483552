package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/meltforce/wodparse/internal/parser"
)

// --- Tool definitions ---

var toolParseWorkout = mcp.NewTool("parse_workout",
	mcp.WithDescription("Parse free-text workout (e.g. '21-15-9 Thrusters (95/65 lb), Pull-ups') into a structured workout: type (for_time, amrap, emom, intervals, rounds), time cap, rounds, movements with reps/loads/distances, issues, and a 0-100 confidence score."),
	mcp.WithString("text", mcp.Required(), mcp.Description("Workout text, one movement per line")),
	mcp.WithBoolean("save", mcp.Description("Store the parse so it shows up in get_saved_workouts. Defaults to false.")),
)

var toolValidateWorkout = mcp.NewTool("validate_workout",
	mcp.WithDescription("Check workout text and list the issues a parse would report (missing type marker, unresolved movements, ambiguous intervals, ...)."),
	mcp.WithString("text", mcp.Required(), mcp.Description("Workout text")),
)

var toolSearchMovements = mcp.NewTool("search_movements",
	mcp.WithDescription("Search the movement vocabulary by name or alias. An empty query lists every movement."),
	mcp.WithString("query", mcp.Description("Part of a movement name (e.g. 'snatch', 'kb swing')")),
)

var toolGetSavedWorkouts = mcp.NewTool("get_saved_workouts",
	mcp.WithDescription("List the most recently saved workout parses with their type and confidence."),
	mcp.WithNumber("limit", mcp.Description("Maximum number of workouts. Defaults to 50.")),
)

// --- Tool handlers ---

func (h *handlers) checkSize(text string) *mcp.CallToolResult {
	if h.maxInput > 0 && len(text) > h.maxInput {
		return mcp.NewToolResultError(fmt.Sprintf("workout text exceeds %d bytes", h.maxInput))
	}
	return nil
}

func (h *handlers) parseWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("text parameter is required"), nil
	}
	if res := h.checkSize(text); res != nil {
		return res, nil
	}

	out, err := h.ds.Parse(ctx, text, req.GetBool("save", false), saveSource)
	if err != nil {
		h.log.Error("mcp parse_workout", "error", err)
		return mcp.NewToolResultError("parse failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(out)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) validateWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("text parameter is required"), nil
	}
	if res := h.checkSize(text); res != nil {
		return res, nil
	}

	issues, err := h.ds.Validate(ctx, text)
	if err != nil {
		h.log.Error("mcp validate_workout", "error", err)
		return mcp.NewToolResultError("validation failed: " + err.Error()), nil
	}
	if issues == nil {
		issues = []parser.Issue{}
	}

	valid := true
	for _, is := range issues {
		if is.Severity == parser.SeverityError {
			valid = false
			break
		}
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"valid":  valid,
		"issues": issues,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) searchMovements(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	movements, err := h.ds.SearchMovements(ctx, req.GetString("query", ""))
	if err != nil {
		h.log.Error("mcp search_movements", "error", err)
		return mcp.NewToolResultError("search failed: " + err.Error()), nil
	}
	if movements == nil {
		movements = []parser.Movement{}
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"count":     len(movements),
		"movements": movements,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getSavedWorkouts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := req.GetInt("limit", 0)
	if limit < 0 {
		return mcp.NewToolResultError("limit must not be negative"), nil
	}

	workouts, err := h.ds.ListParsedWorkouts(ctx, limit)
	if err != nil {
		h.log.Error("mcp get_saved_workouts", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(workouts)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
