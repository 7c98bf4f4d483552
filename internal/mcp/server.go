package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Source recorded on workouts saved through MCP.
const saveSource = "mcp"

// New creates an MCP server with all tools and resources registered.
// maxInputBytes bounds workout text; 0 disables the check.
func New(ds DataSource, version string, maxInputBytes int, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("wodparse", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithRecovery(),
		server.WithInstructions("wodparse workout parser. Turn free-text CrossFit-style workouts into structured workouts with a confidence score, check workout text for problems, look up movement names, and browse saved parses."),
	)

	h := &handlers{ds: ds, maxInput: maxInputBytes, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolParseWorkout, Handler: h.parseWorkout},
		server.ServerTool{Tool: toolValidateWorkout, Handler: h.validateWorkout},
		server.ServerTool{Tool: toolSearchMovements, Handler: h.searchMovements},
		server.ServerTool{Tool: toolGetSavedWorkouts, Handler: h.getSavedWorkouts},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resMovementCatalog, Handler: h.movementCatalog},
		server.ServerResource{Resource: resRecentWorkouts, Handler: h.recentWorkouts},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds       DataSource
	maxInput int
	log      *slog.Logger
}

// --- Resource definitions ---

var resMovementCatalog = mcp.NewResource(
	"wodparse://movement_catalog",
	"Movement Catalog",
	mcp.WithResourceDescription("Every known movement with its canonical name, display name and category"),
	mcp.WithMIMEType("application/json"),
)

var resRecentWorkouts = mcp.NewResource(
	"wodparse://recent_workouts",
	"Recent Workouts",
	mcp.WithResourceDescription("The most recently saved workout parses"),
	mcp.WithMIMEType("application/json"),
)
