// Package constants provides named constants shared by the mvca command
// line and the MCP server.
package constants

// Identity
const (
	// AppName is the binary and MCP server name.
	AppName = "mvca"
)

// Voting constants
const (
	// DefaultNumTrials is the number of votes run by an interactive
	// vote request when none is given.
	DefaultNumTrials = 1000

	// MaxNumTrials bounds interactive vote requests.
	// Batch runs read their trial count from configuration instead.
	MaxNumTrials = 1000000
)

// Generation constants
const (
	// MaxNodes bounds the size of a community generated on request.
	MaxNodes = 100000

	// MaxEdges bounds nodes times degree for a community generated on
	// request. Wiring allocates and rewires every one of these edges.
	MaxEdges = 1000000
)
