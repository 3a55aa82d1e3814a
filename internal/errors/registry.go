package errors

// Template defines a registered error type.
type Template struct {
	Category Category
	Message  string
	Detail   string
}

// Engine error codes.
const (
	CodeNodeReused       = "E001"
	CodeDuplicateKey     = "E002"
	CodeInvalidChild     = "E003"
	CodeNilRender        = "E004"
	CodeDetachedNode     = "E005"
	CodeInvalidComponent = "E006"
)

// Protocol error codes.
const (
	CodeDecode        = "E010"
	CodeFrameTooLarge = "E011"
	CodeUnknownOp     = "E012"
)

// Config and CLI error codes.
const (
	CodeConfigNotFound = "E020"
	CodeConfigInvalid  = "E021"
	CodeConfigParse    = "E022"
	CodeTreeFile       = "E030"
)

// Live session error codes.
const (
	CodeSessionNotFound = "E040"
	CodeSessionConflict = "E041"
	CodeMessageType     = "E042"
	CodeSessionPanic    = "E043"
)

// registry maps error codes to their templates.
var registry = map[string]Template{
	// ============================================
	// Engine Errors (E001-E009)
	// ============================================

	CodeNodeReused: {
		Category: CategoryEngine,
		Message:  "VNode already rendered",
		Detail:   "A node that already owns a target instance was handed to render or sync as a new node. Clone it first, or pass the same node on both sides.",
	},
	CodeDuplicateKey: {
		Category: CategoryEngine,
		Message:  "Duplicate sibling key",
		Detail:   "Two children of the same parent carry the same explicit key.",
	},
	CodeInvalidChild: {
		Category: CategoryEngine,
		Message:  "Invalid child",
		Detail:   "A builder received an argument it cannot turn into a child, attribute or handler.",
	},
	CodeNilRender: {
		Category: CategoryEngine,
		Message:  "Component rendered nil",
		Detail:   "Every component must return a node from Render. Return an empty text node to render nothing.",
	},
	CodeDetachedNode: {
		Category: CategoryEngine,
		Message:  "Node has no target instance",
		Detail:   "The old tree passed to sync, remove or dirty check was never rendered.",
	},
	CodeInvalidComponent: {
		Category: CategoryEngine,
		Message:  "Invalid component descriptor",
		Detail:   "A component node was built from a nil descriptor or a descriptor missing its render function.",
	},

	// ============================================
	// Protocol Errors (E010-E019)
	// ============================================

	CodeDecode: {
		Category: CategoryProtocol,
		Message:  "Malformed patch stream",
		Detail:   "The patch frame could not be decoded.",
	},
	CodeFrameTooLarge: {
		Category: CategoryProtocol,
		Message:  "Frame too large",
		Detail:   "The frame payload exceeds the configured limit.",
	},
	CodeUnknownOp: {
		Category: CategoryProtocol,
		Message:  "Unknown patch op",
		Detail:   "The patch stream contains an op code this decoder does not know.",
	},

	// ============================================
	// Config Errors (E020-E029)
	// ============================================

	CodeConfigNotFound: {
		Category: CategoryConfig,
		Message:  "Config file not found",
		Detail:   "No vtree.json or vtree.yaml was found in the directory.",
	},
	CodeConfigInvalid: {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
		Detail:   "A configuration value is out of range.",
	},
	CodeConfigParse: {
		Category: CategoryConfig,
		Message:  "Config parse error",
		Detail:   "The config file is not valid JSON or YAML.",
	},

	// ============================================
	// CLI Errors (E030-E039)
	// ============================================

	CodeTreeFile: {
		Category: CategoryCLI,
		Message:  "Invalid tree file",
		Detail:   "The tree description could not be read or decoded.",
	},

	// ============================================
	// Session Errors (E040-E049)
	// ============================================

	CodeSessionNotFound: {
		Category: CategorySession,
		Message:  "Session not found",
		Detail:   "The session expired or was never created. Reload the page.",
	},
	CodeSessionConflict: {
		Category: CategorySession,
		Message:  "Session already connected",
		Detail:   "Another connection is already attached to this session.",
	},
	CodeMessageType: {
		Category: CategorySession,
		Message:  "Unexpected message type",
		Detail:   "Live sessions only accept binary WebSocket messages.",
	},
	CodeSessionPanic: {
		Category: CategorySession,
		Message:  "Session update panicked",
		Detail:   "A component or state update panicked. The session was closed; reload the page.",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (Template, bool) {
	t, ok := registry[code]
	return t, ok
}
