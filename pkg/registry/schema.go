// pkg/registry/schema.go
package registry

// Command describes one invokable command. The descriptor is what
// GET /api/commands and the "commands" CLI subcommand report.
type Command struct {
	Name        string                 `json:"name"`
	DisplayName string                 `json:"displayName"`
	Description string                 `json:"description"`
	Category    string                 `json:"category"`
	Aliases     []string               `json:"aliases,omitempty"`
	InputSchema map[string]interface{} `json:"inputSchema,omitempty"`
	ResultType  string                 `json:"resultType"`
	ErrorCodes  []string               `json:"errorCodes,omitempty"`
}

// Catalog is the serialized form of a registry.
type Catalog struct {
	Version  string    `json:"version"`
	Commands []Command `json:"commands"`
}
