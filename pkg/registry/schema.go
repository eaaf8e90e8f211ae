// pkg/registry/schema.go
package registry

// ActivityRegistry is the document embedded from activities.json.
type ActivityRegistry struct {
	Version     string     `json:"version"`
	LastUpdated string     `json:"lastUpdated"`
	Activities  []Activity `json:"activities"`
}

// Activity describes one job type the worker manager can serve. Timeout is a Go
// duration string; InputSchema and OutputSchema are JSON Schema documents.
type Activity struct {
	ID           string                 `json:"id"`
	TaskType     string                 `json:"taskType"`
	DisplayName  string                 `json:"displayName"`
	Description  string                 `json:"description"`
	Category     string                 `json:"category"`
	Version      string                 `json:"version"`
	Timeout      string                 `json:"timeout"`
	Retries      int                    `json:"retries"`
	ErrorCodes   []string               `json:"errorCodes"`
	InputSchema  map[string]interface{} `json:"inputSchema"`
	OutputSchema map[string]interface{} `json:"outputSchema"`
	Workflows    []string               `json:"workflows,omitempty"`
	Tags         []string               `json:"tags,omitempty"`
}
