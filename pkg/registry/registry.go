// pkg/registry/registry.go
package registry

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"
)

//go:embed activities.json
var embeddedActivities []byte

var ErrUnknownActivity = errors.New("UNKNOWN_ACTIVITY")

var (
	defaultOnce sync.Once
	defaultReg  *ActivityRegistry
	defaultErr  error
)

// Default returns the registry compiled into the binary.
func Default() (*ActivityRegistry, error) {
	defaultOnce.Do(func() {
		defaultReg, defaultErr = Parse(embeddedActivities)
	})
	return defaultReg, defaultErr
}

func LoadRegistry(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*ActivityRegistry, error) {
	var reg ActivityRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse activity registry: %w", err)
	}
	for i, a := range reg.Activities {
		if a.TaskType == "" {
			return nil, fmt.Errorf("activity %d (%s) has no task type", i, a.ID)
		}
		if _, err := a.TimeoutDuration(); err != nil {
			return nil, fmt.Errorf("activity %s: %w", a.TaskType, err)
		}
	}
	return &reg, nil
}

func (r *ActivityRegistry) Get(taskType string) (*Activity, error) {
	for i := range r.Activities {
		if r.Activities[i].TaskType == taskType {
			return &r.Activities[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownActivity, taskType)
}

func (r *ActivityRegistry) TaskTypes() []string {
	out := make([]string, 0, len(r.Activities))
	for _, a := range r.Activities {
		out = append(out, a.TaskType)
	}
	sort.Strings(out)
	return out
}

// SchemaRegistrar receives compiled schemas, keyed by name.
type SchemaRegistrar interface {
	Register(name string, schema interface{}) error
}

// RegisterSchemas hands every input schema to dst under the task type, and every
// output schema under "<taskType>.output".
func (r *ActivityRegistry) RegisterSchemas(dst SchemaRegistrar) error {
	for _, a := range r.Activities {
		if a.InputSchema != nil {
			if err := dst.Register(a.TaskType, a.InputSchema); err != nil {
				return err
			}
		}
		if a.OutputSchema != nil {
			if err := dst.Register(OutputSchemaName(a.TaskType), a.OutputSchema); err != nil {
				return err
			}
		}
	}
	return nil
}

func OutputSchemaName(taskType string) string {
	return taskType + ".output"
}

// TimeoutDuration parses Timeout; an empty value means no timeout.
func (a Activity) TimeoutDuration() (time.Duration, error) {
	if a.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(a.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", a.Timeout, err)
	}
	return d, nil
}
