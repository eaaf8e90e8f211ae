// internal/cli/registry.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"roommate-finder/internal/common/validation"
	"roommate-finder/pkg/registry"
)

type activitySummary struct {
	TaskType  string   `json:"taskType" yaml:"taskType"`
	Name      string   `json:"name" yaml:"name"`
	Category  string   `json:"category" yaml:"category"`
	Timeout   string   `json:"timeout" yaml:"timeout"`
	Retries   int      `json:"retries" yaml:"retries"`
	Errors    []string `json:"errorCodes,omitempty" yaml:"errorCodes,omitempty"`
	Workflows []string `json:"workflows,omitempty" yaml:"workflows,omitempty"`
}

type registryReport struct {
	Version    string `json:"version" yaml:"version"`
	Activities int    `json:"activities" yaml:"activities"`
	Schemas    int    `json:"schemas" yaml:"schemas"`
	Valid      bool   `json:"valid" yaml:"valid"`
}

func newRegistryCommand(opts *options) *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Inspect the worker activity registry",
	}
	cmd.PersistentFlags().StringVar(&path, "path", "", "registry file (default: the registry built into the binary)")

	list := &cobra.Command{
		Use:   "list",
		Short: "List registered activities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := loadActivities(path)
			if err != nil {
				return err
			}
			out := make([]activitySummary, 0, len(reg.Activities))
			for _, taskType := range reg.TaskTypes() {
				a, _ := reg.Get(taskType)
				out = append(out, activitySummary{
					TaskType:  a.TaskType,
					Name:      a.DisplayName,
					Category:  a.Category,
					Timeout:   a.Timeout,
					Retries:   a.Retries,
					Errors:    a.ErrorCodes,
					Workflows: a.Workflows,
				})
			}
			return opts.render(cmd.OutOrStdout(), out)
		},
	}

	validate := &cobra.Command{
		Use:   "validate",
		Short: "Check that every activity parses and its schemas compile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := loadActivities(path)
			if err != nil {
				return err
			}

			seen := make(map[string]bool, len(reg.Activities))
			for _, a := range reg.Activities {
				if seen[a.TaskType] {
					return fmt.Errorf("duplicate task type %q", a.TaskType)
				}
				seen[a.TaskType] = true
				if a.Retries < 0 {
					return fmt.Errorf("activity %s: retries must not be negative", a.TaskType)
				}
			}

			counter := &countingRegistrar{v: validation.NewValidator()}
			if err := reg.RegisterSchemas(counter); err != nil {
				return fmt.Errorf("compile schemas: %w", err)
			}

			opts.logger.Debug("registry valid", map[string]interface{}{
				"activities": len(reg.Activities),
				"schemas":    counter.n,
			})
			return opts.render(cmd.OutOrStdout(), registryReport{
				Version:    reg.Version,
				Activities: len(reg.Activities),
				Schemas:    counter.n,
				Valid:      true,
			})
		},
	}

	cmd.AddCommand(list, validate)
	return cmd
}

func loadActivities(path string) (*registry.ActivityRegistry, error) {
	if path == "" {
		return registry.Default()
	}
	return registry.LoadRegistry(path)
}

type countingRegistrar struct {
	v *validation.Validator
	n int
}

func (c *countingRegistrar) Register(name string, schema interface{}) error {
	if err := c.v.Register(name, schema); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	c.n++
	return nil
}
