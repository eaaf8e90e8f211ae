// cmd/worker-manager/settings.go
package main

import (
	"roommate-finder/internal/common/config"
	"roommate-finder/pkg/registry"
)

// workerSettings resolves a worker's settings. Values in the config file win;
// the activity registry supplies the timeout and retries otherwise.
func workerSettings(cfg *config.Config, reg *registry.ActivityRegistry, taskType string) config.WorkerConfig {
	wcfg := config.GetWorkerConfig(cfg, taskType)
	if _, configured := cfg.Workers[taskType]; configured {
		return wcfg
	}
	if cfg.Camunda.MaxJobsActive > 0 {
		wcfg.MaxJobsActive = cfg.Camunda.MaxJobsActive
	}

	activity, err := reg.Get(taskType)
	if err != nil {
		return wcfg
	}
	if d, err := activity.TimeoutDuration(); err == nil && d > 0 {
		wcfg.Timeout = int(d.Milliseconds())
	}
	wcfg.MaxRetries = activity.Retries
	return wcfg
}
