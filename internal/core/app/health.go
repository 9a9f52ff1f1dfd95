package app

import (
	"context"
	"fmt"
	"time"

	"semant/internal/shared/observability"
	"semant/internal/shared/util"
)

type HealthService struct {
	app *App
}

func NewHealthService(app *App) *HealthService {
	return &HealthService{app: app}
}

func (s *HealthService) Check(ctx context.Context) observability.HealthStatus {
	status := observability.HealthStatus{
		Status:     "up",
		Timestamp:  time.Now().UTC(),
		Components: make(map[string]string),
	}

	a := s.app
	a.updateMu.RLock()
	last, lastErr := a.last, a.lastErr
	a.updateMu.RUnlock()

	switch {
	case lastErr != nil:
		status.Status = "degraded"
		status.Components["last_run"] = "failed: " + lastErr.Error()
	case last == nil:
		status.Components["last_run"] = "pending"
	case last.Passed():
		status.Components["last_run"] = fmt.Sprintf("passed (%d files, %d classes)", len(last.Files), last.Classes)
	default:
		status.Components["last_run"] = fmt.Sprintf("%d errors (%d files, %d classes)", last.Errors, len(last.Files), last.Classes)
	}

	if a.history != nil {
		status.Components["history"] = fmt.Sprintf("ok (%d queued)", a.historyQueue.Len())
	} else {
		status.Components["history"] = "disabled"
	}

	a.cfgMu.RLock()
	watching := a.activeWatcher != nil
	a.cfgMu.RUnlock()
	if watching {
		status.Components["watcher"] = "active"
	} else {
		status.Components["watcher"] = "inactive"
	}

	status.Components["heap"] = fmt.Sprintf("%d MB", util.GetHeapAllocMB())
	return status
}
