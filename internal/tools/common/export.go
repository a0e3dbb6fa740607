package common

import (
	"context"
	"time"

	"github.com/gvault/gvault/internal/instrumentation"
	"github.com/gvault/gvault/internal/server"
)

// RecordVaultExport records one vault export on the server's metrics,
// if metrics are configured. start is when the export began; err is
// the export outcome.
func RecordVaultExport(ctx context.Context, sc *server.ServerContext, entity string, err error, start time.Time) {
	metrics := sc.Metrics()
	if metrics == nil {
		return
	}

	status := instrumentation.StatusSuccess
	if err != nil {
		status = instrumentation.StatusError
	}
	metrics.RecordVaultExport(ctx, entity, status, time.Since(start))
}
