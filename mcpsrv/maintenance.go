package mcpsrv

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type cacheClearSource interface {
	ClearCache()
}

// RunCacheClearer clears the source's cache every interval until ctx is
// done. It returns immediately when interval is not positive or the source
// has no cache.
func RunCacheClearer(ctx context.Context, source any, interval time.Duration, log *zap.Logger) {
	clearable, ok := source.(cacheClearSource)
	if !ok || interval <= 0 {
		return
	}
	if log == nil {
		log = zap.NewNop()
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			clearable.ClearCache()
			log.Debug("cache cleared", zap.Duration("interval", interval))
		case <-ctx.Done():
			return
		}
	}
}
