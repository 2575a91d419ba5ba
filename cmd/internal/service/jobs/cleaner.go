package jobs

import (
	"careerhub/cmd/internal/service"
	"context"
	"github.com/labstack/gommon/log"
	"time"
)

const cleanupInterval = 5 * time.Minute

type ConnectionCleaner struct {
	wsService *service.WebSocketService
	interval  time.Duration
}

func NewConnectionCleaner(wsService *service.WebSocketService) *ConnectionCleaner {
	return &ConnectionCleaner{
		wsService: wsService,
		interval:  cleanupInterval,
	}
}

func (c *ConnectionCleaner) Start(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	log.Info("Connection cleaner cron started")

	for {
		select {
		case <-ctx.Done():
			log.Info("Stopping connection cleaner...")
			return
		case <-ticker.C:
			c.cleanup(ctx)
		}
	}
}

func (c *ConnectionCleaner) cleanup(ctx context.Context) {
	// Network calls get their own deadline, detached from the ticker's timing
	runCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	if dropped := c.wsService.CleanupStale(runCtx); dropped > 0 {
		log.Infof("Cleaner: terminated %d stale connections", dropped)
	}
}
