package worker

// expiry_cron.go
// Background goroutine that periodically sweeps verified documents whose
// expiry date has passed and marks them expired, each with its audit log row.

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

const expiryBatchSize = 50

// DocumentExpirer is the slice of the document service the cron needs.
type DocumentExpirer interface {
	ExpireOverdue(ctx context.Context, now time.Time, limit int) (int, error)
}

// StartExpiryCron launches a background goroutine that ticks on the given
// interval and expires overdue documents. It respects the context for
// graceful shutdown.
func StartExpiryCron(ctx context.Context, docs DocumentExpirer, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		log.Info().Dur("interval", interval).Msg("expiry_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("expiry_cron: shutting down")
				return
			case <-ticker.C:
				n, err := docs.ExpireOverdue(ctx, time.Now(), expiryBatchSize)
				if err != nil {
					log.Error().Err(err).Msg("expiry_cron: sweep failed")
					continue
				}
				if n > 0 {
					log.Info().Int("count", n).Msg("expiry_cron: documents expired")
				}
			}
		}
	}()
}
