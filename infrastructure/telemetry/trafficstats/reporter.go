package trafficstats

import (
	"context"
	"time"

	"powertun/application/logging"
)

// Reporter logs a traffic line every interval while traffic is flowing.
type Reporter struct {
	collector *Collector
	logger    logging.Logger
	interval  time.Duration
}

func NewReporter(collector *Collector, logger logging.Logger, interval time.Duration) *Reporter {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &Reporter{collector: collector, logger: logger, interval: interval}
}

// Run blocks until ctx is done, then logs the final totals.
func (r *Reporter) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	var last Snapshot
	for {
		select {
		case <-ctx.Done():
			r.logger.Printf("traffic totals: %s", r.collector.Snapshot().Line())
			return
		case <-ticker.C:
			s := r.collector.Snapshot()
			if s.RXFramesTotal == last.RXFramesTotal && s.TXFramesTotal == last.TXFramesTotal {
				continue
			}
			last = s
			r.logger.Debugf("traffic: %s", s.Line())
		}
	}
}
