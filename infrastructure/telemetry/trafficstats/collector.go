package trafficstats

import (
	"context"
	"sync/atomic"
	"time"
)

type Snapshot struct {
	RXBytesTotal  uint64
	TXBytesTotal  uint64
	RXFramesTotal uint64
	TXFramesTotal uint64
	RXRate        uint64 // bytes/sec
	TXRate        uint64 // bytes/sec
}

// Collector counts tunnel traffic. TX is device -> peer, RX is peer -> device.
// Record methods are safe to call from the forwarding goroutine while
// another goroutine samples rates and reads snapshots.
type Collector struct {
	rxBytesTotal  atomic.Uint64
	txBytesTotal  atomic.Uint64
	rxFramesTotal atomic.Uint64
	txFramesTotal atomic.Uint64
	rxRate        atomic.Uint64
	txRate        atomic.Uint64

	sampleInterval time.Duration
	emaAlpha       float64

	// accessed only from the single sampler goroutine in Start()
	lastRX  uint64
	lastTX  uint64
	rxEMA   float64
	txEMA   float64
	started atomic.Bool
}

func NewCollector(sampleInterval time.Duration, emaAlpha float64) *Collector {
	if sampleInterval <= 0 {
		sampleInterval = time.Second
	}
	emaAlpha = min(max(emaAlpha, 0), 1)
	return &Collector{
		sampleInterval: sampleInterval,
		emaAlpha:       emaAlpha,
	}
}

// Start samples rates until ctx is done. Only the first call does anything.
func (c *Collector) Start(ctx context.Context) {
	if !c.started.CompareAndSwap(false, true) {
		return
	}

	ticker := time.NewTicker(c.sampleInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.updateRates(c.sampleInterval)
		}
	}
}

func (c *Collector) RecordRX(bytes int) {
	if bytes < 0 {
		return
	}
	c.rxBytesTotal.Add(uint64(bytes))
	c.rxFramesTotal.Add(1)
}

func (c *Collector) RecordTX(bytes int) {
	if bytes < 0 {
		return
	}
	c.txBytesTotal.Add(uint64(bytes))
	c.txFramesTotal.Add(1)
}

func (c *Collector) Snapshot() Snapshot {
	return Snapshot{
		RXBytesTotal:  c.rxBytesTotal.Load(),
		TXBytesTotal:  c.txBytesTotal.Load(),
		RXFramesTotal: c.rxFramesTotal.Load(),
		TXFramesTotal: c.txFramesTotal.Load(),
		RXRate:        c.rxRate.Load(),
		TXRate:        c.txRate.Load(),
	}
}

func (c *Collector) updateRates(interval time.Duration) {
	seconds := interval.Seconds()
	if seconds <= 0 {
		return
	}

	rxNow := c.rxBytesTotal.Load()
	txNow := c.txBytesTotal.Load()

	rxPerSec := float64(rxNow-c.lastRX) / seconds
	txPerSec := float64(txNow-c.lastTX) / seconds
	c.lastRX = rxNow
	c.lastTX = txNow

	if c.emaAlpha > 0 {
		c.rxEMA = ema(c.rxEMA, rxPerSec, c.emaAlpha)
		c.txEMA = ema(c.txEMA, txPerSec, c.emaAlpha)
		rxPerSec = c.rxEMA
		txPerSec = c.txEMA
	}

	c.rxRate.Store(uint64(rxPerSec))
	c.txRate.Store(uint64(txPerSec))
}

func ema(previous, sample, alpha float64) float64 {
	if previous == 0 {
		return sample
	}
	return alpha*sample + (1-alpha)*previous
}
