package forwarding

import "context"

// Readiness reports which of the two watched descriptors can be read.
type Readiness struct {
	Device  bool
	Network bool
}

// Poller blocks until the device or network descriptor is readable.
// Interrupted waits are reissued internally. A cancelled ctx unblocks Wait
// with ctx.Err().
type Poller interface {
	Wait(ctx context.Context) (Readiness, error)
	Close() error
}

type PollerFactory interface {
	NewPoller(deviceFd, networkFd int) (Poller, error)
}
