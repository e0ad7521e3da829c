package session

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"powertun/application/network/forwarding"
	"powertun/domain/session"
	"powertun/infrastructure/network/ip"
	"powertun/infrastructure/telemetry/trafficstats"
)

const (
	statsSampleInterval = time.Second
	statsEMAAlpha       = 0.3
	statsReportInterval = 10 * time.Second
)

// Runner drives one tunnel session: allocate the device, establish the
// transport, then forward until the session ends.
type Runner struct {
	deps  AppDependencies
	state *forwarding.StateMachine
}

func NewRunner(deps AppDependencies) *Runner {
	return &Runner{
		deps:  deps,
		state: forwarding.NewStateMachine(deps.Logger()),
	}
}

// State reports the session lifecycle state.
func (r *Runner) State() forwarding.State {
	return r.state.Current()
}

// Run returns nil when the session ends cleanly (peer closed the stream or
// ctx was cancelled while forwarding).
func (r *Runner) Run(ctx context.Context) error {
	logger := r.deps.Logger()
	configuration := r.deps.Configuration()

	if err := r.state.Transition(forwarding.Establishing); err != nil {
		return err
	}

	device, err := r.deps.DeviceManager().Allocate(configuration.DeviceKind, configuration.InterfaceName)
	if err != nil {
		return r.fail(err)
	}
	defer func() {
		if closeErr := device.Close(); closeErr != nil {
			logger.Printf("failed to close device %s: %s", device.Name(), closeErr)
		}
	}()
	logger.Printf("%s device %s allocated", configuration.DeviceKind, device.Name())

	transport, err := r.deps.ConnectionFactory().EstablishConnection(ctx)
	if err != nil {
		return r.fail(err)
	}
	defer func() {
		if closeErr := transport.Close(); closeErr != nil {
			logger.Debugf("failed to close transport: %s", closeErr)
		}
	}()
	logger.Printf("%s transport established as %s", transport.Protocol(), configuration.Role)

	poller, err := r.deps.PollerFactory().NewPoller(device.Fd(), transport.Fd())
	if err != nil {
		return r.fail(session.NewIOError(session.ReadyWait, err))
	}
	defer func() {
		_ = poller.Close()
	}()

	var opts []forwarding.Option
	var collector *trafficstats.Collector
	if configuration.Verbose {
		collector = trafficstats.NewCollector(statsSampleInterval, statsEMAAlpha)
		opts = append(opts,
			forwarding.WithFrameInspector(ip.NewInspector(configuration.DeviceKind)),
			forwarding.WithTrafficRecorder(collector),
		)
	}

	loop := forwarding.NewLoop(device, transport, poller, r.state, logger, opts...)
	if collector == nil {
		return loop.Run(ctx)
	}
	return r.forwardWithStats(ctx, loop, collector)
}

// forwardWithStats runs the loop next to the rate sampler and the periodic
// reporter; both stop when the loop returns.
func (r *Runner) forwardWithStats(ctx context.Context, loop *forwarding.Loop, collector *trafficstats.Collector) error {
	reporter := trafficstats.NewReporter(collector, r.deps.Logger(), statsReportInterval)

	statsCtx, stopStats := context.WithCancel(ctx)
	defer stopStats()

	var g errgroup.Group
	g.Go(func() error {
		defer stopStats()
		return loop.Run(ctx)
	})
	g.Go(func() error {
		collector.Start(statsCtx)
		return nil
	})
	g.Go(func() error {
		reporter.Run(statsCtx)
		return nil
	})
	return g.Wait()
}

func (r *Runner) fail(err error) error {
	if transitionErr := r.state.Transition(forwarding.Failed); transitionErr != nil {
		return errors.Join(err, transitionErr)
	}
	return err
}

// ExitCode maps a Run result to the process exit status.
func ExitCode(err error) int {
	if err == nil || errors.Is(err, context.Canceled) {
		return 0
	}
	return 1
}
