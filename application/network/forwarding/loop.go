package forwarding

import (
	"context"
	"errors"
	"io"

	"powertun/application/logging"
	"powertun/application/network/connection"
	"powertun/application/network/tun"
	framelimit "powertun/domain/network/ip/frame_limit"
	"powertun/domain/session"
)

// Loop moves frames between one device and one transport on a single
// goroutine. Each readiness notification moves at most one frame per
// direction; device->network runs first when both sides are ready.
type Loop struct {
	device    tun.Device
	transport connection.Transport
	poller    Poller
	state     *StateMachine
	logger    logging.Logger
	recorder  TrafficRecorder
	inspector FrameInspector
}

func NewLoop(
	device tun.Device,
	transport connection.Transport,
	poller Poller,
	state *StateMachine,
	logger logging.Logger,
	opts ...Option,
) *Loop {
	l := &Loop{
		device:    device,
		transport: transport,
		poller:    poller,
		state:     state,
		logger:    logger,
		recorder:  noopRecorder{},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run forwards until the peer closes the stream, ctx is cancelled, or an I/O
// error occurs. The first two end in Closed and return nil; the last ends in
// Failed and returns a *session.IOError.
func (l *Loop) Run(ctx context.Context) error {
	if err := l.state.Transition(Forwarding); err != nil {
		return err
	}

	// One spare byte tells an oversized device frame from a full-size one.
	deviceBuffer := make([]byte, framelimit.MaxFrameSize+1)
	networkBuffer := make([]byte, framelimit.MaxFrameSize)

	for {
		ready, err := l.poller.Wait(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return l.close("shutdown requested")
			}
			return l.fail(session.NewIOError(session.ReadyWait, err))
		}

		if ready.Device {
			if err := l.deviceToNetwork(deviceBuffer); err != nil {
				return l.fail(err)
			}
		}

		if ready.Network {
			peerClosed, err := l.networkToDevice(networkBuffer)
			if err != nil {
				return l.fail(err)
			}
			if peerClosed {
				return l.close("peer closed the connection")
			}
		}
	}
}

func (l *Loop) deviceToNetwork(buffer []byte) error {
	n, err := l.device.Read(buffer)
	if err != nil {
		return session.NewIOError(session.DeviceRead, err)
	}
	if n > framelimit.MaxFrameSize {
		l.logger.Printf("dropped device frame larger than %d bytes", framelimit.MaxFrameSize)
		return nil
	}

	frame := buffer[:n]
	if _, err := l.transport.Write(frame); err != nil {
		if errors.Is(err, connection.ErrFrameDropped) {
			l.logger.Debugf("device frame of %d bytes not sent: %s", n, err)
			return nil
		}
		return session.NewIOError(session.NetworkWrite, err)
	}
	l.recorder.RecordTX(n)
	if l.inspector != nil {
		l.logger.Debugf("device -> network: %s", l.inspector.Describe(frame))
	}
	return nil
}

func (l *Loop) networkToDevice(buffer []byte) (bool, error) {
	n, err := l.transport.Read(buffer)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return true, nil
		}
		if errors.Is(err, connection.ErrFrameDropped) {
			l.logger.Debugf("network frame dropped: %s", err)
			return false, nil
		}
		return false, session.NewIOError(session.NetworkRead, err)
	}
	if n == 0 {
		l.logger.Debugf("empty envelope received, nothing to write to %s", l.device.Name())
		return false, nil
	}

	frame := buffer[:n]
	if _, err := l.device.Write(frame); err != nil {
		return false, session.NewIOError(session.DeviceWrite, err)
	}
	l.recorder.RecordRX(n)
	if l.inspector != nil {
		l.logger.Debugf("network -> device: %s", l.inspector.Describe(frame))
	}
	return false, nil
}

func (l *Loop) close(reason string) error {
	if err := l.state.Transition(Closed); err != nil {
		return err
	}
	l.logger.Printf("session closed: %s", reason)
	return nil
}

func (l *Loop) fail(err error) error {
	if transitionErr := l.state.Transition(Failed); transitionErr != nil {
		return errors.Join(err, transitionErr)
	}
	return err
}
