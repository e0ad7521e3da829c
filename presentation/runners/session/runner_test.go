package session

import (
	"bytes"
	"context"
	"errors"
	"net"
	"os"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/unix"

	"powertun/application/logging"
	"powertun/application/network/connection"
	"powertun/application/network/forwarding"
	"powertun/application/network/tun"
	"powertun/domain/mode"
	"powertun/domain/session"
	"powertun/infrastructure/PAL/linux/epoll"
	tundevice "powertun/infrastructure/PAL/linux/tun/epoll"
	"powertun/infrastructure/network/tcp"
	"powertun/infrastructure/network/udp"
)

type nopLogger struct{}

func (nopLogger) Printf(string, ...any) {}
func (nopLogger) Debugf(string, ...any) {}

type testDeps struct {
	configuration session.Config
	deviceManager tun.Manager
	factory       connection.Factory
}

func (d *testDeps) Configuration() session.Config           { return d.configuration }
func (d *testDeps) Logger() logging.Logger                  { return nopLogger{} }
func (d *testDeps) DeviceManager() tun.Manager              { return d.deviceManager }
func (d *testDeps) ConnectionFactory() connection.Factory   { return d.factory }
func (d *testDeps) PollerFactory() forwarding.PollerFactory { return epoll.NewPollerFactory() }

// fakeDeviceManager hands out one end of a SOCK_SEQPACKET pair as the TUN
// device; the test drives the other end like the kernel would.
type fakeDeviceManager struct {
	device tun.Device
	peer   *os.File
	err    error
}

func newFakeDeviceManager(t *testing.T, name string) *fakeDeviceManager {
	t.Helper()
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_SEQPACKET|unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		t.Fatalf("socketpair: %v", err)
	}
	device, err := tundevice.NewDevice(os.NewFile(uintptr(fds[0]), name), name)
	if err != nil {
		t.Fatalf("NewDevice: %v", err)
	}
	peer := os.NewFile(uintptr(fds[1]), name+"-peer")
	t.Cleanup(func() {
		_ = device.Close()
		_ = peer.Close()
	})
	return &fakeDeviceManager{device: device, peer: peer}
}

func (m *fakeDeviceManager) Allocate(session.DeviceKind, string) (tun.Device, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.device, nil
}

func (m *fakeDeviceManager) inject(t *testing.T, frame []byte) {
	t.Helper()
	if _, err := m.peer.Write(frame); err != nil {
		t.Fatalf("device inject: %v", err)
	}
}

func (m *fakeDeviceManager) expect(t *testing.T, want []byte) {
	t.Helper()
	_ = m.peer.SetReadDeadline(time.Now().Add(5 * time.Second))
	buf := make([]byte, 4096)
	n, err := m.peer.Read(buf)
	if err != nil {
		t.Fatalf("device read: %v", err)
	}
	if !bytes.Equal(buf[:n], want) {
		t.Fatalf("device received %d bytes, want %d byte-exact", n, len(want))
	}
}

func serverConfiguration(protocol session.Protocol) session.Config {
	c := session.DefaultConfig()
	c.InterfaceName = "tun0"
	c.Protocol = protocol
	c.ListenAddress = "127.0.0.1"
	c.Port = 0
	return c
}

func clientConfiguration(protocol session.Protocol, port int) session.Config {
	c := session.DefaultConfig()
	c.InterfaceName = "tun1"
	c.Role = mode.Client
	c.Protocol = protocol
	c.PeerAddress = "127.0.0.1"
	c.Port = port
	return c
}

type tunnel struct {
	server, client             *Runner
	serverDevice, clientDevice *fakeDeviceManager
	cancelClient               context.CancelFunc
	group                      *errgroup.Group
}

// startTunnel runs a server and a client session against each other over
// loopback and returns once both are started.
func startTunnel(t *testing.T, ctx context.Context, protocol session.Protocol) *tunnel {
	t.Helper()
	ports := make(chan int, 1)
	hook := func(a net.Addr) {
		switch addr := a.(type) {
		case *net.TCPAddr:
			ports <- addr.Port
		case *net.UDPAddr:
			ports <- addr.Port
		}
	}

	serverConfig := serverConfiguration(protocol)
	var serverFactory connection.Factory
	if protocol == session.TCP {
		serverFactory = tcp.NewServerConnectionFactory(serverConfig, nopLogger{}, tcp.WithListenHook(hook))
	} else {
		serverFactory = udp.NewServerConnectionFactory(serverConfig, nopLogger{}, udp.WithListenHook(hook))
	}

	tn := &tunnel{
		serverDevice: newFakeDeviceManager(t, "tun0"),
		clientDevice: newFakeDeviceManager(t, "tun1"),
		group:        &errgroup.Group{},
	}
	tn.server = NewRunner(&testDeps{configuration: serverConfig, deviceManager: tn.serverDevice, factory: serverFactory})
	tn.group.Go(func() error { return tn.server.Run(ctx) })

	var port int
	select {
	case port = <-ports:
	case <-time.After(5 * time.Second):
		t.Fatal("server did not start listening")
	}

	clientConfig := clientConfiguration(protocol, port)
	clientFactory, err := NewConnectionFactory(clientConfig, nopLogger{})
	if err != nil {
		t.Fatalf("client factory: %v", err)
	}
	clientCtx, cancelClient := context.WithCancel(ctx)
	tn.cancelClient = cancelClient
	tn.client = NewRunner(&testDeps{configuration: clientConfig, deviceManager: tn.clientDevice, factory: clientFactory})
	tn.group.Go(func() error { return tn.client.Run(clientCtx) })
	return tn
}

func (tn *tunnel) wait(t *testing.T) error {
	t.Helper()
	done := make(chan error, 1)
	go func() { done <- tn.group.Wait() }()
	select {
	case err := <-done:
		return err
	case <-time.After(10 * time.Second):
		t.Fatal("sessions did not stop")
		return nil
	}
}

func TestScenarioA_TCPBlockReachesServerDevice(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	tn := startTunnel(t, ctx, session.TCP)

	block := bytes.Repeat([]byte{0x45}, 100)
	tn.clientDevice.inject(t, block)
	tn.serverDevice.expect(t, block)

	cancel()
	err := tn.wait(t)
	if code := ExitCode(err); code != 0 {
		t.Fatalf("cancelled sessions must exit 0, got %d (%v)", code, err)
	}
	if tn.server.State() != forwarding.Closed || tn.client.State() != forwarding.Closed {
		t.Fatalf("expected both sessions Closed, got server=%s client=%s", tn.server.State(), tn.client.State())
	}
}

func TestScenarioB_UDPServerLearnsPeer(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	tn := startTunnel(t, ctx, session.UDP)

	request := bytes.Repeat([]byte{0x60}, 64)
	tn.clientDevice.inject(t, request)
	tn.serverDevice.expect(t, request)

	reply := bytes.Repeat([]byte{0x61}, 64)
	tn.serverDevice.inject(t, reply)
	tn.clientDevice.expect(t, reply)

	cancel()
	if err := tn.wait(t); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestScenarioC_MaxFrameBothDirections(t *testing.T) {
	for _, protocol := range []session.Protocol{session.TCP, session.UDP} {
		t.Run(protocol.String(), func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			tn := startTunnel(t, ctx, protocol)

			up := make([]byte, 2000)
			down := make([]byte, 2000)
			for i := range up {
				up[i] = byte(i)
				down[i] = byte(255 - i%256)
			}

			tn.clientDevice.inject(t, up)
			tn.serverDevice.expect(t, up)
			tn.serverDevice.inject(t, down)
			tn.clientDevice.expect(t, down)

			cancel()
			if err := tn.wait(t); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestScenarioD_ClientCloseEndsServerCleanly(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	tn := startTunnel(t, ctx, session.TCP)

	// one exchange proves both loops are forwarding
	tn.clientDevice.inject(t, []byte{0x45, 0x00})
	tn.serverDevice.expect(t, []byte{0x45, 0x00})

	tn.cancelClient()
	err := tn.wait(t)
	if err != nil {
		t.Fatalf("expected clean shutdown, got %v", err)
	}
	if got := tn.server.State(); got != forwarding.Closed {
		t.Fatalf("server state = %s, want CLOSED", got)
	}
	if got := tn.client.State(); got != forwarding.Closed {
		t.Fatalf("client state = %s, want CLOSED", got)
	}
	if ExitCode(err) != 0 {
		t.Fatal("peer close must exit 0")
	}
}

type failingFactory struct{ err error }

func (f failingFactory) EstablishConnection(context.Context) (connection.Transport, error) {
	return nil, f.err
}

func TestRunner_DeviceFailure(t *testing.T) {
	devices := newFakeDeviceManager(t, "tun0")
	devices.err = session.NewDeviceError("open", "tun0", errors.New("no such device"))
	r := NewRunner(&testDeps{configuration: serverConfiguration(session.TCP), deviceManager: devices})

	err := r.Run(context.Background())
	var deviceErr *session.DeviceError
	if !errors.As(err, &deviceErr) {
		t.Fatalf("expected DeviceError, got %v", err)
	}
	if r.State() != forwarding.Failed || ExitCode(err) != 1 {
		t.Fatalf("state=%s exit=%d", r.State(), ExitCode(err))
	}
}

func TestRunner_TransportFailure(t *testing.T) {
	trErr := session.NewTransportError("connect", "127.0.0.1:1", errors.New("connection refused"))
	r := NewRunner(&testDeps{
		configuration: clientConfiguration(session.TCP, 1),
		deviceManager: newFakeDeviceManager(t, "tun1"),
		factory:       failingFactory{err: trErr},
	})

	err := r.Run(context.Background())
	if !errors.Is(err, trErr) || r.State() != forwarding.Failed || ExitCode(err) != 1 {
		t.Fatalf("err=%v state=%s", err, r.State())
	}
}

func TestRunner_CancelWhileEstablishing(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	config := serverConfiguration(session.TCP)
	factory := tcp.NewServerConnectionFactory(config, nopLogger{}, tcp.WithListenHook(func(net.Addr) { cancel() }))
	r := NewRunner(&testDeps{configuration: config, deviceManager: newFakeDeviceManager(t, "tun0"), factory: factory})

	err := r.Run(ctx)
	if !errors.Is(err, context.Canceled) || ExitCode(err) != 0 {
		t.Fatalf("cancel during accept must exit 0, got %v", err)
	}
}

func TestRunner_VerboseSessionRunsStats(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ports := make(chan int, 1)
	config := serverConfiguration(session.UDP)
	config.Verbose = true
	factory := udp.NewServerConnectionFactory(config, nopLogger{}, udp.WithListenHook(func(a net.Addr) {
		ports <- a.(*net.UDPAddr).Port
	}))
	r := NewRunner(&testDeps{configuration: config, deviceManager: newFakeDeviceManager(t, "tun0"), factory: factory})

	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()
	<-ports
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("verbose session did not stop")
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, 0},
		{context.Canceled, 0},
		{session.NewConfigurationError("interface name is required", nil), 1},
		{session.NewIOError(session.NetworkRead, errors.New("reset")), 1},
	}
	for _, tt := range tests {
		if got := ExitCode(tt.err); got != tt.want {
			t.Fatalf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestNewConnectionFactory(t *testing.T) {
	for _, c := range []session.Config{
		serverConfiguration(session.TCP),
		serverConfiguration(session.UDP),
		clientConfiguration(session.TCP, 1),
		clientConfiguration(session.UDP, 1),
	} {
		if f, err := NewConnectionFactory(c, nopLogger{}); err != nil || f == nil {
			t.Fatalf("%s/%s: %v", c.Role, c.Protocol, err)
		}
	}
	bad := serverConfiguration(session.UNKNOWN)
	if _, err := NewConnectionFactory(bad, nopLogger{}); err == nil {
		t.Fatal("expected error for unknown protocol")
	}
}
