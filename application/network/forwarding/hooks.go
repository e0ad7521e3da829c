package forwarding

// TrafficRecorder counts frames crossing the tunnel.
type TrafficRecorder interface {
	// RecordTX counts a frame sent from the device to the peer.
	RecordTX(bytes int)
	// RecordRX counts a frame received from the peer and written to the device.
	RecordRX(bytes int)
}

// FrameInspector renders a one-line summary of a frame for debug logs.
type FrameInspector interface {
	Describe(frame []byte) string
}

type noopRecorder struct{}

func (noopRecorder) RecordTX(int) {}
func (noopRecorder) RecordRX(int) {}

type Option func(*Loop)

func WithTrafficRecorder(r TrafficRecorder) Option {
	return func(l *Loop) {
		if r != nil {
			l.recorder = r
		}
	}
}

// WithFrameInspector enables a debug line per forwarded frame.
func WithFrameInspector(i FrameInspector) Option {
	return func(l *Loop) {
		l.inspector = i
	}
}
