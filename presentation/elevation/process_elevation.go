package elevation

// ProcessElevation reports whether the process may create TUN/TAP interfaces.
type ProcessElevation interface {
	IsElevated() bool
}
