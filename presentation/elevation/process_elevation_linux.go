package elevation

import (
	"os"

	"golang.org/x/sys/unix"
)

type ProcessElevationImpl struct {
	getuid  func() int
	capable func() bool
}

func NewProcessElevation() ProcessElevation {
	return &ProcessElevationImpl{getuid: os.Getuid, capable: hasNetAdmin}
}

// IsElevated is true for root or for a process holding CAP_NET_ADMIN.
func (p *ProcessElevationImpl) IsElevated() bool {
	return p.getuid() == 0 || p.capable()
}

func hasNetAdmin() bool {
	hdr := unix.CapUserHeader{Version: unix.LINUX_CAPABILITY_VERSION_3}
	var data [2]unix.CapUserData
	if err := unix.Capget(&hdr, &data[0]); err != nil {
		return false
	}
	return data[0].Effective&(1<<unix.CAP_NET_ADMIN) != 0
}
