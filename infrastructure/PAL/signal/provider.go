package signal

import (
	"os"
	"syscall"
)

// Provider abstracts the set of signals that end a tunnel session.
type Provider interface {
	ShutdownSignals() []os.Signal
}

type DefaultProvider struct {
}

func NewDefaultProvider() *DefaultProvider {
	return &DefaultProvider{}
}

func (p *DefaultProvider) ShutdownSignals() []os.Signal {
	return []os.Signal{os.Interrupt, syscall.SIGTERM, syscall.SIGHUP}
}
