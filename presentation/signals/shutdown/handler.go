package shutdown

import (
	"context"
	"os"
	"sync"

	"powertun/application/logging"
	palSignal "powertun/infrastructure/PAL/signal"
	"powertun/presentation/signals"
)

type Handler struct {
	// appCtx is the session context; once it is done the handler stops listening.
	appCtx       context.Context
	appCtxCancel context.CancelFunc
	// 1-sized: os/signal does non-blocking sends and drops on a full channel.
	signalChan     chan os.Signal
	once           sync.Once
	signalProvider palSignal.Provider
	notifier       signals.Notifier
	logger         logging.Logger
}

func NewHandler(
	appCtx context.Context,
	appCtxCancel context.CancelFunc,
	signalProvider palSignal.Provider,
	notifier signals.Notifier,
	logger logging.Logger,
) signals.Handler {
	return &Handler{
		appCtx:         appCtx,
		appCtxCancel:   appCtxCancel,
		signalChan:     make(chan os.Signal, 1),
		signalProvider: signalProvider,
		notifier:       notifier,
		logger:         logger,
	}
}

func (h *Handler) Handle() {
	h.once.Do(func() {
		h.listenAndHandleShutdownSignals()
	})
}

func (h *Handler) listenAndHandleShutdownSignals() {
	h.notifier.Notify(h.signalChan, h.signalProvider.ShutdownSignals()...)
	go func() {
		defer h.notifier.Stop(h.signalChan)
		select {
		case sig := <-h.signalChan:
			h.logger.Printf("%s received, shutting down", sig)
			h.appCtxCancel()
		case <-h.appCtx.Done():
		}
	}()
}
