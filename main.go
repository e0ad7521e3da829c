package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"powertun/application/logging"
	"powertun/domain/app"
	"powertun/domain/session"
	infralogging "powertun/infrastructure/logging"
	"powertun/infrastructure/PAL/signal"
	"powertun/presentation/configuring/cli"
	"powertun/presentation/configuring/tui"
	"powertun/presentation/configuring/tui/bubble_tea"
	"powertun/presentation/elevation"
	sessionrunner "powertun/presentation/runners/session"
	"powertun/presentation/runners/version"
	"powertun/presentation/signals/shutdown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	appCtx, appCtxCancel := context.WithCancel(context.Background())
	defer appCtxCancel()

	prompter := tui.NewConfigurator(bubble_tea.NewSelectorAdapter(), bubble_tea.NewTextInputAdapter())
	request, err := cli.NewConfigurator(stdout, stderr, prompter).Configure(args)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "%s: %s\n", app.Name, err)
		return 1
	}
	switch request.Action {
	case cli.Help:
		return 0
	case cli.Version:
		version.NewRunner(stdout).Run(appCtx)
		return 0
	}

	configuration := request.Config
	logger, closeLog, err := newLogger(configuration, stderr)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "%s: %s\n", app.Name, err)
		return 1
	}
	defer closeLog()

	if !elevation.NewProcessElevation().IsElevated() {
		logger.Printf("warning: %s usually needs root or CAP_NET_ADMIN to create %s devices",
			app.Name, configuration.DeviceKind)
	}

	shutdown.NewHandler(appCtx, appCtxCancel, signal.NewDefaultProvider(), shutdown.NewNotifier(), logger).Handle()

	deps, err := sessionrunner.NewDependencies(configuration, logger)
	if err != nil {
		logger.Printf("%s", err)
		return sessionrunner.ExitCode(err)
	}
	err = sessionrunner.NewRunner(deps).Run(appCtx)
	if err != nil {
		logger.Printf("%s", err)
	}
	return sessionrunner.ExitCode(err)
}

func newLogger(configuration session.Config, stderr io.Writer) (logging.Logger, func(), error) {
	logger := infralogging.NewPtermLogger(stderr, configuration.Verbose)
	if configuration.LogFile == "" {
		return logger, func() {}, nil
	}
	file, err := infralogging.OpenRotatingFile(configuration.LogFile)
	if err != nil {
		return nil, nil, session.NewConfigurationError("cannot open log file", err)
	}
	return logger.WithFile(file), func() { _ = file.Close() }, nil
}
