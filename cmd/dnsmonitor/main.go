// Command dnsmonitor runs the passive DNS wire-protocol interpreter: it
// binds UDP and TCP session shells to a listen address, decodes traffic
// through internal/dnsproto, persists events and weird notices through
// internal/store, and exposes a read-only introspection API through
// internal/adminapi.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hydravigil/dnsvigil/internal/adminapi"
	"github.com/hydravigil/dnsvigil/internal/events"
	"github.com/hydravigil/dnsvigil/internal/logging"
	"github.com/hydravigil/dnsvigil/internal/policy"
	"github.com/hydravigil/dnsvigil/internal/session"
	"github.com/hydravigil/dnsvigil/internal/store"
	"github.com/hydravigil/dnsvigil/internal/weird"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to YAML policy file")
		noTCP      = flag.Bool("no-tcp", false, "Disable TCP session shell")
		jsonLogs   = flag.Bool("json-logs", false, "Enable JSON structured logging")
		debug      = flag.Bool("debug", false, "Enable debug logging")
	)
	flag.Parse()

	var cfg policy.Config
	var err error
	if *configPath != "" {
		cfg, err = policy.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load policy: %v\n", err)
			os.Exit(1)
		}
	} else {
		cfg = policy.Default()
		_ = cfg.Validate()
	}

	if *jsonLogs {
		cfg.Logging.Structured = true
		cfg.Logging.StructuredFormat = "json"
	}
	if *debug {
		cfg.Logging.Level = "DEBUG"
	}

	logger := logging.Configure(logging.Config{
		Level:            cfg.Logging.Level,
		Structured:       cfg.Logging.Structured,
		StructuredFormat: cfg.Logging.StructuredFormat,
		IncludePID:       cfg.Logging.IncludePID,
		ExtraFields:      cfg.Logging.ExtraFields,
	})
	logger.Info("dnsvigil starting",
		"udp_addr", cfg.Listen.UDPAddr,
		"tcp_addr", cfg.Listen.TCPAddr,
		"tcp_enabled", !*noTCP,
	)

	db, err := store.Open(cfg.Store.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open store: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	eventSink := multiSink{store.EventSink{DB: db}, events.LogSink{Logger: logger}}
	weirdSink := multiWeird{store.WeirdSink{DB: db}, weird.LogSink{Logger: logger}}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	udp := &session.UDPShell{Logger: logger, Policy: &cfg, Sink: eventSink, Weird: weirdSink}
	var tcp *session.TCPShell
	if !*noTCP {
		tcp = &session.TCPShell{Logger: logger, Policy: &cfg, Sink: eventSink, Weird: weirdSink}
	}

	var adminSrv *adminapi.Server
	if cfg.API.Enabled {
		adminSrv = adminapi.NewServer(cfg.API, db, logger)
	}

	errCh := make(chan error, 3)
	go func() { errCh <- udp.Run(ctx, cfg.Listen.UDPAddr) }()
	if tcp != nil {
		go func() { errCh <- tcp.Run(ctx, cfg.Listen.TCPAddr) }()
	}
	if adminSrv != nil {
		go func() {
			logger.Info("admin api listening", "addr", adminSrv.Addr())
			if err := adminSrv.ListenAndServe(); err != nil {
				errCh <- err
			}
		}()
	}

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			logger.Error("session shell exited with error", "error", err)
		}
	}

	if adminSrv != nil {
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
		_ = adminSrv.Shutdown(shutdownCtx)
		cancelShutdown()
	}
	logger.Info("dnsvigil stopped")
}

// multiSink fans events out to every wrapped sink, matching the shape a
// caller wiring both persistence and logging needs without either
// package depending on the other.
type multiSink []events.Sink

func (m multiSink) Emit(e events.Event) {
	for _, s := range m {
		s.Emit(e)
	}
}

type multiWeird []weird.Sink

func (m multiWeird) Weird(n weird.Notice) {
	for _, s := range m {
		s.Weird(n)
	}
}
