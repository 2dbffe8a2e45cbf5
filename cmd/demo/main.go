package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/comalice/hsmx"
	"github.com/comalice/hsmx/internal/extensibility"
	"github.com/comalice/hsmx/internal/production"
)

type step struct {
	event hsmx.EventID
	data  any
}

var script = []step{
	{"play", nil}, // ignored while off
	{"power", nil},
	{"play", nil},
	{"ff", nil},
	{"pause", nil},
	{"volume", 7},
	{"volume", 42}, // rejected by volumeInRange
	{"power", nil},
	{"power", nil}, // shallow history: back to on.paused
	{"play", nil},
	{"end", nil}, // final state, completion turns the player off
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "demo:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := &player{logger: logger.Named("player")}
	chart, err := p.chart(cfg.ChartFile)
	if err != nil {
		return err
	}
	logger.Info("chart loaded",
		zap.String("id", chart.ID()),
		zap.String("version", chart.Version()),
		zap.Int("states", chart.Graph().Len()),
		zap.Int("transitions", chart.Table().Len()))

	reg := prometheus.NewRegistry()
	monitor := extensibility.NewExecTimeMonitor(logger, cfg.SlowAction)
	published := make(chan production.PublishedEvent, 64)
	publisher := production.NewChannelPublisher(published)

	m := hsmx.NewMachine(chart,
		hsmx.WithLogger(logger),
		hsmx.WithID("demo-player"),
		hsmx.WithListener(extensibility.NewLoggingListener(logger)),
		hsmx.WithListener(extensibility.NewMetricsListener(reg, "hsmx_demo")),
		hsmx.WithListener(monitor),
		hsmx.WithListener(publisher),
	)

	src := extensibility.NewChannelEventSource(len(script))
	for _, s := range script {
		if err := src.Send(ctx, s.event, s.data); err != nil {
			return err
		}
	}
	src.Close()

	if err := m.Start(ctx, nil); err != nil {
		return err
	}
	fmt.Printf("start -> %s\n", m.CurrentState())

	tracer := &stateTracer{m: m}
	if err := extensibility.Drive(ctx, src, tracer, func(evt hsmx.Event, err error) bool {
		logger.Warn("event failed", zap.String("event", string(evt.Type)), zap.Error(err))
		return true
	}); err != nil {
		return err
	}
	_ = publisher.Close()

	actions := 0
	for range published {
		actions++
	}
	fmt.Printf("\n%d actions published, %d dropped\n", actions, publisher.Dropped())
	for _, s := range monitor.Stats() {
		fmt.Printf("  %-40s n=%d mean=%s max=%s\n", s.Key, s.Count, s.Mean(), s.Max)
	}

	fmt.Println("\nDOT:")
	fmt.Print((&production.DefaultVisualizer{}).ExportDOT(chart, m.CurrentState()))

	codec, err := production.CodecFor(cfg.SnapshotFormat)
	if err != nil {
		return err
	}
	fmt.Printf("\nsnapshot (%s):\n", codec.Extension())
	if err := codec.Encode(os.Stdout, m.DumpSavedData()); err != nil {
		return err
	}

	if err := m.Terminate(ctx, nil); err != nil {
		return err
	}

	if cfg.MetricsAddr == "" {
		return nil
	}
	return serveMetrics(ctx, logger, cfg.MetricsAddr, reg)
}

// stateTracer prints every handled event with the leaf it settled in.
type stateTracer struct {
	m *hsmx.Machine
}

func (t *stateTracer) Fire(ctx context.Context, event hsmx.EventID, data any) error {
	before := t.m.CurrentState()
	if err := t.m.Fire(ctx, event, data); err != nil {
		return err
	}
	if after := t.m.CurrentState(); after != before {
		fmt.Printf("%-8s %s -> %s\n", event, before, after)
	} else {
		fmt.Printf("%-8s %s (no change)\n", event, before)
	}
	return nil
}

func serveMetrics(ctx context.Context, logger *zap.Logger, addr string, reg *prometheus.Registry) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("serving metrics until interrupted", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("metrics server: %w", err)
	}
	return nil
}
