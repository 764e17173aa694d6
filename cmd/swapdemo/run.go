package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/philipp01105/swaplog/envlog"
	"github.com/philipp01105/swaplog/handler"
	"github.com/philipp01105/swaplog/logger"
	"github.com/philipp01105/swaplog/shared"
)

type runOptions struct {
	color       envlog.ColorChoice
	workers     int
	swaps       int
	interval    time.Duration
	filter      string
	async       bool
	metricsAddr string
}

var switchOrder = []envlog.ColorChoice{envlog.ColorAlways, envlog.ColorNever, envlog.ColorAuto}

func runDemo(ctx context.Context, out io.Writer, opts runOptions) error {
	if opts.workers < 1 {
		return fmt.Errorf("--workers must be at least 1, got %d", opts.workers)
	}
	if opts.interval <= 0 {
		return fmt.Errorf("--interval must be positive, got %s", opts.interval)
	}

	records := handler.NewStats()
	factory := func(choice envlog.ColorChoice) shared.Backend {
		env := envlog.DefaultEnv()
		env.DefaultFilter = opts.filter
		return envlog.NewBuilder().
			FromEnv(env).
			WriteStyle(envlog.WriteStyleFor(choice)).
			Async(opts.async).
			Stats(records).
			Build()
	}

	sl := shared.NewWithBuilder(factory, opts.color)
	if err := sl.Init(); err != nil {
		_ = sl.Close()
		return err
	}

	if opts.metricsAddr != "" {
		srv := startMetrics(opts.metricsAddr, sl, records)
		defer srv.Close()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var logged atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < opts.workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			work(ctx, id, opts.interval/10, &logged)
		}(i)
	}

	ctl := logger.Named("swapdemo")
	ctl.Info("started", logger.Int("workers", opts.workers), logger.String("color", opts.color.String()))

	ticker := time.NewTicker(opts.interval)
	defer ticker.Stop()
	switched := 0
loop:
	for switched < opts.swaps {
		select {
		case <-ctx.Done():
			break loop
		case <-ticker.C:
		}
		choice := switchOrder[switched%len(switchOrder)]
		sl.SetColorChoice(choice)
		switched++
		ctl.Warn("color choice changed", logger.String("color", choice.String()), logger.Int("switch", switched))
	}

	cancel()
	wg.Wait()
	logger.Flush()
	if err := sl.Close(); err != nil {
		return fmt.Errorf("close logger: %w", err)
	}

	st := sl.Stats()
	written := records.GetSnapshot()
	fmt.Fprintf(out, "records=%d written=%d dropped=%d swaps=%d retired=%d reclaimed=%d epoch=%d\n",
		logged.Load(), written.ProcessedTotal, records.GetTotalDropped(),
		st.Swaps, st.Retired, st.Reclaimed, st.Epoch)
	return nil
}

// work logs until ctx is done, pausing between records.
func work(ctx context.Context, id int, pause time.Duration, records *atomic.Int64) {
	log := logger.Named("swapdemo/worker").With(logger.Int("worker", id))
	for n := 0; ; n++ {
		select {
		case <-ctx.Done():
			return
		default:
		}

		start := time.Now()
		log.Info("tick", logger.Int("n", n))
		log.Debug("tick detail", logger.Duration("took", time.Since(start)))
		records.Add(2)

		if pause > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(pause):
			}
		}
	}
}

func startMetrics(addr string, sl shared.Logger, records *handler.Stats) *http.Server {
	reg := prometheus.NewRegistry()
	reg.MustRegister(shared.NewCollector(sl, nil).WithRecords(records))

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Named("swapdemo").Info("metrics listening", logger.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Named("swapdemo").Error("metrics server failed", logger.Err(err))
		}
	}()
	return srv
}
