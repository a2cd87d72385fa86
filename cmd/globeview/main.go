package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"globeview/internal/cities"
	"globeview/internal/config"
	"globeview/internal/logging"
	"globeview/internal/metrics"
	"globeview/internal/tui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if len(os.Args) > 1 {
		cfg.DataSource = os.Args[1]
	}

	logger, closer, err := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Path: cfg.LogFile})
	if err != nil {
		log.Fatal(err)
	}
	defer closer.Close()

	ctx := context.Background()
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	mgr := metrics.NewManager(metrics.WithRegistry(reg))
	if cfg.MetricsAddr != "" {
		srv := &http.Server{Addr: cfg.MetricsAddr, Handler: metricsMux(mgr), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error(ctx, "metrics server stopped", logging.Error(err))
			}
		}()
		defer srv.Close()
		logger.Info(ctx, "serving metrics", logging.String("addr", cfg.MetricsAddr))
	}

	m := tui.New(tui.Deps{
		Config:  cfg,
		Logger:  logger,
		Metrics: mgr,
		Fetcher: &cities.Fetcher{Client: &http.Client{Timeout: 30 * time.Second}},
	})
	logger.Info(ctx, "starting globeview", logging.String("source", cfg.DataSource))
	if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion()).Run(); err != nil {
		logger.Error(ctx, "program exited", logging.Error(err))
		closer.Close()
		log.Fatal(err)
	}
}

func metricsMux(mgr *metrics.Manager) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", mgr.Handler())
	return mux
}
