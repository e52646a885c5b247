package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	lib "github.com/theoremus-urban-solutions/fleet-archiver"
	"github.com/theoremus-urban-solutions/fleet-archiver/config"
	"github.com/theoremus-urban-solutions/fleet-archiver/feed"
	"github.com/theoremus-urban-solutions/fleet-archiver/fleet"
	"github.com/theoremus-urban-solutions/fleet-archiver/flow"
	"github.com/theoremus-urban-solutions/fleet-archiver/storage"
)

func main() {
	mode := flag.String("mode", "serve", "serve|loop|once|analyze")
	artifact := flag.String("artifact", "", "artifact path for -mode analyze")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if err := lib.InitLogging(cfg.LogJSON); err != nil {
		fmt.Fprintf(os.Stderr, "init logging: %v\n", err)
		os.Exit(1)
	}
	log := lib.Logger()

	if *mode == "analyze" {
		if err := analyze(*artifact); err != nil {
			log.Fatalw("analyze failed", "artifact", *artifact, "error", err)
		}
		return
	}

	runner, fileSink, err := buildRunner(cfg)
	if err != nil {
		log.Fatalw("startup failed", "error", err)
	}

	switch *mode {
	case "serve":
		server := lib.StartServer(cfg, runner)
		lib.HandleGracefulShutdown(server)
	case "loop":
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		lib.NewLoop(runner, fileSink, cfg.Storage.Retention()).Run(ctx)
		log.Infow("loop stopped")
	case "once":
		rep := runner.RunCycle(context.Background())
		if rep.State != lib.CycleDone {
			os.Exit(1)
		}
	default:
		log.Fatalw("unknown mode", "mode", *mode)
	}
}

func buildRunner(cfg *config.AppConfig) (*lib.Runner, *storage.FileSink, error) {
	fileSink := storage.NewFileSink(cfg.Storage.DataDir)
	sinks := []storage.Sink{}
	if cfg.Storage.RemoteEnabled {
		object, err := storage.NewObjectSink(context.Background(), cfg.Storage.Bucket)
		if err != nil {
			return nil, nil, fmt.Errorf("init object storage: %w", err)
		}
		sinks = append(sinks, object)
	}
	sinks = append(sinks, fileSink)

	routeMode := storage.PrimaryWithFallback
	if cfg.Storage.Mirror {
		routeMode = storage.Mirror
	}
	router := storage.NewRouter(routeMode, sinks...)

	metrics := lib.NewMetrics(prometheus.DefaultRegisterer)
	runner := lib.NewRunner(feed.NewClient(cfg.Feed), flow.Defaults(), router, cfg.Storage.Folder, metrics)
	return runner, fileSink, nil
}

// analyze prints a line-frequency table for a stored artifact.
func analyze(path string) error {
	if path == "" {
		return errors.New("missing -artifact path")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	snap, err := fleet.DecodeSnapshot(data, time.Now())
	if err != nil {
		return err
	}
	a := fleet.Analyze(snap.Records)
	fmt.Printf("trains: %d\n", a.TotalTrains)
	lines := make([]string, 0, len(a.LineCounts))
	for line := range a.LineCounts {
		lines = append(lines, line)
	}
	sort.Slice(lines, func(i, j int) bool {
		if a.LineCounts[lines[i]] != a.LineCounts[lines[j]] {
			return a.LineCounts[lines[i]] > a.LineCounts[lines[j]]
		}
		return lines[i] < lines[j]
	})
	for _, line := range lines {
		fmt.Printf("%-8s %d\n", line, a.LineCounts[line])
	}
	return nil
}
