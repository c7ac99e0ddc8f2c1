package main

import (
	"bufio"
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"speshway-platform/internal/logger"
	"speshway-platform/internal/recorder"
)

func main() {
	apiURL := flag.String("api", envOr("RECORDER_API_URL", "http://localhost:5001"), "content API base URL")
	pageURL := flag.String("url", "", "page to record sentences from")
	render := flag.Bool("render", false, "render the page in headless Chrome before reading its text")
	interval := flag.Duration("interval", 0, "rescan the page at this interval (0 scans once)")
	selection := flag.String("select", "", "selected text to record; use - to read selections from stdin")
	rps := flag.Float64("rate", 1, "maximum submissions per second")
	timeout := flag.Duration("timeout", 30*time.Second, "page load timeout")
	flag.Parse()

	if *pageURL == "" {
		log.Fatal("-url is required")
	}

	logger.Logger = slog.New(slog.NewJSONHandler(os.Stderr, nil))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	api := recorder.NewClient(*apiURL, *rps)
	healthCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	err := api.Health(healthCtx)
	cancel()
	if err != nil {
		log.Fatalf("Content API not reachable at %s: %v", *apiURL, err)
	}

	rec := recorder.New(api, recorder.NewPageFetcher(*render, *timeout))

	selections := selectionFeed(ctx, *selection)

	if *interval > 0 {
		scheduler := recorder.NewScheduler(ctx)
		if err := scheduler.SchedulePageScan(rec, *pageURL, *interval); err != nil {
			log.Fatalf("Failed to schedule scan: %v", err)
		}
		scheduler.Start()
		rec.RecordSelections(ctx, *pageURL, selections)
		logger.Info("Scanning page", "url", *pageURL, "interval", interval.String())
		<-ctx.Done()
		scheduler.Stop()
	} else {
		rec.Visit(ctx, *pageURL, selections)
	}

	rec.Wait()
}

// selectionFeed yields the -select value, or every stdin line when it is "-".
// The channel is closed once the input is exhausted.
func selectionFeed(ctx context.Context, selection string) <-chan string {
	out := make(chan string)
	go func() {
		defer close(out)
		send := func(text string) bool {
			select {
			case out <- text:
				return true
			case <-ctx.Done():
				return false
			}
		}

		switch selection {
		case "":
		case "-":
			scanner := bufio.NewScanner(os.Stdin)
			for scanner.Scan() {
				if !send(scanner.Text()) {
					return
				}
			}
			if err := scanner.Err(); err != nil {
				logger.Error("Failed to read selections", "error", err)
			}
		default:
			send(selection)
		}
	}()
	return out
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
