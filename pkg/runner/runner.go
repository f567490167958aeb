// Package runner fans proxy checks out over a bounded worker pool and
// streams results to an output CSV in completion order.
package runner

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"proxy-tester/pkg/checker"
	"proxy-tester/pkg/csvio"
	"proxy-tester/pkg/models"
)

const defaultWorkers = 5

// Runner processes one source file per call. Limit truncates the input to
// its first N records; zero means no limit.
type Runner struct {
	Workers    int
	ResultsDir string
	Limit      int
	Checker    *checker.Checker
}

// New returns a Runner with default worker count, results directory and
// checker.
func New() *Runner {
	return &Runner{
		Workers:    defaultWorkers,
		ResultsDir: "results",
		Checker:    checker.New(),
	}
}

// ProcessFile checks every proxy in the source's input file and writes one
// result row per record to the source's output file, as each check
// completes. A single proxy's failure never aborts the batch; only an
// unreadable input file does.
func (r *Runner) ProcessFile(source models.Source) error {
	runID := uuid.New().String()

	records, err := csvio.ReadRecords(source.Input)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", source.Input, err)
	}
	if r.Limit > 0 && len(records) > r.Limit {
		records = records[:r.Limit]
	}

	if err := os.MkdirAll(r.ResultsDir, 0o755); err != nil {
		return fmt.Errorf("failed to create results directory: %w", err)
	}
	outputPath := filepath.Join(r.ResultsDir, source.Output)
	writer, err := csvio.NewResultWriter(outputPath)
	if err != nil {
		return err
	}
	defer writer.Close()

	slog.Info("processing proxies",
		"run", runID,
		"source", source.Name,
		"count", len(records),
		"output", outputPath)

	jobs := make(chan models.ProxyRecord, len(records))
	results := make(chan models.ProxyResult, len(records))

	workers := r.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go r.worker(&wg, source.FieldMap, jobs, results)
	}

	for _, record := range records {
		jobs <- record
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	start := time.Now()
	saved, failed := 0, 0
	for result := range results {
		if err := writer.Write(result); err != nil {
			slog.Error("error saving result", "run", runID, "proxy", result.Proxy, "error", err)
			continue
		}
		saved++
		if result.Error != "" {
			failed++
		}
		slog.Info("result saved",
			"run", runID,
			"proxy", result.Proxy,
			"status", result.Status,
			"realLocation", result.RealLocation)
	}

	slog.Info("batch complete",
		"run", runID,
		"source", source.Name,
		"saved", saved,
		"failed", failed,
		"elapsed", time.Since(start).Round(time.Millisecond))

	return writer.Close()
}

func (r *Runner) worker(wg *sync.WaitGroup, fields models.FieldMap, jobs <-chan models.ProxyRecord, results chan<- models.ProxyResult) {
	defer wg.Done()
	for record := range jobs {
		results <- r.Checker.Check(record, fields)
	}
}
