// Command headless replays input scenarios without a window and reports
// whether each one met its expectations.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/milk9111/magnetpair/levels"
	"github.com/milk9111/magnetpair/prefabs"
	"github.com/milk9111/magnetpair/sim"
	"github.com/panjf2000/ants/v2"
	"github.com/sirupsen/logrus"
)

func main() {
	scenario := flag.String("scenario", "all", "scenario name in prefabs/scenarios, or all")
	workers := flag.Int("workers", 4, "scenarios replayed at once")
	dsn := flag.String("sentry-dsn", os.Getenv("SENTRY_DSN"), "sentry dsn for crash reports")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	if *dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: *dsn}); err != nil {
			log.WithError(err).Warn("sentry init failed")
		}
		defer sentry.Flush(2 * time.Second)
	}

	names := []string{*scenario}
	if *scenario == "all" {
		var err error
		if names, err = prefabs.ListScenarios(); err != nil {
			log.WithError(err).Fatal("list scenarios")
		}
	}

	tuning, err := prefabs.LoadTuning()
	if err != nil {
		log.WithError(err).Fatal("load tuning")
	}

	results, err := runAll(names, tuning, *workers, log)
	if err != nil {
		log.WithError(err).Fatal("run scenarios")
	}

	failed := 0
	for _, r := range results {
		entry := log.WithFields(logrus.Fields{
			"scenario":  r.Scenario,
			"level":     r.Level,
			"ticks":     r.Ticks,
			"completed": r.Completed,
			"stuck":     r.Stuck,
			"checksum":  fmt.Sprintf("%016x", r.Checksum),
		})
		if r.Passed() {
			entry.Info("pass")
			continue
		}
		failed++
		for _, f := range r.Failures {
			entry.Error(f)
		}
	}
	if failed > 0 {
		sentry.Flush(2 * time.Second)
		os.Exit(1)
	}
}

// runAll replays every scenario on a worker pool. Results keep the order of names.
func runAll(names []string, tuning prefabs.Tuning, workers int, log *logrus.Logger) ([]sim.Result, error) {
	results := make([]sim.Result, len(names))
	errs := make([]error, len(names))
	var wg sync.WaitGroup

	pool, err := ants.NewPool(max(1, workers),
		ants.WithPreAlloc(true),
		ants.WithPanicHandler(func(p interface{}) {
			hub := sentry.CurrentHub().Clone()
			hub.Recover(p)
			log.WithField("panic", p).Error("scenario worker crashed")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("headless: new pool: %w", err)
	}
	defer pool.Release()

	for i, name := range names {
		i, name := i, name
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			results[i], errs[i] = runOne(name, tuning, log)
		})
		if err != nil {
			wg.Done()
			errs[i] = fmt.Errorf("headless: submit %s: %w", name, err)
		}
	}
	wg.Wait()

	for i, r := range results {
		if r.Scenario == "" && errs[i] == nil {
			errs[i] = fmt.Errorf("headless: %s: worker crashed", names[i])
		}
	}
	return results, errors.Join(errs...)
}

func runOne(name string, tuning prefabs.Tuning, log *logrus.Logger) (sim.Result, error) {
	sc, err := prefabs.LoadScenario(name)
	if err != nil {
		return sim.Result{}, err
	}
	lvl, err := levels.Load(sc.Level)
	if err != nil {
		return sim.Result{}, err
	}
	return sim.Run(sc, lvl, tuning, log)
}
