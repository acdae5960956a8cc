package main

import (
	"context"
	"errors"
	"math/rand/v2"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/joeycumines/logiface"
	"github.com/plus3/weakref/weakarray"
	"golang.org/x/sync/errgroup"
)

// payload is the value type stored in the array under test.
type payload struct {
	worker int
	seq    int
	data   []byte
}

// Totals counts the operations performed by all workers.
type Totals struct {
	Rounds      int64 `yaml:"rounds"`
	Added       int64 `yaml:"added"`
	Removed     int64 `yaml:"removed"`
	Matched     int64 `yaml:"matched"`
	Replaced    int64 `yaml:"replaced"`
	IndexMisses int64 `yaml:"indexMisses"`
}

type counters struct {
	rounds      atomic.Int64
	added       atomic.Int64
	removed     atomic.Int64
	matched     atomic.Int64
	replaced    atomic.Int64
	indexMisses atomic.Int64
}

func (c *counters) totals() Totals {
	return Totals{
		Rounds:      c.rounds.Load(),
		Added:       c.added.Load(),
		Removed:     c.removed.Load(),
		Matched:     c.matched.Load(),
		Replaced:    c.replaced.Load(),
		IndexMisses: c.indexMisses.Load(),
	}
}

// Run drives one shared thread-safe array from cfg.Workers goroutines until
// ctx is done, then reports on it.
func Run(ctx context.Context, cfg Config, logger *logiface.Logger[logiface.Event]) (*Report, error) {
	arr := weakarray.New[payload](
		cfg.Kind,
		cfg.CompactCycle,
		weakarray.WithThreadSafe(true),
		weakarray.WithLogger(logger),
	)

	report := &Report{Config: cfg}
	runtime.ReadMemStats(&report.MemStatsStart)

	var c counters
	samples := make([][]time.Duration, cfg.Workers)

	startTime := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < cfg.Workers; w++ {
		g.Go(func() error {
			return runWorker(gctx, w, cfg, arr, &c, &samples[w])
		})
	}
	err := g.Wait()
	report.TotalTime = time.Since(startTime)
	if err != nil {
		return nil, err
	}

	for _, s := range samples {
		report.RoundTime.Samples = append(report.RoundTime.Samples, s...)
	}
	report.RoundTime.Finalize()
	report.Totals = c.totals()
	report.Array = arr.Stats()
	runtime.ReadMemStats(&report.MemStatsEnd)

	logger.Info().
		Int64(`rounds`, report.Totals.Rounds).
		Int(`len`, report.Array.Len).
		Int(`live`, report.Array.Live).
		Int(`compactions`, report.Array.Compactions).
		Log(`stress run finished`)

	return report, nil
}

func runWorker(ctx context.Context, id int, cfg Config, arr *weakarray.Array[payload], c *counters, samples *[]time.Duration) error {
	keep := int(float64(cfg.Objects) * cfg.Retain)
	// the retained ring holds a few rounds worth of values
	retained := make([]*payload, 0, keep*4)

	for round := 0; ; round++ {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		start := time.Now()

		batch := make([]*payload, cfg.Objects)
		for i := range batch {
			batch[i] = &payload{worker: id, seq: round*cfg.Objects + i, data: make([]byte, 64)}
		}
		arr.AddAll(batch...)
		c.added.Add(int64(len(batch)))

		if len(retained)+keep > cap(retained) {
			retained = append(retained[:0], retained[keep:]...)
		}
		retained = append(retained, batch[:keep]...)

		mine := arr.Filter(func(p *payload) bool { return p.worker == id })
		c.matched.Add(int64(len(mine)))

		probe := batch[len(batch)-1]
		if arr.Contains(probe) {
			c.matched.Add(1)
		}
		if arr.ContainsFunc(func(p *payload) bool { return p.seq == probe.seq && p.worker == id }) {
			c.matched.Add(1)
		}

		if n := arr.Len(); n > 0 {
			err := arr.Replace(rand.IntN(n), probe)
			switch {
			case err == nil:
				c.replaced.Add(1)
			case errors.Is(err, weakarray.ErrIndexOutOfRange):
				// another worker shrank the array between Len and Replace
				c.indexMisses.Add(1)
			default:
				return err
			}
		}

		if round%4 == 3 {
			n := arr.RemoveFunc(func(p *payload) bool { return p.worker == id && p.seq%2 == 0 })
			c.removed.Add(int64(n))
		}

		*samples = append(*samples, time.Since(start))
		c.rounds.Add(1)
		runtime.KeepAlive(batch)
	}
}
