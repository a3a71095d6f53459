// Command fuzz runs a configurable number of independent fibheap.Heap
// instances through a long randomized mix of insert / extract-min /
// decrease-key / remove / meld / clone operations, cross-checking every
// instance against an independent sorted-set reference model and
// running the heap's own debug-assertion invariant checks after every
// step. It is test tooling, not a feature of the heap itself: each
// worker heap is still used from a single goroutine the way the design
// requires, only the workers themselves run concurrently.
package main

import (
	"context"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/cornelk/hashmap"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/zasdfgbnm/fibheap"
	"github.com/zasdfgbnm/fibheap/internal/config"
	"github.com/zasdfgbnm/fibheap/internal/oracle"
)

// workerStats are the live counters exposed over /stats while a run is
// in flight; every field is only ever touched with the atomic package.
type workerStats struct {
	inserts    uint64
	extracts   uint64
	decreases  uint64
	removes    uint64
	melds      uint64
	clones     uint64
	violations uint64
}

func (s *workerStats) snapshot() map[string]uint64 {
	return map[string]uint64{
		"inserts":    atomic.LoadUint64(&s.inserts),
		"extracts":   atomic.LoadUint64(&s.extracts),
		"decreases":  atomic.LoadUint64(&s.decreases),
		"removes":    atomic.LoadUint64(&s.removes),
		"melds":      atomic.LoadUint64(&s.melds),
		"clones":     atomic.LoadUint64(&s.clones),
		"violations": atomic.LoadUint64(&s.violations),
	}
}

func main() {
	logger := zap.Must(zap.NewProduction()).Sugar()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalw("failed to load settings", "error", err)
	}

	runID := uuid.NewString()
	logger.Infow("starting fuzz run",
		"run_id", runID, "workers", cfg.Workers, "iterations", cfg.Iterations)

	stats := hashmap.New[int, *workerStats]()
	for i := 0; i < cfg.Workers; i++ {
		stats.Set(i, &workerStats{})
	}

	var shutdownServer func(context.Context) error
	if cfg.StatsAddr != "" {
		shutdownServer = startStatsServer(cfg.StatsAddr, runID, stats, logger)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	pool, err := ants.NewPool(cfg.Workers)
	if err != nil {
		logger.Fatalw("failed to start worker pool", "error", err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i := 0; i < cfg.Workers; i++ {
		id := i
		s, _ := stats.Get(id)
		wg.Add(1)
		rng := rand.New(rand.NewSource(seed + int64(id)))
		submitErr := pool.Submit(func() {
			defer wg.Done()
			runWorker(id, cfg, rng, s, logger)
		})
		if submitErr != nil {
			logger.Errorw("failed to submit worker", "worker", id, "error", submitErr)
			wg.Done()
		}
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logger.Infow("fuzz run complete", "run_id", runID)
	case <-interrupt:
		logger.Infow("interrupted, waiting for in-flight workers to finish", "run_id", runID)
		<-done
	}

	if shutdownServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = shutdownServer(ctx)
	}

	var violations uint64
	stats.Range(func(_ int, s *workerStats) bool {
		violations += atomic.LoadUint64(&s.violations)
		return true
	})
	if violations > 0 {
		logger.Fatalw("fuzz run found invariant violations", "run_id", runID, "violations", violations)
	}
}

func startStatsServer(addr, runID string, stats *hashmap.Map[int, *workerStats], logger *zap.SugaredLogger) func(context.Context) error {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.GET("/stats", func(c echo.Context) error {
		workers := map[int]map[string]uint64{}
		stats.Range(func(id int, s *workerStats) bool {
			workers[id] = s.snapshot()
			return true
		})
		return c.JSON(http.StatusOK, map[string]interface{}{
			"run_id":  runID,
			"workers": workers,
		})
	})
	go func() {
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Warnw("stats server stopped", "error", err)
		}
	}()
	return e.Shutdown
}

// entry pairs a handle issued by the heap under test with the member
// token the reference model uses for the same logical element.
type entry struct {
	handle fibheap.Handle[float64, int]
	member string
}

func runWorker(id int, cfg config.Settings, rng *rand.Rand, stats *workerStats, logger *zap.SugaredLogger) {
	less := func(a, b float64) bool { return a < b }
	h := fibheap.New[float64, int](less, fibheap.Options{
		DebugAssertions: cfg.DebugAssertions,
		Logger:          logger,
	})
	model := oracle.NewModel()

	var live []entry

	checkTop := func() {
		want, ok := model.Min()
		got, err := h.Top()
		if ok != (err == nil) {
			atomic.AddUint64(&stats.violations, 1)
			logger.Errorw("oracle disagreement on emptiness", "worker", id)
			return
		}
		if ok && got.Key() != want {
			atomic.AddUint64(&stats.violations, 1)
			logger.Errorw("oracle disagreement on minimum", "worker", id, "heap_min", got.Key(), "model_min", want)
		}
	}

	for i := 0; i < cfg.Iterations; i++ {
		roll := rng.Float64()

		switch {
		case h.Size() == 0 || roll < 0.40:
			key := rng.Float64() * 1_000_000
			handle := h.Insert(key, i)
			member := model.Insert(key)
			live = append(live, entry{handle, member})
			atomic.AddUint64(&stats.inserts, 1)

		case roll < 0.60:
			handle, err := h.ExtractMin()
			if err == nil {
				live = dropByHandle(live, handle, model)
				atomic.AddUint64(&stats.extracts, 1)
			}

		case roll < 0.80 && len(live) > 0:
			idx := rng.Intn(len(live))
			e := live[idx]
			newKey := e.handle.Key() - rng.Float64()*1000
			if h.DecreaseKey(e.handle, newKey) == nil {
				model.Remove(e.member)
				live[idx].member = model.Insert(newKey)
				atomic.AddUint64(&stats.decreases, 1)
			}

		case roll < 0.92 && len(live) > 0:
			idx := rng.Intn(len(live))
			e := live[idx]
			if _, err := h.Remove(e.handle); err == nil {
				model.Remove(e.member)
				live = append(live[:idx], live[idx+1:]...)
				atomic.AddUint64(&stats.removes, 1)
			}

		case roll < 0.97:
			scratch := fibheap.New[float64, int](less, fibheap.Options{DebugAssertions: cfg.DebugAssertions})
			key := rng.Float64() * 1_000_000
			handle := scratch.Insert(key, i)
			member := model.Insert(key)
			// Melding moves scratch's node into h's forest; thanks to
			// realm forwarding the handle above stays valid against h,
			// so it is tracked exactly like a direct insert into h.
			if err := h.Meld(scratch); err == nil {
				live = append(live, entry{handle, member})
			} else {
				model.Remove(member)
			}
			atomic.AddUint64(&stats.melds, 1)

		default:
			clone := h.Clone()
			if clone.Size() != h.Size() {
				atomic.AddUint64(&stats.violations, 1)
				logger.Errorw("clone size mismatch", "worker", id, "original", h.Size(), "clone", clone.Size())
			}
			atomic.AddUint64(&stats.clones, 1)
		}

		checkTop()
		if err := h.CheckInvariants(); err != nil {
			atomic.AddUint64(&stats.violations, 1)
			logger.Errorw("invariant violation", "worker", id, "iteration", i, "error", err)
		}
	}
}

func dropByHandle(live []entry, handle fibheap.Handle[float64, int], model *oracle.Model) []entry {
	for i, e := range live {
		if e.handle == handle {
			model.Remove(e.member)
			return append(live[:i], live[i+1:]...)
		}
	}
	return live
}
