package session

import (
	"github.com/robfig/cron/v3"

	. "github.com/puentesglobales/careermastery/internal/logging"
)

// DefaultSweepSpec runs the eviction sweep every 10 minutes.
const DefaultSweepSpec = "@every 10m"

// Sweeper drives Store.Sweep on a fixed schedule.
type Sweeper struct {
	cron  *cron.Cron
	store Store
}

// NewSweeper schedules the sweep against store. spec is a cron expression
// or @every duration; empty means DefaultSweepSpec.
func NewSweeper(store Store, spec string) (*Sweeper, error) {
	if spec == "" {
		spec = DefaultSweepSpec
	}

	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		store.Sweep()
	})
	if err != nil {
		return nil, err
	}

	L_debug("session: sweeper scheduled", "spec", spec)
	return &Sweeper{cron: c, store: store}, nil
}

// Start begins running sweeps in the cron's own goroutine.
func (s *Sweeper) Start() {
	s.cron.Start()
	L_info("session: sweeper started")
}

// Stop halts scheduling; a sweep already in flight completes.
func (s *Sweeper) Stop() {
	s.cron.Stop()
	L_info("session: sweeper stopped")
}
