package artifact

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Janitor runs Store.Prune on a cron schedule.
type Janitor struct {
	c *cron.Cron
}

func NewJanitor(s *Store, spec string) (*Janitor, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		n, err := s.Prune()
		if err != nil {
			s.logger.Warn("prune artifacts", zap.Error(err), zap.Int("removed", n))
			return
		}
		if n > 0 {
			s.logger.Info("pruned artifacts", zap.Int("removed", n), zap.String("dir", s.dir))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("schedule prune %q: %w", spec, err)
	}
	return &Janitor{c: c}, nil
}

func (j *Janitor) Start() {
	j.c.Start()
}

// Stop halts the schedule and waits for a running prune, or for ctx.
func (j *Janitor) Stop(ctx context.Context) {
	select {
	case <-j.c.Stop().Done():
	case <-ctx.Done():
	}
}
