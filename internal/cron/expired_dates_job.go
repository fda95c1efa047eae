package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/advanced-shipping/pkg/clock"
	"github.com/angelmondragon/advanced-shipping/pkg/logger"
	"github.com/angelmondragon/advanced-shipping/pkg/types"
)

// ExpiredDatesJobName identifies the job in logs and metrics.
const ExpiredDatesJobName = "expired-dates"

type ExpiredDatesJobParams struct {
	Logger   *logger.Logger
	Pruner   expiredDatesPruner
	Clock    clock.Clock
	Location *time.Location
}

type expiredDatesPruner interface {
	PruneExpiredDates(ctx context.Context, today types.Date) (int, error)
}

// NewExpiredDatesJob builds the job that drops reservation dates and priority
// days that have already passed in the store timezone.
func NewExpiredDatesJob(params ExpiredDatesJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Pruner == nil {
		return nil, fmt.Errorf("expired dates pruner required")
	}
	c := params.Clock
	if c == nil {
		c = clock.NewSystem()
	}
	loc := params.Location
	if loc == nil {
		loc = time.UTC
	}
	return &expiredDatesJob{
		logg:   params.Logger,
		pruner: params.Pruner,
		clock:  c,
		loc:    loc,
	}, nil
}

type expiredDatesJob struct {
	logg   *logger.Logger
	pruner expiredDatesPruner
	clock  clock.Clock
	loc    *time.Location
}

func (j *expiredDatesJob) Name() string { return ExpiredDatesJobName }

func (j *expiredDatesJob) Run(ctx context.Context) error {
	today := clock.Today(j.clock, j.loc)
	updated, err := j.pruner.PruneExpiredDates(ctx, today)
	if err != nil {
		return fmt.Errorf("prune expired dates: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"today":         today.String(),
		"timezone":      j.loc.String(),
		"rules_updated": updated,
	})
	j.logg.Info(logCtx, "expired shipping dates pruned")
	return nil
}
