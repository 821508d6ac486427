package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fulfillment/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

const (
	DefaultAssignmentInterval = 30 * time.Second
	DefaultAssignmentBatch    = 50
)

// PendingOrdersAssigner runs one auto-assignment sweep.
type PendingOrdersAssigner interface {
	Handle(ctx context.Context, cmd commands.AssignPendingOrdersCommand) (commands.PendingAssignmentReport, error)
}

// RiderAssignmentJob periodically matches confirmed orders that still have no
// rider, including orders whose rider rejected the delivery.
type RiderAssignmentJob struct {
	assigner  PendingOrdersAssigner
	interval  time.Duration
	batchSize int
	timeout   time.Duration
	cron      *cron.Cron
	logger    *slog.Logger
}

func NewRiderAssignmentJob(
	assigner PendingOrdersAssigner,
	interval time.Duration,
	batchSize int,
	logger *slog.Logger,
) *RiderAssignmentJob {
	if interval <= 0 {
		interval = DefaultAssignmentInterval
	}
	if batchSize <= 0 {
		batchSize = DefaultAssignmentBatch
	}
	return &RiderAssignmentJob{
		assigner:  assigner,
		interval:  interval,
		batchSize: batchSize,
		timeout:   interval,
		cron:      cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:    logger.With("component", "rider_assignment_job"),
	}
}

// Start schedules the sweep every interval.
func (j *RiderAssignmentJob) Start() error {
	_, err := j.cron.AddFunc(fmt.Sprintf("@every %s", j.interval), func() {
		ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
		defer cancel()
		j.RunOnce(ctx)
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("Rider assignment job started", "interval", j.interval.String(), "batch", j.batchSize)
	return nil
}

// RunOnce performs a single sweep and logs its outcome.
func (j *RiderAssignmentJob) RunOnce(ctx context.Context) commands.PendingAssignmentReport {
	cmd, err := commands.NewAssignPendingOrdersCommand(j.batchSize)
	if err != nil {
		j.logger.ErrorContext(ctx, "Rider assignment job misconfigured", "error", err)
		return commands.PendingAssignmentReport{}
	}

	report, err := j.assigner.Handle(ctx, cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Rider assignment job failed", "error", err)
		return report
	}

	for orderID, failure := range report.Failed {
		j.logger.WarnContext(ctx, "Auto-assignment failed", "order_id", orderID.String(), "error", failure)
	}
	if report.Checked > 0 {
		j.logger.InfoContext(ctx, "Rider assignment sweep finished",
			"checked", report.Checked,
			"assigned", report.Assigned,
			"unmatched", report.Unmatched,
			"failed", len(report.Failed),
		)
	}
	return report
}

// Stop waits for a running sweep to finish.
func (j *RiderAssignmentJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("Rider assignment job stopped")
}
