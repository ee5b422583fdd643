package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Pruner deletes history entries older than a cutoff.
type Pruner interface {
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// HistoryRetentionJob periodically prunes old notifications from the SQL
// history mirror.
type HistoryRetentionJob struct {
	pruner        Pruner
	schedule      string
	retention     time.Duration
	logger        *zap.Logger
	cronScheduler *cron.Cron
	now           func() time.Time
}

// NewHistoryRetentionJob creates a job that keeps retention worth of
// history. An empty schedule leaves the job disabled.
func NewHistoryRetentionJob(pruner Pruner, schedule string, retention time.Duration, logger *zap.Logger) *HistoryRetentionJob {
	scheduler := cron.New(
		cron.WithLogger(NewCronLogger(logger.Named("cron"))),
		cron.WithChain(cron.SkipIfStillRunning(NewCronLogger(logger.Named("cron")))),
	)
	return &HistoryRetentionJob{
		pruner:        pruner,
		schedule:      schedule,
		retention:     retention,
		logger:        logger.Named("HistoryRetentionJob"),
		cronScheduler: scheduler,
		now:           time.Now,
	}
}

// SetupAndStart schedules and starts the cron job.
func (j *HistoryRetentionJob) SetupAndStart() error {
	if j.schedule == "" {
		j.logger.Info("History retention schedule not defined (HISTORY_RETENTION_SCHEDULE). Job will not run.")
		return nil
	}

	jobID, err := j.cronScheduler.AddFunc(j.schedule, j.runJob)
	if err != nil {
		j.logger.Error("Failed to schedule history retention job", zap.String("spec", j.schedule), zap.Error(err))
		return fmt.Errorf("scheduling history retention: %w", err)
	}

	j.logger.Info("History retention job scheduled",
		zap.String("spec", j.schedule),
		zap.Duration("retention", j.retention),
		zap.Any("jobID", jobID),
	)
	j.cronScheduler.Start()
	return nil
}

func (j *HistoryRetentionJob) runJob() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cutoff := j.now().Add(-j.retention)
	deleted, err := j.pruner.DeleteBefore(ctx, cutoff)
	if err != nil {
		j.logger.Error("History retention run failed", zap.Error(err))
		return
	}
	j.logger.Info("History retention run completed", zap.Int64("deleted", deleted), zap.Time("cutoff", cutoff))
}

// Stop gracefully stops the cron scheduler.
func (j *HistoryRetentionJob) Stop() {
	j.logger.Info("Stopping history retention scheduler...")
	stopCtx := j.cronScheduler.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(10 * time.Second):
		j.logger.Warn("History retention scheduler stop timed out.")
	}
}

// cronLogger adapts zap.Logger to cron.Logger interface.
type cronLogger struct {
	zl *zap.Logger
}

func NewCronLogger(zl *zap.Logger) cron.Logger {
	return &cronLogger{zl: zl}
}

func (cl *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	cl.zl.Debug(msg, fields(keysAndValues)...)
}

func (cl *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	cl.zl.Error(msg, append(fields(keysAndValues), zap.Error(err))...)
}

func fields(keysAndValues []interface{}) []zap.Field {
	out := make([]zap.Field, 0, len(keysAndValues)/2+1)
	for i := 0; i < len(keysAndValues); i += 2 {
		key := fmt.Sprintf("%v", keysAndValues[i])
		if i+1 < len(keysAndValues) {
			out = append(out, zap.Any(key, keysAndValues[i+1]))
		} else {
			out = append(out, zap.Any(key, "MISSING_VALUE"))
		}
	}
	return out
}
