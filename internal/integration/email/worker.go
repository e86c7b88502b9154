package email

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/spendwise/backend/internal/application/adapter"
	"github.com/spendwise/backend/internal/domain/entity"
	domainerror "github.com/spendwise/backend/internal/domain/error"
	"github.com/spendwise/backend/internal/integration/email/templates"
)

// Worker delivers queued budget alerts. Each worker claims jobs under its
// own id, so any number of API instances may run one against a shared queue.
type Worker struct {
	id              string
	queue           adapter.EmailQueueRepository
	sender          adapter.EmailSender
	renderer        *templates.Renderer
	clock           adapter.Clock
	pollInterval    time.Duration
	batchSize       int
	cleanupInterval time.Duration
	retention       time.Duration
	claimTimeout    time.Duration
}

// WorkerConfig tunes polling and housekeeping.
type WorkerConfig struct {
	PollInterval    time.Duration
	BatchSize       int
	CleanupInterval time.Duration
	Retention       time.Duration // how long sent jobs are kept
	ClaimTimeout    time.Duration // after this a processing job is presumed abandoned
}

// DefaultWorkerConfig returns the settings used for zero config fields.
func DefaultWorkerConfig() WorkerConfig {
	return WorkerConfig{
		PollInterval:    5 * time.Second,
		BatchSize:       10,
		CleanupInterval: time.Hour,
		Retention:       30 * 24 * time.Hour,
		ClaimTimeout:    5 * time.Minute,
	}
}

func (c WorkerConfig) withDefaults() WorkerConfig {
	d := DefaultWorkerConfig()
	if c.PollInterval <= 0 {
		c.PollInterval = d.PollInterval
	}
	if c.BatchSize <= 0 {
		c.BatchSize = d.BatchSize
	}
	if c.CleanupInterval <= 0 {
		c.CleanupInterval = d.CleanupInterval
	}
	if c.Retention <= 0 {
		c.Retention = d.Retention
	}
	if c.ClaimTimeout <= 0 {
		c.ClaimTimeout = d.ClaimTimeout
	}
	return c
}

// NewWorker creates an email worker with a fresh claim id.
func NewWorker(queue adapter.EmailQueueRepository, sender adapter.EmailSender, renderer *templates.Renderer, clock adapter.Clock, config WorkerConfig) *Worker {
	config = config.withDefaults()
	return &Worker{
		id:              uuid.NewString(),
		queue:           queue,
		sender:          sender,
		renderer:        renderer,
		clock:           clock,
		pollInterval:    config.PollInterval,
		batchSize:       config.BatchSize,
		cleanupInterval: config.CleanupInterval,
		retention:       config.Retention,
		claimTimeout:    config.ClaimTimeout,
	}
}

// Start polls the queue until ctx is cancelled.
func (w *Worker) Start(ctx context.Context) {
	slog.Info("Email worker started",
		"worker_id", w.id,
		"poll_interval", w.pollInterval,
		"batch_size", w.batchSize,
	)

	poll := time.NewTicker(w.pollInterval)
	defer poll.Stop()
	housekeeping := time.NewTicker(w.cleanupInterval)
	defer housekeeping.Stop()

	w.housekeep(ctx)
	w.drain(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Email worker shutting down", "worker_id", w.id)
			return
		case <-poll.C:
			w.drain(ctx)
		case <-housekeeping.C:
			w.housekeep(ctx)
		}
	}
}

// ProcessNow delivers everything currently due. Tests call it instead of Start.
func (w *Worker) ProcessNow(ctx context.Context) {
	w.drain(ctx)
}

// drain claims and delivers one batch of due jobs.
func (w *Worker) drain(ctx context.Context) {
	jobs, err := w.queue.ClaimDue(ctx, w.id, w.clock.Now(), w.batchSize)
	if err != nil {
		slog.Error("Failed to claim due email jobs", "worker_id", w.id, "error", err)
		return
	}
	if len(jobs) == 0 {
		return
	}

	slog.Debug("Delivering email batch", "worker_id", w.id, "count", len(jobs))
	for _, job := range jobs {
		if ctx.Err() != nil {
			// unsent claims are released by the next RequeueStale
			return
		}
		w.deliver(ctx, job)
	}
}

// deliver renders and sends one claimed job, then stores the outcome.
func (w *Worker) deliver(ctx context.Context, job *entity.EmailJob) {
	logger := slog.With(
		"job_id", job.ID,
		"template", job.TemplateType,
		"user_id", job.UserID,
	)

	msg, err := w.render(job)
	if err == nil {
		var result *adapter.SendEmailResult
		result, err = w.sender.Send(ctx, adapter.SendEmailInput{
			To:      job.RecipientEmail,
			Name:    job.RecipientName,
			Subject: job.Subject,
			HTML:    msg.HTML,
			Text:    msg.Text,
			Tags: map[string]string{
				"template": string(job.TemplateType),
				"job_id":   job.ID.String(),
			},
		})
		if err == nil {
			job.MarkSent(result.ProviderID, w.clock.Now())
		}
	}

	if err != nil {
		job.MarkFailed(err, domainerror.IsPermanentEmailFailure(err), w.clock.Now())
	}

	saved, saveErr := w.queue.Save(ctx, w.id, job)
	if saveErr != nil {
		logger.Error("Failed to store email job outcome", "status", job.Status, "error", saveErr)
		return
	}
	if !saved {
		logger.Warn("Email job claim lost, outcome discarded", "worker_id", w.id, "status", job.Status)
		return
	}

	switch job.Status {
	case entity.EmailStatusSent:
		logger.Info("Email sent successfully", "provider_id", job.ProviderID)
	case entity.EmailStatusFailed:
		logger.Warn("Email job permanently failed", "attempts", job.Attempts, "last_error", job.LastError)
	default:
		logger.Info("Email job scheduled for retry", "attempts", job.Attempts, "scheduled_at", job.ScheduledAt, "error", err)
	}
}

// render builds the message body for job.
func (w *Worker) render(job *entity.EmailJob) (templates.Message, error) {
	name := string(job.TemplateType)
	if !w.renderer.Has(name) {
		return templates.Message{}, domainerror.NewEmailError(
			domainerror.ErrCodeInvalidTemplate,
			"unknown template type "+name,
			domainerror.ErrInvalidTemplate,
		)
	}

	var data any = job.TemplateData
	if job.TemplateType == entity.TemplateBudgetAlert {
		data = templates.BudgetAlertFromFields(job.TemplateData)
	}

	msg, err := w.renderer.Render(name, data)
	if err != nil {
		return templates.Message{}, domainerror.NewEmailError(
			domainerror.ErrCodeTemplateRenderFailed,
			"failed to render email template",
			err,
		)
	}
	return msg, nil
}

// housekeep releases abandoned claims and drops old sent jobs.
func (w *Worker) housekeep(ctx context.Context) {
	now := w.clock.Now()

	released, err := w.queue.RequeueStale(ctx, now.Add(-w.claimTimeout))
	if err != nil {
		slog.Error("Failed to requeue stale email jobs", "error", err)
	} else if released > 0 {
		slog.Warn("Requeued abandoned email jobs", "count", released)
	}

	removed, err := w.queue.PurgeSent(ctx, now.Add(-w.retention))
	if err != nil {
		slog.Error("Failed to purge sent email jobs", "error", err)
	} else if removed > 0 {
		slog.Info("Purged sent email jobs", "count", removed)
	}
}
