package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/rafaeldtavares/juristrack-backend/internal/notifications"
	"github.com/rafaeldtavares/juristrack-backend/pkg/db/models"
	"github.com/rafaeldtavares/juristrack-backend/pkg/enums"
	"github.com/rafaeldtavares/juristrack-backend/pkg/logger"
)

const (
	defaultRefreshLimit     = 500
	defaultRefreshStaleness = time.Hour
)

// ProcessRefreshJobParams configures the favorited-process refresh job.
type ProcessRefreshJobParams struct {
	Logger        *logger.Logger
	FavoritesRepo favoritesWatchRepo
	ProcessRepo   processWatchRepo
	Refresher     processRefresher
	Notifier      notificationSender
	Limit         int
	Staleness     time.Duration
	Now           func() time.Time
}

type favoritesWatchRepo interface {
	FavoritedProcessIDs(ctx context.Context, limit int) ([]uuid.UUID, error)
	UserIDsForProcess(ctx context.Context, processID uuid.UUID) ([]uuid.UUID, error)
}

type processWatchRepo interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.ProcessRecord, error)
	CountMovements(ctx context.Context, processID uuid.UUID) (int64, error)
}

type processRefresher interface {
	Refresh(ctx context.Context, record *models.ProcessRecord) (*models.ProcessRecord, error)
}

type notificationSender interface {
	Notify(ctx context.Context, input notifications.NotifyInput) (*models.Notification, error)
}

// NewProcessRefreshJob builds the cron job that re-syncs favorited processes
// and alerts their watchers about new movements or status changes.
func NewProcessRefreshJob(params ProcessRefreshJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.FavoritesRepo == nil {
		return nil, fmt.Errorf("favorites repository required")
	}
	if params.ProcessRepo == nil {
		return nil, fmt.Errorf("process repository required")
	}
	if params.Refresher == nil {
		return nil, fmt.Errorf("refresher required")
	}
	if params.Notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	limit := params.Limit
	if limit <= 0 {
		limit = defaultRefreshLimit
	}
	staleness := params.Staleness
	if staleness <= 0 {
		staleness = defaultRefreshStaleness
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &processRefreshJob{
		logg:      params.Logger,
		favorites: params.FavoritesRepo,
		processes: params.ProcessRepo,
		refresher: params.Refresher,
		notifier:  params.Notifier,
		limit:     limit,
		staleness: staleness,
		now:       now,
	}, nil
}

type processRefreshJob struct {
	logg      *logger.Logger
	favorites favoritesWatchRepo
	processes processWatchRepo
	refresher processRefresher
	notifier  notificationSender
	limit     int
	staleness time.Duration
	now       func() time.Time
}

func (j *processRefreshJob) Name() string { return "process-refresh" }

func (j *processRefreshJob) Run(ctx context.Context) error {
	logCtx := j.logg.WithField(ctx, "job", j.Name())

	ids, err := j.favorites.FavoritedProcessIDs(logCtx, j.limit)
	if err != nil {
		return fmt.Errorf("list favorited processes: %w", err)
	}
	if len(ids) == 0 {
		j.logg.Info(logCtx, "no favorited processes to refresh")
		return nil
	}

	records, err := j.processes.FindByIDs(logCtx, ids)
	if err != nil {
		return fmt.Errorf("load favorited processes: %w", err)
	}

	var errs error
	refreshed := 0
	notified := 0
	for i := range records {
		record := &records[i]
		if !j.isStale(record) {
			continue
		}
		count, err := j.refreshOne(logCtx, record)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("refresh process %s: %w", record.ProcessNumber, err))
			continue
		}
		refreshed++
		notified += count
	}

	reportCtx := j.logg.WithFields(logCtx, map[string]any{
		"favorited": len(records),
		"refreshed": refreshed,
		"notified":  notified,
	})
	j.logg.Info(reportCtx, "process refresh loop complete")
	return errs
}

func (j *processRefreshJob) isStale(record *models.ProcessRecord) bool {
	return record.LastSyncAt == nil || j.now().Sub(*record.LastSyncAt) > j.staleness
}

// refreshOne re-syncs a single record and returns how many notifications it
// raised. Notification failures are logged and skipped; missing one alert is
// better than aborting the refresh of everything else.
func (j *processRefreshJob) refreshOne(ctx context.Context, record *models.ProcessRecord) (int, error) {
	logCtx := j.logg.WithProcessNumber(ctx, record.ProcessNumber)

	before, err := j.processes.CountMovements(logCtx, record.ID)
	if err != nil {
		return 0, fmt.Errorf("count movements: %w", err)
	}
	previousStatus := ""
	if record.Status != nil {
		previousStatus = *record.Status
	}

	refreshed, err := j.refresher.Refresh(logCtx, record)
	if err != nil {
		return 0, err
	}

	after, err := j.processes.CountMovements(logCtx, refreshed.ID)
	if err != nil {
		return 0, fmt.Errorf("count movements: %w", err)
	}

	notified := 0
	if after > before {
		notified += j.notifyWatchers(logCtx, refreshed, notifications.NotifyInput{
			Type:    enums.NotificationTypeMovement,
			Title:   "Nova movimentação processual",
			Message: fmt.Sprintf("O processo %s teve %d nova(s) movimentação(ões).", refreshed.ProcessNumber, after-before),
		})
	}

	currentStatus := ""
	if refreshed.Status != nil {
		currentStatus = *refreshed.Status
	}
	if currentStatus != previousStatus && currentStatus != "" {
		notified += j.notifyWatchers(logCtx, refreshed, notifications.NotifyInput{
			Type:    enums.NotificationTypeStatusChange,
			Title:   "Situação do processo atualizada",
			Message: fmt.Sprintf("O processo %s mudou de situação para: %s.", refreshed.ProcessNumber, currentStatus),
		})
	}
	return notified, nil
}

func (j *processRefreshJob) notifyWatchers(ctx context.Context, record *models.ProcessRecord, input notifications.NotifyInput) int {
	watchers, err := j.favorites.UserIDsForProcess(ctx, record.ID)
	if err != nil {
		j.logg.Warn(ctx, fmt.Sprintf("listing watchers failed: %v", err))
		return 0
	}

	sent := 0
	for _, userID := range watchers {
		notice := input
		notice.UserID = userID
		processID := record.ID
		notice.ProcessID = &processID
		if _, err := j.notifier.Notify(ctx, notice); err != nil {
			j.logg.Warn(ctx, fmt.Sprintf("notifying watcher %s failed: %v", userID, err))
			continue
		}
		sent++
	}
	return sent
}
