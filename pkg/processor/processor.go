// Package processor runs the check-in aggregation pipeline: bulk enrichment
// fetches, the per-item skip policy, enrichment, results-string encoding, and
// month-bucketed concatenation.
package processor

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	shared "github.com/ripixel/checkin-server/pkg"
	"github.com/ripixel/checkin-server/pkg/infrastructure/sentry"
	"github.com/ripixel/checkin-server/pkg/models"
)

// ActivityService fetches activity samples for a date range. Implementations
// must degrade to an empty result set on failure, never error: the skip
// policy depends on "no data" being an ordinary outcome.
type ActivityService interface {
	GetActivityData(ctx context.Context, startDate, endDate string) []models.Activity
}

// HealthService fetches weight samples for a date range, with the same
// degrade-to-empty contract as ActivityService.
type HealthService interface {
	GetWeightData(ctx context.Context, startDate, endDate string) []models.Weight
}

// ChecklistSource hands out a consistent checklist snapshot per pipeline run.
type ChecklistSource interface {
	Snapshot() models.Checklist
}

// Options control a single pipeline run.
type Options struct {
	// ConcatResults folds results into one gap-filled row per month.
	ConcatResults bool
	// ForceProcessing bypasses the skip policy entirely.
	ForceProcessing bool
	// Delimiter joins day tokens when concatenating; empty means "|".
	Delimiter string
}

// Processor is the check-in queue processor.
type Processor struct {
	lists    ChecklistSource
	activity ActivityService
	health   HealthService
	repo     shared.Repository
	logger   *slog.Logger
}

func New(lists ChecklistSource, activity ActivityService, health HealthService, repo shared.Repository, logger *slog.Logger) *Processor {
	return &Processor{
		lists:    lists,
		activity: activity,
		health:   health,
		repo:     repo,
		logger:   logger.With("component", "processor"),
	}
}

// ProcessQueue runs one batch through the pipeline and returns best-effort
// results plus the items that were skipped or failed. A batch never fails as
// a whole: per-item problems drop that item into the unprocessed list.
func (p *Processor) ProcessQueue(ctx context.Context, queue []models.CheckinItem, opts Options) *models.CheckinResponse {
	started := time.Now()
	logger := p.logger.With("run_id", uuid.NewString())

	if len(queue) == 0 {
		return models.NewCheckinResponse(nil, nil)
	}

	lists := p.lists.Snapshot()

	sort.SliceStable(queue, func(i, j int) bool {
		return queue[i].CheckinFields.Date < queue[j].CheckinFields.Date
	})
	startDate := queue[0].CheckinFields.Date
	endDate := queue[len(queue)-1].CheckinFields.Date

	weightData, activityData := p.fetchEnrichmentData(ctx, queue, lists, startDate, endDate)

	var results []models.CheckinResult
	var unprocessed []models.CheckinItem
	for _, item := range queue {
		itemLogger := logger.With("date", item.CheckinFields.Date)

		if !opts.ForceProcessing && p.shouldSkip(item, weightData, activityData, lists.TrackedActivities, itemLogger) {
			unprocessed = append(unprocessed, item)
			continue
		}

		item.UpdateTimeInBed()
		item.UpdateWeightData(weightData)
		item.ProcessActivityData(activityData, lists.TrackedActivities)

		resultsString, err := item.BuildResultsString(lists.FullChecklist)
		if err != nil {
			itemLogger.Error("Error building results string", "error", err)
			unprocessed = append(unprocessed, item)
			continue
		}

		if err := p.repo.SaveCheckinItem(ctx, &item); err != nil {
			// Partial success: the result still goes back to the caller.
			itemLogger.Error("Error persisting finalized check-in item", "error", err)
			sentry.CaptureException(err, map[string]interface{}{"date": item.CheckinFields.Date}, itemLogger)
		}

		if extra := keysMissingFromChecklist(item.FormResponse, lists.FullChecklist); len(extra) > 0 {
			itemLogger.Info("Form response keys not in full checklist", "keys", extra)
		}

		results = append(results, models.NewCheckinResult(item.CheckinFields, resultsString))
		itemLogger.Info("Results string built", "results_string", resultsString)
	}

	logger.Info("Queue processed",
		"processed", len(results),
		"skipped", len(unprocessed),
		"elapsed_ms", time.Since(started).Milliseconds())

	if opts.ConcatResults {
		results = ConcatenateResults(results, opts.Delimiter)
	}

	return models.NewCheckinResponse(results, unprocessed)
}

// fetchEnrichmentData makes at most one bulk call per data source for the
// whole batch, skipping a source when no item needs it. The two fetches are
// independent and run concurrently.
func (p *Processor) fetchEnrichmentData(
	ctx context.Context,
	queue []models.CheckinItem,
	lists models.Checklist,
	startDate, endDate string,
) ([]models.Weight, []models.Activity) {
	needWeight := false
	for _, item := range queue {
		if item.GetWeight {
			needWeight = true
			break
		}
	}

	needActivities := false
	for _, item := range queue {
		if len(trackedKeys(item.FormResponse, lists.TrackedActivities)) > 0 {
			needActivities = true
			break
		}
	}

	var weightData []models.Weight
	var activityData []models.Activity

	done := make(chan struct{})
	if needActivities {
		go func() {
			defer close(done)
			activityData = p.activity.GetActivityData(ctx, startDate, endDate)
		}()
	} else {
		close(done)
	}

	if needWeight {
		weightData = p.health.GetWeightData(ctx, startDate, endDate)
	}
	<-done

	return weightData, activityData
}

// ProcessSavedResults re-reads previously finalized items for the given dates
// and re-encodes them against the current checklist. Dates with no stored
// item are reported and skipped.
func (p *Processor) ProcessSavedResults(ctx context.Context, dates []string, opts Options) *models.CheckinResponse {
	logger := p.logger.With("run_id", uuid.NewString())

	known, err := p.repo.GetAllCheckinDates(ctx)
	if err != nil {
		logger.Error("Error listing stored check-in dates", "error", err)
		return models.NewCheckinResponse(nil, nil)
	}
	knownSet := make(map[string]bool, len(known))
	for _, d := range known {
		knownSet[d] = true
	}

	var missing, valid []string
	for _, d := range dates {
		if knownSet[d] {
			valid = append(valid, d)
		} else {
			missing = append(missing, d)
		}
	}
	if len(missing) > 0 {
		logger.Error("No stored results for requested dates", "dates", missing)
	}
	sort.Strings(valid)

	lists := p.lists.Snapshot()

	var results []models.CheckinResult
	for _, date := range valid {
		item, err := p.repo.GetCheckinItem(ctx, date)
		if err != nil {
			logger.Error("Error retrieving stored check-in item", "date", date, "error", err)
			continue
		}

		resultsString, err := item.BuildResultsString(lists.FullChecklist)
		if err != nil {
			logger.Error("Error building results string", "date", date, "error", err)
			continue
		}

		results = append(results, models.NewCheckinResult(item.CheckinFields, resultsString))
		logger.Info("Results string built", "date", date, "results_string", resultsString)
	}

	if opts.ConcatResults {
		results = ConcatenateResults(results, opts.Delimiter)
	}

	return models.NewCheckinResponse(results, nil)
}

// shouldSkip decides whether an item is complete enough to finalize, in
// order: the morning check-in marker must be present; an item that asked for
// weight needs a matching-date weight sample; an item reporting tracked
// activities needs a matching-date activity sample. First failure wins.
func (p *Processor) shouldSkip(
	item models.CheckinItem,
	weightData []models.Weight,
	activityData []models.Activity,
	trackedActivities []string,
	logger *slog.Logger,
) bool {
	if _, ok := item.FormResponse[models.KeyFeelWellRested]; !ok {
		logger.Info("Morning check-in not completed, skipping")
		return true
	}

	if item.GetWeight && !hasWeightForDate(weightData, item.CheckinFields.Date) {
		logger.Warn("getWeight flag set but no matching weight data found, skipping")
		return true
	}

	tracked := trackedKeys(item.FormResponse, trackedActivities)
	if len(tracked) > 0 && !hasActivityForDate(activityData, item.CheckinFields.Date) {
		logger.Warn("Tracked activities reported but no activity data found, skipping",
			"activities", tracked)
		return true
	}

	return false
}

func hasWeightForDate(weightData []models.Weight, date string) bool {
	for _, w := range weightData {
		if w.Date == date {
			return true
		}
	}
	return false
}

func hasActivityForDate(activityData []models.Activity, date string) bool {
	for _, a := range activityData {
		if a.Date == date {
			return true
		}
	}
	return false
}

// trackedKeys returns the form-response keys that are tracked activities, in
// tracked-list order.
func trackedKeys(formResponse map[string]string, trackedActivities []string) []string {
	var keys []string
	for _, activity := range trackedActivities {
		if _, ok := formResponse[activity]; ok {
			keys = append(keys, activity)
		}
	}
	return keys
}

// keysMissingFromChecklist returns form-response keys with no checklist
// column. They still encode nothing but are worth surfacing.
func keysMissingFromChecklist(formResponse map[string]string, fullChecklist []string) []string {
	inChecklist := make(map[string]bool, len(fullChecklist))
	for _, key := range fullChecklist {
		inChecklist[key] = true
	}

	var missing []string
	for key := range formResponse {
		if !inChecklist[key] {
			missing = append(missing, key)
		}
	}
	sort.Strings(missing)
	return missing
}
