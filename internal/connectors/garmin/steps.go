package garmin

import (
	"context"
	"fmt"

	"github.com/openfit-labs/fitsync-cli/internal/core/domain"
	"github.com/openfit-labs/fitsync-cli/internal/core/ports/driven"
	"github.com/openfit-labs/fitsync-cli/internal/logger"
)

var _ driven.Fetcher = (*StepsFetcher)(nil)

// StepsFetcher pulls daily step totals for a window in one range request.
type StepsFetcher struct {
	client *Client
}

// NewStepsFetcher creates a steps fetcher backed by client.
func NewStepsFetcher(client *Client) *StepsFetcher {
	return &StepsFetcher{client: client}
}

// Kind implements driven.Fetcher.
func (f *StepsFetcher) Kind() domain.Kind { return domain.KindSteps }

type stepsPayload struct {
	CalendarDate  string `json:"calendarDate"`
	Values        struct {
		TotalSteps    int     `json:"totalSteps"`
		StepGoal      int     `json:"stepGoal"`
		TotalDistance float64 `json:"totalDistance"`
	} `json:"values"`
}

// Fetch implements driven.Fetcher. Days without any recorded steps are
// dropped rather than written as zero rows.
func (f *StepsFetcher) Fetch(ctx context.Context, window domain.Window) ([]domain.Record, error) {
	path := fmt.Sprintf("%s/%s/%s", stepsPath, window.StartDate(), window.EndDate())

	var payload []stepsPayload
	if err := f.client.getJSON(ctx, path, nil, &payload); err != nil {
		return nil, fmt.Errorf("fetch daily steps: %w", err)
	}

	var records []domain.Record
	for _, day := range payload {
		if day.Values.TotalSteps == 0 {
			continue
		}
		records = append(records, domain.DailySteps{
			Date:           day.CalendarDate,
			TotalSteps:     day.Values.TotalSteps,
			StepGoal:       day.Values.StepGoal,
			DistanceMeters: day.Values.TotalDistance,
		})
	}
	logger.Debug("Fetched steps for %d of %d days", len(records), window.Days())
	return records, nil
}
