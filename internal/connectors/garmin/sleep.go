package garmin

import (
	"context"
	"fmt"
	"time"

	"github.com/openfit-labs/fitsync-cli/internal/core/domain"
	"github.com/openfit-labs/fitsync-cli/internal/core/ports/driven"
	"github.com/openfit-labs/fitsync-cli/internal/logger"
)

var _ driven.Fetcher = (*SleepFetcher)(nil)

// SleepFetcher pulls nightly sleep summaries for a window in one range
// request.
type SleepFetcher struct {
	client *Client
}

// NewSleepFetcher creates a sleep fetcher backed by client.
func NewSleepFetcher(client *Client) *SleepFetcher {
	return &SleepFetcher{client: client}
}

// Kind implements driven.Fetcher.
func (f *SleepFetcher) Kind() domain.Kind { return domain.KindSleep }

type sleepPayload struct {
	CalendarDate string `json:"calendarDate"`
	Values       struct {
		SleepStartGMT   string `json:"sleepStartTimestampGMT"`
		SleepEndGMT     string `json:"sleepEndTimestampGMT"`
		TotalSleepSec   int    `json:"totalSleepSeconds"`
		DeepSleepSec    int    `json:"deepSleepSeconds"`
		LightSleepSec   int    `json:"lightSleepSeconds"`
		RemSleepSec     int    `json:"remSleepSeconds"`
		AwakeSec        int    `json:"awakeSleepSeconds"`
		SleepScore      int    `json:"sleepScore"`
	} `json:"values"`
}

// Fetch implements driven.Fetcher. Nights without sleep data (watch not
// worn) are dropped.
func (f *SleepFetcher) Fetch(ctx context.Context, window domain.Window) ([]domain.Record, error) {
	path := fmt.Sprintf("%s/%s/%s", sleepPath, window.StartDate(), window.EndDate())

	var payload []sleepPayload
	if err := f.client.getJSON(ctx, path, nil, &payload); err != nil {
		return nil, fmt.Errorf("fetch sleep: %w", err)
	}

	var records []domain.Record
	for _, night := range payload {
		if night.Values.TotalSleepSec == 0 {
			continue
		}
		records = append(records, domain.SleepEntry{
			Date:     night.CalendarDate,
			BedTime:  parseGMT(night.Values.SleepStartGMT),
			WakeTime: parseGMT(night.Values.SleepEndGMT),
			TotalSec: night.Values.TotalSleepSec,
			DeepSec:  night.Values.DeepSleepSec,
			LightSec: night.Values.LightSleepSec,
			RemSec:   night.Values.RemSleepSec,
			AwakeSec: night.Values.AwakeSec,
			Score:    night.Values.SleepScore,
		})
	}
	logger.Debug("Fetched sleep for %d of %d nights", len(records), window.Days())
	return records, nil
}

// parseGMT reads Garmin's GMT timestamps ("2006-01-02T15:04:05.0"). A
// missing or malformed value yields the zero time, which the transformer
// renders as an empty date.
func parseGMT(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse("2006-01-02T15:04:05.0", s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}
