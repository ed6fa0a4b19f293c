package garmin

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/openfit-labs/fitsync-cli/internal/core/domain"
	"github.com/openfit-labs/fitsync-cli/internal/core/ports/driven"
	"github.com/openfit-labs/fitsync-cli/internal/logger"
)

var _ driven.Fetcher = (*ActivityFetcher)(nil)

// ActivityFetcher lists activities within a window, paging through the
// activity search endpoint until a short page signals the end.
type ActivityFetcher struct {
	client *Client
}

// NewActivityFetcher creates an activity fetcher backed by client.
func NewActivityFetcher(client *Client) *ActivityFetcher {
	return &ActivityFetcher{client: client}
}

// Kind implements driven.Fetcher.
func (f *ActivityFetcher) Kind() domain.Kind { return domain.KindActivities }

// activityPayload mirrors the fields we read from one activity in the
// search response.
type activityPayload struct {
	ActivityID   int64  `json:"activityId"`
	ActivityName string `json:"activityName"`
	ActivityType struct {
		TypeKey string `json:"typeKey"`
	} `json:"activityType"`
	StartTimeLocal          string  `json:"startTimeLocal"`
	Duration                float64 `json:"duration"`
	Distance                float64 `json:"distance"`
	Calories                float64 `json:"calories"`
	AverageSpeed            float64 `json:"averageSpeed"`
	AvgPower                float64 `json:"avgPower"`
	MaxPower                float64 `json:"maxPower"`
	AerobicTrainingEffect   float64 `json:"aerobicTrainingEffect"`
	AnaerobicTrainingEffect float64 `json:"anaerobicTrainingEffect"`
	TrainingEffectLabel     string  `json:"trainingEffectLabel"`
	PR                      bool    `json:"pr"`
}

// Fetch implements driven.Fetcher.
func (f *ActivityFetcher) Fetch(ctx context.Context, window domain.Window) ([]domain.Record, error) {
	var records []domain.Record
	for start := 0; ; start += activityPageSize {
		query := url.Values{}
		query.Set("startDate", window.StartDate())
		query.Set("endDate", window.EndDate())
		query.Set("start", strconv.Itoa(start))
		query.Set("limit", strconv.Itoa(activityPageSize))

		var page []activityPayload
		if err := f.client.getJSON(ctx, activitiesPath, query, &page); err != nil {
			return nil, fmt.Errorf("fetch activities: %w", err)
		}

		for _, p := range page {
			records = append(records, toActivity(p))
		}
		if len(page) < activityPageSize {
			break
		}
	}
	logger.Debug("Fetched %d activities between %s and %s",
		len(records), window.StartDate(), window.EndDate())
	return records, nil
}

func toActivity(p activityPayload) domain.Activity {
	startLocal, err := time.ParseInLocation("2006-01-02 15:04:05", p.StartTimeLocal, time.Local)
	if err != nil {
		logger.Warn("Activity %d has unparseable start time %q", p.ActivityID, p.StartTimeLocal)
	}
	return domain.Activity{
		ActivityID:      p.ActivityID,
		Name:            p.ActivityName,
		TypeKey:         p.ActivityType.TypeKey,
		StartLocal:      startLocal,
		DurationSec:     p.Duration,
		DistanceMeters:  p.Distance,
		Calories:        p.Calories,
		AvgSpeedMPS:     p.AverageSpeed,
		AvgPowerWatts:   p.AvgPower,
		MaxPowerWatts:   p.MaxPower,
		AerobicEffect:   p.AerobicTrainingEffect,
		AnaerobicEffect: p.AnaerobicTrainingEffect,
		TrainingEffect:  p.TrainingEffectLabel,
		PersonalRecord:  p.PR,
	}
}
