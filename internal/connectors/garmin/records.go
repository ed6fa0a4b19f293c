package garmin

import (
	"context"
	"fmt"
	"time"

	"github.com/openfit-labs/fitsync-cli/internal/core/domain"
	"github.com/openfit-labs/fitsync-cli/internal/core/ports/driven"
	"github.com/openfit-labs/fitsync-cli/internal/logger"
)

var _ driven.Fetcher = (*RecordsFetcher)(nil)

// RecordsFetcher pulls the account's current personal records. The
// endpoint returns the full set regardless of window; the window only
// bounds the other kinds, so it is ignored here.
type RecordsFetcher struct {
	client *Client
}

// NewRecordsFetcher creates a personal-records fetcher backed by client.
func NewRecordsFetcher(client *Client) *RecordsFetcher {
	return &RecordsFetcher{client: client}
}

// Kind implements driven.Fetcher.
func (f *RecordsFetcher) Kind() domain.Kind { return domain.KindRecords }

type recordPayload struct {
	TypeID                   int     `json:"typeId"`
	Value                    float64 `json:"value"`
	ActivityID               int64   `json:"activityId"`
	ActivityStartDateTimeGMT string  `json:"activityStartDateTimeLocal"`
}

// Fetch implements driven.Fetcher.
func (f *RecordsFetcher) Fetch(ctx context.Context, _ domain.Window) ([]domain.Record, error) {
	var payload []recordPayload
	if err := f.client.getJSON(ctx, recordsPath, nil, &payload); err != nil {
		return nil, fmt.Errorf("fetch personal records: %w", err)
	}

	var records []domain.Record
	for _, p := range payload {
		when, _ := time.ParseInLocation("2006-01-02 15:04:05", p.ActivityStartDateTimeGMT, time.Local)
		records = append(records, domain.PersonalRecord{
			TypeID:     p.TypeID,
			Value:      p.Value,
			ActivityID: p.ActivityID,
			When:       when,
		})
	}
	logger.Debug("Fetched %d personal records", len(records))
	return records, nil
}
