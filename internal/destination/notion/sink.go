package notion

import (
	"context"
	"fmt"
	"time"

	"github.com/jomei/notionapi"

	"github.com/openfit-labs/fitsync-cli/internal/core/domain"
	"github.com/openfit-labs/fitsync-cli/internal/core/ports/driven"
	"github.com/openfit-labs/fitsync-cli/internal/logger"
)

// queryPageSize is the API's maximum page size for database queries.
const queryPageSize = 100

// KeyMode says where a database stores its natural keys, which decides how
// the index extracts them from stored pages.
type KeyMode int

const (
	// KeyFromTags reads every tag of a multi-select property. A page may
	// carry several keys, for example a workout recorded by both the watch
	// and the phone app.
	KeyFromTags KeyMode = iota
	// KeyFromDate reads a date property's start formatted as YYYY-MM-DD.
	KeyFromDate
	// KeyFromText reads a plain text property verbatim.
	KeyFromText
	// KeyFromTitle reads the page title verbatim.
	KeyFromTitle
	// KeyFromTitleDate combines a date property and the page title as
	// "YYYY-MM-DD/<title>". Used for per-exercise progress rows, which have
	// no single identifying property.
	KeyFromTitleDate
)

// SinkConfig binds one data kind to one database.
type SinkConfig struct {
	// DatabaseID is the destination database.
	DatabaseID string
	// KeyProp is the property holding natural keys. Transformers write the
	// key through this property; the index reads it back.
	KeyProp string
	// KeyMode says how keys are stored in KeyProp.
	KeyMode KeyMode
	// DateProp is the date property combined with the title under
	// KeyFromTitleDate. Unused otherwise.
	DateProp string
	// TitleProp is the database's title property name. Defaults to "Name".
	TitleProp string
}

func (c SinkConfig) titleProp() string {
	if c.TitleProp == "" {
		return "Name"
	}
	return c.TitleProp
}

var _ driven.Sink = (*Sink)(nil)

// Sink writes entries into one Notion database.
type Sink struct {
	client *notionapi.Client
	cfg    SinkConfig
}

// NewSink creates a sink for the database described by cfg.
func NewSink(client *notionapi.Client, cfg SinkConfig) *Sink {
	return &Sink{client: client, cfg: cfg}
}

// Index implements driven.Sink. It scans the whole database once; a page
// without a readable key is ignored rather than treated as an error, since
// people keep hand-made pages in these databases too.
func (s *Sink) Index(ctx context.Context) (map[string]domain.Existing, error) {
	index := make(map[string]domain.Existing)

	var cursor notionapi.Cursor
	for {
		resp, err := s.client.Database.Query(ctx, notionapi.DatabaseID(s.cfg.DatabaseID),
			&notionapi.DatabaseQueryRequest{
				StartCursor: cursor,
				PageSize:    queryPageSize,
			})
		if err != nil {
			return nil, fmt.Errorf("%w: query database %s: %v", domain.ErrUpstream, s.cfg.DatabaseID, err)
		}

		for _, page := range resp.Results {
			existing := domain.Existing{
				ID:    page.ID.String(),
				Props: fromProperties(page.Properties),
			}
			for _, key := range s.keysOf(page) {
				index[key] = existing
			}
		}

		if !resp.HasMore {
			break
		}
		cursor = resp.NextCursor
	}

	logger.Debug("Indexed %d keys from database %s", len(index), s.cfg.DatabaseID)
	return index, nil
}

// keysOf extracts the natural keys stored on a page.
func (s *Sink) keysOf(page notionapi.Page) []string {
	if s.cfg.KeyMode == KeyFromTitleDate {
		tp, ok := page.Properties[s.cfg.titleProp()].(*notionapi.TitleProperty)
		if !ok {
			return nil
		}
		title := plainText(tp.Title)
		dp, ok := page.Properties[s.cfg.DateProp].(*notionapi.DateProperty)
		if !ok || dp.Date == nil || dp.Date.Start == nil || title == "" {
			return nil
		}
		date := time.Time(*dp.Date.Start).Format("2006-01-02")
		return []string{date + "/" + title}
	}

	prop, ok := page.Properties[s.cfg.KeyProp]
	if !ok {
		return nil
	}
	switch s.cfg.KeyMode {
	case KeyFromTags:
		ms, ok := prop.(*notionapi.MultiSelectProperty)
		if !ok {
			return nil
		}
		keys := make([]string, 0, len(ms.MultiSelect))
		for _, opt := range ms.MultiSelect {
			if opt.Name != "" {
				keys = append(keys, opt.Name)
			}
		}
		return keys
	case KeyFromDate:
		dp, ok := prop.(*notionapi.DateProperty)
		if !ok || dp.Date == nil || dp.Date.Start == nil {
			return nil
		}
		return []string{time.Time(*dp.Date.Start).Format("2006-01-02")}
	case KeyFromText:
		rt, ok := prop.(*notionapi.RichTextProperty)
		if !ok {
			return nil
		}
		if key := plainText(rt.RichText); key != "" {
			return []string{key}
		}
		return nil
	case KeyFromTitle:
		tp, ok := prop.(*notionapi.TitleProperty)
		if !ok {
			return nil
		}
		if key := plainText(tp.Title); key != "" {
			return []string{key}
		}
		return nil
	default:
		return nil
	}
}

// Create implements driven.Sink.
func (s *Sink) Create(ctx context.Context, entry domain.Entry) (string, error) {
	page, err := s.client.Page.Create(ctx, &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: notionapi.DatabaseID(s.cfg.DatabaseID),
		},
		Properties: toProperties(entry, s.cfg.titleProp()),
		Children:   toBlocks(entry.Content),
		Icon:       externalIcon(entry.IconURL),
	})
	if err != nil {
		return "", fmt.Errorf("%w: create %s: %v", domain.ErrSink, entry.Key, err)
	}
	return page.ID.String(), nil
}

// Update implements driven.Sink.
func (s *Sink) Update(ctx context.Context, id string, entry domain.Entry) error {
	_, err := s.client.Page.Update(ctx, notionapi.PageID(id), &notionapi.PageUpdateRequest{
		Properties: toProperties(entry, s.cfg.titleProp()),
		Icon:       externalIcon(entry.IconURL),
	})
	if err != nil {
		return fmt.Errorf("%w: update %s: %v", domain.ErrSink, entry.Key, err)
	}
	if len(entry.Content) > 0 {
		if err := replaceChildren(ctx, s.client, id, entry.Content); err != nil {
			return fmt.Errorf("%w: rebuild %s: %v", domain.ErrSink, entry.Key, err)
		}
	}
	return nil
}
