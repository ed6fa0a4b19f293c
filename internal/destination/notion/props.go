package notion

import (
	"strings"
	"time"

	"github.com/jomei/notionapi"

	"github.com/openfit-labs/fitsync-cli/internal/core/domain"
)

// toProperties converts an entry's title and tracked values into the
// request property map. titleProp is the database's title property name.
func toProperties(entry domain.Entry, titleProp string) notionapi.Properties {
	props := notionapi.Properties{
		titleProp: notionapi.TitleProperty{
			Title: richText(entry.Title, false),
		},
	}
	for name, value := range entry.Props {
		props[name] = toProperty(value)
	}
	return props
}

func toProperty(v domain.Value) notionapi.Property {
	switch v.Kind {
	case domain.ValueNumber:
		return notionapi.NumberProperty{Number: v.Number}
	case domain.ValueText:
		return notionapi.RichTextProperty{RichText: richText(v.Text, false)}
	case domain.ValueSelect:
		return notionapi.SelectProperty{Select: notionapi.Option{Name: v.Text}}
	case domain.ValueTags:
		options := make([]notionapi.Option, len(v.Tags))
		for i, tag := range v.Tags {
			options[i] = notionapi.Option{Name: tag}
		}
		return notionapi.MultiSelectProperty{MultiSelect: options}
	case domain.ValueFlag:
		return notionapi.CheckboxProperty{Checkbox: v.Flag}
	case domain.ValueDate:
		start := notionapi.Date(v.Start)
		date := &notionapi.DateObject{Start: &start}
		if !v.End.IsZero() {
			end := notionapi.Date(v.End)
			date.End = &end
		}
		return notionapi.DateProperty{Date: date}
	default:
		return notionapi.RichTextProperty{RichText: richText("", false)}
	}
}

// fromProperties reads a stored page's properties back into domain values.
// Property types outside the schema's vocabulary are skipped; the
// reconciler only compares properties the candidate entry carries anyway.
func fromProperties(props notionapi.Properties) map[string]domain.Value {
	out := make(map[string]domain.Value, len(props))
	for name, prop := range props {
		if value, ok := fromProperty(prop); ok {
			out[name] = value
		}
	}
	return out
}

func fromProperty(prop notionapi.Property) (domain.Value, bool) {
	switch p := prop.(type) {
	case *notionapi.TitleProperty:
		return domain.TextValue(plainText(p.Title)), true
	case *notionapi.RichTextProperty:
		return domain.TextValue(plainText(p.RichText)), true
	case *notionapi.NumberProperty:
		return domain.NumberValue(p.Number), true
	case *notionapi.SelectProperty:
		return domain.SelectValue(p.Select.Name), true
	case *notionapi.MultiSelectProperty:
		tags := make([]string, len(p.MultiSelect))
		for i, opt := range p.MultiSelect {
			tags[i] = opt.Name
		}
		return domain.TagsValue(tags...), true
	case *notionapi.CheckboxProperty:
		return domain.FlagValue(p.Checkbox), true
	case *notionapi.DateProperty:
		if p.Date == nil || p.Date.Start == nil {
			return domain.Value{}, false
		}
		start := time.Time(*p.Date.Start)
		if p.Date.End != nil {
			return domain.DateRangeValue(start, time.Time(*p.Date.End)), true
		}
		return domain.DateValue(start), true
	default:
		return domain.Value{}, false
	}
}

func richText(text string, italic bool) []notionapi.RichText {
	rt := notionapi.RichText{
		Type: notionapi.ObjectTypeText,
		Text: &notionapi.Text{Content: text},
	}
	if italic {
		rt.Annotations = &notionapi.Annotations{Italic: true}
	}
	return []notionapi.RichText{rt}
}

func plainText(rts []notionapi.RichText) string {
	var b strings.Builder
	for _, rt := range rts {
		if rt.PlainText != "" {
			b.WriteString(rt.PlainText)
		} else if rt.Text != nil {
			b.WriteString(rt.Text.Content)
		}
	}
	return b.String()
}

// externalIcon builds the page icon, nil when the entry has none.
func externalIcon(url string) *notionapi.Icon {
	if url == "" {
		return nil
	}
	return &notionapi.Icon{
		Type:     "external",
		External: &notionapi.FileObject{URL: url},
	}
}
