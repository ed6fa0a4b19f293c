package domain

import (
	"math"
	"time"
)

// Entry is the destination-side representation of one record: a bundle of
// named property values plus optional page content, ready for the sink to
// create or update. Entries are produced by transformers and are pure data.
type Entry struct {
	// Kind is the data kind this entry belongs to.
	Kind Kind
	// Key is the natural key, stored in the destination's key property so
	// future runs can find the entry again.
	Key string
	// Title is the destination page title.
	Title string
	// IconURL is an external icon for the page, empty for none.
	IconURL string
	// Props holds the tracked attributes. Every property present here is
	// compared against the stored entry when deciding create/update/skip.
	Props map[string]Value
	// Content is optional page body content (per-exercise tables for
	// workouts). Content is regenerated on create and on update; it is not
	// part of change detection.
	Content []Block
}

// Existing is a destination entry as found by the sink's index query:
// just its identifier and the stored tracked attributes.
type Existing struct {
	ID    string
	Props map[string]Value
}

// ValueKind discriminates the Value union.
type ValueKind int

const (
	// ValueNumber is a float property.
	ValueNumber ValueKind = iota
	// ValueText is a plain text property.
	ValueText
	// ValueSelect is a single-choice category property.
	ValueSelect
	// ValueTags is a multi-value tag property.
	ValueTags
	// ValueFlag is a boolean property.
	ValueFlag
	// ValueDate is a date or date-range property.
	ValueDate
)

// Value is one destination property value, a tagged union over the property
// types the destination schema uses.
type Value struct {
	Kind   ValueKind
	Number float64
	Text   string
	Tags   []string
	Flag   bool
	Start  time.Time
	End    time.Time // zero for point-in-time dates
}

// Numeric tolerance for change detection. Distances and durations survive a
// round trip through the destination API with sub-centi precision loss.
const Epsilon = 0.01

// NumberValue builds a float property value.
func NumberValue(n float64) Value { return Value{Kind: ValueNumber, Number: n} }

// TextValue builds a plain text property value.
func TextValue(s string) Value { return Value{Kind: ValueText, Text: s} }

// SelectValue builds a single-choice property value.
func SelectValue(s string) Value { return Value{Kind: ValueSelect, Text: s} }

// TagsValue builds a multi-value tag property value.
func TagsValue(tags ...string) Value { return Value{Kind: ValueTags, Tags: tags} }

// FlagValue builds a boolean property value.
func FlagValue(b bool) Value { return Value{Kind: ValueFlag, Flag: b} }

// DateValue builds a point-in-time date property value.
func DateValue(t time.Time) Value { return Value{Kind: ValueDate, Start: t} }

// DateRangeValue builds a date-range property value.
func DateRangeValue(start, end time.Time) Value {
	return Value{Kind: ValueDate, Start: start, End: end}
}

// Equal reports whether two values represent the same stored attribute.
// Numbers compare within Epsilon; dates compare at second precision, which
// is the precision the destination API round-trips.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case ValueNumber:
		return math.Abs(v.Number-o.Number) < Epsilon
	case ValueText, ValueSelect:
		return v.Text == o.Text
	case ValueFlag:
		return v.Flag == o.Flag
	case ValueTags:
		if len(v.Tags) != len(o.Tags) {
			return false
		}
		for i := range v.Tags {
			if v.Tags[i] != o.Tags[i] {
				return false
			}
		}
		return true
	case ValueDate:
		return v.Start.Truncate(time.Second).Equal(o.Start.Truncate(time.Second)) &&
			v.End.Truncate(time.Second).Equal(o.End.Truncate(time.Second))
	default:
		return false
	}
}

// ContainsTags reports whether this tag value carries every tag of o. Key
// tags accumulate on entries merged from several sources, so a stored tag
// set that covers the candidate's counts as unchanged.
func (v Value) ContainsTags(o Value) bool {
	if v.Kind != ValueTags || o.Kind != ValueTags {
		return false
	}
	have := make(map[string]bool, len(v.Tags))
	for _, tag := range v.Tags {
		have[tag] = true
	}
	for _, tag := range o.Tags {
		if !have[tag] {
			return false
		}
	}
	return true
}

// MergeTags unions two tag values, keeping stored order first. Used on
// update so tags written by other sources survive.
func MergeTags(stored, candidate Value) Value {
	if stored.Kind != ValueTags {
		return candidate
	}
	merged := make([]string, 0, len(stored.Tags)+len(candidate.Tags))
	seen := make(map[string]bool, len(stored.Tags))
	for _, tag := range stored.Tags {
		if !seen[tag] {
			seen[tag] = true
			merged = append(merged, tag)
		}
	}
	for _, tag := range candidate.Tags {
		if !seen[tag] {
			seen[tag] = true
			merged = append(merged, tag)
		}
	}
	return TagsValue(merged...)
}

// BlockType discriminates page content blocks.
type BlockType int

const (
	// BlockHeading is a third-level heading.
	BlockHeading BlockType = iota
	// BlockParagraph is a text paragraph.
	BlockParagraph
	// BlockTable is a simple table with a header row.
	BlockTable
	// BlockDivider is a horizontal rule.
	BlockDivider
)

// Block is one destination page content block. The model is deliberately
// small: just what the workout detail pages need.
type Block struct {
	Type   BlockType
	Text   string
	Italic bool
	Table  *Table
}

// Table is the payload of a BlockTable.
type Table struct {
	Header []string
	Rows   [][]string
}

// HeadingBlock builds a heading content block.
func HeadingBlock(text string) Block { return Block{Type: BlockHeading, Text: text} }

// ParagraphBlock builds a paragraph content block.
func ParagraphBlock(text string, italic bool) Block {
	return Block{Type: BlockParagraph, Text: text, Italic: italic}
}

// TableContentBlock builds a table content block.
func TableContentBlock(header []string, rows [][]string) Block {
	return Block{Type: BlockTable, Table: &Table{Header: header, Rows: rows}}
}

// DividerBlock builds a divider content block.
func DividerBlock() Block { return Block{Type: BlockDivider} }
