package driven

import "github.com/openfit-labs/fitsync-cli/internal/core/domain"

// Transformer maps one source record into its destination entry. Pure: no
// I/O, no clock. A record whose category has no known mapping falls back to
// the generic category instead of failing; transformers only return errors
// for records that cannot be represented at all.
type Transformer interface {
	Transform(record domain.Record) (domain.Entry, error)
}

// Expander derives secondary entries from one record, for kinds that feed
// two destination databases (workouts also produce per-exercise progress
// rows). Pure like Transformer.
type Expander interface {
	Expand(record domain.Record) ([]domain.Entry, error)
}
