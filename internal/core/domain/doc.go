// Package domain contains the core business types for fitsync: the data
// kinds pulled from upstream services, the records they produce, the
// destination entries written to Notion, the reusable session credential,
// and the error taxonomy shared across the pipeline.
package domain
