// Package persondirectory looks up people in the upstream person directory.
// The engine treats people as opaque CRN strings; this package only supplies
// display data for timeline denormalisation, so every failure mode degrades
// to an Unknown summary rather than failing the calling operation.
package persondirectory

import "context"

// SummaryKind discriminates the PersonSummary variants.
type SummaryKind string

const (
	// SummaryFull carries the person's name alongside the CRN.
	SummaryFull SummaryKind = "full"

	// SummaryRestricted is returned for people whose details may not be
	// shown. Only the CRN is carried.
	SummaryRestricted SummaryKind = "restricted"

	// SummaryUnknown is the degraded form used when the directory cannot
	// be reached or does not know the CRN.
	SummaryUnknown SummaryKind = "unknown"
)

// PersonSummary is the closed union of directory lookup outcomes. Name is
// set only for SummaryFull.
type PersonSummary struct {
	Kind SummaryKind `json:"kind"`
	CRN  string      `json:"crn"`
	Name string      `json:"name,omitempty"`
}

// FullSummary builds a summary with display name.
func FullSummary(crn, name string) PersonSummary {
	return PersonSummary{Kind: SummaryFull, CRN: crn, Name: name}
}

// RestrictedSummary builds a summary for a person with restricted details.
func RestrictedSummary(crn string) PersonSummary {
	return PersonSummary{Kind: SummaryRestricted, CRN: crn}
}

// UnknownSummary builds the degraded summary.
func UnknownSummary(crn string) PersonSummary {
	return PersonSummary{Kind: SummaryUnknown, CRN: crn}
}

// Directory resolves CRNs to person summaries.
type Directory interface {
	Lookup(ctx context.Context, crn string) PersonSummary
}

// NoopDirectory returns Unknown for every CRN. Used when no upstream is
// configured.
type NoopDirectory struct{}

func (NoopDirectory) Lookup(_ context.Context, crn string) PersonSummary {
	return UnknownSummary(crn)
}
