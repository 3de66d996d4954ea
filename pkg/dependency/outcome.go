package dependency

import "github.com/matzehuels/depfetch/pkg/errors"

// Outcome is the result of resolving a coordinate against one repository.
//
// An aggregator outcome describes a coordinate that only publishes a
// descriptor (a parent or BOM entry) and has nothing to download; its
// ArtifactURL is always empty. A non-aggregator outcome always has an
// ArtifactURL. ChecksumURL is optional for both.
//
// Outcomes are shared between goroutines once cached and must not be mutated.
type Outcome struct {
	Repository  Repository
	ArtifactURL string
	ChecksumURL string
	Aggregator  bool
}

// NewOutcome returns a resolved-artifact outcome.
// artifactURL must be non-empty; checksumURL may be empty.
func NewOutcome(repo Repository, artifactURL, checksumURL string) (*Outcome, error) {
	o := &Outcome{Repository: repo, ArtifactURL: artifactURL, ChecksumURL: checksumURL}
	if err := o.Validate(); err != nil {
		return nil, err
	}
	return o, nil
}

// NewAggregator returns an outcome for a descriptor-only coordinate.
func NewAggregator(repo Repository) *Outcome {
	return &Outcome{Repository: repo, Aggregator: true}
}

// Validate enforces the aggregator invariant.
func (o *Outcome) Validate() error {
	switch {
	case o.Aggregator && o.ArtifactURL != "":
		return errors.New(errors.ErrCodeInvalidOutcome, "aggregator outcome from %s must not carry an artifact URL", o.Repository)
	case !o.Aggregator && o.ArtifactURL == "":
		return errors.New(errors.ErrCodeInvalidOutcome, "resolved outcome from %s requires an artifact URL", o.Repository)
	}
	return nil
}

// HasChecksum reports whether the repository publishes a checksum for the artifact.
func (o *Outcome) HasChecksum() bool {
	return o.ChecksumURL != ""
}
