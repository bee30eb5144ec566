// Package params implements CryptSettings: the validated, immutable
// parameter object driving one Balloon instantiation, plus its JSON
// wire format (the container's meta.json member).
package params

import (
	"bytes"
	"fmt"

	gojson "github.com/goccy/go-json"

	"github.com/lostinentropy/zeppelin/internal/api"
	"github.com/lostinentropy/zeppelin/internal/sysmem"
)

// CurrentVersion is the only algorithm variant this build emits.
// Readers reject any other version.
const CurrentVersion = 1

var supportedVersions = map[uint32]bool{
	CurrentVersion: true,
}

// DefaultResourceLimitFraction bounds the Balloon buffer to this
// fraction of total system memory when the caller does not supply an
// explicit ResourceLimit.
const DefaultResourceLimitFraction = 0.25

// Settings is the public, immutable CryptSettings value object.
type Settings struct {
	SCost     uint32 `json:"s_cost"`
	TCost     uint32 `json:"t_cost"`
	StepDelta uint32 `json:"step_delta"`
	Version   uint32 `json:"version"`
}

// New validates s_cost/t_cost/step_delta/version and, if
// resourceLimit is non-zero, rejects an s_cost whose buffer
// (64*s_cost bytes) would exceed it. A resourceLimit of 0 means "use
// the runtime default" (a fraction of detected system memory).
func New(sCost, tCost, stepDelta, version uint32, resourceLimit uint64) (Settings, error) {
	s := Settings{SCost: sCost, TCost: tCost, StepDelta: stepDelta, Version: version}

	if err := s.Validate(resourceLimit); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks that every field is in range and, if resourceLimit
// is non-zero, that the resulting Balloon buffer fits under it. A zero
// resourceLimit falls back to DefaultResourceLimit().
func (s Settings) Validate(resourceLimit uint64) error {
	if s.SCost == 0 {
		return fmt.Errorf("%w: s_cost must be >= 1", api.ErrInvalidParams)
	}
	if s.TCost == 0 {
		return fmt.Errorf("%w: t_cost must be >= 1", api.ErrInvalidParams)
	}
	if s.StepDelta == 0 {
		return fmt.Errorf("%w: step_delta must be >= 1", api.ErrInvalidParams)
	}
	if !supportedVersions[s.Version] {
		return fmt.Errorf("%w: unsupported version %d", api.ErrInvalidParams, s.Version)
	}

	limit := resourceLimit
	if limit == 0 {
		limit = DefaultResourceLimit()
	}

	needed := uint64(s.SCost) * api.BlockSize
	if needed > limit {
		return fmt.Errorf("%w: s_cost=%d needs %d bytes, ceiling is %d",
			api.ErrResourceLimit, s.SCost, needed, limit)
	}

	return nil
}

// Internal converts to the internal/api.Settings shape consumed by
// package balloon, which does not depend on params' JSON machinery.
func (s Settings) Internal() api.Settings {
	return api.Settings{
		SCost:     s.SCost,
		TCost:     s.TCost,
		StepDelta: s.StepDelta,
		Version:   s.Version,
	}
}

// DefaultResourceLimit returns DefaultResourceLimitFraction of total
// detected system memory, falling back to a conservative 256 MiB if
// detection fails (e.g. in a sandboxed or exotic environment).
func DefaultResourceLimit() uint64 {
	total, err := sysmem.TotalBytes()
	if err != nil || total == 0 {
		return 256 << 20
	}
	return uint64(float64(total) * DefaultResourceLimitFraction)
}

// Marshal encodes Settings as the fixed-field JSON document named
// meta.json by the container contract.
func (s Settings) Marshal() ([]byte, error) {
	b, err := gojson.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("params: marshal: %w", err)
	}
	return b, nil
}

// Unmarshal decodes a params document, rejecting unknown or missing
// fields and unsupported versions. It does not enforce the
// resource-limit check — callers that need it should call Validate
// separately, since the limit may depend on caller context.
func Unmarshal(doc []byte) (Settings, error) {
	dec := gojson.NewDecoder(bytes.NewReader(doc))
	dec.DisallowUnknownFields()

	var s Settings
	if err := dec.Decode(&s); err != nil {
		return Settings{}, fmt.Errorf("%w: params document: %v", api.ErrMalformed, err)
	}
	if dec.More() {
		return Settings{}, fmt.Errorf("%w: params document has trailing data", api.ErrMalformed)
	}

	if s.SCost == 0 || s.TCost == 0 || s.StepDelta == 0 {
		return Settings{}, fmt.Errorf("%w: missing or zero-valued field", api.ErrMalformed)
	}
	if !supportedVersions[s.Version] {
		return Settings{}, fmt.Errorf("%w: unsupported version %d", api.ErrMalformed, s.Version)
	}

	return s, nil
}
