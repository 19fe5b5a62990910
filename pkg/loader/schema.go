package loader

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// SupportedSchema is the range of catalog schema versions this build reads.
const SupportedSchema = ">= 1.0.0, < 2.0.0"

// ErrIncompatibleSchema is returned for catalogs declaring a schema_version
// outside SupportedSchema.
var ErrIncompatibleSchema = errors.New("incompatible catalog schema version")

var supportedSchema = mustConstraint(SupportedSchema)

func mustConstraint(raw string) *semver.Constraints {
	c, err := semver.NewConstraint(raw)
	if err != nil {
		panic(err)
	}
	return c
}

// CheckSchemaVersion validates a declared schema version. Empty means the
// default version and always passes.
func CheckSchemaVersion(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := semver.NewVersion(raw)
	if err != nil {
		return fmt.Errorf("%w: parse %q: %v", ErrIncompatibleSchema, raw, err)
	}
	if !supportedSchema.Check(v) {
		return fmt.Errorf("%w: %s does not satisfy %s", ErrIncompatibleSchema, v, SupportedSchema)
	}
	return nil
}
