// Package version provides the application version and the compatibility
// rules for configuration file schema versions.
package version

import (
	"errors"
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// Current is the application version.
const Current = "1.0.0"

// SchemaConstraint is the range of config schema versions this build reads.
const SchemaConstraint = "^1"

// OpParseSchemaVersion names the operation in ErrVersionParseFailed.
const OpParseSchemaVersion = "parse_schema_version"

// ErrSchemaUnsupported is returned for a config schema outside SchemaConstraint.
var ErrSchemaUnsupported = errors.New("unsupported config schema version")

// ErrVersionParseFailed represents a version parsing error
type ErrVersionParseFailed struct {
	Version string
	Op      string
	Cause   error
}

func (e ErrVersionParseFailed) Error() string {
	return fmt.Sprintf("failed to parse version %s in operation %s: %v", e.Version, e.Op, e.Cause)
}

func (e ErrVersionParseFailed) Unwrap() error {
	return e.Cause
}

func (e ErrVersionParseFailed) Is(target error) bool {
	var parseErr ErrVersionParseFailed
	return errors.As(target, &parseErr)
}

// schemaConstraint is parsed once; SchemaConstraint is a valid literal.
var schemaConstraint = mustConstraint(SchemaConstraint)

func mustConstraint(s string) *semver.Constraints {
	c, err := semver.NewConstraint(s)
	if err != nil {
		panic(err)
	}
	return c
}

// CheckSchema reports whether a config file's schema version can be read.
// Short forms such as "1" or "1.2" are accepted.
func CheckSchema(v string) error {
	sv, err := semver.NewVersion(v)
	if err != nil {
		return ErrVersionParseFailed{
			Version: v,
			Op:      OpParseSchemaVersion,
			Cause:   err,
		}
	}
	if !schemaConstraint.Check(sv) {
		return fmt.Errorf("%w: %s does not satisfy %s", ErrSchemaUnsupported, v, SchemaConstraint)
	}
	return nil
}
