// Package config holds the small set of knobs the semantic checker reads
// before it runs: which dialect version of the language is in effect and
// the platform integer-width profile the type table was built for.
package config

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// Dialect pins the cbc language version a program is checked against. Only
// one profile — ILP32 — is implemented today, but later dialect revisions
// are expected to adjust integer widths and admissible constructs, so the
// version is threaded through explicitly rather than hardcoded.
type Dialect struct {
	version *semver.Version
}

// DefaultDialect is the dialect this checker targets absent any
// configuration: the ILP32 C-subset profile.
var DefaultDialect = mustDialect("1.0.0")

// NewDialect parses raw as a semantic version and returns the Dialect it
// names.
func NewDialect(raw string) (Dialect, error) {
	v, err := semver.NewVersion(raw)
	if err != nil {
		return Dialect{}, fmt.Errorf("config: invalid dialect version %q: %w", raw, err)
	}

	return Dialect{version: v}, nil
}

func mustDialect(raw string) Dialect {
	d, err := NewDialect(raw)
	if err != nil {
		panic(err)
	}

	return d
}

// String returns the dialect's version string, e.g. "1.0.0".
func (d Dialect) String() string {
	if d.version == nil {
		return "0.0.0"
	}

	return d.version.String()
}

// SupportsIncompleteArrayParameters reports whether this dialect accepts an
// incomplete-array-typed parameter by silently decaying it to a pointer,
// versus rejecting it outright the way the default 1.x rule does. Gated the
// same way StrictScalarComparisons is, on a forward-looking constraint, so a
// later dialect revision can loosen the rule without the checker's
// parameter-validation control flow changing at all.
func (d Dialect) SupportsIncompleteArrayParameters() bool {
	ok, err := d.Satisfies(">= 2.0.0")
	return err == nil && ok
}

// StrictScalarComparisons reports whether this dialect escalates an
// incompatible pointer/integer comparison (e.g. "p == 0x1000") from the
// default narrowing warning to a hard error. No shipped dialect turns this
// on yet; it is gated on a forward-looking constraint so a later dialect
// revision can tighten the rule without the checker's comparison logic
// changing at all.
func (d Dialect) StrictScalarComparisons() bool {
	ok, err := d.Satisfies(">= 2.0.0")
	return err == nil && ok
}

// Satisfies reports whether this dialect meets constraint, e.g. ">= 1.0.0".
func (d Dialect) Satisfies(constraint string) (bool, error) {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return false, fmt.Errorf("config: invalid constraint %q: %w", constraint, err)
	}

	if d.version == nil {
		return false, fmt.Errorf("config: dialect has no version")
	}

	return c.Check(d.version), nil
}

// Platform describes the integer-width profile a TypeTable was built
// against. The checker's arithmetic rules (§4.5 usual arithmetic
// conversion) are defined in terms of these widths, so a driver that wants
// a different profile constructs a different TypeTable and Platform
// together; the checker itself is width-agnostic.
type Platform struct {
	IntSize  int
	LongSize int
	PtrSize  int
}

// ILP32 is the platform profile this checker's ladder logic assumes:
// 4-byte int, 4-byte long, 8-byte pointers.
var ILP32 = Platform{IntSize: 4, LongSize: 4, PtrSize: 8}
