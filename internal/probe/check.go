package probe

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// CheckFunc performs one probe. A nil error is a pass; errors made by Skipf
// mark the check skipped; any other error fails it.
type CheckFunc func(ctx context.Context, env *Env) error

type Check struct {
	Name string
	Run  CheckFunc
	// Skip returns a non-empty reason when the check must not run.
	Skip func(env *Env) string
}

// Suite is an ordered list of checks sharing one Env.
type Suite struct {
	Name          string
	Description   string
	Tags          []string
	RequiresAdmin bool
	// Exclusive suites change shared backend state and never overlap with other suites.
	Exclusive bool
	Checks    []Check
}

func (s Suite) HasTag(tag string) bool {
	for _, t := range s.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// HasAnyTag reports whether the suite carries at least one of tags.
// An empty tag list matches every suite.
func (s Suite) HasAnyTag(tags ...string) bool {
	if len(tags) == 0 {
		return true
	}
	for _, t := range tags {
		if s.HasTag(t) {
			return true
		}
	}
	return false
}

// SkipError marks a check as skipped rather than failed.
type SkipError struct {
	Reason string
}

func (e *SkipError) Error() string {
	return "skipped: " + e.Reason
}

func Skipf(format string, args ...any) error {
	return &SkipError{Reason: fmt.Sprintf(format, args...)}
}

func isSkip(err error) (string, bool) {
	var e *SkipError
	if errors.As(err, &e) {
		return e.Reason, true
	}
	return "", false
}
