package store

import (
	"time"

	sq "github.com/Masterminds/squirrel"
)

type ListOption func(sq.SelectBuilder) sq.SelectBuilder

// ByTarget applies to runs.
func ByTarget(targets ...string) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		if len(targets) == 0 {
			return b
		}
		return b.Where(sq.Eq{"target": targets})
	}
}

// BySuite applies to check results.
func BySuite(suites ...string) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		if len(suites) == 0 {
			return b
		}
		return b.Where(sq.Eq{"suite": suites})
	}
}

// ByOutcome applies to check results.
func ByOutcome(outcomes ...string) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		if len(outcomes) == 0 {
			return b
		}
		return b.Where(sq.Eq{"outcome": outcomes})
	}
}

// StartedAfter applies to runs.
func StartedAfter(t time.Time) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.Where(sq.Gt{"started_at": t.UTC()})
	}
}

func WithLimit(limit uint64) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.Limit(limit)
	}
}

func WithOffset(offset uint64) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.Offset(offset)
	}
}

func toStringSlice(v any) []string {
	if v == nil {
		return nil
	}
	slice, ok := v.([]any)
	if !ok {
		return nil
	}
	result := make([]string, 0, len(slice))
	for _, item := range slice {
		if s, ok := item.(string); ok && s != "" {
			result = append(result, s)
		}
	}
	return result
}
