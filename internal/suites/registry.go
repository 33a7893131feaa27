package suites

import (
	"sort"
	"strings"

	"github.com/cataloro/cataloro-probe/internal/probe"
	srvErrors "github.com/cataloro/cataloro-probe/pkg/errors"
)

// All returns every suite in the order a full run executes them.
func All() []probe.Suite {
	return []probe.Suite{
		authSuite(),
		marketplaceSuite(),
		listingsSuite(),
		reviewsSuite(),
		basketsSuite(),
		notificationsSuite(),
		adminSuite(),
		exportSuite(),
		adsSuite(),
		catalystSuite(),
		realtimeSuite(),
	}
}

func Names() []string {
	all := All()
	out := make([]string, 0, len(all))
	for _, s := range all {
		out = append(out, s.Name)
	}
	return out
}

// Lookup returns the named suites in the given order. No names means all suites.
func Lookup(names ...string) ([]probe.Suite, error) {
	all := All()
	if len(names) == 0 {
		return all, nil
	}

	byName := make(map[string]probe.Suite, len(all))
	for _, s := range all {
		byName[s.Name] = s
	}

	seen := make(map[string]bool, len(names))
	out := make([]probe.Suite, 0, len(names))
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		s, ok := byName[n]
		if !ok {
			return nil, srvErrors.NewUnknownSuiteError(n)
		}
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, s)
	}
	return out, nil
}

// Select resolves names then keeps the suites carrying at least one of tags.
func Select(names, tags []string) ([]probe.Suite, error) {
	found, err := Lookup(names...)
	if err != nil {
		return nil, err
	}
	out := make([]probe.Suite, 0, len(found))
	for _, s := range found {
		if s.HasAnyTag(tags...) {
			out = append(out, s)
		}
	}
	return out, nil
}

// Tags lists every tag used by a suite, sorted.
func Tags() []string {
	set := map[string]struct{}{}
	for _, s := range All() {
		for _, t := range s.Tags {
			set[t] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
