package probe

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/cataloro/cataloro-probe/internal/client"
	"github.com/cataloro/cataloro-probe/internal/util"
	srvErrors "github.com/cataloro/cataloro-probe/pkg/errors"
)

// ExpectStatus fails unless resp has one of the wanted status codes.
func ExpectStatus(resp *client.Response, want ...int) error {
	if resp == nil {
		return srvErrors.NewAssertionError("no response, expected status %v", want)
	}
	for _, w := range want {
		if resp.StatusCode == w {
			return nil
		}
	}
	return srvErrors.NewAssertionError("expected status %v, got %d: %s", want, resp.StatusCode, util.Truncate(string(resp.Body), 200))
}

// ExpectAPIStatus fails unless err is an API error with status want.
// It is used for checks where the backend must refuse the request.
func ExpectAPIStatus(err error, want int) error {
	if err == nil {
		return srvErrors.NewAssertionError("expected status %d %s, request succeeded", want, http.StatusText(want))
	}
	got := srvErrors.StatusCode(err)
	if got == 0 {
		return fmt.Errorf("expected status %d: %w", want, err)
	}
	if got != want {
		return srvErrors.NewAssertionError("expected status %d, got %d", want, got)
	}
	return nil
}

// ExpectRejected is ExpectAPIStatus for 400 or 422, whichever the backend picks.
func ExpectRejected(err error) error {
	if err == nil {
		return srvErrors.NewAssertionError("expected the request to be rejected, it succeeded")
	}
	if srvErrors.IsValidation(err) {
		return nil
	}
	if srvErrors.StatusCode(err) == 0 {
		return fmt.Errorf("expected a validation error: %w", err)
	}
	return srvErrors.NewAssertionError("expected status 400 or 422, got %d", srvErrors.StatusCode(err))
}

// ExpectKeys fails listing every key missing from obj.
func ExpectKeys(obj map[string]any, keys ...string) error {
	var missing []string
	for _, k := range keys {
		if _, ok := obj[k]; !ok {
			missing = append(missing, k)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	present := make([]string, 0, len(obj))
	for k := range obj {
		present = append(present, k)
	}
	sort.Strings(present)
	return srvErrors.NewAssertionError("missing keys %s (got %s)", strings.Join(missing, ", "), strings.Join(present, ", "))
}

func ExpectEqual[T comparable](what string, got, want T) error {
	if got != want {
		return srvErrors.NewAssertionError("%s: expected %v, got %v", what, want, got)
	}
	return nil
}

func ExpectNear(what string, got, want, tolerance float64) error {
	if !util.AlmostEqual(got, want, tolerance) {
		return srvErrors.NewAssertionError("%s: expected %.4f ± %.4f, got %.4f", what, want, tolerance, got)
	}
	return nil
}

func ExpectTrue(cond bool, format string, args ...any) error {
	if !cond {
		return srvErrors.NewAssertionError(format, args...)
	}
	return nil
}

// First returns the first non-nil error.
func First(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
