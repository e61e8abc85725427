package lint

import (
	"errors"
	"fmt"

	"github.com/yaklabco/collation/internal/logging"
	"github.com/yaklabco/collation/pkg/tsast"
)

// MaxRetryAttempts bounds how often a rule is re-run after using a stale
// node handle.
const MaxRetryAttempts = 3

// ErrTooManyRetries is returned when a rule keeps failing with stale
// handles after MaxRetryAttempts attempts.
var ErrTooManyRetries = errors.New("too many retries")

type retryRule struct {
	Rule
}

// WithRetry wraps rule so that an attempt failing with tsast.ErrStaleHandle
// is re-run from scratch.
//
// A new attempt starts on the latest committed snapshot, so it sees every
// mutation completed so far; edits the failed attempt had not committed are
// discarded. Any other error is returned immediately.
func WithRetry(rule Rule) Rule {
	if _, ok := rule.(*retryRule); ok {
		return rule
	}
	return &retryRule{Rule: rule}
}

func (r *retryRule) Apply(rc *RuleContext) ([]Diagnostic, error) {
	var lastErr error
	for attempt := 1; attempt <= MaxRetryAttempts; attempt++ {
		diags, err := r.Rule.Apply(rc)
		if err == nil {
			return diags, nil
		}
		if !errors.Is(err, tsast.ErrStaleHandle) {
			return nil, err
		}

		lastErr = err
		rc.Builder.Reset()
		if attempt < MaxRetryAttempts {
			rc.Logger().Debug("rule used a stale handle, retrying",
				logging.FieldAttempt, attempt,
				logging.FieldGeneration, rc.File.Generation(),
				logging.FieldError, err)
		}
	}
	return nil, fmt.Errorf("%w: rule %s gave up after %d attempts: %w",
		ErrTooManyRetries, r.ID(), MaxRetryAttempts, lastErr)
}
