package disposal

import (
	"fmt"
	"strings"

	"github.com/go-logr/logr"
	"github.com/hashicorp/go-multierror"
)

// Policy decides which error surfaces when both a callback
// and the release of its resource fail.
type Policy uint8

const (
	// Aggregate returns both errors, callback error first.
	Aggregate Policy = iota + 1

	// CallbackWins returns the callback error and logs the release error.
	CallbackWins

	// ReleaseWins returns the release error and logs the callback error.
	ReleaseWins
)

// ParsePolicy returns the Policy named by s.
// Accepted names are "aggregate", "callback" and "release".
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "aggregate":
		return Aggregate, nil
	case "callback":
		return CallbackWins, nil
	case "release":
		return ReleaseWins, nil
	}
	return 0, fmt.Errorf("disposal: unknown policy %q", s)
}

func (p Policy) String() string {
	switch p {
	case Aggregate:
		return "aggregate"
	case CallbackWins:
		return "callback"
	case ReleaseWins:
		return "release"
	case 0:
		return "unset"
	}
	return fmt.Sprintf("Policy(%d)", uint8(p))
}

func (p *Policy) UnmarshalText(text []byte) error {
	policy, err := ParsePolicy(string(text))
	if err != nil {
		return err
	}
	*p = policy
	return nil
}

func (p Policy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// combine resolves a callback error and a release error into
// the single error returned to the caller.
func (p Policy) combine(
	callbackErr error,
	releaseErr  error,
	logger      logr.Logger,
) error {
	if callbackErr == nil {
		return releaseErr
	} else if releaseErr == nil {
		return callbackErr
	}
	switch p {
	case CallbackWins:
		logger.Error(releaseErr, "release failed after callback error",
			"callback-error", callbackErr.Error())
		return callbackErr
	case ReleaseWins:
		logger.Error(callbackErr, "callback error masked by release failure",
			"release-error", releaseErr.Error())
		return releaseErr
	default:
		return multierror.Append(new(multierror.Error), callbackErr, releaseErr)
	}
}
