package sensor

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/s0up4200/mediarr/seer"
)

// Action names a request service
type Action string

const (
	ActionRequest Action = "request"
	ActionApprove Action = "approve"
	ActionDeny    Action = "deny"
)

// ParseAction validates an action name
func ParseAction(s string) (Action, error) {
	switch Action(s) {
	case ActionRequest, ActionApprove, ActionDeny:
		return Action(s), nil
	default:
		return "", fmt.Errorf("unknown action %q", s)
	}
}

// ErrActionsUnsupported is returned for sensors without a Seer client
var ErrActionsUnsupported = errors.New("sensor does not support request actions")

// Requester performs request lifecycle calls
type Requester = seer.Requester

// ActionError reports a failed request service call. Polling is unaffected.
type ActionError struct {
	Action Action
	Sensor string
	ID     string
	Err    error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("%s %s on %s: %v", e.Action, e.ID, e.Sensor, e.Err)
}

func (e *ActionError) Unwrap() error {
	return e.Err
}

// Do runs an action. For request, id is a TMDB id and mediaType is movie or
// tv; for approve and deny, id is a Seer request id.
func (s *Sensor) Do(ctx context.Context, action Action, id, mediaType string) (*seer.MediaRequest, error) {
	wrap := func(err error) error {
		return &ActionError{Action: action, Sensor: s.name, ID: id, Err: err}
	}

	if s.requester == nil {
		return nil, wrap(ErrActionsUnsupported)
	}

	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil || n <= 0 {
		return nil, wrap(fmt.Errorf("invalid id %q", id))
	}

	var req *seer.MediaRequest
	switch action {
	case ActionRequest:
		mt, perr := seer.ParseMediaType(mediaType)
		if perr != nil {
			return nil, wrap(perr)
		}
		req, err = s.requester.Request(ctx, mt, n)
	case ActionApprove:
		req, err = s.requester.Approve(ctx, n)
	case ActionDeny:
		req, err = s.requester.Deny(ctx, n)
	default:
		return nil, wrap(fmt.Errorf("unknown action %q", action))
	}
	if err != nil {
		s.logger.Error().Err(err).Str("action", string(action)).Str("id", id).Msg("Action failed")
		return nil, wrap(err)
	}

	s.logger.Info().Str("action", string(action)).Str("id", id).Msg("Action completed")
	return req, nil
}

// SupportsActions reports whether request services can target this sensor
func (s *Sensor) SupportsActions() bool {
	return s.requester != nil
}
