// Package access decides whether a request may reach a business handler.
//
// A request moves through four stages in a fixed order: identity
// resolution, suspension check, the route's permission chain, and the
// route's resource-state gates. Any stage may stop the request with a
// *Rejection; nothing downstream runs after that.
package access

import (
	"errors"
	"net/http"
)

type Stage string

const (
	StageIdentity      Stage = "identity"
	StageSuspension    Stage = "suspension"
	StagePermission    Stage = "permission"
	StageResourceState Stage = "resource_state"
)

type Reason string

const (
	ReasonMissingCredentials    Reason = "missing_credentials"
	ReasonInvalidCredentials    Reason = "invalid_credentials"
	ReasonIncompleteCredentials Reason = "incomplete_credentials"
	ReasonAccountSuspended      Reason = "account_suspended"
	ReasonPermissionDenied      Reason = "permission_denied"
	ReasonInvalidResourceID     Reason = "invalid_resource_id"
	ReasonResourceNotFound      Reason = "resource_not_found"
	ReasonResourceInactive      Reason = "resource_inactive"
)

var statusByReason = map[Reason]int{
	ReasonMissingCredentials:    http.StatusUnauthorized,
	ReasonInvalidCredentials:    http.StatusUnauthorized,
	ReasonIncompleteCredentials: http.StatusUnauthorized,
	ReasonAccountSuspended:      http.StatusForbidden,
	ReasonPermissionDenied:      http.StatusForbidden,
	ReasonInvalidResourceID:     http.StatusBadRequest,
	ReasonResourceNotFound:      http.StatusNotFound,
	ReasonResourceInactive:      http.StatusForbidden,
}

// Rejection is a final deny decision. Two rejections match under errors.Is
// when their reasons are equal, so callers can compare against the sentinels
// below regardless of message or stage.
type Rejection struct {
	Reason Reason
	Stage  Stage
	Msg    string
}

func (r *Rejection) Error() string {
	if r.Msg != "" {
		return r.Msg
	}
	return string(r.Reason)
}

func (r *Rejection) Status() int {
	if s, ok := statusByReason[r.Reason]; ok {
		return s
	}
	return http.StatusForbidden
}

func (r *Rejection) Is(target error) bool {
	t, ok := target.(*Rejection)
	return ok && t.Reason == r.Reason
}

func (r *Rejection) at(s Stage) *Rejection {
	c := *r
	c.Stage = s
	return &c
}

func (r *Rejection) withMsg(msg string) *Rejection {
	c := *r
	c.Msg = msg
	return &c
}

var (
	ErrMissingCredentials    = &Rejection{Reason: ReasonMissingCredentials, Stage: StageIdentity, Msg: "missing bearer token"}
	ErrInvalidCredentials    = &Rejection{Reason: ReasonInvalidCredentials, Stage: StageIdentity, Msg: "invalid or expired token"}
	ErrIncompleteCredentials = &Rejection{Reason: ReasonIncompleteCredentials, Stage: StageIdentity, Msg: "token is missing required attributes"}
	ErrAccountSuspended      = &Rejection{Reason: ReasonAccountSuspended, Stage: StageSuspension, Msg: "account is suspended"}
	ErrPermissionDenied      = &Rejection{Reason: ReasonPermissionDenied, Stage: StagePermission, Msg: "forbidden"}
	ErrInvalidResourceID     = &Rejection{Reason: ReasonInvalidResourceID, Stage: StageResourceState, Msg: "invalid resource id"}
	ErrResourceNotFound      = &Rejection{Reason: ReasonResourceNotFound, Stage: StageResourceState, Msg: "resource not found"}
	ErrResourceInactive      = &Rejection{Reason: ReasonResourceInactive, Stage: StageResourceState, Msg: "resource is inactive"}
)

// AsRejection unwraps err into a *Rejection if it is one.
func AsRejection(err error) (*Rejection, bool) {
	var r *Rejection
	if errors.As(err, &r) {
		return r, true
	}
	return nil, false
}
