package client

import (
	"net/http"

	"github.com/mento-app/mento-server/internal/unlock"
)

// Kind classifies the outcome of a facade call.
type Kind string

const (
	KindOK           Kind = "ok"
	KindValidation   Kind = "validation"
	KindNotFound     Kind = "not_found"
	KindUnauthorized Kind = "unauthorized"
	KindInternal     Kind = "internal"
	// KindTransport means the service could not be reached; the call may be retried.
	KindTransport Kind = "transport"
)

// Result is the uniform outcome of every facade call.
type Result struct {
	Kind    Kind
	Message string
	// Code and Field echo the service's error envelope when present.
	Code  string
	Field string
}

// Success reports whether the call succeeded.
func (r Result) Success() bool {
	return r.Kind == KindOK
}

// ProgressResult carries an island's completed levels and unlock frontier.
type ProgressResult struct {
	Result
	CompletedLevels []int
	NextUnlocked    int
}

// IsUnlocked reports whether level can be played. A failed call still
// unlocks level 1, so callers always have something to render.
func (p ProgressResult) IsUnlocked(level int) bool {
	return unlock.IsUnlocked(level, p.CompletedLevels, p.NextUnlocked)
}

// LevelResult carries the coarse progress pointer.
type LevelResult struct {
	Result
	CurrentLevel int
	IslandID     *int64
}

func ok() Result {
	return Result{Kind: KindOK}
}

func failure(kind Kind, message string) Result {
	return Result{Kind: kind, Message: message}
}

func kindForStatus(status int) Kind {
	switch {
	case status < http.StatusBadRequest:
		return KindOK
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return KindUnauthorized
	case status < http.StatusInternalServerError:
		return KindValidation
	default:
		return KindInternal
	}
}
