package api

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ApiError is the JSON error envelope every endpoint returns: a
// machine-readable tag plus a human-readable message.
type ApiError struct {
	Tag     string `json:"error"`
	Message string `json:"message"`
}

func (e ApiError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Tag, e.Message)
	}
	return e.Tag
}

func NewApiError(opts ...ErrOpt) ApiError {
	e := ApiError{}
	for _, o := range opts {
		o(&e)
	}

	return e
}

type ErrOpt = func(e *ApiError)

func WithTag(tag string) ErrOpt {
	return func(e *ApiError) {
		e.Tag = tag
	}
}

func WithMessage[S ~string](s S) ErrOpt {
	return func(e *ApiError) {
		e.Message = string(s)
	}
}

func WithError(err error) ErrOpt {
	return func(e *ApiError) {
		e.Message = err.Error()
	}
}

var AuthRequiredError = NewApiError(
	WithTag("AuthRequired"),
	WithMessage("sign in to do that"),
)

var InvalidRequestError = func(err error) ApiError {
	return NewApiError(
		WithTag("InvalidRequest"),
		WithError(err),
	)
}

var NotFoundError = func(what string) ApiError {
	return NewApiError(
		WithTag("NotFound"),
		WithMessage(what+" not found"),
	)
}

func GenericError(err error) ApiError {
	return NewApiError(
		WithTag("Generic"),
		WithError(err),
	)
}

func writeError(w http.ResponseWriter, e ApiError, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(e)
}

func writeJson(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		writeError(w, GenericError(err), http.StatusInternalServerError)
	}
}
