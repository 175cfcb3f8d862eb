package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Kind classifies an API failure by origin.
type Kind int

const (
	// KindUnexpected covers anything the other kinds do not.
	KindUnexpected Kind = iota
	// KindConnectivity means no response was received at all.
	KindConnectivity
	// KindAuth is a 401 outside the login endpoint.
	KindAuth
	// KindValidation is a 4xx carrying a server detail payload.
	KindValidation
)

// Error is the typed failure returned by every client operation.
type Error struct {
	Kind   Kind
	Status int
	Detail string
	cause  error
}

func (e *Error) Error() string {
	switch {
	case e.Detail != "":
		return e.Detail
	case e.cause != nil:
		return fmt.Sprintf("api request failed: %v", e.cause)
	default:
		return fmt.Sprintf("api request failed with status %d", e.Status)
	}
}

func (e *Error) Unwrap() error { return e.cause }

// detailPayload matches the server's error body: detail is either a plain
// string or a list of field validation errors.
type detailPayload struct {
	Detail json.RawMessage `json:"detail"`
}

type fieldError struct {
	Loc []json.RawMessage `json:"loc"`
	Msg string            `json:"msg"`
}

// extractDetail pulls a human-readable message out of an error response body.
// A list of field errors is joined into one string; anything unparseable
// yields the empty string and the caller falls back to a generic message.
func extractDetail(body []byte) string {
	var payload detailPayload
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(payload.Detail, &s); err == nil {
		return s
	}

	var fields []fieldError
	if err := json.Unmarshal(payload.Detail, &fields); err == nil {
		parts := make([]string, 0, len(fields))
		for _, f := range fields {
			locs := make([]string, 0, len(f.Loc))
			for _, raw := range f.Loc {
				var seg string
				if json.Unmarshal(raw, &seg) != nil {
					// Numeric path segments (array indices) come through raw.
					seg = string(raw)
				}
				locs = append(locs, seg)
			}
			parts = append(parts, strings.Join(locs, ".")+": "+f.Msg)
		}
		return strings.Join(parts, ", ")
	}

	return ""
}

// Message maps any error to the user-facing alert text. The taxonomy follows
// the origin of the failure: transport, auth, server validation, fallback.
func Message(err error) string {
	if err == nil {
		return ""
	}

	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return "Ocorreu um erro inesperado"
	}

	switch apiErr.Kind {
	case KindConnectivity:
		return "Erro de conexão. Verifique sua internet"
	case KindAuth:
		return "Não autorizado. Faça login novamente"
	case KindValidation:
		if apiErr.Detail != "" {
			return apiErr.Detail
		}
	}

	if apiErr.Detail != "" {
		return apiErr.Detail
	}
	switch apiErr.Status {
	case 404:
		return "Recurso não encontrado"
	case 403:
		return "Acesso negado"
	case 500:
		return "Erro interno do servidor"
	}
	return "Ocorreu um erro inesperado"
}
