package sejm

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Kind tags the variant held by a Response.
type Kind uint8

const (
	// Absent means no result: transport failure, timeout or non-2xx status.
	Absent Kind = iota
	// Structured means a JSON body, kept verbatim in Response.JSON.
	Structured
	// Binary means any other body, kept in Response.Body.
	Binary
)

// String returns the variant name
func (k Kind) String() string {
	switch k {
	case Structured:
		return "structured"
	case Binary:
		return "binary"
	default:
		return "absent"
	}
}

// Response is the result of a single API call.
type Response struct {
	Kind   Kind
	JSON   json.RawMessage
	Body   []byte
	Reason error
}

func structured(data []byte) Response {
	return Response{Kind: Structured, JSON: json.RawMessage(data)}
}

func binary(data []byte) Response {
	return Response{Kind: Binary, Body: data}
}

func absent(reason error) Response {
	return Response{Kind: Absent, Reason: reason}
}

// NotFound reports whether the response is absent because of a 404.
func (r Response) NotFound() bool {
	var apiErr *APIError
	return r.Kind == Absent && errors.As(r.Reason, &apiErr) && apiErr.IsNotFound()
}

// Empty reports whether the response carries no usable payload. JSON null,
// {} and [] count as empty.
func (r Response) Empty() bool {
	switch r.Kind {
	case Structured:
		trimmed := bytes.TrimSpace(r.JSON)
		switch string(trimmed) {
		case "", "null", "{}", "[]":
			return true
		}
		return false
	case Binary:
		return len(r.Body) == 0
	default:
		return true
	}
}

// Decode unmarshals a structured response into v. Absent responses return
// their reason and binary responses return ErrNotStructured.
func (r Response) Decode(v any) error {
	switch r.Kind {
	case Structured:
		if err := json.Unmarshal(r.JSON, v); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
		return nil
	case Binary:
		return ErrNotStructured
	default:
		if r.Reason == nil {
			return errors.New("no result")
		}
		return r.Reason
	}
}
