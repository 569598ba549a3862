package api

import (
	"bytes"
	"encoding/json"

	apierrors "hireflow/internal/common/errors"
	"hireflow/internal/models"
)

// Envelope is the backend response convention:
// {success, message, data, pagination?}. The convention is not universally
// honored; several endpoints return a bare array or object, which is wrapped
// here so callers see one shape.
type Envelope struct {
	Success    bool               `json:"success"`
	Message    string             `json:"message"`
	Data       json.RawMessage    `json:"data"`
	Pagination *models.Pagination `json:"pagination,omitempty"`
}

// ParseEnvelope decodes a response body into an Envelope, tolerating bare
// payloads.
func ParseEnvelope(body []byte) (*Envelope, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return &Envelope{Success: true}, nil
	}

	if trimmed[0] == '[' {
		return &Envelope{Success: true, Data: json.RawMessage(trimmed)}, nil
	}

	var env Envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, apierrors.NewDecodeError(err)
	}

	// An object without the envelope marker fields is a bare entity.
	if !bytes.Contains(trimmed, []byte(`"success"`)) && !bytes.Contains(trimmed, []byte(`"data"`)) {
		return &Envelope{Success: true, Data: json.RawMessage(trimmed)}, nil
	}

	return &env, nil
}

// Decode unmarshals the envelope's data into v. A null or absent data block
// leaves v untouched.
func (e *Envelope) Decode(v interface{}) error {
	if len(e.Data) == 0 || bytes.Equal(bytes.TrimSpace(e.Data), []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(e.Data, v); err != nil {
		return apierrors.NewDecodeError(err)
	}
	return nil
}
