package paypay

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// ResultHeader is the header of every service response.
type ResultHeader struct {
	ResultCode    string `json:"resultCode"`
	ResultMessage string `json:"resultMessage"`
}

// Envelope is the {header, payload} wrapper of every service response.
type Envelope struct {
	Header  ResultHeader    `json:"header"`
	Payload json.RawMessage `json:"payload"`

	raw []byte
}

// ParseEnvelope decodes a response body into an Envelope. It fails with a
// KindUpstreamFormat error when the body is not JSON or has no result code.
func ParseEnvelope(statusCode int, body []byte) (*Envelope, error) {
	if !gjson.ValidBytes(body) {
		return nil, newFormatError("response is not JSON (status %d)", statusCode)
	}
	if !gjson.GetBytes(body, "header.resultCode").Exists() {
		return nil, newFormatError("response has no header.resultCode (status %d)", statusCode)
	}
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, NewError(ErrUpstreamFormat, fmt.Errorf("decode envelope: %w", err))
	}
	env.raw = body
	return &env, nil
}

// OK reports whether the result code is the success sentinel.
func (e *Envelope) OK() bool {
	return e != nil && e.Header.ResultCode == SuccessCode
}

// Err returns nil on success, otherwise a KindRemote error with the result code and message.
func (e *Envelope) Err() error {
	if e == nil {
		return ErrUpstreamFormat
	}
	if e.OK() {
		return nil
	}
	return NewRemoteError(e.Header.ResultCode, e.Header.ResultMessage)
}

// Get reads a gjson path from the payload.
func (e *Envelope) Get(path string) gjson.Result {
	if e == nil {
		return gjson.Result{}
	}
	return gjson.GetBytes(e.Payload, path)
}

// Decode unmarshals the payload into v.
func (e *Envelope) Decode(v any) error {
	if e == nil || len(e.Payload) == 0 || string(e.Payload) == "null" {
		return newFormatError("response has no payload")
	}
	if err := json.Unmarshal(e.Payload, v); err != nil {
		return NewError(ErrUpstreamFormat, fmt.Errorf("decode payload: %w", err))
	}
	return nil
}

// Raw returns the undecoded response body.
func (e *Envelope) Raw() []byte {
	if e == nil {
		return nil
	}
	return e.raw
}

// requireString reads a non-empty string from the payload or fails with KindUpstreamFormat.
func (e *Envelope) requireString(path string) (string, error) {
	v := e.Get(path)
	if !v.Exists() || v.String() == "" {
		return "", newFormatError("response payload has no %s", path)
	}
	return v.String(), nil
}
