package events

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/odyssey-erp/ordergroove-connector/internal/platform/httpx"
)

// Envelope decoding errors. All of them wrap httpx.ErrValidation.
var (
	ErrMissingBody    = fmt.Errorf("%w: request body is empty", httpx.ErrValidation)
	ErrMissingMessage = fmt.Errorf("%w: push envelope has no message", httpx.ErrValidation)
	ErrMissingData    = fmt.Errorf("%w: push message has no data", httpx.ErrValidation)
	ErrDecode         = fmt.Errorf("%w: push message data could not be decoded", httpx.ErrValidation)
)

const maxEnvelopeBytes = 4 << 20

// PushMessage is the message part of a push delivery.
type PushMessage struct {
	Data        string            `json:"data"`
	MessageID   string            `json:"messageId,omitempty"`
	Attributes  map[string]string `json:"attributes,omitempty"`
	PublishTime string            `json:"publishTime,omitempty"`
}

// PushEnvelope is the body of a push delivery.
type PushEnvelope struct {
	Message      *PushMessage `json:"message"`
	Subscription string       `json:"subscription,omitempty"`
}

type wrappedPayload struct {
	Data *Payload `json:"data"`
}

var payloadValidator = validator.New()

// ReadEnvelope reads and checks the structure of a push delivery body.
func ReadEnvelope(body io.Reader) (PushEnvelope, error) {
	var env PushEnvelope
	if body == nil {
		return env, ErrMissingBody
	}
	raw, err := io.ReadAll(io.LimitReader(body, maxEnvelopeBytes))
	if err != nil {
		return env, fmt.Errorf("%w: %v", ErrMissingBody, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return env, ErrMissingBody
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return env, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if env.Message == nil {
		return env, ErrMissingMessage
	}
	if strings.TrimSpace(env.Message.Data) == "" {
		return env, ErrMissingData
	}
	return env, nil
}

// DecodePayload base64-decodes the message data and parses the event payload.
// The payload may be wrapped as {"data": {...}} or sent bare.
func DecodePayload(msg PushMessage) (Payload, error) {
	raw, err := decodeBase64(strings.TrimSpace(msg.Data))
	if err != nil {
		return Payload{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	var wrapped wrappedPayload
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return Payload{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	payload := wrapped.Data
	if payload == nil {
		var bare Payload
		if err := json.Unmarshal(raw, &bare); err != nil {
			return Payload{}, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		payload = &bare
	}
	if err := payloadValidator.Struct(payload); err != nil {
		return Payload{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return *payload, nil
}

func decodeBase64(data string) ([]byte, error) {
	encodings := []*base64.Encoding{
		base64.StdEncoding,
		base64.RawStdEncoding,
		base64.URLEncoding,
		base64.RawURLEncoding,
	}
	var firstErr error
	for _, enc := range encodings {
		decoded, err := enc.DecodeString(data)
		if err == nil {
			return decoded, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, firstErr
}
