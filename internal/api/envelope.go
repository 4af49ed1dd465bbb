package api

import (
	"bytes"
	"encoding/json"

	appErrors "github.com/noah-isme/sma-admin-console/pkg/errors"
)

// envelope mirrors the loose response contracts the backend emits. The
// success flag and data wrapper are not universally present, so every field
// is optional and the decoder resolves the shape in one place.
type envelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

var nullLiteral = []byte("null")

// decodeEnvelope unwraps a response body into dest, tolerating the three
// shapes the backend is known to produce: {success,data,message}, a bare
// {data} wrapper, and a bare array or object. Anything else is a typed
// decode failure. The returned string is the server-supplied message, when
// present.
func decodeEnvelope(body []byte, dest interface{}) (string, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, nullLiteral) {
		return "", nil
	}

	if trimmed[0] == '[' {
		if dest == nil {
			return "", nil
		}
		if err := json.Unmarshal(trimmed, dest); err != nil {
			return "", appErrors.Wrap(err, appErrors.ErrDecode.Code, 0, appErrors.ErrDecode.Message)
		}
		return "", nil
	}

	if trimmed[0] != '{' {
		return "", appErrors.Clone(appErrors.ErrDecode, "")
	}

	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrDecode.Code, 0, appErrors.ErrDecode.Message)
	}

	if env.Success != nil && !*env.Success {
		return env.Message, appErrors.Clone(appErrors.ErrServer, env.Message)
	}

	hasData := len(env.Data) > 0 && !bytes.Equal(bytes.TrimSpace(env.Data), nullLiteral)

	switch {
	case dest == nil:
		return env.Message, nil
	case hasData:
		if err := json.Unmarshal(env.Data, dest); err != nil {
			return env.Message, appErrors.Wrap(err, appErrors.ErrDecode.Code, 0, appErrors.ErrDecode.Message)
		}
		return env.Message, nil
	case env.Success == nil && env.Message == "":
		// No recognised wrapper key: treat the whole object as the payload.
		if err := json.Unmarshal(trimmed, dest); err != nil {
			return "", appErrors.Wrap(err, appErrors.ErrDecode.Code, 0, appErrors.ErrDecode.Message)
		}
		return "", nil
	default:
		return env.Message, nil
	}
}

// serverMessage extracts a human-readable message from an error response
// body, when one can be recognised.
func serverMessage(body []byte) string {
	var env envelope
	if err := json.Unmarshal(bytes.TrimSpace(body), &env); err != nil {
		return ""
	}
	return env.Message
}
