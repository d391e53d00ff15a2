package core

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/joeydtaylor/steeze-codec/pkg/codec"
	hmetrics "github.com/joeydtaylor/steeze-codec/pkg/middleware/metrics"
	"github.com/joeydtaylor/steeze-codec/pkg/variant"
)

func writeJSON(w http.ResponseWriter, payload []byte, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if len(payload) > 0 {
		_, _ = w.Write(payload)
		return
	}
	_, _ = w.Write([]byte(`{}`))
}

// render marshals v with the route's output codec.
func render(w http.ResponseWriter, out codec.Codec, v any, status int) {
	b, err := out.Marshal(v)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "encode", err.Error())
		return
	}
	writeJSON(w, b, status)
}

type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

func writeError(w http.ResponseWriter, status int, kind, msg string) {
	b, _ := json.Marshal(errorBody{Error: msg, Kind: kind})
	writeJSON(w, b, status)
}

// statusFor maps codec failures to HTTP: server-side setup problems are 500,
// unknown labels 422, anything else about the payload 400.
func statusFor(err error) int {
	switch {
	case errors.Is(err, variant.ErrConfiguration), errors.Is(err, variant.ErrUnregisteredType):
		return http.StatusInternalServerError
	case errors.Is(err, variant.ErrUnregisteredLabel):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}

func writeCodecError(w http.ResponseWriter, err error) {
	writeError(w, statusFor(err), hmetrics.Outcome(err), err.Error())
}

func statusIf(s, def int) int {
	if s > 0 {
		return s
	}
	return def
}
