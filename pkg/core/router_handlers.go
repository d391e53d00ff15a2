package core

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"

	chimd "github.com/go-chi/chi/v5/middleware"
	"github.com/joeydtaylor/steeze-codec/pkg/codec"
	"github.com/joeydtaylor/steeze-codec/pkg/core/transform"
	manifest "github.com/joeydtaylor/steeze-codec/pkg/manifest"
	"github.com/joeydtaylor/steeze-codec/pkg/variant"
	"go.uber.org/zap"
)

// LabelHeader carries the discriminator label of a canonicalized value.
const LabelHeader = "X-Variant-Label"

func wrapRoute(rt manifest.Route, out codec.Codec, log *zap.Logger) http.HandlerFunc {
	switch rt.Handler.Type {
	case manifest.HandlerInproc:
		h, ok := Lookup(rt.Handler.Name)
		if !ok {
			return missing("handler not found")
		}
		return func(w http.ResponseWriter, r *http.Request) {
			body, ok := readBody(w, r, rt.Policy.MaxBodyBytes)
			if !ok {
				return
			}
			res, status, err := h(r.Context(), body)
			if err != nil {
				writeError(w, statusIf(status, http.StatusInternalServerError), "handler", err.Error())
				return
			}
			writeJSON(w, res, statusIf(status, http.StatusOK))
		}

	case manifest.HandlerCanonicalize:
		fam, ok := LookupFamily(rt.Handler.Family)
		if !ok {
			return missing("family not found")
		}
		return canonicalize(rt, fam, out, log)

	case manifest.HandlerSchema:
		fam, ok := LookupFamily(rt.Handler.Family)
		if !ok {
			return missing("family not found")
		}
		schema := sync.OnceValues(fam.Schema)
		return func(w http.ResponseWriter, _ *http.Request) {
			b, err := schema()
			if err != nil {
				writeError(w, http.StatusInternalServerError, "schema", err.Error())
				return
			}
			render(w, out, json.RawMessage(b), http.StatusOK)
		}

	case manifest.HandlerLabels:
		fam, ok := LookupFamily(rt.Handler.Family)
		if !ok {
			return missing("family not found")
		}
		body := struct {
			Family        string   `json:"family"`
			Discriminator string   `json:"discriminator"`
			Labels        []string `json:"labels"`
		}{rt.Handler.Family, fam.Discriminator(), fam.Labels()}
		return func(w http.ResponseWriter, _ *http.Request) {
			render(w, out, body, http.StatusOK)
		}

	default:
		return missing("unknown handler type")
	}
}

// canonicalize decodes the body with the family codec, applies the route's
// transformers in order and re-encodes the result.
func canonicalize(rt manifest.Route, fam variant.Family, out codec.Codec, log *zap.Logger) http.HandlerFunc {
	family, names := rt.Handler.Family, rt.Handler.Transformers
	return func(w http.ResponseWriter, r *http.Request) {
		body, ok := readBody(w, r, rt.Policy.MaxBodyBytes)
		if !ok {
			return
		}
		l := log.With(zap.String("family", family), zap.String("requestId", chimd.GetReqID(r.Context())))

		v, err := fam.DecodeAny(body)
		if err != nil {
			l.Debug("decode rejected", zap.Error(err))
			writeCodecError(w, err)
			return
		}
		if v != nil && len(names) > 0 {
			v, err = transform.Apply(family, v, names)
			if err != nil {
				l.Debug("transform failed", zap.Strings("transformers", names), zap.Error(err))
				writeError(w, http.StatusUnprocessableEntity, "transform", err.Error())
				return
			}
		}

		obj, err := fam.EncodeAny(v)
		if err != nil {
			l.Warn("re-encode failed", zap.Error(err))
			writeCodecError(w, err)
			return
		}
		if obj == nil {
			writeJSON(w, []byte("null"), http.StatusOK)
			return
		}
		if raw, ok := obj.Get(fam.Discriminator()); ok {
			var label string
			if json.Unmarshal(raw, &label) == nil {
				w.Header().Set(LabelHeader, label)
			}
		}
		render(w, out, obj, http.StatusOK)
	}
}

func readBody(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, bool) {
	if limit <= 0 {
		limit = manifest.DefaultMaxBodyBytes
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(w, http.StatusRequestEntityTooLarge, "too_large", err.Error())
		} else {
			writeError(w, http.StatusBadRequest, "read", err.Error())
		}
		return nil, false
	}
	return body, true
}

func missing(msg string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusInternalServerError, "configuration", msg)
	}
}
