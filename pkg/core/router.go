package core

import (
	"net/http"
	"strings"
	"time"

	chimd "github.com/go-chi/chi/v5/middleware"
	"github.com/joeydtaylor/steeze-codec/pkg/codec"
	manifest "github.com/joeydtaylor/steeze-codec/pkg/manifest"
	"github.com/joeydtaylor/steeze-codec/pkg/middleware/auth"
	"github.com/joeydtaylor/steeze-codec/pkg/middleware/logger"
	hmetrics "github.com/joeydtaylor/steeze-codec/pkg/middleware/metrics"
	httpx "github.com/joeydtaylor/steeze-codec/pkg/transport/httpx"
	"go.uber.org/zap"
)

type BuildDeps struct {
	Auth    *auth.Middleware
	LogMW   *logger.Middleware
	Metrics http.Handler
	Router  httpx.Router
	Log     *zap.Logger
}

// BuildRouter mounts /ping, /metrics and every manifest route. cfg must have
// been validated (LoadConfig does this).
func BuildRouter(cfg manifest.Config, d BuildDeps) http.Handler {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	r := d.Router
	if r == nil {
		r = httpx.NewChi()
	}
	r.Use(chimd.RequestID, chimd.Recoverer, chimd.Heartbeat("/ping"))
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", "Not Found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method Not Allowed")
	})

	if d.Auth != nil {
		r.Use(d.Auth.Middleware())
		if d.LogMW != nil {
			r.Use(d.LogMW.Middleware(d.Auth))
		}
		// metrics collector that references auth state without copying it
		r.Use(hmetrics.Collect(d.Auth))
	} else {
		if d.LogMW != nil {
			r.Use(d.LogMW.Middleware(nil))
		}
		r.Use(hmetrics.Collect(nil))
	}

	if d.Metrics == nil {
		d.Metrics = hmetrics.NewPromHttpHandler()
	}
	r.Get("/metrics", d.Metrics)

	def := outputCodec(cfg.Codec.Output)
	for _, rt := range cfg.Routes {
		out := def
		if rt.Codec != "" {
			out = outputCodec(rt.Codec)
		}

		var h http.Handler = wrapRoute(rt, out, d.Log)
		if rt.Policy.TimeoutMS > 0 {
			h = withTimeout(h, time.Duration(rt.Policy.TimeoutMS)*time.Millisecond)
		}
		h = withGuard(h, d.Auth, rt.Guard)

		switch strings.ToUpper(rt.Method) {
		case http.MethodGet:
			r.Get(rt.Path, h)
		case http.MethodPost:
			r.Post(rt.Path, h)
		case http.MethodPut:
			r.Put(rt.Path, h)
		case http.MethodDelete:
			r.Delete(rt.Path, h)
		default:
			r.Handle(rt.Method, rt.Path, h)
		}
		d.Log.Debug("route mounted",
			zap.String("method", rt.Method),
			zap.String("path", rt.Path),
			zap.String("handler", string(rt.Handler.Type)),
			zap.String("family", rt.Handler.Family),
			zap.String("output", out.Name()),
		)
	}
	return r.Mux()
}

func outputCodec(name string) codec.Codec {
	if c, ok := codec.ByName(name); ok {
		return c
	}
	return codec.JSONLenient
}
