package serverfx

import (
	"context"
	"crypto/tls"
	"errors"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/joeydtaylor/steeze-codec/pkg/bundlefx"
	"github.com/joeydtaylor/steeze-codec/pkg/core"
	"github.com/joeydtaylor/steeze-codec/pkg/middleware/auth"
	"github.com/joeydtaylor/steeze-codec/pkg/middleware/logger"
	"github.com/joeydtaylor/steeze-codec/pkg/transport/httpx"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Options allow per-service env keys/defaults without code duplication.
type Options struct {
	Service         string // "steeze-codec"
	ManifestEnv     string // e.g. "STEEZE_MANIFEST"
	DefaultManifest string // e.g. "manifest.toml"
	ListenAddrEnv   string // e.g. "SERVER_LISTEN_ADDRESS"
	DefaultListen   string // e.g. ":4000"
	TLSCertEnv      string // e.g. "SSL_SERVER_CERTIFICATE"
	TLSKeyEnv       string // e.g. "SSL_SERVER_KEY"
}

func (o Options) withDefaults() Options {
	if o.Service == "" {
		o.Service = "steeze-codec"
	}
	if o.ManifestEnv == "" {
		o.ManifestEnv = "STEEZE_MANIFEST"
	}
	if o.DefaultManifest == "" {
		o.DefaultManifest = "manifest.toml"
	}
	if o.ListenAddrEnv == "" {
		o.ListenAddrEnv = "SERVER_LISTEN_ADDRESS"
	}
	if o.DefaultListen == "" {
		o.DefaultListen = ":4000"
	}
	if o.TLSCertEnv == "" {
		o.TLSCertEnv = "SSL_SERVER_CERTIFICATE"
	}
	if o.TLSKeyEnv == "" {
		o.TLSKeyEnv = "SSL_SERVER_KEY"
	}
	return o
}

// ---- Router ----

type routerDeps struct {
	fx.In

	Opts Options

	AuthMW  *auth.Middleware
	LogMW   *logger.Middleware
	Metrics http.Handler

	R   httpx.Router
	Log *zap.Logger
}

// provideRouter loads the manifest; a bad manifest fails app construction.
func provideRouter(d routerDeps) (http.Handler, error) {
	cfgPath := envOr(d.Opts.ManifestEnv, d.Opts.DefaultManifest)
	cfg, err := core.LoadConfig(cfgPath)
	if err != nil {
		d.Log.Error("manifest load failed", zap.Error(err), zap.String("path", cfgPath))
		return nil, err
	}
	d.Log.Info("manifest loaded",
		zap.String("path", cfgPath),
		zap.Int("routes", len(cfg.Routes)),
		zap.Strings("families", core.Families()),
	)

	return core.BuildRouter(cfg, core.BuildDeps{
		Auth:    d.AuthMW,
		LogMW:   d.LogMW,
		Metrics: d.Metrics,
		Router:  d.R,
		Log:     d.Log,
	}), nil
}

// ---- Server lifecycle ----

type serverDeps struct {
	fx.In
	Opts   Options
	Logger *zap.Logger
	App    http.Handler `name:"app"`
}

func registerHooks(lc fx.Lifecycle, d serverDeps) {
	addr := envOr(d.Opts.ListenAddrEnv, d.Opts.DefaultListen)
	cert := os.Getenv(d.Opts.TLSCertEnv)
	key := os.Getenv(d.Opts.TLSKeyEnv)

	srv := &http.Server{
		Addr:         addr,
		Handler:      d.App,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		TLSConfig:    &tls.Config{MinVersion: tls.VersionTLS13, MaxVersion: tls.VersionTLS13},
	}
	useTLS := fileExists(cert) && fileExists(key)

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			// Bind synchronously so a taken port fails startup.
			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return err
			}
			if useTLS {
				d.Logger.Info("server starting (TLS)",
					zap.String("service", d.Opts.Service),
					zap.String("addr", ln.Addr().String()),
					zap.String("cert", cert),
				)
				go func() {
					if err := srv.ServeTLS(ln, cert, key); err != nil && !errors.Is(err, http.ErrServerClosed) {
						d.Logger.Error("server failed", zap.Error(err))
					}
				}()
			} else {
				d.Logger.Info("server starting (PLAINTEXT)",
					zap.String("service", d.Opts.Service),
					zap.String("addr", ln.Addr().String()),
				)
				srv.TLSConfig = nil
				go func() {
					if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
						d.Logger.Error("server failed", zap.Error(err))
					}
				}()
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			d.Logger.Info("server stopping", zap.String("service", d.Opts.Service))
			return srv.Shutdown(ctx)
		},
	})
}

// ---- Public Fx module ----

// Module wires middleware, the manifest router and the HTTP server. Families
// and transformers must be registered before the app is constructed.
func Module(opts Options) fx.Option {
	return fx.Options(
		fx.Supply(opts.withDefaults()),

		// auth, logger, metrics
		bundlefx.Module,

		fx.Provide(httpx.NewChi),

		// Router (named "app")
		fx.Provide(
			fx.Annotate(
				provideRouter,
				fx.ResultTags(`name:"app"`),
			),
		),

		fx.Invoke(registerHooks),
	)
}

// ---- helpers ----

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
