// Package bundlefx groups the middleware modules every steeze-codec service uses.
package bundlefx

import (
	"github.com/joeydtaylor/steeze-codec/pkg/middleware/auth"
	"github.com/joeydtaylor/steeze-codec/pkg/middleware/logger"
	"github.com/joeydtaylor/steeze-codec/pkg/middleware/metrics"
	"go.uber.org/fx"
)

// Module provides *auth.Middleware, *logger.Middleware, *zap.Logger and the
// unnamed http.Handler serving /metrics.
var Module = fx.Options(
	auth.Module,
	logger.Module,
	metrics.Module,
)
