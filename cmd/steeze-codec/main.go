// Command steeze-codec serves the shape family over HTTP.
package main

import (
	"github.com/joeydtaylor/steeze-codec/pkg/middleware/logger"
	"github.com/joeydtaylor/steeze-codec/pkg/serverfx"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func main() {
	log := logger.NewLog("codec.log")
	if err := registerShapes(log); err != nil {
		log.Fatal("shape family registration failed", zap.Error(err))
	}

	fx.New(
		serverfx.Module(serverfx.Options{Service: "steeze-codec"}),
	).Run()
}
