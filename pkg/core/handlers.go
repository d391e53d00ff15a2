package core

import (
	"context"
	"sync"
)

// InprocHandler is the signature for user-defined in-process handlers.
// 'in' is the raw request body, 'status' is HTTP status code to send.
type InprocHandler func(ctx context.Context, in []byte) (out []byte, status int, err error)

var (
	handlerMu sync.RWMutex
	registry  = map[string]InprocHandler{}
)

// Register makes a handler available under a name referenced in the manifest.
// Registering a name again replaces the handler.
func Register(name string, h InprocHandler) {
	handlerMu.Lock()
	registry[name] = h
	handlerMu.Unlock()
}

// Lookup retrieves a registered in-proc handler by name.
func Lookup(name string) (InprocHandler, bool) {
	handlerMu.RLock()
	defer handlerMu.RUnlock()
	h, ok := registry[name]
	return h, ok
}
