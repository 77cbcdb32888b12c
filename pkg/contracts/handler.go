package contracts

import (
	"context"

	"github.com/julienschmidt/httprouter"
)

type Handler interface {
	RegisterRoutes(*httprouter.Router)
}

// Stopper is a background component that must drain before exit.
type Stopper interface {
	Stop(ctx context.Context) error
}

// StopFunc adapts a plain function to Stopper.
type StopFunc func(ctx context.Context) error

func (f StopFunc) Stop(ctx context.Context) error {
	return f(ctx)
}
