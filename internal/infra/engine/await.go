package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tutu-network/fmodcli/internal/domain"
)

// Await runs one generate call and waits for its single resolution.
//
// The call runs on its own goroutine and delivers into a one-slot channel, so
// it resolves at most once and never blocks after the caller has gone. When
// timeout is positive and elapses first, the result is a Failure. When ctx is
// cancelled (the process received a termination signal), Await returns
// domain.ErrAbandoned and no result; the caller must not print anything.
func Await(ctx context.Context, b domain.GenerationBackend, req domain.GenerationRequest, timeout time.Duration) (domain.GenerationResult, error) {
	var (
		callCtx context.Context
		cancel  context.CancelFunc
	)
	if timeout > 0 {
		callCtx, cancel = context.WithTimeout(ctx, timeout)
	} else {
		callCtx, cancel = context.WithCancel(ctx)
	}
	defer cancel()

	done := make(chan domain.GenerationResult, 1)
	go func() {
		done <- b.Generate(callCtx, req)
	}()

	select {
	case r := <-done:
		if ctx.Err() != nil {
			return nil, domain.ErrAbandoned
		}
		if _, ok := r.(domain.Success); !ok && errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return timedOut(timeout), nil
		}
		return r, nil
	case <-callCtx.Done():
		if ctx.Err() != nil {
			return nil, domain.ErrAbandoned
		}
		return timedOut(timeout), nil
	}
}

func timedOut(d time.Duration) domain.Failure {
	return domain.Failure{Message: fmt.Sprintf("%v after %s", domain.ErrGenerationTimeout, d)}
}
