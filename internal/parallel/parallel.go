// Package parallel runs one unit of work per task with staggered launches
// and an optional bound on how many units run at once.
//
//	err := parallel.Run(ctx, tasks, parallel.Options{
//	    Interval:    50 * time.Millisecond,
//	    MaxInFlight: 8,
//	}, func(ctx context.Context, task model.DownloadTask) {
//	    if _, err := downloader.Download(ctx, task); err != nil {
//	        log.WithError(err).Error("download failed")
//	    }
//	})
package parallel

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Options controls the fan-out.
type Options struct {
	// Interval is the minimum gap between two successive launches.
	// Zero launches as fast as the in-flight bound allows.
	Interval time.Duration

	// MaxInFlight caps the number of units running at the same time.
	// Zero or less means no cap: every task may run concurrently.
	MaxInFlight int
}

// Run starts worker once per task, in task order, and waits for every
// started unit to return.
//
// Launches are paced so that start times are at least opts.Interval apart.
// When opts.MaxInFlight is reached, the next launch waits for a running unit
// to finish. Workers report nothing back; a failing worker affects no other
// unit and Run does not collect failures.
//
// If ctx is cancelled, no further units are launched; Run still waits for
// the running ones and then returns ctx.Err(). Otherwise it returns nil.
func Run[T any](ctx context.Context, tasks []T, opts Options, worker func(context.Context, T)) error {
	limit := rate.Inf
	if opts.Interval > 0 {
		limit = rate.Every(opts.Interval)
	}
	limiter := rate.NewLimiter(limit, 1)

	var sem *semaphore.Weighted
	if opts.MaxInFlight > 0 {
		sem = semaphore.NewWeighted(int64(opts.MaxInFlight))
	}

	var (
		wg        sync.WaitGroup
		launchErr error
	)
	for _, task := range tasks {
		// The slot is taken before the token so a launch delayed by the
		// bound is still spaced from the previous one.
		if sem != nil {
			if err := sem.Acquire(ctx, 1); err != nil {
				launchErr = err
				break
			}
		}
		if err := wait(ctx, limiter); err != nil {
			if sem != nil {
				sem.Release(1)
			}
			launchErr = err
			break
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			if sem != nil {
				defer sem.Release(1)
			}
			worker(ctx, task)
		}()
	}

	wg.Wait()
	return launchErr
}

// wait blocks until limiter grants a token or ctx is done.
//
// Unlike rate.Limiter.Wait it does not give up early when the token would
// arrive after the context deadline, so a stopped launch always reports
// ctx.Err().
func wait(ctx context.Context, limiter *rate.Limiter) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r := limiter.Reserve()
	delay := r.Delay()
	if delay == 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		r.Cancel()
		return ctx.Err()
	}
}
