// SPDX-License-Identifier: MIT
package types

import (
	"context"
	"errors"
	"fmt"
)

// Synchronization errors.
var (
	ErrInvalidGoroutineCount = errors.New("invalid goroutine count")
)

// MonitorChannels `error`s & completion status.
//
// Each of the operations reports exactly once, either on done or on errChan. The errors are joined
// under errPrefix, which should be in the singular form.
func MonitorChannels(ctx context.Context, operations int, done <-chan struct{}, errChan <-chan error, errPrefix string) (err error) {
	if operations < 1 {
		err = fmt.Errorf("%s %w: %d", errPrefix, ErrInvalidGoroutineCount, operations)
		return
	}

	var errs []error
	for index := 0; index < operations; index++ {
		select {
		case <-ctx.Done():
			errs = append(errs, ctx.Err())
			return fmt.Errorf("%s: %w", errPrefix, errors.Join(errs...))
		case <-done:
		case e := <-errChan:
			errs = append(errs, e)
		}
	}

	if len(errs) > 0 {
		err = fmt.Errorf("%s: %w", errPrefix, errors.Join(errs...))
	}

	return
}
