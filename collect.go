// SPDX-License-Identifier: MIT
package hierarchy

import (
	"context"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"

	"gitlab.com/fisherprime/ecshierarchy/table"
	"gitlab.com/fisherprime/ecshierarchy/types"
)

// CollectDescendants walks the subtrees of roots concurrently, returning the depth-first
// descendants of each root.
//
// Only read access is taken; the caller must not mutate the World until this returns. A dead root
// is reported as ErrNoSuchEntity while the others are still collected.
func (h *Hierarchy[T]) CollectDescendants(ctx context.Context, roots ...table.Entity) (descendants map[table.Entity][]table.Entity, err error) {
	descendants = make(map[table.Entity][]table.Entity, len(roots))
	if len(roots) < 1 {
		return
	}

	size := h.cfg.PoolSize
	if size < 1 {
		size = defPoolSize
	}

	pool, err := ants.NewPool(size)
	if err != nil {
		err = fmt.Errorf("collect descendants: %w", err)
		return
	}
	defer pool.Release()

	var (
		m  sync.Mutex
		wg sync.WaitGroup
	)

	done := make(chan struct{}, len(roots))
	errChan := make(chan error, len(roots))

	for _, root := range roots {
		root := root

		task := func() {
			defer wg.Done()

			select {
			case <-ctx.Done():
				errChan <- ctx.Err()
				return
			default:
			}

			if !h.world.Alive(root) {
				errChan <- fmt.Errorf("(%v) %w", root, ErrNoSuchEntity)
				return
			}

			subtree := h.DescendantsDepthFirst(root).Collect()

			m.Lock()
			descendants[root] = subtree
			m.Unlock()

			done <- struct{}{}
		}

		wg.Add(1)
		if sErr := pool.Submit(task); sErr != nil {
			wg.Done()
			errChan <- sErr
		}
	}

	err = types.MonitorChannels(ctx, len(roots), done, errChan, "collect descendants")

	// MonitorChannels returns early on cancellation; descendants must not be shared until the
	// tasks are done with it.
	wg.Wait()

	if h.cfg.Debug {
		h.cfg.Logger.Debugf("collected the descendants of %d/%d root(s)", len(descendants), len(roots))
	}

	return
}
