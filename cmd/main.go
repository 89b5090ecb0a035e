// Command mthread-demo runs a small end-to-end scenario: a pool of workers
// consumes a batch of numbers via the parallel-iterator bridge, and the
// totals are reported once every job has drained.
package main

import (
	"context"
	"fmt"
	"time"

	"github.com/ninetymile/mthread"
)

func main() {
	pool := mthread.NewPool(4, 128)
	defer pool.Shutdown()

	items := make([]int, 2000)
	for i := range items {
		items[i] = i
	}
	seq := mthread.FromSlice(items)
	cfg := mthread.DefaultParConfig(pool)

	start := time.Now()
	squares, ok := mthread.ParMapCollectUnordered(context.Background(), seq, pool, cfg, func(v int) int {
		return v * v
	})
	if !ok {
		fmt.Println("submission failed")
		return
	}

	sum := 0
	for _, v := range squares {
		sum += v
	}

	fmt.Printf("summed %d squares to %d in %s\n", len(squares), sum, time.Since(start))
	fmt.Printf("pool stats: %+v\n", pool.Stats())
}
