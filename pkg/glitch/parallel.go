package glitch

import "golang.org/x/sync/errgroup"

// minBandRows keeps tiny frames on one goroutine.
const minBandRows = 32

// forEachBand calls fn over disjoint row ranges covering [0, rows), using up
// to workers goroutines. fn must only write rows inside its range.
func forEachBand(rows, workers int, fn func(y0, y1 int)) {
	if workers > rows/minBandRows {
		workers = rows / minBandRows
	}
	if workers <= 1 {
		fn(0, rows)
		return
	}

	band := (rows + workers - 1) / workers
	var g errgroup.Group
	g.SetLimit(workers)
	for y0 := 0; y0 < rows; y0 += band {
		y1 := min(y0+band, rows)
		g.Go(func() error {
			fn(y0, y1)
			return nil
		})
	}
	_ = g.Wait()
}
