package sim

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/isingviz/internal/lattice"
)

// Ensemble produces independently thermalized hot-start samples. Sample i
// uses seed Params.Seed+i, so the samples do not depend on Workers.
type Ensemble struct {
	Params  Params
	Sweeps  int
	Count   int
	Workers int
}

// Sample thermalizes sample i into l.
func (e *Ensemble) Sample(ctx context.Context, i int, l *lattice.Lattice) error {
	rng := lattice.NewXoshiro(e.Params.Seed + uint64(i))
	l.Randomize(rng)

	p := e.Params
	energy := l.Hamiltonian(p.J, p.H)
	for s := 0; s < e.Sweeps; s++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		energy = l.Sweep(rng, energy, p.J, p.H, p.Beta)
	}
	return nil
}

// Generate computes the samples on a bounded worker group and calls emit
// for each one in index order. emit must not retain the lattice.
func (e *Ensemble) Generate(ctx context.Context, emit func(i int, l *lattice.Lattice) error) error {
	if err := e.Params.Validate(); err != nil {
		return err
	}
	if e.Count <= 0 {
		return nil
	}
	workers := e.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	pool := NewLatticePool(e.Params.TimeLen, e.Params.SpaceLen)
	slots := make([]chan *lattice.Lattice, e.Count)
	for i := range slots {
		slots[i] = make(chan *lattice.Lattice, 1)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	done := make(chan error, 1)
	go func() {
		launched := 0
		for i := 0; i < e.Count && gctx.Err() == nil; i++ {
			g.Go(func() error {
				l := pool.Get()
				if err := e.Sample(gctx, i, l); err != nil {
					return fmt.Errorf("sim: sample %d: %w", i, err)
				}
				slots[i] <- l
				return nil
			})
			launched++
		}
		err := g.Wait()
		if err == nil && launched < e.Count {
			err = ctx.Err()
		}
		done <- err
	}()

	var (
		waitErr error
		waited  bool
	)
	wait := func() error {
		if !waited {
			waitErr, waited = <-done, true
		}
		return waitErr
	}

	for i := 0; i < e.Count; i++ {
		var l *lattice.Lattice
		select {
		case l = <-slots[i]:
		case <-gctx.Done():
			// gctx is also cancelled once every sample has finished
			if err := wait(); err != nil {
				return err
			}
			l = <-slots[i]
		}

		err := emit(i, l)
		pool.Put(l)
		if err != nil {
			cancel()
			wait()
			return err
		}
	}
	return wait()
}
