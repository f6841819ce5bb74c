package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/isingviz/internal/correlation"
	"github.com/san-kum/isingviz/internal/lattice"
	"github.com/san-kum/isingviz/internal/record"
	"github.com/san-kum/isingviz/internal/sim"
	"github.com/san-kum/isingviz/internal/storage"
)

func (e *env) params() sim.Params {
	l := e.cfg.Lattice
	return sim.Params{J: l.J, H: l.H, Beta: l.Beta, TimeLen: l.TimeLen, SpaceLen: l.SpaceLen, Seed: l.Seed}
}

func (e *env) record(command string, outputs []string, metrics map[string]float64) {
	l := e.cfg.Lattice
	id, err := e.store.Record(storage.RunMetadata{
		Command:  command,
		J:        l.J,
		H:        l.H,
		Beta:     l.Beta,
		TimeLen:  l.TimeLen,
		SpaceLen: l.SpaceLen,
		Seed:     l.Seed,
		Outputs:  outputs,
		Metrics:  metrics,
	})
	if err != nil {
		e.log.Warn("failed to record run", zap.Error(err))
		return
	}
	e.log.Debug("recorded run", zap.String("id", id))
}

func runHotCold(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.log.Sync()

	p := e.params()
	e.log.Info("hotcold",
		zap.Float64("j", p.J),
		zap.Float64("beta", p.Beta),
		zap.Int("iterations", e.cfg.Lattice.Iterations),
	)
	tr, final, err := sim.HotCold(cmd.Context(), p, e.cfg.Lattice.Iterations)
	if err != nil {
		return err
	}

	paths := e.cfg.Paths
	if err := e.store.SaveSeries(paths.HotEnergies, tr.Hot); err != nil {
		return err
	}
	if err := e.store.SaveSeries(paths.ColdEnergies, tr.Cold); err != nil {
		return err
	}

	fmt.Printf("hot: %f, cold: %f\n", final.Hot, final.Cold)
	e.record("hotcold", []string{paths.HotEnergies, paths.ColdEnergies}, map[string]float64{
		"final_hot":  final.Hot,
		"final_cold": final.Cold,
	})
	return nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.log.Sync()

	l := e.cfg.Lattice
	path := e.store.Path(e.cfg.Paths.States)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error opening file: %w", err)
	}
	defer f.Close()

	w, err := record.NewWriter(f, record.Header{J: l.J, Beta: l.Beta, TimeLen: l.TimeLen, SpaceLen: l.SpaceLen})
	if err != nil {
		return err
	}

	ens := &sim.Ensemble{Params: e.params(), Sweeps: l.Sweeps, Count: l.Count, Workers: l.Workers}
	e.log.Info("generating states",
		zap.Int("count", l.Count),
		zap.Int("sweeps", l.Sweeps),
		zap.String("path", path),
	)
	err = ens.Generate(cmd.Context(), func(i int, lat *lattice.Lattice) error {
		if (i+1)%100 == 0 {
			e.log.Debug("samples written", zap.Int("count", i+1))
		}
		return w.WriteState(lat)
	})
	if err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	e.log.Info("wrote states", zap.Int("count", w.Count()))
	e.record("generate", []string{e.cfg.Paths.States}, nil)
	return nil
}

func runCorrelate(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.log.Sync()

	path := e.store.Path(e.cfg.Paths.States)
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	r, err := record.NewReader(f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	hdr := r.Header()
	lat, err := r.NewLattice()
	if err != nil {
		return err
	}
	acc, err := correlation.NewAccumulator(hdr.TimeLen, hdr.SpaceLen, e.cfg.Lattice.Momenta)
	if err != nil {
		return err
	}

	for {
		if err := cmd.Context().Err(); err != nil {
			return err
		}
		err := r.ReadState(lat)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("%s: state %d: %w", path, acc.Count(), err)
		}
		if err := acc.Add(lat); err != nil {
			return err
		}
	}
	e.log.Info("accumulated correlations",
		zap.Int("samples", acc.Count()),
		zap.Float64("beta", hdr.Beta),
		zap.Int("momenta", acc.Momenta()),
	)

	m, err := acc.Matrix()
	if err != nil {
		return err
	}
	b, err := acc.Bundle()
	if err != nil {
		return err
	}

	paths := e.cfg.Paths
	var outputs []string
	if paths.Correlation != "" {
		if err := e.store.SaveMatrix(paths.Correlation, m); err != nil {
			return err
		}
		outputs = append(outputs, paths.Correlation)
	}
	if paths.Bundle != "" {
		if err := e.store.SaveBundle(paths.Bundle, b); err != nil {
			return err
		}
		outputs = append(outputs, paths.Bundle)
	}

	if printMatrix {
		fmt.Printf("%.3f\n", mat.Formatted(m, mat.Squeeze()))
	}

	e.cfg.Lattice.J, e.cfg.Lattice.Beta = hdr.J, hdr.Beta
	e.cfg.Lattice.TimeLen, e.cfg.Lattice.SpaceLen = hdr.TimeLen, hdr.SpaceLen
	e.record("correlate", outputs, map[string]float64{"samples": float64(acc.Count())})
	return nil
}
