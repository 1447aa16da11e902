package qlab

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync/atomic"
	"time"
)

/*
Lab is the entry point for the views: it holds the session config and a
worker pool for the operations that fan out (sweeps over temperature, large
shot counts) or run on a clock (gate-by-gate playback).
*/
type Lab struct {
	config *Config
	pool   *Pool
	seq    atomic.Uint64
}

func NewLab(ctx context.Context, config *Config) *Lab {
	if config == nil {
		config = NewConfig()
	}

	return &Lab{
		config: config,
		pool:   NewPool(ctx, config),
	}
}

// Config returns the session config.
func (lab *Lab) Config() *Config {
	return lab.config
}

// Pool returns the worker pool behind the lab.
func (lab *Lab) Pool() *Pool {
	return lab.pool
}

// Simulate runs the circuit under the session settings.
func (lab *Lab) Simulate(circuit Circuit) (*Result, error) {
	return Simulate(circuit, lab.config.Settings())
}

// NoiseController returns a controller sized and primed from the config.
func (lab *Lab) NoiseController() *NoiseController {
	nc := NewNoiseController(lab.config.HistoryLength)
	nc.SetIntensities(lab.config.Intensities)
	return nc
}

/*
Sweep simulates the same circuit at each temperature concurrently and returns
the results in the order of temperatures.
*/
func (lab *Lab) Sweep(ctx context.Context, circuit Circuit, temperatures []float64) ([]*Result, error) {
	if err := circuit.Validate(); err != nil {
		return nil, err
	}

	pending := make([]chan JobResult, len(temperatures))
	for i, kelvin := range temperatures {
		settings := lab.config.Settings()
		settings.Temperature = kelvin

		pending[i] = lab.pool.Schedule(lab.jobID("sweep"), func() (any, error) {
			return Simulate(circuit, settings)
		}, WithTTL(time.Minute))
	}

	results := make([]*Result, len(temperatures))
	for i, ch := range pending {
		value, err := lab.await(ctx, ch)
		if err != nil {
			return nil, fmt.Errorf("sweep at %s: %w", FormatTemperature(temperatures[i]), err)
		}
		results[i] = value.(*Result)
	}

	return results, nil
}

/*
Measure samples shots outcomes from probs, split into one batch per worker.
Every batch draws from its own PCG source; a non-zero config seed makes the
histogram reproducible.
*/
func (lab *Lab) Measure(ctx context.Context, probs []float64, shots int) (Counts, error) {
	if shots <= 0 {
		return make(Counts, len(probs)), nil
	}

	batches := max(1, min(lab.config.MinWorkers, shots))
	size := shots / batches
	seed := lab.config.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	pending := make([]chan JobResult, batches)
	for b := 0; b < batches; b++ {
		count := size
		if b == batches-1 {
			count = shots - size*(batches-1)
		}

		rng := rand.New(rand.NewPCG(seed, uint64(b)))
		pending[b] = lab.pool.Schedule(lab.jobID("shots"), func() (any, error) {
			return SampleShots(probs, count, rng), nil
		}, WithTTL(time.Minute))
	}

	total := make(Counts, len(probs))
	for _, ch := range pending {
		value, err := lab.await(ctx, ch)
		if err != nil {
			return nil, err
		}
		total = total.Add(value.(Counts))
	}

	return total, nil
}

/*
Play simulates the circuit and emits its steps one playback interval apart,
starting with the state after the first gate. The channel closes after the
final step or when ctx ends.
*/
func (lab *Lab) Play(ctx context.Context, circuit Circuit) (<-chan Step, error) {
	result, err := lab.Simulate(circuit)
	if err != nil {
		return nil, err
	}

	out := make(chan Step)

	go func() {
		defer close(out)

		ticker := time.NewTicker(lab.config.PlaybackInterval)
		defer ticker.Stop()

		for _, step := range result.Steps[1:] {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			if ctx.Err() != nil {
				return
			}

			select {
			case <-ctx.Done():
				return
			case out <- step:
			}
		}
	}()

	return out, nil
}

// Close shuts the pool down.
func (lab *Lab) Close() {
	lab.pool.Close()
}

func (lab *Lab) jobID(kind string) string {
	return fmt.Sprintf("%s-%d", kind, lab.seq.Add(1))
}

func (lab *Lab) await(ctx context.Context, ch chan JobResult) (any, error) {
	select {
	case result := <-ch:
		return result.Value, result.Error
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-lab.pool.ctx.Done():
		return nil, ErrPoolClosed
	}
}
