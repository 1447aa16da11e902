package qlab

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/theapemachine/errnie"
)

const (
	// DefaultHistoryLength is about two seconds of frames at 60 FPS.
	DefaultHistoryLength = 120
	minFrameDelta        = 1e-6
)

// NoiseMetrics is the metric snapshot after the latest frame.
type NoiseMetrics struct {
	Fidelity     float64
	Purity       float64
	DecohereRate float64
	Magnitude    float64
}

func pristineMetrics() NoiseMetrics {
	return NoiseMetrics{Fidelity: 1, Purity: 1, Magnitude: 1}
}

// Frame is one recorded history entry.
type Frame struct {
	Time      int
	Fidelity  float64
	Purity    float64
	Magnitude float64
	Bloch     BlochVector
}

// FidelityBand buckets fidelity for colour coding in the views.
type FidelityBand int

const (
	BandCritical FidelityBand = iota
	BandPoor
	BandDegraded
	BandGood
	BandExcellent
)

var bandNames = [...]string{"critical", "poor", "degraded", "good", "excellent"}

func (band FidelityBand) String() string {
	if band < 0 || int(band) >= len(bandNames) {
		return fmt.Sprintf("FidelityBand(%d)", int(band))
	}
	return bandNames[band]
}

/*
NoiseController drives the continuous noise model frame by frame. It keeps
the ideal Bloch vector produced by the gates next to the noisy one that the
channels act on, and records metrics for plotting.

It is safe for concurrent use; the render loop and the UI handlers usually
live on different goroutines.
*/
type NoiseController struct {
	mu          sync.RWMutex
	model       ContinuousPhysicalNoise
	ideal       BlochVector
	noisy       BlochVector
	intensities Intensities
	lastFrame   time.Duration
	armed       bool
	metrics     NoiseMetrics
	history     []Frame
	maxHistory  int
}

func NewNoiseController(historyLength int) *NoiseController {
	if historyLength <= 0 {
		historyLength = DefaultHistoryLength
	}

	return &NoiseController{
		model:      NewContinuousPhysicalNoise(),
		ideal:      BlochGround,
		noisy:      BlochGround,
		metrics:    pristineMetrics(),
		history:    make([]Frame, 0, historyLength),
		maxHistory: historyLength,
	}
}

// SetIdealBloch replaces the gate-computed reference. Non-finite vectors are ignored.
func (nc *NoiseController) SetIdealBloch(v BlochVector) {
	if !v.Finite() {
		errnie.Info("NoiseController - ignoring invalid Bloch vector %v", v)
		return
	}

	nc.mu.Lock()
	defer nc.mu.Unlock()
	nc.ideal = v
}

// SetIntensities stores the channel intensities clamped to [0, 1].
func (nc *NoiseController) SetIntensities(in Intensities) {
	nc.mu.Lock()
	defer nc.mu.Unlock()
	nc.intensities = in.Clamped()
}

/*
Update advances the noisy state to the frame timestamp now. The first call
only arms the clock. Frames closer than a microsecond to the previous one are
skipped.
*/
func (nc *NoiseController) Update(now time.Duration) {
	nc.mu.Lock()
	defer nc.mu.Unlock()

	if !nc.armed {
		nc.lastFrame = now
		nc.armed = true
		return
	}

	dt := max(0, (now - nc.lastFrame).Seconds())
	nc.lastFrame = now

	if dt < minFrameDelta {
		return
	}

	nc.noisy = nc.model.Update(nc.noisy, dt, nc.intensities)

	nc.metrics.Fidelity = Fidelity(nc.ideal, nc.noisy)
	nc.metrics.Purity = Purity(nc.noisy)
	nc.metrics.Magnitude = nc.noisy.Magnitude()
	nc.metrics.DecohereRate = max(0, 1-nc.metrics.Purity) / 0.5

	nc.record()
}

func (nc *NoiseController) record() {
	nc.history = append(nc.history, Frame{
		Time:      len(nc.history),
		Fidelity:  nc.metrics.Fidelity,
		Purity:    nc.metrics.Purity,
		Magnitude: nc.metrics.Magnitude,
		Bloch:     nc.noisy,
	})

	if len(nc.history) > nc.maxHistory {
		nc.history = nc.history[1:]
	}
}

func (nc *NoiseController) NoisyBloch() BlochVector {
	nc.mu.RLock()
	defer nc.mu.RUnlock()
	return nc.noisy
}

func (nc *NoiseController) IdealBloch() BlochVector {
	nc.mu.RLock()
	defer nc.mu.RUnlock()
	return nc.ideal
}

func (nc *NoiseController) Intensities() Intensities {
	nc.mu.RLock()
	defer nc.mu.RUnlock()
	return nc.intensities
}

func (nc *NoiseController) Metrics() NoiseMetrics {
	nc.mu.RLock()
	defer nc.mu.RUnlock()
	return nc.metrics
}

// History returns a copy of the recorded frames, oldest first.
func (nc *NoiseController) History() []Frame {
	nc.mu.RLock()
	defer nc.mu.RUnlock()
	return append([]Frame(nil), nc.history...)
}

// Reset puts the noisy state back on the ideal one and clears timing and history.
func (nc *NoiseController) Reset() {
	nc.mu.Lock()
	defer nc.mu.Unlock()

	nc.noisy = nc.ideal
	nc.armed = false
	nc.lastFrame = 0
	nc.history = nc.history[:0]
	nc.metrics = pristineMetrics()
}

// Band classifies the current fidelity.
func (nc *NoiseController) Band() FidelityBand {
	return BandFor(nc.Metrics().Fidelity)
}

// BandFor classifies a fidelity value.
func BandFor(fidelity float64) FidelityBand {
	switch {
	case fidelity > 0.9:
		return BandExcellent
	case fidelity > 0.7:
		return BandGood
	case fidelity > 0.5:
		return BandDegraded
	case fidelity > 0.3:
		return BandPoor
	default:
		return BandCritical
	}
}

var historyHeader = []string{"time", "fidelity", "purity", "magnitude", "x", "y", "z"}

/*
ExportCSV writes the history as a header row followed by one row per frame,
floats in fixed point with four decimals.
*/
func (nc *NoiseController) ExportCSV(w io.Writer) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(historyHeader); err != nil {
		return err
	}

	for _, frame := range nc.History() {
		row := []string{
			strconv.Itoa(frame.Time),
			fixed4(frame.Fidelity),
			fixed4(frame.Purity),
			fixed4(frame.Magnitude),
			fixed4(frame.Bloch.X),
			fixed4(frame.Bloch.Y),
			fixed4(frame.Bloch.Z),
		}

		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func fixed4(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
