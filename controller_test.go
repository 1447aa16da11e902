package qlab

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

const frame = time.Second / 60

func TestNoiseController(t *testing.T) {
	Convey("Given a controller on |+⟩", t, func() {
		nc := NewNoiseController(0)
		nc.SetIdealBloch(BlochVector{X: 1})
		nc.Reset()

		Convey("It starts pristine", func() {
			So(nc.NoisyBloch(), ShouldResemble, BlochVector{X: 1})
			So(nc.Metrics(), ShouldResemble, NoiseMetrics{Fidelity: 1, Purity: 1, Magnitude: 1})
			So(nc.Band(), ShouldEqual, BandExcellent)
		})

		Convey("The first frame only arms the clock", func() {
			nc.SetIntensities(Intensities{Depolarizing: 1})
			nc.Update(5 * time.Second)
			So(nc.NoisyBloch(), ShouldResemble, BlochVector{X: 1})
			So(nc.History(), ShouldBeEmpty)
		})

		Convey("Frames closer than a microsecond are skipped", func() {
			nc.SetIntensities(Intensities{Depolarizing: 1})
			nc.Update(0)
			nc.Update(500 * time.Nanosecond)
			So(nc.History(), ShouldBeEmpty)
		})

		Convey("Phase damping decoheres toward the z axis", func() {
			nc.SetIntensities(Intensities{Phase: 1e-5})
			nc.Update(0)
			nc.Update(frame)

			decay := math.Exp(-DefaultRates.PhaseDamping * 1e-5 * frame.Seconds())
			metrics := nc.Metrics()
			So(nc.NoisyBloch().X, ShouldAlmostEqual, decay, 1e-12)
			So(metrics.Fidelity, ShouldAlmostEqual, (1+decay)/2, 1e-12)
			So(metrics.Magnitude, ShouldAlmostEqual, decay, 1e-12)
			So(metrics.DecohereRate, ShouldAlmostEqual, (1-metrics.Purity)/0.5, 1e-12)
			So(nc.History(), ShouldHaveLength, 1)
		})

		Convey("Full depolarizing noise empties the state", func() {
			nc.SetIntensities(Intensities{Depolarizing: 1})
			nc.Update(0)
			nc.Update(frame)

			metrics := nc.Metrics()
			So(metrics.Magnitude, ShouldBeLessThan, 0.01)
			So(metrics.Purity, ShouldAlmostEqual, 0.5, 1e-3)
			So(metrics.DecohereRate, ShouldAlmostEqual, 1, 1e-2)
			So(nc.Band(), ShouldEqual, BandPoor)
		})

		Convey("Intensities are clamped and invalid ideals ignored", func() {
			nc.SetIntensities(Intensities{Amplitude: 3, Phase: -1})
			So(nc.Intensities(), ShouldResemble, Intensities{Amplitude: 1})

			nc.SetIdealBloch(BlochVector{Y: math.Inf(1)})
			So(nc.IdealBloch(), ShouldResemble, BlochVector{X: 1})
		})

		Convey("Reset restores the ideal state and clears history", func() {
			nc.SetIntensities(Intensities{Amplitude: 1})
			nc.Update(0)
			nc.Update(frame)
			nc.Reset()

			So(nc.NoisyBloch(), ShouldResemble, BlochVector{X: 1})
			So(nc.History(), ShouldBeEmpty)

			nc.Update(time.Hour)
			So(nc.History(), ShouldBeEmpty)
		})
	})

	Convey("Given a short history", t, func() {
		nc := NewNoiseController(5)
		nc.SetIntensities(Intensities{Phase: 0.1})

		for i := 0; i <= 10; i++ {
			nc.Update(time.Duration(i) * frame)
		}

		Convey("Only the latest frames are kept", func() {
			So(nc.History(), ShouldHaveLength, 5)
		})
	})
}

func TestBandFor(t *testing.T) {
	Convey("Given fidelity values", t, func() {
		So(BandFor(0.95), ShouldEqual, BandExcellent)
		So(BandFor(0.9), ShouldEqual, BandGood)
		So(BandFor(0.71), ShouldEqual, BandGood)
		So(BandFor(0.6), ShouldEqual, BandDegraded)
		So(BandFor(0.4), ShouldEqual, BandPoor)
		So(BandFor(0.3), ShouldEqual, BandCritical)
		So(BandCritical.String(), ShouldEqual, "critical")
		So(BandExcellent.String(), ShouldEqual, "excellent")

		Convey("Bands outside the scale still print", func() {
			So(FidelityBand(7).String(), ShouldEqual, "FidelityBand(7)")
			So(FidelityBand(-1).String(), ShouldEqual, "FidelityBand(-1)")
		})
	})
}

func TestExportCSV(t *testing.T) {
	Convey("Given a controller with two frames", t, func() {
		nc := NewNoiseController(0)
		nc.Update(0)
		nc.Update(frame)
		nc.Update(2 * frame)

		var buf bytes.Buffer
		So(nc.ExportCSV(&buf), ShouldBeNil)
		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")

		Convey("It writes a header and one fixed-point row per frame", func() {
			So(lines, ShouldHaveLength, 3)
			So(lines[0], ShouldEqual, "time,fidelity,purity,magnitude,x,y,z")
			So(lines[1], ShouldEqual, "0,1.0000,1.0000,1.0000,0.0000,0.0000,1.0000")
			So(lines[2], ShouldStartWith, "1,")
		})
	})
}
