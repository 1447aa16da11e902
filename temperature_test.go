package qlab

import (
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestTemperatureFidelity(t *testing.T) {
	Convey("Given the log-temperature curve", t, func() {
		Convey("It runs from about 0.97 at 15 mK to about 0.25 at 300 K", func() {
			So(TemperatureFidelity(0.015), ShouldAlmostEqual, 0.97, 0.02)
			So(TemperatureFidelity(300), ShouldAlmostEqual, 0.25, 0.02)
		})

		Convey("It never increases with temperature", func() {
			previous := TemperatureFidelity(0.001)
			for kelvin := 0.001; kelvin < 2000; kelvin *= 1.1 {
				f := TemperatureFidelity(kelvin)
				So(f, ShouldBeLessThanOrEqualTo, previous)
				So(f, ShouldBeBetweenOrEqual, 0.05, 0.99)
				previous = f
			}
		})

		Convey("Out-of-range temperatures clamp to the ends", func() {
			So(TemperatureFidelity(0), ShouldEqual, TemperatureFidelity(MinTemperature))
			So(TemperatureFidelity(math.NaN()), ShouldEqual, TemperatureFidelity(MinTemperature))
			So(TemperatureFidelity(10000), ShouldEqual, TemperatureFidelity(MaxTemperature))
			So(TemperatureFidelity(1000), ShouldAlmostEqual, 0.25, 1e-12)
		})
	})
}

func TestTemperatureSlider(t *testing.T) {
	Convey("Given the temperature slider", t, func() {
		Convey("The ends map to 15 mK and 300 K", func() {
			So(SliderFromTemperature(MinTemperature), ShouldEqual, 0.0)
			So(SliderFromTemperature(MaxTemperature), ShouldAlmostEqual, 1, 1e-12)
			So(TemperatureFromSlider(0), ShouldAlmostEqual, MinTemperature, 1e-12)
			So(TemperatureFromSlider(1), ShouldAlmostEqual, MaxTemperature, 1e-9)
		})

		Convey("Slider and temperature round-trip", func() {
			for _, preset := range TemperaturePresets {
				back := TemperatureFromSlider(SliderFromTemperature(preset.Kelvin))
				So(back, ShouldAlmostEqual, preset.Kelvin, preset.Kelvin*1e-9)
			}
		})
	})
}

func TestFormatTemperature(t *testing.T) {
	Convey("Given temperatures across the range", t, func() {
		So(FormatTemperature(0.015), ShouldEqual, "15 mK")
		So(FormatTemperature(0.1), ShouldEqual, "100 mK")
		So(FormatTemperature(4), ShouldEqual, "4.0 K")
		So(FormatTemperature(77), ShouldEqual, "77 K")
		So(FormatTemperature(300), ShouldEqual, "300 K")

		Convey("The end presets are labelled with their formatted value", func() {
			So(FormatTemperature(TemperaturePresets[0].Kelvin), ShouldEqual, TemperaturePresets[0].Label)
			So(FormatTemperature(TemperaturePresets[4].Kelvin), ShouldEqual, TemperaturePresets[4].Label)
		})
	})
}
