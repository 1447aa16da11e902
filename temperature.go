package qlab

import (
	"fmt"
	"math"
)

const (
	// MinTemperature is the dilution-refrigerator floor, 15 mK.
	MinTemperature = 0.015
	// MaxTemperature is room temperature.
	MaxTemperature = 300.0

	fidelityCeiling = 0.97
	fidelitySpan    = 0.72
	fidelityMin     = 0.05
	fidelityMax     = 0.99
)

var (
	logMinTemperature = math.Log10(MinTemperature)
	logMaxTemperature = math.Log10(MaxTemperature)
)

/*
TemperatureFidelity maps a temperature in Kelvin onto the state fidelity used
to drive circuit noise. A smoothstep over the log-temperature axis runs from
≈0.97 at 15 mK down to ≈0.25 at 300 K. The curve never increases with
temperature; values below 15 mK are treated as 15 mK and values above 300 K
as 300 K, where the smoothstep would otherwise turn back up. Above 300 K this
differs from evaluating the cubic unclamped, which gives ≈0.285 at 1000 K
instead of 0.25.
*/
func TemperatureFidelity(kelvin float64) float64 {
	t := clamp(SliderFromTemperature(kelvin), 0, 1)
	return clamp(fidelityCeiling-fidelitySpan*t*t*(3-2*t), fidelityMin, fidelityMax)
}

/*
SliderFromTemperature is the position of a temperature on the log axis,
0 at 15 mK and 1 at 300 K. Temperatures above 300 K extrapolate past 1.
*/
func SliderFromTemperature(kelvin float64) float64 {
	if math.IsNaN(kelvin) || kelvin < MinTemperature {
		kelvin = MinTemperature
	}
	return (math.Log10(kelvin) - logMinTemperature) / (logMaxTemperature - logMinTemperature)
}

// TemperatureFromSlider inverts SliderFromTemperature for a slider in [0, 1].
func TemperatureFromSlider(v float64) float64 {
	v = clamp(v, 0, 1)
	return math.Pow(10, logMinTemperature+v*(logMaxTemperature-logMinTemperature))
}

// TemperaturePreset is a named operating point on the temperature axis.
type TemperaturePreset struct {
	Label  string
	Kelvin float64
}

var TemperaturePresets = []TemperaturePreset{
	{Label: "15 mK", Kelvin: 0.015},
	{Label: "100 mK", Kelvin: 0.1},
	{Label: "4 K", Kelvin: 4},
	{Label: "77 K", Kelvin: 77},
	{Label: "300 K", Kelvin: 300},
}

// FormatTemperature renders mK below 1 K, one decimal below 10 K, whole Kelvin above.
func FormatTemperature(kelvin float64) string {
	switch {
	case kelvin < 1:
		return fmt.Sprintf("%.0f mK", kelvin*1000)
	case kelvin < 10:
		return fmt.Sprintf("%.1f K", kelvin)
	default:
		return fmt.Sprintf("%d K", int(math.Round(kelvin)))
	}
}
