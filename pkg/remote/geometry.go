package remote

import "math"

// WheelStepPixels is the pixel delta that corresponds to one scroll step
const WheelStepPixels = 60.0

// Monitor is the geometry of a display in absolute screen coordinates
type Monitor struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ToAbsolute maps normalized [0,1] coordinates onto the monitor.
// (0,0) is the origin pixel and (1,1) the bottom-right pixel.
func (m Monitor) ToAbsolute(xNorm, yNorm float64) (int, int) {
	maxX := float64(saturatingDec(m.Width))
	maxY := float64(saturatingDec(m.Height))

	x := m.X + int(math.Round(clampUnit(xNorm)*maxX))
	y := m.Y + int(math.Round(clampUnit(yNorm)*maxY))
	return x, y
}

// WheelSteps converts a pixel delta into whole scroll steps, rounding half away from zero.
// Results saturate at the int32 range so huge deltas keep their direction.
func WheelSteps(deltaY float64) int {
	if math.IsNaN(deltaY) || math.IsInf(deltaY, 0) {
		return 0
	}
	steps := math.Round(deltaY / WheelStepPixels)
	return int(math.Max(math.MinInt32, math.Min(math.MaxInt32, steps)))
}

func clampUnit(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}

func saturatingDec(v int) int {
	if v <= 0 {
		return 0
	}
	return v - 1
}
