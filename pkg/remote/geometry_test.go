package remote

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMonitorToAbsolute(t *testing.T) {
	m := Monitor{X: 0, Y: 0, Width: 1920, Height: 1080}

	tests := []struct {
		name         string
		xNorm, yNorm float64
		wantX, wantY int
	}{
		{"origin", 0, 0, 0, 0},
		{"bottom right", 1, 1, 1919, 1079},
		{"center", 0.5, 0.5, 960, 540},
		{"clamped above", 1.7, 12, 1919, 1079},
		{"clamped below", -0.2, -3, 0, 0},
		{"nan", math.NaN(), math.NaN(), 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := m.ToAbsolute(tt.xNorm, tt.yNorm)
			assert.Equal(t, tt.wantX, x)
			assert.Equal(t, tt.wantY, y)
		})
	}
}

func TestMonitorToAbsoluteOffset(t *testing.T) {
	m := Monitor{X: 1920, Y: -200, Width: 2560, Height: 1440}

	x, y := m.ToAbsolute(0, 0)
	assert.Equal(t, 1920, x)
	assert.Equal(t, -200, y)

	x, y = m.ToAbsolute(1, 1)
	assert.Equal(t, 1920+2559, x)
	assert.Equal(t, -200+1439, y)
}

func TestMonitorToAbsoluteDegenerate(t *testing.T) {
	m := Monitor{X: 10, Y: 20}

	x, y := m.ToAbsolute(1, 1)
	assert.Equal(t, 10, x)
	assert.Equal(t, 20, y)
}

func TestWheelSteps(t *testing.T) {
	tests := []struct {
		deltaY float64
		want   int
	}{
		{150, 3},
		{10, 0},
		{-10, 0},
		{30, 1},
		{-30, -1},
		{60, 1},
		{-120, -2},
		{0, 0},
		{math.NaN(), 0},
		{math.Inf(1), 0},
		{1e30, math.MaxInt32},
		{-1e30, math.MinInt32},
		{60 * float64(math.MaxInt32), math.MaxInt32},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, WheelSteps(tt.deltaY), "deltaY=%v", tt.deltaY)
	}
}
