package geometry

import (
	"math"
	"testing"
)

func TestDist(t *testing.T) {
	tests := []struct {
		name string
		a, b Point
		want float64
	}{
		{"same point", Point{1, 1}, Point{1, 1}, 0},
		{"unit x", Point{0, 0}, Point{1, 0}, 1},
		{"unit y", Point{0, 0}, Point{0, 1}, 1},
		{"3-4-5 triangle", Point{0, 0}, Point{3, 4}, 5},
		{"negative coords", Point{-1, -1}, Point{2, 3}, 5},
		{"diagonal", Point{10, 10}, Point{12, 12}, math.Sqrt(8)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Dist(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Dist(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestNearAny(t *testing.T) {
	stroke := []Point{{12, 12}, {14, 14}, {16, 16}}

	tests := []struct {
		name      string
		probe     Point
		points    []Point
		threshold float64
		want      bool
	}{
		{"within tolerance", Point{10, 10}, stroke, 5, true},
		{"far away", Point{30, 30}, stroke, 5, false},
		{"exactly at threshold is not near", Point{12, 9}, []Point{{12, 12}}, 3, false},
		{"just inside threshold", Point{12, 9.01}, []Point{{12, 12}}, 3, true},
		{"empty path", Point{0, 0}, nil, 100, false},
		{"matches later point only", Point{16, 17}, stroke, 2, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NearAny(tt.probe, tt.points, tt.threshold); got != tt.want {
				t.Errorf("NearAny(%v, %v, %v) = %v, want %v", tt.probe, tt.points, tt.threshold, got, tt.want)
			}
		})
	}
}
