package core

import (
	"math"
	"testing"
)

func TestNormalizeVector(t *testing.T) {
	tests := []struct {
		name     string
		input    []float32
		expected []float32
	}{
		{
			name:     "unit vector remains unchanged",
			input:    []float32{1.0, 0.0, 0.0},
			expected: []float32{1.0, 0.0, 0.0},
		},
		{
			name:     "scale non-unit vector",
			input:    []float32{3.0, 4.0},
			expected: []float32{0.6, 0.8},
		},
		{
			name:     "negative values",
			input:    []float32{-1.0, 1.0},
			expected: []float32{-1.0 / float32(math.Sqrt(2)), 1.0 / float32(math.Sqrt(2))},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NormalizeVector(tt.input)
			if len(result) != len(tt.expected) {
				t.Fatalf("Expected length %d, got %d", len(tt.expected), len(result))
			}

			for i := range result {
				if math.Abs(float64(tt.expected[i]-result[i])) > 1e-6 {
					t.Fatalf("Element %d: expected %f, got %f", i, tt.expected[i], result[i])
				}
			}

			var magnitude float32
			for _, v := range result {
				magnitude += v * v
			}
			if math.Abs(float64(magnitude)-1.0) > 1e-6 {
				t.Fatalf("Expected unit magnitude, got %f", magnitude)
			}
		})
	}
}

func TestNormalizeVectorZero(t *testing.T) {
	result := NormalizeVector([]float32{0, 0, 0})
	for i, v := range result {
		if v != 0 {
			t.Fatalf("Element %d should be 0, got %f", i, v)
		}
	}
}

func TestNormalizeVectorEmpty(t *testing.T) {
	if len(NormalizeVector(nil)) != 0 {
		t.Fatal("Expected empty result for empty input")
	}
}
