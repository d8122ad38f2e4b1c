package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignalValuesPreservesOrder(t *testing.T) {
	s := Signal{DataPoints: []DataPoint{{Value: 1}, {Value: 2}, {Value: 3}}}
	assert.Equal(t, []float64{1, 2, 3}, s.Values())
}

func TestSignalValuesEmpty(t *testing.T) {
	s := Signal{}
	assert.Empty(t, s.Values())
}

func TestTemperatureLabelBands(t *testing.T) {
	cases := map[int]string{
		0:   "Frozen",
		15:  "Frozen",
		16:  "Cold",
		30:  "Cold",
		31:  "Cool",
		45:  "Cool",
		46:  "Warm",
		60:  "Warm",
		61:  "Hot",
		75:  "Hot",
		76:  "On Fire",
		90:  "On Fire",
		91:  "Supernova",
		100: "Supernova",
	}
	for score, want := range cases {
		assert.Equal(t, want, TemperatureLabel(score), "score=%d", score)
	}
}
