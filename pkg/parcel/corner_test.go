package parcel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var square = []float64{30, 30, 30, 30}
var rightAngles = []float64{90, 90, 90, 90}

func TestClassifyCorner(t *testing.T) {
	a := DefaultCornerPolicy().Classify(square, rightAngles)
	assert.Equal(t, LotCorner, a.LotType)
	assert.Empty(t, a.Failed)
	assert.Equal(t, 4, a.SubstantialEdges)
	assert.Equal(t, 4, a.RightAngles)
	assert.InDelta(t, 1.0, a.Regularity, 1e-9)
	assert.InDelta(t, 1.0, a.EdgeRatio, 1e-9)
}

// Breaking any single criterion of a passing lot must make it standard.
func TestClassifyIsConservative(t *testing.T) {
	def := DefaultCornerPolicy()
	loose := def
	loose.MinEdgeRatio = 0.5
	loose.MinRegularity = 0.5

	tests := []struct {
		name    string
		policy  CornerPolicy
		lengths []float64
		angles  []float64
		failed  string
	}{
		{"three edges", def, []float64{30, 30, 30}, []float64{60, 60, 60}, CriterionEdgeCount},
		{"short edges", def, []float64{30, 19, 19, 19}, rightAngles, CriterionSubstantialEdges},
		{"unequal frontages", def, []float64{30, 24, 24, 24}, rightAngles, CriterionEdgeRatio},
		{"skewed corners", def, square, []float64{80, 80, 80, 80}, CriterionRightAngles},
		{"irregular sides", def, []float64{40, 38, 22, 30}, rightAngles, CriterionRegularity},
		{"elongated", loose, []float64{60, 38, 38, 38}, rightAngles, CriterionAspect},
		{"five edges", def, []float64{30, 30, 30, 30, 30}, []float64{90, 90, 90, 90, 90}, CriterionRegularity},
		{"frontages under 25m", def, []float64{24, 24, 24, 24}, rightAngles, CriterionFrontageBoth},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := tt.policy.Classify(tt.lengths, tt.angles)
			assert.Equal(t, LotStandard, a.LotType)
			assert.Equal(t, tt.failed, a.Failed)
		})
	}
}

func TestClassifyExactEdgeCount(t *testing.T) {
	p := DefaultCornerPolicy()
	p.MinRegularity = 0
	a := p.Classify([]float64{30, 30, 30, 30, 30}, []float64{90, 90, 90, 90, 90})
	assert.Equal(t, LotStandard, a.LotType)
	assert.Equal(t, CriterionEdgeCount, a.Failed)
}

func TestClassifyProfileFromGeometry(t *testing.T) {
	p, err := Analyze(rectRing(30, 30))
	require.NoError(t, err)
	assert.Equal(t, LotCorner, p.LotType)

	p, err = Analyze(rectRing(10, 18))
	require.NoError(t, err)
	assert.Equal(t, LotStandard, p.LotType)
	assert.Equal(t, CriterionSubstantialEdges, p.Corner.Failed)
}

func TestClassifyDegenerateInputs(t *testing.T) {
	a := DefaultCornerPolicy().Classify([]float64{0, 0, 0, 0}, nil)
	assert.Equal(t, LotStandard, a.LotType)
	a = DefaultCornerPolicy().Classify(nil, nil)
	assert.Equal(t, LotStandard, a.LotType)
}

func TestRegularity(t *testing.T) {
	assert.InDelta(t, 1.0, Regularity([]float64{15, 30, 15, 30}), 1e-9)
	assert.InDelta(t, 0.5, Regularity([]float64{10, 10, 10}), 1e-9)
	// Pairs (20,25) and (30,30): (0.8 + 1) / 2.
	assert.InDelta(t, 0.9, Regularity([]float64{30, 20, 30, 25}), 1e-9)
}

func TestResolveLotType(t *testing.T) {
	assert.Equal(t, LotCorner, ResolveLotType(LotStandard, "corner"))
	assert.Equal(t, LotStandard, ResolveLotType(LotCorner, "standard"))
	assert.Equal(t, LotCorner, ResolveLotType(LotCorner, ""))
	assert.Equal(t, LotStandard, ResolveLotType(LotStandard, "bogus"))
}

func TestAssessDedication(t *testing.T) {
	d := AssessDedication(LotCorner, "RS-1")
	assert.True(t, d.LaneDedication)
	assert.True(t, d.StreetWidening)
	assert.Equal(t, "N", d.LaneDirection)
	assert.Equal(t, "E", d.WideningDirection)
	assert.False(t, d.StatutoryRightOfWay)

	d = AssessDedication(LotStandard, "RT-7")
	assert.True(t, d.LaneDedication)
	assert.False(t, d.StreetWidening)
	assert.Empty(t, d.WideningDirection)

	d = AssessDedication(LotStandard, "RM-4")
	assert.False(t, d.LaneDedication)
	assert.Empty(t, d.LaneDirection)
}
