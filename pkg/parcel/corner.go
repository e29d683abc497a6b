package parcel

import (
	"math"
	"sort"
)

// Corner-lot criteria, in evaluation order. CornerAnalysis.Failed names the
// first one that rejected the lot.
const (
	CriterionEdgeCount        = "edge_count"
	CriterionSubstantialEdges = "substantial_edges"
	CriterionEdgeRatio        = "edge_ratio"
	CriterionRightAngles      = "right_angles"
	CriterionRegularity       = "regularity"
	CriterionAspect           = "aspect_ratio"
	CriterionFrontageBoth     = "frontage_both"
	CriterionInternal         = "internal"
)

// CornerPolicy holds the corner-lot thresholds. The defaults were calibrated
// empirically and should be reviewed against local bylaws.
type CornerPolicy struct {
	MinStreetFrontage float64 `json:"min_street_frontage"`
	MinFrontageBoth   float64 `json:"min_frontage_both"`
	MinEdgeRatio      float64 `json:"min_edge_ratio"`
	RightAngleMin     float64 `json:"right_angle_min"`
	RightAngleMax     float64 `json:"right_angle_max"`
	MinRightAngles    int     `json:"min_right_angles"`
	MinRegularity     float64 `json:"min_regularity"`
	MaxAspect         float64 `json:"max_aspect"`
	EdgeCount         int     `json:"edge_count"`
}

// DefaultCornerPolicy returns the conservative thresholds.
func DefaultCornerPolicy() CornerPolicy {
	return CornerPolicy{
		MinStreetFrontage: 20,
		MinFrontageBoth:   25,
		MinEdgeRatio:      0.85,
		RightAngleMin:     85,
		RightAngleMax:     95,
		MinRightAngles:    2,
		MinRegularity:     0.90,
		MaxAspect:         1.5,
		EdgeCount:         4,
	}
}

// CornerAnalysis records the measurements behind a corner-lot decision.
type CornerAnalysis struct {
	LotType          LotType `json:"lot_type"`
	EdgeCount        int     `json:"edge_count"`
	SubstantialEdges int     `json:"substantial_edges"`
	EdgeRatio        float64 `json:"edge_ratio"`
	RightAngles      int     `json:"right_angles"`
	Regularity       float64 `json:"regularity"`
	AspectRatio      float64 `json:"aspect_ratio"`
	Failed           string  `json:"failed,omitempty"`
}

// Classify decides whether a lot with the given edge lengths and folded
// corner angles is a corner lot. Every criterion must pass; the first failure
// makes the lot standard. Classify never panics.
func (p CornerPolicy) Classify(lengths, cornerAngles []float64) (a CornerAnalysis) {
	defer func() {
		if r := recover(); r != nil {
			a = CornerAnalysis{LotType: LotStandard, Failed: CriterionInternal}
		}
	}()

	a = CornerAnalysis{LotType: LotStandard, EdgeCount: len(lengths)}
	if len(lengths) < 4 {
		a.Failed = CriterionEdgeCount
		return a
	}

	sorted := append([]float64(nil), lengths...)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))

	for _, l := range sorted {
		if l >= p.MinStreetFrontage {
			a.SubstantialEdges++
		}
	}
	if sorted[0] > 0 {
		a.EdgeRatio = sorted[1] / sorted[0]
	}
	for _, ang := range cornerAngles {
		if ang >= p.RightAngleMin && ang <= p.RightAngleMax {
			a.RightAngles++
		}
	}
	a.Regularity = Regularity(lengths)
	// A zero second edge leaves AspectRatio at 0; EdgeRatio fails first.
	if sorted[1] > 0 {
		a.AspectRatio = sorted[0] / sorted[1]
	}

	switch {
	case a.SubstantialEdges < 2:
		a.Failed = CriterionSubstantialEdges
	case a.EdgeRatio < p.MinEdgeRatio:
		a.Failed = CriterionEdgeRatio
	case a.RightAngles < p.MinRightAngles:
		a.Failed = CriterionRightAngles
	case a.Regularity < p.MinRegularity:
		a.Failed = CriterionRegularity
	case a.AspectRatio > p.MaxAspect:
		a.Failed = CriterionAspect
	case len(lengths) != p.EdgeCount:
		a.Failed = CriterionEdgeCount
	case sorted[0] < p.MinFrontageBoth || sorted[1] < p.MinFrontageBoth:
		a.Failed = CriterionFrontageBoth
	default:
		a.LotType = LotCorner
	}
	return a
}

// Regularity scores how close a quadrilateral is to having two pairs of equal
// sides, in [0, 1]. Anything other than four edges scores 0.5.
func Regularity(lengths []float64) float64 {
	if len(lengths) != 4 {
		return 0.5
	}
	s := append([]float64(nil), lengths...)
	sort.Float64s(s)
	if s[1] <= 0 || s[3] <= 0 {
		return 0.5
	}
	pair1 := 1 - math.Abs(s[0]-s[1])/math.Max(s[0], s[1])
	pair2 := 1 - math.Abs(s[2]-s[3])/math.Max(s[2], s[3])
	return math.Max(0, math.Min(1, (pair1+pair2)/2))
}

// ResolveLotType applies a manual override ("standard" or "corner") to a
// detected lot type. Any other override keeps the detection.
func ResolveLotType(detected LotType, override string) LotType {
	switch LotType(override) {
	case LotStandard, LotCorner:
		return LotType(override)
	}
	return detected
}
