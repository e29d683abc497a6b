package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopologyFor(t *testing.T) {
	for _, kind := range []BuildingLayout{StandardRowLayout, CourtyardLayout, LShapedLayout, UShapedLayout} {
		topo, err := TopologyFor(kind)
		require.NoError(t, err)
		assert.Equal(t, kind, topo.Kind())
	}
	topo, err := TopologyFor("")
	require.NoError(t, err)
	assert.Equal(t, StandardRowLayout, topo.Kind())

	_, err = TopologyFor("spiral")
	assert.Error(t, err)
}

func TestSplits(t *testing.T) {
	tests := []struct {
		units              int
		front, rear        int
		lFront, lSide      int
		uFront, uLeft, uRt int
	}{
		{3, 2, 1, 2, 1, 1, 1, 1},
		{4, 2, 2, 2, 2, 2, 1, 1},
		{5, 3, 2, 3, 2, 2, 2, 1},
		{6, 3, 3, 3, 3, 2, 2, 2},
		{7, 4, 3, 4, 3, 2, 2, 3},
	}
	for _, tt := range tests {
		f, r := CourtyardSplit(tt.units)
		assert.Equal(t, [2]int{tt.front, tt.rear}, [2]int{f, r}, "courtyard %d", tt.units)
		lf, ls := LSplit(tt.units)
		assert.Equal(t, [2]int{tt.lFront, tt.lSide}, [2]int{lf, ls}, "L %d", tt.units)
		uf, ul, ur := USplit(tt.units)
		assert.Equal(t, [3]int{tt.uFront, tt.uLeft, tt.uRt}, [3]int{uf, ul, ur}, "U %d", tt.units)
	}
}

func TestPlanLShaped(t *testing.T) {
	in := boxInput(20, 30, 4, LShapedLayout)

	res, _, err := Plan(in)
	require.NoError(t, err)
	require.False(t, res.Diagnostics.FallbackTopologyUsed)
	assert.Equal(t, LShapedLayout, res.Diagnostics.Topology)
	require.Len(t, res.Buildings, 4)

	var rows []Row
	for _, b := range res.Buildings {
		rows = append(rows, b.Row)
	}
	assert.Equal(t, []Row{RowFront, RowFront, RowSide, RowSide}, rows)

	f := res.Buildings[0]
	assert.InDelta(t, 8.8, f.Width, eps)
	assert.InDelta(t, 18.0, f.Depth, eps)

	s1, s2 := res.Buildings[2], res.Buildings[3]
	assert.InDelta(t, 12.0, s1.X, eps)
	assert.InDelta(t, 8.0, s1.Width, eps)
	assert.InDelta(t, 3.6, s1.Depth, eps)
	assert.InDelta(t, 20.4, s1.Z, eps)
	assert.InDelta(t, 26.4, s2.Z, eps)
	assert.InDelta(t, 30.0, s2.Z+s2.Depth, eps)

	assert.Equal(t, 4, res.Config.NumBuildings)
	assert.Equal(t, []int{1, 1, 1, 1}, res.Config.UnitsPerBuilding)
	assertNoOverlap(t, res.Buildings)
	assertInside(t, in, res.Buildings)
}

func TestPlanLShapedFallsBackWhenSideArmTooShallow(t *testing.T) {
	res, _, err := Plan(boxInput(20, 12, 4, LShapedLayout))
	require.NoError(t, err)
	assert.True(t, res.Diagnostics.FallbackTopologyUsed)
	assert.Equal(t, StandardRowLayout, res.Diagnostics.Topology)
}

func TestPlanUShaped(t *testing.T) {
	in := boxInput(24, 30, 5, UShapedLayout)

	res, _, err := Plan(in)
	require.NoError(t, err)
	require.False(t, res.Diagnostics.FallbackTopologyUsed)
	require.Len(t, res.Buildings, 5)

	var rows []Row
	for _, b := range res.Buildings {
		rows = append(rows, b.Row)
	}
	assert.Equal(t, []Row{RowFront, RowFront, RowLeft, RowLeft, RowRight}, rows)

	assert.InDelta(t, 10.8, res.Buildings[0].Width, eps)
	assert.InDelta(t, 12.0, res.Buildings[0].Depth, eps)

	left1, left2, right := res.Buildings[2], res.Buildings[3], res.Buildings[4]
	assert.InDelta(t, 0.0, left1.X, eps)
	assert.InDelta(t, 7.2, left1.Width, eps)
	assert.InDelta(t, 6.6, left1.Depth, eps)
	assert.InDelta(t, 14.4, left1.Z, eps)
	assert.InDelta(t, 23.4, left2.Z, eps)
	assert.InDelta(t, 16.8, right.X, eps)
	assert.InDelta(t, 14.4, right.Z, eps)

	assertNoOverlap(t, res.Buildings)
	assertInside(t, in, res.Buildings)
}

func TestPlanUShapedNeedsThreeUnits(t *testing.T) {
	res, report, err := Plan(boxInput(24, 30, 2, UShapedLayout))
	require.NoError(t, err)
	assert.True(t, res.Diagnostics.FallbackTopologyUsed)
	assert.True(t, report.Contains("at least 3 units"))
}

func TestRedistribute(t *testing.T) {
	assert.Equal(t, []int{2, 3}, redistribute(5, 2))
	assert.Equal(t, []int{1, 1, 1}, redistribute(3, 5))
	assert.Equal(t, []int{2, 2, 3}, redistribute(7, 3))
	assert.Equal(t, []int{4}, redistribute(4, 0))
}
