package routing

import (
	"math"
	"sort"
)

const connectTolerance = 0.05 // meters

// BuildConnectivity returns, for each segment ID, the IDs of the segments of
// the same network that share an endpoint with it within tolerance. The
// relation is symmetric and each list is sorted.
func BuildConnectivity(segments []Segment) map[string][]string {
	type endpoint struct {
		segIdx int
		isEnd  bool
	}

	cellSize := connectTolerance * 2
	cellKey := func(p [3]float64) [2]int {
		return [2]int{int(math.Floor(p[0] / cellSize)), int(math.Floor(p[2] / cellSize))}
	}
	point := func(s Segment, isEnd bool) [3]float64 {
		if isEnd {
			return s.End
		}
		return s.Start
	}

	// Each endpoint goes into its own cell and the eight around it, so a
	// lookup only needs the cell of the point itself.
	buckets := make(map[[2]int][]endpoint)
	for i, seg := range segments {
		for _, isEnd := range []bool{false, true} {
			key := cellKey(point(seg, isEnd))
			for dx := -1; dx <= 1; dx++ {
				for dz := -1; dz <= 1; dz++ {
					bk := [2]int{key[0] + dx, key[1] + dz}
					buckets[bk] = append(buckets[bk], endpoint{segIdx: i, isEnd: isEnd})
				}
			}
		}
	}

	conn := make(map[string]map[string]bool)
	link := func(a, b string) {
		if conn[a] == nil {
			conn[a] = make(map[string]bool)
		}
		conn[a][b] = true
	}
	for i, seg := range segments {
		for _, isEnd := range []bool{false, true} {
			pt := point(seg, isEnd)
			for _, ep := range buckets[cellKey(pt)] {
				other := segments[ep.segIdx]
				if ep.segIdx == i || other.Network != seg.Network {
					continue
				}
				op := point(other, ep.isEnd)
				if math.Hypot(pt[0]-op[0], pt[2]-op[2]) <= connectTolerance {
					link(seg.ID, other.ID)
					link(other.ID, seg.ID)
				}
			}
		}
	}

	result := make(map[string][]string, len(conn))
	for id, neighbors := range conn {
		ids := make([]string, 0, len(neighbors))
		for nid := range neighbors {
			ids = append(ids, nid)
		}
		sort.Strings(ids)
		result[id] = ids
	}
	return result
}
