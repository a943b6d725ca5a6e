package assembler

import (
	"math"

	"github.com/MeKo-Tech/contours/internal/common"
	"github.com/MeKo-Tech/contours/internal/tracer"
)

type chain struct {
	keys   []tracer.PointKey
	closed bool
}

type stitcher struct {
	res  *tracer.Result
	segs []tracer.Segment
	out  map[tracer.PointKey][]int
	in   map[tracer.PointKey]int
	used []bool
}

func newStitcher(res *tracer.Result) *stitcher {
	s := &stitcher{
		res:  res,
		segs: res.Segments,
		out:  make(map[tracer.PointKey][]int, len(res.Segments)),
		in:   make(map[tracer.PointKey]int, len(res.Segments)),
		used: make([]bool, len(res.Segments)),
	}
	for idx, seg := range s.segs {
		s.out[seg.From] = append(s.out[seg.From], idx)
		s.in[seg.To]++
	}
	return s
}

// chains returns open chains first (lines only), then closed loops, each
// group in the order their first segment was traced.
func (s *stitcher) chains(op string, allowOpen bool) ([]chain, error) {
	var result []chain
	if allowOpen {
		for idx, seg := range s.segs {
			if s.used[idx] || s.in[seg.From] > 0 {
				continue
			}
			result = append(result, s.follow(idx, false))
		}
	}
	for idx := range s.segs {
		if s.used[idx] {
			continue
		}
		c := s.follow(idx, true)
		if !c.closed {
			if allowOpen {
				// A dangling chain inside the grid still carries geometry.
				result = append(result, c)
				continue
			}
			return nil, common.NewError(common.ErrAssemblyInconsistency, op,
				"loop starting at %s did not close (ended at %s)", c.keys[0], c.keys[len(c.keys)-1])
		}
		result = append(result, c)
	}
	return result, nil
}

// follow walks unused segments starting with segment idx. With loop set the
// walk stops when it returns to the start key.
func (s *stitcher) follow(idx int, loop bool) chain {
	first := s.segs[idx]
	s.used[idx] = true
	keys := []tracer.PointKey{first.From, first.To}
	prev, cur := first.From, first.To
	for {
		if loop && cur == first.From {
			return chain{keys: keys[:len(keys)-1], closed: true}
		}
		next, ok := s.pick(prev, cur)
		if !ok {
			return chain{keys: keys}
		}
		s.used[next] = true
		prev, cur = cur, s.segs[next].To
		keys = append(keys, cur)
	}
}

// pick chooses the unused outgoing segment at cur. With several candidates
// the one reached first turning clockwise from the incoming direction wins,
// which keeps regions that only touch at a node in separate rings.
func (s *stitcher) pick(prev, cur tracer.PointKey) (int, bool) {
	best, bestTurn := -1, math.Inf(1)
	var back float64
	candidates := 0
	for _, idx := range s.out[cur] {
		if s.used[idx] {
			continue
		}
		candidates++
		if candidates == 1 {
			best = idx
			continue
		}
		if candidates == 2 {
			back = s.angle(cur, prev)
			bestTurn = clockwiseTurn(back, s.angle(cur, s.segs[best].To))
		}
		if turn := clockwiseTurn(back, s.angle(cur, s.segs[idx].To)); turn < bestTurn {
			best, bestTurn = idx, turn
		}
	}
	return best, best >= 0
}

func (s *stitcher) angle(from, to tracer.PointKey) float64 {
	d := s.res.Index(to).Sub(s.res.Index(from))
	return math.Atan2(d.Y, d.X)
}

// clockwiseTurn returns the clockwise sweep in (0, 2π] from direction a to b.
func clockwiseTurn(a, b float64) float64 {
	turn := math.Mod(a-b, 2*math.Pi)
	if turn <= 0 {
		turn += 2 * math.Pi
	}
	return turn
}
