package replay

import (
	"math"
	"math/rand"

	"github.com/xkilldash9x/mousebackend/api/schemas"
)

// easeInOutCubic accelerates out of the press and decelerates into the drop.
func easeInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

// dragPath returns the pointer positions of the moves of a drag step. The
// last position is always exactly To so the drop lands where scripted.
func dragPath(st Step) []schemas.Point {
	moves := st.Moves
	if moves == 0 {
		moves = defaultDragMoves
	}
	from, to := *st.From, *st.To

	var jx, jy *pinkNoise
	if st.Jitter > 0 {
		rng := rand.New(rand.NewSource(st.Seed))
		jx, jy = newPinkNoise(rng, 0), newPinkNoise(rng, 0)
	}

	path := make([]schemas.Point, moves)
	for k := 1; k <= moves; k++ {
		t := float64(k) / float64(moves)
		if st.Easing {
			t = easeInOutCubic(t)
		}
		p := from.Lerp(to, t)
		if jx != nil && k < moves {
			p.X += jx.next() * st.Jitter
			p.Y += jy.next() * st.Jitter
		}
		path[k-1] = p
	}
	return path
}

// pinkNoise is a stochastic Voss-McCartney 1/f generator. Successive samples
// are correlated, which reads like a hand drifting rather than shaking.
type pinkNoise struct {
	rng    *rand.Rand
	values []float64
	p      []float64
	sum    float64
	scale  float64
}

// newPinkNoise creates a generator with n sources, 12 when n <= 0.
func newPinkNoise(rng *rand.Rand, n int) *pinkNoise {
	if n <= 0 {
		n = 12
	}
	g := &pinkNoise{
		rng:    rng,
		values: make([]float64, n),
		p:      make([]float64, n),
		scale:  1 / math.Sqrt(float64(n)),
	}

	// Source i changes half as often as source i-1.
	total := 0.0
	for i := range g.p {
		g.p[i] = math.Pow(2, float64(-i))
		total += g.p[i]
	}
	for i := range g.p {
		g.p[i] /= total
		g.values[i] = g.white()
		g.sum += g.values[i]
	}
	return g
}

func (g *pinkNoise) white() float64 {
	return g.rng.Float64()*2 - 1
}

// next returns a sample in [-sqrt(n), sqrt(n)], usually within [-1, 1].
func (g *pinkNoise) next() float64 {
	r := g.rng.Float64()
	idx := len(g.p) - 1
	acc := 0.0
	for i, p := range g.p {
		acc += p
		if r < acc {
			idx = i
			break
		}
	}

	v := g.white()
	g.sum += v - g.values[idx]
	g.values[idx] = v
	return g.sum * g.scale
}
