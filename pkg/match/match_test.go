package match_test

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fvarrui/dbtools/pkg/match"
	"github.com/fvarrui/dbtools/pkg/schema"
)

func col(name string) schema.Column {
	return schema.Column{Table: "t", Name: name, Type: "INTEGER"}
}

func cols(names ...string) []schema.Column {
	out := make([]schema.Column, len(names))
	for i, n := range names {
		out[i] = col(n)
	}
	return out
}

// fixed scores pairs from a lookup table keyed by "src>dst".
func fixed(ratios map[string]float64) match.Func[schema.Column, schema.Column] {
	return func(src, dst schema.Column, _ float64) match.Score[schema.Column, schema.Column] {
		return match.NewScore(src, dst, ratios[src.Name+">"+dst.Name])
	}
}

func names(cs []schema.Column) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Name
	}
	return out
}

func pairs(r *match.Result[schema.Column, schema.Column]) []string {
	out := make([]string, len(r.Matched))
	for i, s := range r.Matched {
		out[i] = s.Source.Name + ">" + s.Destination.Name
	}
	return out
}

func TestMatchEmpty(t *testing.T) {
	fn := fixed(nil)

	r := match.Match(nil, nil, fn, 0.5)
	assert.Empty(t, r.Matched)
	assert.Empty(t, r.UnmatchedSources)
	assert.Empty(t, r.UnmatchedDestinations)
	assert.True(t, r.Empty())

	r = match.Match(cols("a", "b"), nil, fn, 0.5)
	assert.Equal(t, []string{"a", "b"}, names(r.UnmatchedSources))
	assert.Empty(t, r.UnmatchedDestinations)

	r = match.Match(nil, cols("x"), fn, 0.5)
	assert.Empty(t, r.UnmatchedSources)
	assert.Equal(t, []string{"x"}, names(r.UnmatchedDestinations))
}

func TestMatchGlobalGreedy(t *testing.T) {
	// A per-source pass would give a the best x and leave b stranded.
	fn := fixed(map[string]float64{
		"a>x": 0.8, "a>y": 0.7,
		"b>x": 0.9, "b>y": 0.1,
	})

	r := match.Match(cols("a", "b"), cols("x", "y"), fn, 0.5)
	assert.Equal(t, []string{"b>x", "a>y"}, pairs(r))
	assert.Empty(t, r.UnmatchedSources)
	assert.Empty(t, r.UnmatchedDestinations)
	assert.InDelta(t, 1.6, r.Sum(), 1e-9)
	assert.Equal(t, match.Stats{Sources: 2, Destinations: 2, Candidates: 4, Eligible: 3, Committed: 2}, r.Stats)
}

func TestMatchThresholdIsStrict(t *testing.T) {
	fn := fixed(map[string]float64{"a>x": 0.5, "b>y": 0.51})

	r := match.Match(cols("a", "b"), cols("x", "y"), fn, 0.5)
	assert.Equal(t, []string{"b>y"}, pairs(r))
	assert.Equal(t, []string{"a"}, names(r.UnmatchedSources))
	assert.Equal(t, []string{"x"}, names(r.UnmatchedDestinations))
}

func TestMatchTieBreaksByBaseOrder(t *testing.T) {
	ratios := make(map[string]float64)
	for _, s := range []string{"a", "b", "c"} {
		for _, d := range []string{"x", "y"} {
			ratios[s+">"+d] = 0.9
		}
	}

	// Input order must not matter.
	r1 := match.Match(cols("c", "b", "a"), cols("y", "x"), fixed(ratios), 0.5)
	r2 := match.Match(cols("a", "b", "c"), cols("x", "y"), fixed(ratios), 0.5)

	assert.Equal(t, []string{"a>x", "b>y"}, pairs(r1))
	assert.Equal(t, []string{"c"}, names(r1.UnmatchedSources))
	assert.Equal(t, pairs(r1), pairs(r2))
}

func TestMatchLeftoversInBaseOrder(t *testing.T) {
	r := match.Match(cols("zeta", "alpha", "mid"), cols("q", "b", "k"), fixed(nil), 0)
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, names(r.UnmatchedSources))
	assert.Equal(t, []string{"b", "k", "q"}, names(r.UnmatchedDestinations))
}

func TestMatchDoesNotMutateInputs(t *testing.T) {
	srcs := cols("c", "a", "b")
	dsts := cols("z", "x")
	match.Match(srcs, dsts, fixed(map[string]float64{"a>x": 1}), 0.1)
	assert.Equal(t, []string{"c", "a", "b"}, names(srcs))
	assert.Equal(t, []string{"z", "x"}, names(dsts))
}

func TestMatchPassesThreshold(t *testing.T) {
	var seen []float64
	fn := func(src, dst schema.Column, threshold float64) match.Score[schema.Column, schema.Column] {
		seen = append(seen, threshold)
		return match.NewScore(src, dst, 0)
	}
	match.Match(cols("a"), cols("x", "y"), fn, 0.42)
	assert.Equal(t, []float64{0.42, 0.42}, seen)
}

// randomFixture builds n sources, m destinations and random ratios in [0, 1.5).
func randomFixture(rng *rand.Rand, n, m int) ([]schema.Column, []schema.Column, match.Func[schema.Column, schema.Column]) {
	var srcs, dsts []schema.Column
	for i := 0; i < n; i++ {
		srcs = append(srcs, col(fmt.Sprintf("s%02d", i)))
	}
	for j := 0; j < m; j++ {
		dsts = append(dsts, col(fmt.Sprintf("d%02d", j)))
	}
	ratios := make(map[string]float64)
	for _, s := range srcs {
		for _, d := range dsts {
			// Coarse values make ties common.
			ratios[s.Name+">"+d.Name] = float64(rng.IntN(15)) / 10
		}
	}
	return srcs, dsts, fixed(ratios)
}

func assertInvariants(t *testing.T, srcs, dsts []schema.Column, r *match.Result[schema.Column, schema.Column], threshold float64) {
	t.Helper()

	srcSeen := make(map[schema.Key]int)
	dstSeen := make(map[schema.Key]int)
	for _, s := range r.Matched {
		assert.Greater(t, s.Ratio, threshold)
		srcSeen[s.Source.Key()]++
		dstSeen[s.Destination.Key()]++
	}
	for _, s := range r.UnmatchedSources {
		srcSeen[s.Key()]++
	}
	for _, d := range r.UnmatchedDestinations {
		dstSeen[d.Key()]++
	}

	require.Len(t, srcSeen, len(srcs))
	require.Len(t, dstSeen, len(dsts))
	for _, s := range srcs {
		assert.Equal(t, 1, srcSeen[s.Key()], "source %s", s.Name)
	}
	for _, d := range dsts {
		assert.Equal(t, 1, dstSeen[d.Key()], "destination %s", d.Name)
	}
}

func TestMatchProperties(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	thresholds := []float64{0, 0.1, 0.3, 0.5, 0.7, 0.9, 1.0, 1.2, 1.5}

	for run := 0; run < 50; run++ {
		n, m := rng.IntN(7), rng.IntN(7)
		srcs, dsts, fn := randomFixture(rng, n, m)

		prev := -1
		for _, th := range thresholds {
			r := match.Match(srcs, dsts, fn, th)
			assertInvariants(t, srcs, dsts, r, th)

			// Raising the threshold never adds matches.
			if prev >= 0 {
				assert.LessOrEqual(t, len(r.Matched), prev, "run %d threshold %.1f", run, th)
			}
			prev = len(r.Matched)

			again := match.Match(srcs, dsts, fn, th)
			assert.Equal(t, pairs(r), pairs(again))
		}
	}
}

func TestMatchCommitOrderIsBestFirst(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	srcs, dsts, fn := randomFixture(rng, 6, 6)
	r := match.Match(srcs, dsts, fn, 0)
	for i := 1; i < len(r.Matched); i++ {
		assert.GreaterOrEqual(t, r.Matched[i-1].Ratio, r.Matched[i].Ratio)
	}
}

func TestScoreIdentity(t *testing.T) {
	a := match.NewScore(col("a"), col("x"), 0.9)
	b := match.NewScore(col("a"), col("x"), 0.1)
	c := match.NewScore(col("a"), col("y"), 0.9)

	assert.True(t, a.Equal(b), "ratio does not take part in identity")
	assert.False(t, a.Equal(c))
	assert.Equal(t, a.Key(), b.Key())

	set := map[match.PairKey]struct{}{a.Key(): {}, b.Key(): {}, c.Key(): {}}
	assert.Len(t, set, 2)

	a.Aux["type_ratio"] = 0.75
	assert.Equal(t, 0.75, a.Float("type_ratio"))
	assert.Zero(t, a.Float("missing"))
	assert.Equal(t, "t.a -> t.x (0.9000)", a.String())
}

func TestResultLookups(t *testing.T) {
	fn := fixed(map[string]float64{"a>x": 0.9})
	r := match.Match(cols("a", "b"), cols("x"), fn, 0.5)

	s, ok := r.DestinationFor(col("a").Key())
	require.True(t, ok)
	assert.Equal(t, "x", s.Destination.Name)

	_, ok = r.DestinationFor(col("b").Key())
	assert.False(t, ok)

	s, ok = r.SourceFor(col("x").Key())
	require.True(t, ok)
	assert.Equal(t, "a", s.Source.Name)

	if diff := cmp.Diff([]string{"b"}, names(r.UnmatchedSources)); diff != "" {
		t.Errorf("unmatched sources (-want +got):\n%s", diff)
	}
}
