package similarity_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fvarrui/dbtools/pkg/similarity"
)

func TestRatio(t *testing.T) {
	tests := []struct {
		a, b    string
		want    float64
		matches int
	}{
		{"", "", 1.0, 0},
		{"", "abc", 0.0, 0},
		{"abc", "", 0.0, 0},
		{"abcd", "abcd", 1.0, 4},
		{"abcd", "bcde", 0.75, 3},
		{"customers", "clients", 0.25, 2},
		{"INTEGER", "VARCHAR", 0.14285714285714285, 1},
		{"INTEGER", "INT", 0.6, 3},
		{"VARCHAR", "VARCHAR(100)", 0.7368421052631579, 7},
		{"orders", "order_items", 0.7058823529411765, 6},
		{"email[VARCHAR]", "email_address[VARCHAR]", 0.7777777777777778, 14},
		{"id[INTEGER]", "email_address[VARCHAR]", 0.30303030303030304, 5},
		{"email[VARCHAR]", "id[INTEGER]", 0.32, 4},
		{"abxcd", "abcd", 0.8888888888888888, 4},
		{"qabxcd", "abycdf", 0.6666666666666666, 4},
		{"ñandú", "nandu", 0.6, 3},
	}

	for _, tt := range tests {
		t.Run(tt.a+"~"+tt.b, func(t *testing.T) {
			assert.InDelta(t, tt.want, similarity.Ratio(tt.a, tt.b), 1e-12)
			assert.Equal(t, tt.matches, similarity.Matches(tt.a, tt.b))
		})
	}
}

// Long inputs with frequent runes must not trigger the autojunk heuristic.
func TestRatioLongInputs(t *testing.T) {
	a := strings.Repeat("ab", 150)
	b := a + "c"

	assert.Equal(t, 300, similarity.Matches(a, b))
	assert.InDelta(t, 600.0/601.0, similarity.Ratio(a, b), 1e-12)
}

func TestRatioBounds(t *testing.T) {
	words := []string{"", "a", "id", "name", "customer_id", "CUSTOMER_ID", "aaaa", "abab", "VARCHAR(255)"}
	for _, a := range words {
		for _, b := range words {
			r := similarity.Ratio(a, b)
			assert.GreaterOrEqual(t, r, 0.0)
			assert.LessOrEqual(t, r, 1.0)
			if a == b {
				assert.Equal(t, 1.0, r)
			}
		}
	}
}

func TestCache(t *testing.T) {
	c := similarity.NewCache()

	first := c.Ratio("customers", "clients")
	second := c.Ratio("customers", "clients")
	assert.Equal(t, first, second)
	assert.Equal(t, similarity.Ratio("customers", "clients"), first)
	assert.Equal(t, 1, c.Len())

	hits, misses := c.Stats()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(1), misses)

	// Argument order is part of the key.
	c.Ratio("clients", "customers")
	assert.Equal(t, 2, c.Len())

	c.Flush()
	assert.Equal(t, 0, c.Len())
	hits, misses = c.Stats()
	assert.Zero(t, hits)
	assert.Zero(t, misses)
}

func TestNilCache(t *testing.T) {
	var c *similarity.Cache
	assert.Equal(t, 0.25, c.Ratio("customers", "clients"))
	assert.Equal(t, 0, c.Len())
	c.Flush()
	hits, misses := c.Stats()
	assert.Zero(t, hits+misses)
}

func BenchmarkRatio(b *testing.B) {
	for i := 0; i < b.N; i++ {
		similarity.Ratio("customer_email_address[VARCHAR(255)]", "client_email[VARCHAR(320)]")
	}
}
