package mapper_test

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fvarrui/dbtools/pkg/errors"
	"github.com/fvarrui/dbtools/pkg/logging"
	"github.com/fvarrui/dbtools/pkg/mapper"
	"github.com/fvarrui/dbtools/pkg/schema"
	"github.com/fvarrui/dbtools/pkg/similarity"
)

// table builds a table from name/type pairs.
func table(name string, cols ...string) schema.Table {
	t := schema.Table{Name: name}
	for i := 0; i+1 < len(cols); i += 2 {
		t.Columns = append(t.Columns, schema.Column{Name: cols[i], Type: cols[i+1]})
	}
	return t
}

func customers() *schema.Schema {
	return schema.MustNew("src", table("customers", "id", "INTEGER", "email", "VARCHAR"))
}

func clients() *schema.Schema {
	return schema.MustNew("dst", table("clients", "id", "INTEGER", "email_address", "VARCHAR"))
}

// shop and store share three tables under different names and one table
// without counterpart on each side.
func shop() *schema.Schema {
	return schema.MustNew("shop",
		table("customers", "id", "INTEGER", "name", "VARCHAR", "email", "VARCHAR"),
		table("orders", "id", "INTEGER", "customer_id", "INTEGER", "total", "DECIMAL"),
		table("order_lines", "order_id", "INTEGER", "product", "VARCHAR", "qty", "INTEGER"),
		table("audit"),
	)
}

func store() *schema.Schema {
	return schema.MustNew("store",
		table("clients", "id", "INTEGER", "full_name", "VARCHAR", "email_address", "VARCHAR"),
		table("orders", "id", "INTEGER", "client_id", "INTEGER", "amount", "NUMERIC"),
		table("order_items", "order_id", "INTEGER", "product_name", "VARCHAR", "quantity", "INTEGER"),
		table("logs"),
	)
}

func newMapper(t *testing.T, opts ...mapper.Option) *mapper.Mapper {
	t.Helper()
	opts = append([]mapper.Option{mapper.WithLogger(logging.NewNopLogger())}, opts...)
	m, err := mapper.New(opts...)
	require.NoError(t, err)
	return m
}

func TestScoreColumns(t *testing.T) {
	id := schema.Column{Table: "a", Name: "id", Type: "INTEGER"}
	email := schema.Column{Table: "a", Name: "email", Type: "VARCHAR"}
	emailAddress := schema.Column{Table: "b", Name: "email_address", Type: "VARCHAR"}

	tests := []struct {
		name      string
		src, dst  schema.Column
		threshold float64
		ratio     float64
		typeRatio float64
	}{
		{"identical", id, id, 0.3, 1.0, 1.0},
		{"same type similar name", email, emailAddress, 0.3, 0.7777777777777778, 1.0},
		{"type gate zeroes the score", email, id, 0.3, 0, 0.14285714285714285},
		{"type gate is strict", email, emailAddress, 1.0, 0, 1.0},
		{"gate open at zero", id, emailAddress, 0, 0.30303030303030304, 0.14285714285714285},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := mapper.ScoreColumns(tt.src, tt.dst, tt.threshold)
			assert.InDelta(t, tt.ratio, s.Ratio, 1e-12)
			assert.InDelta(t, tt.typeRatio, s.Float(mapper.AuxTypeRatio), 1e-12)
			assert.Equal(t, tt.src.Key(), s.Source.Key())
			assert.Equal(t, tt.dst.Key(), s.Destination.Key())
		})
	}
}

func TestScoreColumnsEmptyType(t *testing.T) {
	untyped := schema.Column{Name: "blob"}
	typed := schema.Column{Name: "blob", Type: "BLOB"}

	s := mapper.ScoreColumns(untyped, typed, 0.5)
	assert.Zero(t, s.Ratio)
	assert.Zero(t, s.Float(mapper.AuxTypeRatio))

	s = mapper.ScoreColumns(untyped, untyped, 0.5)
	assert.Equal(t, 1.0, s.Ratio, "two empty types are identical")
}

func TestScoreTables(t *testing.T) {
	src := customers().Tables[0]
	dst := clients().Tables[0]

	s := mapper.ScoreTables(src, dst, 0.3)
	assert.InDelta(t, 0.25, s.Float(mapper.AuxNameRatio), 1e-12)
	assert.InDelta(t, (1+0.7777777777777778)/4, s.Float(mapper.AuxChildrenRatio), 1e-12)
	assert.InDelta(t, 0.6944444444444444, s.Ratio, 1e-12)

	cols := mapper.Columns(s)
	require.Len(t, cols.Matched, 2)
	assert.Equal(t, "id", cols.Matched[0].Source.Name)
	assert.Equal(t, "email", cols.Matched[1].Source.Name)
	assert.Equal(t, "email_address", cols.Matched[1].Destination.Name)
	assert.Empty(t, cols.UnmatchedSources)
	assert.Empty(t, cols.UnmatchedDestinations)
}

func TestScoreTablesWithoutColumns(t *testing.T) {
	s := mapper.ScoreTables(table("audit"), table("audit_log"), 0.5)
	assert.InDelta(t, similarity.Ratio("audit", "audit_log"), s.Ratio, 1e-12)
	assert.Zero(t, s.Float(mapper.AuxChildrenRatio))
	assert.True(t, mapper.Columns(s).Empty())
}

func TestSelfMatch(t *testing.T) {
	m := newMapper(t, mapper.WithThreshold(0.7))
	s := shop()

	result := m.Reconcile(s, shop())
	report := mapper.Serialize(result)

	require.Len(t, report.Matched, len(s.Tables))
	for _, tm := range report.Matched {
		assert.Equal(t, tm.Src, tm.Dst)
		assert.Empty(t, tm.Columns.Unmatched.Srcs)
		assert.Empty(t, tm.Columns.Unmatched.Dsts)
		for _, cm := range tm.Columns.Matched {
			assert.Equal(t, cm.Src, cm.Dst)
			assert.Equal(t, 1.0, cm.NameRatio)
		}
	}
	assert.Empty(t, report.Unmatched.Srcs)
	assert.Empty(t, report.Unmatched.Dsts)

	// Every table with columns reaches the maximum 1 + 2n/2n, and the
	// column-less one matches on its name alone.
	ratios := make(map[string]float64)
	for _, tm := range report.Matched {
		ratios[tm.Src] = tm.Ratio
	}
	assert.Equal(t, map[string]float64{"customers": 1.5, "orders": 1.5, "order_lines": 1.5, "audit": 1}, ratios)
}

func TestConcreteScenario(t *testing.T) {
	m := newMapper(t, mapper.WithThreshold(0.3))
	report := mapper.Serialize(m.Reconcile(customers(), clients()))

	data, err := json.Marshal(report)
	require.NoError(t, err)

	want := `{
		"matched": [{
			"src": "customers", "dst": "clients", "ratio": 0.69,
			"columns": {
				"matched": [
					{"src": {"name": "id", "type": "INTEGER"}, "dst": {"name": "id", "type": "INTEGER"}, "name_ratio": 1, "type_ratio": 1},
					{"src": {"name": "email", "type": "VARCHAR"}, "dst": {"name": "email_address", "type": "VARCHAR"}, "name_ratio": 0.78, "type_ratio": 1}
				],
				"unmatched": {"srcs": [], "dsts": []}
			}
		}],
		"unmatched": {"srcs": [], "dsts": []}
	}`
	assert.JSONEq(t, want, string(data))
}

func TestConcreteScenarioBelowThreshold(t *testing.T) {
	// 0.25 + 0.44 does not clear 0.7.
	m := newMapper(t, mapper.WithThreshold(0.7))
	report := mapper.Serialize(m.Reconcile(customers(), clients()))

	assert.Empty(t, report.Matched)
	assert.Equal(t, []string{"customers"}, report.Unmatched.Srcs)
	assert.Equal(t, []string{"clients"}, report.Unmatched.Dsts)
}

func TestDisjointSchemas(t *testing.T) {
	src := schema.MustNew("a",
		table("invoices", "number", "CHAR(10)"),
		table("payments", "amount", "MONEY"),
	)
	dst := schema.MustNew("b",
		table("zebra", "stripes", "SMALLINT"),
		table("kiwi", "weight", "REAL"),
	)

	m := newMapper(t, mapper.WithThreshold(0.7))
	result := m.Reconcile(src, dst)
	assert.Empty(t, result.Tables.Matched)

	report := mapper.Serialize(result)
	assert.Empty(t, report.Matched)
	assert.Equal(t, []string{"invoices", "payments"}, report.Unmatched.Srcs)
	assert.Equal(t, []string{"kiwi", "zebra"}, report.Unmatched.Dsts)
}

func TestReconcileShop(t *testing.T) {
	m := newMapper(t, mapper.WithThreshold(0.5))
	report := mapper.Serialize(m.Reconcile(shop(), store()))

	type pair struct {
		Src, Dst string
		Ratio    float64
	}
	var got []pair
	for _, tm := range report.Matched {
		got = append(got, pair{tm.Src, tm.Dst, tm.Ratio})
	}
	want := []pair{
		{"orders", "orders", 1.29},
		{"order_lines", "order_items", 1.27},
		{"customers", "clients", 0.69},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("matched tables (-want +got):\n%s", diff)
	}
	assert.Equal(t, mapper.Unmatched{Srcs: []string{"audit"}, Dsts: []string{"logs"}}, report.Unmatched)

	orders := report.Matched[0].Columns
	assert.Equal(t, []mapper.ColumnMatch{
		{
			Src: mapper.ColumnRef{Name: "id", Type: "INTEGER"}, Dst: mapper.ColumnRef{Name: "id", Type: "INTEGER"},
			NameRatio: 1, TypeRatio: 1,
		},
		{
			Src: mapper.ColumnRef{Name: "customer_id", Type: "INTEGER"}, Dst: mapper.ColumnRef{Name: "client_id", Type: "INTEGER"},
			NameRatio: 0.74, TypeRatio: 1,
		},
	}, orders.Matched)
	assert.Equal(t, mapper.Unmatched{Srcs: []string{"total"}, Dsts: []string{"amount"}}, orders.Unmatched)

	summary := report.Summarize()
	assert.Equal(t, mapper.Summary{
		SourceTables:           4,
		DestinationTables:      4,
		MatchedTables:          3,
		MatchedColumns:         8,
		UnmatchedSourceColumns: 1,
		UnmatchedDestColumns:   1,
		Coverage:               0.75,
	}, summary)
}

func TestThresholdMonotonicity(t *testing.T) {
	prev := -1
	for _, th := range []float64{0, 0.1, 0.3, 0.5, 0.7, 0.9, 1.0} {
		m := newMapper(t, mapper.WithThreshold(th))
		n := len(m.Reconcile(shop(), store()).Tables.Matched)
		if prev >= 0 {
			assert.LessOrEqual(t, n, prev, "threshold %.1f", th)
		}
		prev = n
	}
}

func TestThresholdOneMatchesNothing(t *testing.T) {
	m := newMapper(t, mapper.WithThreshold(1.0))
	s := shop()
	result := m.Reconcile(s, shop())
	assert.Empty(t, result.Tables.Matched)
	assert.Len(t, result.Tables.UnmatchedSources, len(s.Tables))
}

func TestSplitThresholds(t *testing.T) {
	// With a looser column pass, composite scores above 1 can clear a
	// table threshold of 1.
	m := newMapper(t, mapper.WithTableThreshold(1.0), mapper.WithColumnThreshold(0.5))
	assert.Equal(t, 1.0, m.TableThreshold())
	assert.Equal(t, 0.5, m.ColumnThreshold())

	report := mapper.Serialize(m.Reconcile(shop(), store()))
	var names []string
	for _, tm := range report.Matched {
		names = append(names, tm.Src)
	}
	assert.Equal(t, []string{"orders", "order_lines"}, names)
	assert.Equal(t, []string{"audit", "customers"}, report.Unmatched.Srcs)
}

func TestDeterministicOutput(t *testing.T) {
	encode := func() []byte {
		m := newMapper(t, mapper.WithThreshold(0.5), mapper.WithCache(similarity.NewCache()))
		data, err := json.Marshal(mapper.Serialize(m.Reconcile(shop(), store())))
		require.NoError(t, err)
		return data
	}
	assert.Equal(t, string(encode()), string(encode()))
}

func TestCacheDoesNotChangeResults(t *testing.T) {
	cache := similarity.NewCache()
	cached := newMapper(t, mapper.WithThreshold(0.5), mapper.WithCache(cache))
	plain := newMapper(t, mapper.WithThreshold(0.5))

	a := mapper.Serialize(cached.Reconcile(shop(), store()))
	b := mapper.Serialize(plain.Reconcile(shop(), store()))
	if diff := cmp.Diff(b, a); diff != "" {
		t.Errorf("cached report differs (-plain +cached):\n%s", diff)
	}
	assert.Positive(t, cache.Len())
	hits, _ := cache.Stats()
	assert.Positive(t, hits)
}

func TestEmptyAndNilSchemas(t *testing.T) {
	m := newMapper(t)
	report := mapper.Serialize(m.Reconcile(nil, shop()))
	assert.Empty(t, report.Matched)
	assert.Empty(t, report.Unmatched.Srcs)
	assert.Len(t, report.Unmatched.Dsts, 4)

	data, err := json.Marshal(mapper.Serialize(nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"matched":[],"unmatched":{"srcs":[],"dsts":[]}}`, string(data))
}

func TestOptionsValidation(t *testing.T) {
	m, err := mapper.New()
	require.NoError(t, err)
	assert.Equal(t, 0.7, m.TableThreshold())
	assert.Equal(t, 0.7, m.ColumnThreshold())

	for _, opt := range []mapper.Option{
		mapper.WithThreshold(-0.1),
		mapper.WithThreshold(1.5),
		mapper.WithTableThreshold(2),
		mapper.WithColumnThreshold(-1),
	} {
		_, err := mapper.New(opt)
		require.Error(t, err)
		assert.True(t, errors.IsValidationError(err))
	}

	_, err = mapper.Reconcile(shop(), store(), 7)
	assert.True(t, errors.IsValidationError(err))
}

func TestReconcileLogsStats(t *testing.T) {
	logger := logging.NewTestLogger(t)
	m := newMapper(t, mapper.WithLogger(logger.Logger))
	m.Reconcile(shop(), store())

	logger.AssertContains(t, "Tables reconciled")
	logger.AssertField(t, "Tables reconciled", "candidates", 16)
	logger.AssertField(t, "Tables reconciled", "sources", 4)
}

func TestRound(t *testing.T) {
	assert.Equal(t, 0.69, mapper.Round(0.6944444444444444))
	assert.Equal(t, 0.78, mapper.Round(0.7777777777777778))
	assert.Equal(t, 1.5, mapper.Round(1.5))
	assert.Equal(t, 0.0, mapper.Round(0.001))
}
