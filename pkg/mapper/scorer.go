package mapper

import (
	"github.com/fvarrui/dbtools/pkg/match"
	"github.com/fvarrui/dbtools/pkg/schema"
	"github.com/fvarrui/dbtools/pkg/similarity"
)

// Auxiliary keys attached to scores.
const (
	// AuxTypeRatio holds the float64 similarity of two column types.
	AuxTypeRatio = "type_ratio"
	// AuxNameRatio holds the float64 similarity of two table names.
	AuxNameRatio = "name_ratio"
	// AuxChildrenRatio holds the float64 normalized column contribution.
	AuxChildrenRatio = "children_ratio"
	// AuxChildrenResult holds the nested *ColumnResult of a table pair.
	AuxChildrenResult = "children_result"
)

type (
	// ColumnScore is a scored column pair.
	ColumnScore = match.Score[schema.Column, schema.Column]
	// ColumnResult is the outcome of matching the columns of two tables.
	ColumnResult = match.Result[schema.Column, schema.Column]
	// TableScore is a scored table pair.
	TableScore = match.Score[schema.Table, schema.Table]
	// TableResult is the outcome of matching the tables of two schemas.
	TableResult = match.Result[schema.Table, schema.Table]
)

// ScoreColumns scores two columns. The type labels are compared first; if
// their similarity is not above threshold the pair scores 0 whatever the
// names, so name coincidences across incompatible types never match.
// Otherwise the ratio is the similarity of the name[type] renderings.
func ScoreColumns(src, dst schema.Column, threshold float64) ColumnScore {
	return scoreColumns(nil, src, dst, threshold)
}

// ScoreTables scores two tables as the similarity of their names plus the
// summed ratios of their matched columns divided by the total number of
// columns on both sides. The result is not bounded to [0, 1]. Tables with
// no columns on either side score on their names alone.
func ScoreTables(src, dst schema.Table, threshold float64) TableScore {
	return scoreTables(nil, src, dst, threshold)
}

func scoreColumns(c *similarity.Cache, src, dst schema.Column, threshold float64) ColumnScore {
	typeRatio := c.Ratio(src.Type, dst.Type)

	ratio := 0.0
	if typeRatio > threshold {
		ratio = c.Ratio(src.String(), dst.String())
	}

	score := match.NewScore(src, dst, ratio)
	score.Aux[AuxTypeRatio] = typeRatio
	return score
}

// columnScorer returns the column level Func bound to a cache.
func columnScorer(c *similarity.Cache) match.Func[schema.Column, schema.Column] {
	return func(src, dst schema.Column, threshold float64) ColumnScore {
		return scoreColumns(c, src, dst, threshold)
	}
}

// scoreTables runs the nested column pass with columnThreshold. The nested
// result is owned by the returned score.
func scoreTables(c *similarity.Cache, src, dst schema.Table, columnThreshold float64) TableScore {
	nameRatio := c.Ratio(src.Name, dst.Name)

	columns := match.Match(src.Columns, dst.Columns, columnScorer(c), columnThreshold)

	childrenRatio := 0.0
	if total := len(src.Columns) + len(dst.Columns); total > 0 {
		childrenRatio = columns.Sum() / float64(total)
	}

	score := match.NewScore(src, dst, nameRatio+childrenRatio)
	score.Aux[AuxNameRatio] = nameRatio
	score.Aux[AuxChildrenRatio] = childrenRatio
	score.Aux[AuxChildrenResult] = columns
	return score
}

// Columns returns the nested column result of a table score.
func Columns(score TableScore) *ColumnResult {
	if r, ok := score.Aux[AuxChildrenResult].(*ColumnResult); ok {
		return r
	}
	return &ColumnResult{}
}
