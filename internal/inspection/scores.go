package inspection

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"mspro-labs/inspection-map/internal/htmldoc"
	"mspro-labs/inspection-map/internal/models"
)

// scoreCell is the 0-based index of the score column in an inspection row.
const scoreCell = 2

// scoreAttempt is the outcome of reading one row's score.
type scoreAttempt struct {
	value int
	ok    bool
}

func readScore(row htmldoc.Node) scoreAttempt {
	cells := row.Children("td")
	if len(cells) <= scoreCell {
		return scoreAttempt{}
	}
	v, err := strconv.Atoi(strings.TrimSpace(cells[scoreCell].CleanText()))
	if err != nil {
		return scoreAttempt{}
	}
	return scoreAttempt{value: v, ok: true}
}

// scoreFold accumulates parsed scores. count starts at the number of
// inspection rows and loses one for every score that does not parse.
type scoreFold struct {
	total float64
	high  int
	count int
}

func (f *scoreFold) step(a scoreAttempt) {
	if !a.ok {
		f.count--
		return
	}
	f.total += float64(a.value)
	if a.value > f.high {
		f.high = a.value
	}
}

func (f scoreFold) stats() models.ScoreStats {
	s := models.ScoreStats{High: f.high, Count: f.count}
	if f.count > 0 {
		s.Average = f.total / float64(f.count)
	}
	return s
}

// AggregateScores computes score statistics over every inspection row in
// the block, including rows of nested tables. Rows whose score cell is not
// an integer are left out of the count, total and high score.
//
// A high score of 0 is ambiguous: it is reported both for restaurants
// without numeric scores and for those whose best score really is 0.
func AggregateScores(block Block) models.ScoreStats {
	var rows []htmldoc.Node
	for _, row := range block.Descendants("tr") {
		if IsInspectionRow(row) {
			rows = append(rows, row)
		}
	}

	fold := scoreFold{count: len(rows)}
	for _, row := range rows {
		a := readScore(row)
		if !a.ok {
			zap.L().Debug("skipping non-numeric score",
				zap.String("block", block.ID()),
				zap.String("row", row.CleanText()),
			)
		}
		fold.step(a)
	}
	return fold.stats()
}
