package inspection

import (
	"go.uber.org/zap"

	"mspro-labs/inspection-map/internal/models"
)

// labelFold carries the effective label across metadata rows. An empty
// label continues the previous heading.
type labelFold struct {
	current string
	mapping models.Mapping
}

func (f *labelFold) step(label, value string) {
	if label != "" {
		f.current = label
	}
	f.mapping.Add(f.current, value)
}

// ExtractMetadata reads the label/value rows of the block's first table
// body into an ordered multimap. Only direct tr children of that tbody are
// considered, so nested tables never contribute rows.
func ExtractMetadata(block Block) models.Mapping {
	var fold labelFold

	tbody, ok := block.FindFirstTag("tbody")
	if !ok {
		zap.L().Debug("block has no table body", zap.String("block", block.ID()))
		return fold.mapping
	}

	for _, row := range tbody.Children("tr") {
		if !IsMetadataRow(row) {
			continue
		}
		cells := row.Children("td")
		fold.step(cells[0].CleanText(), cells[1].CleanText())
	}
	return fold.mapping
}
