package inspection

import (
	"strings"

	"mspro-labs/inspection-map/internal/htmldoc"
)

// IsMetadataRow reports whether row is a label/value row: a tr with exactly
// two direct td children.
func IsMetadataRow(row htmldoc.Node) bool {
	return row.Tag() == "tr" && len(row.Children("td")) == 2
}

// IsInspectionRow reports whether row describes one inspection event: a tr
// with exactly four direct td children whose first cell mentions
// "inspection" without starting with it. Section headers such as
// "Inspection History" start with the word and are rejected.
func IsInspectionRow(row htmldoc.Node) bool {
	if row.Tag() != "tr" {
		return false
	}
	cells := row.Children("td")
	if len(cells) != 4 {
		return false
	}
	text := strings.ToLower(cells[0].CleanText())
	return strings.Contains(text, "inspection") && !strings.HasPrefix(text, "inspection")
}
