// Package inspection turns the blocks of a food-safety results page into
// restaurant records with inspection score statistics.
package inspection

import (
	"regexp"

	"mspro-labs/inspection-map/internal/htmldoc"
)

// blockID matches the id of a restaurant block, e.g. "PR0012345~".
// The trailing tilde is part of the pattern.
var blockID = regexp.MustCompile(`PR\d+~`)

// Block is one restaurant's subtree. It is a view into its Document and
// must not outlive it.
type Block struct {
	htmldoc.Node
}

// LocateBlocks returns the restaurant blocks under root in document order.
func LocateBlocks(root htmldoc.Node) []Block {
	nodes := root.FindAllMatching("div", "id", blockID)
	blocks := make([]Block, len(nodes))
	for i, n := range nodes {
		blocks[i] = Block{Node: n}
	}
	return blocks
}
