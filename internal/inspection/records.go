package inspection

import (
	"iter"

	"mspro-labs/inspection-map/internal/models"
)

// BuildRecord extracts one restaurant record from block.
func BuildRecord(block Block) models.Record {
	return models.Record{
		ID:       block.ID(),
		Metadata: ExtractMetadata(block),
		Scores:   AggregateScores(block),
	}
}

// BuildRecords yields a record for each of the first limit blocks, in
// order. A record is only extracted when the consumer asks for it, so
// stopping the range early skips the remaining blocks. limit <= 0 yields
// nothing.
func BuildRecords(blocks []Block, limit int) iter.Seq[models.Record] {
	return func(yield func(models.Record) bool) {
		if limit <= 0 {
			return
		}
		n := min(limit, len(blocks))
		for _, b := range blocks[:n] {
			if !yield(BuildRecord(b)) {
				return
			}
		}
	}
}
