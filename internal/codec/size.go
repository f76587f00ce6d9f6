package codec

import "github.com/codetome/linepack/internal/domain"

// Byte-cost model constants. These describe a hypothetical wire layout
// and are used only for ratio reporting; the decoder never consults them.
const (
	metadataOverheadBytes = 50
	entryHeaderBytes      = 8 // id + count
	recordTagBytes        = 1
	recordIDBytes         = 1
	lineNumberBytes       = 4
)

// EstimatedSize computes the deterministic byte cost of an encoded
// document: the exact-pattern table, the record stream, and a fixed
// metadata overhead.
func EstimatedSize(doc *domain.EncodedDocument) int {
	if doc == nil {
		return 0
	}

	size := metadataOverheadBytes

	for sig, entry := range doc.PatternTable {
		size += len(sig)
		size += len(entry.Template.Kind)
		size += len(entry.Template.Text)
		size += len(entry.Template.Language)
		size += entryHeaderBytes
	}

	for _, rec := range doc.Records {
		switch rec.Tag {
		case domain.TagSemantic, domain.TagPattern:
			size += recordTagBytes + recordIDBytes + lineNumberBytes
		default:
			size += recordTagBytes + len(rec.Kind) + len(rec.Text) + lineNumberBytes
		}
	}

	return size
}

// Ratio reports the estimated encoded size and the compression ratio
// relative to the original byte length. Degenerate sizes yield a ratio
// of 1.
func Ratio(originalBytes int, doc *domain.EncodedDocument) (int, float64) {
	estimated := EstimatedSize(doc)
	if estimated <= 0 || originalBytes <= 0 {
		return estimated, 1.0
	}
	return estimated, float64(originalBytes) / float64(estimated)
}
