// Package codec implements a structural pattern-dictionary codec for
// sequences of source lines. Encoding builds two dictionaries over the
// input — exact duplicates and coarse semantic categories — and rewrites
// each line as a dictionary reference or an inlined literal. Decoding
// reverses the mapping. Each call builds and discards its own state, so
// independent documents can be processed concurrently without
// coordination.
package codec

import (
	"strings"

	"github.com/codetome/linepack/internal/domain"
)

// KindLine is the kind assigned to every record at ingestion time.
const KindLine = "line"

// commentPrefixes mark a trimmed line as a comment for metadata purposes.
var commentPrefixes = []string{"#", "//", "/*", "*"}

// SplitLines turns raw text into an ordered sequence of line records.
// Blank lines are dropped, but LineNumber always reflects the position in
// the original text, so gaps in the numbering are expected. Empty input
// yields an empty sequence.
func SplitLines(text, language string) []domain.LineRecord {
	if text == "" {
		return nil
	}

	lines := strings.Split(text, "\n")
	records := make([]domain.LineRecord, 0, len(lines))

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		records = append(records, domain.LineRecord{
			Kind:       KindLine,
			Text:       trimmed,
			LineNumber: i + 1,
			Language:   language,
			Metadata:   deriveMetadata(line),
		})
	}

	return records
}

// deriveMetadata computes line metadata from the raw (untrimmed) line.
func deriveMetadata(line string) domain.LineMetadata {
	trimmed := strings.TrimSpace(line)
	return domain.LineMetadata{
		Indentation: indentationOf(line),
		IsComment:   isComment(trimmed),
		IsEmpty:     trimmed == "",
	}
}

// indentationOf counts leading whitespace bytes.
func indentationOf(line string) int {
	return len(line) - len(strings.TrimLeft(line, " \t"))
}

func isComment(trimmed string) bool {
	for _, p := range commentPrefixes {
		if strings.HasPrefix(trimmed, p) {
			return true
		}
	}
	return false
}
