package codec

import (
	"fmt"

	"github.com/codetome/linepack/internal/domain"
)

// Table names reported by DecodeError.
const (
	tablePattern  = "pattern"
	tableSemantic = "semantic"
)

// unknownLanguage substitutes for literal records produced before the
// language field was added to the literal variant.
const unknownLanguage = "unknown"

// DecodeError reports a record referencing a dictionary entry that is
// absent from its table. The whole document must be treated as corrupt;
// there is no partial decode.
type DecodeError struct {
	Index   int
	Table   string
	EntryID int
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode: record %d references missing %s entry %d", e.Index, e.Table, e.EntryID)
}

// Decode reconstructs the line-record sequence from an encoded document.
// Reference records resolve their templates by entry ID; literal records
// inline their own payload. The first unresolved reference aborts the
// decode with a *DecodeError.
func Decode(doc *domain.EncodedDocument) ([]domain.LineRecord, error) {
	if doc == nil || len(doc.Records) == 0 {
		return nil, nil
	}

	patternByID := make(map[int]domain.Template, len(doc.PatternTable))
	for _, entry := range doc.PatternTable {
		patternByID[entry.ID] = entry.Template
	}
	semanticByID := make(map[int]domain.Template, len(doc.SemanticTable))
	for _, entry := range doc.SemanticTable {
		semanticByID[entry.ID] = entry.Template
	}

	records := make([]domain.LineRecord, 0, len(doc.Records))
	for i, rec := range doc.Records {
		switch rec.Tag {
		case domain.TagSemantic:
			template, ok := semanticByID[rec.EntryID]
			if !ok {
				return nil, &DecodeError{Index: i, Table: tableSemantic, EntryID: rec.EntryID}
			}
			records = append(records, fromTemplate(template, rec.LineNumber))

		case domain.TagPattern:
			template, ok := patternByID[rec.EntryID]
			if !ok {
				return nil, &DecodeError{Index: i, Table: tablePattern, EntryID: rec.EntryID}
			}
			records = append(records, fromTemplate(template, rec.LineNumber))

		default:
			language := rec.Language
			if language == "" {
				language = unknownLanguage
			}
			records = append(records, domain.LineRecord{
				Kind:       rec.Kind,
				Text:       rec.Text,
				LineNumber: rec.LineNumber,
				Language:   language,
				Metadata:   deriveMetadata(rec.Text),
			})
		}
	}

	return records, nil
}

// fromTemplate materializes a record from a dictionary template. The
// template supplies kind, text, and language; only the line number is
// record-specific. Metadata is re-derived since it is a pure function of
// the text.
func fromTemplate(t domain.Template, lineNumber int) domain.LineRecord {
	return domain.LineRecord{
		Kind:       t.Kind,
		Text:       t.Text,
		LineNumber: lineNumber,
		Language:   t.Language,
		Metadata:   deriveMetadata(t.Text),
	}
}
