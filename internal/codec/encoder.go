package codec

import (
	"fmt"

	"github.com/codetome/linepack/internal/domain"
)

// EncodeError reports malformed input to the encoder. Encoding is total
// for any well-formed record sequence, so this only fires on broken line
// numbering.
type EncodeError struct {
	Index  int
	Reason string
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("encode: record %d: %s", e.Index, e.Reason)
}

// Encode transforms an ordered line-record sequence into an encoded
// document. Each record resolves, in priority order, to a semantic
// reference, an exact-pattern reference, or an inlined literal. An empty
// sequence yields an empty document.
func Encode(records []domain.LineRecord) (*domain.EncodedDocument, error) {
	if err := validateRecords(records); err != nil {
		return nil, err
	}

	dicts := buildDictionaries(records)

	encoded := make([]domain.EncodedRecord, 0, len(records))
	for _, rec := range records {
		if entry, ok := dicts.semantics[SemanticSignature(rec)]; ok {
			encoded = append(encoded, domain.EncodedRecord{
				Tag:        domain.TagSemantic,
				EntryID:    entry.ID,
				LineNumber: rec.LineNumber,
			})
			continue
		}

		if entry, ok := dicts.patterns[ExactSignature(rec)]; ok && entry.Count > 1 {
			encoded = append(encoded, domain.EncodedRecord{
				Tag:        domain.TagPattern,
				EntryID:    entry.ID,
				LineNumber: rec.LineNumber,
			})
			continue
		}

		encoded = append(encoded, domain.EncodedRecord{
			Tag:        domain.TagLiteral,
			Kind:       CompressKind(rec.Kind),
			Text:       CompressValue(rec.Text),
			Language:   rec.Language,
			LineNumber: rec.LineNumber,
		})
	}

	return &domain.EncodedDocument{
		PatternTable:  dicts.patterns,
		SemanticTable: dicts.semantics,
		Records:       encoded,
		Metadata: domain.DocumentMeta{
			TotalNodes:    len(records),
			PatternCount:  len(dicts.patterns),
			SemanticCount: len(dicts.semantics),
			FormatVersion: domain.FormatVersion,
		},
	}, nil
}

// EncodeText splits raw text into line records and encodes them.
func EncodeText(text, language string) (*domain.EncodedDocument, error) {
	return Encode(SplitLines(text, language))
}

// validateRecords enforces the line-number invariant: 1-based, unique,
// strictly increasing in input order.
func validateRecords(records []domain.LineRecord) error {
	prev := 0
	for i, rec := range records {
		if rec.LineNumber < 1 {
			return &EncodeError{Index: i, Reason: fmt.Sprintf("line number %d is not positive", rec.LineNumber)}
		}
		if rec.LineNumber == prev {
			return &EncodeError{Index: i, Reason: fmt.Sprintf("duplicate line number %d", rec.LineNumber)}
		}
		if rec.LineNumber < prev {
			return &EncodeError{Index: i, Reason: fmt.Sprintf("line number %d out of order after %d", rec.LineNumber, prev)}
		}
		prev = rec.LineNumber
	}
	return nil
}
