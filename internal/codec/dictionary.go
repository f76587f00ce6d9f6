package codec

import "github.com/codetome/linepack/internal/domain"

// signatureStats accumulates one pass-1 tally: the occurrence count and
// the template captured from the first record carrying the signature.
type signatureStats struct {
	count    int
	template domain.Template
}

// dictionaries holds both lookup tables produced by the builder.
type dictionaries struct {
	patterns  map[string]domain.PatternEntry
	semantics map[string]domain.SemanticEntry
}

// buildDictionaries scans the record sequence twice. Pass 1 counts exact
// and semantic signature occurrences and threads a single compressed
// template per signature. Pass 2 materializes the tables with dense
// zero-based IDs assigned in first-seen order — explicit order slices are
// kept because map iteration order is not reproducible.
func buildDictionaries(records []domain.LineRecord) dictionaries {
	exactStats := make(map[string]*signatureStats)
	semanticStats := make(map[string]*signatureStats)
	var exactOrder, semanticOrder []string

	for _, rec := range records {
		exactSig := ExactSignature(rec)
		if stats, ok := exactStats[exactSig]; ok {
			stats.count++
		} else {
			exactStats[exactSig] = &signatureStats{
				count: 1,
				template: domain.Template{
					Kind:     rec.Kind,
					Text:     CompressValue(rec.Text),
					Language: rec.Language,
				},
			}
			exactOrder = append(exactOrder, exactSig)
		}

		semanticSig := SemanticSignature(rec)
		if stats, ok := semanticStats[semanticSig]; ok {
			stats.count++
		} else {
			semanticStats[semanticSig] = &signatureStats{
				count: 1,
				template: domain.Template{
					Kind:         rec.Kind,
					Text:         CompressValue(rec.Text),
					Language:     rec.Language,
					SemanticType: SemanticTypeOf(rec),
				},
			}
			semanticOrder = append(semanticOrder, semanticSig)
		}
	}

	dicts := dictionaries{
		patterns:  make(map[string]domain.PatternEntry),
		semantics: make(map[string]domain.SemanticEntry),
	}

	nextID := 0
	for _, sig := range exactOrder {
		stats := exactStats[sig]
		if stats.count < 2 {
			continue
		}
		dicts.patterns[sig] = domain.PatternEntry{
			ID:       nextID,
			Template: stats.template,
			Count:    stats.count,
		}
		nextID++
	}

	nextID = 0
	for _, sig := range semanticOrder {
		stats := semanticStats[sig]
		if stats.count < 2 && !IsCommonConstruct(stats.template.SemanticType) {
			continue
		}
		dicts.semantics[sig] = domain.SemanticEntry{
			ID:           nextID,
			Template:     stats.template,
			Count:        stats.count,
			SemanticType: stats.template.SemanticType,
		}
		nextID++
	}

	return dicts
}
