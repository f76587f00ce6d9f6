package domain

// Record tags identify the variant of an EncodedRecord.
const (
	TagSemantic = "S"
	TagPattern  = "P"
	TagLiteral  = "O"
)

// FormatVersion is the encoding format version written into document metadata.
const FormatVersion = "5.0"

// LineMetadata carries per-line attributes derived from the raw text.
type LineMetadata struct {
	Indentation int  `json:"indentation"`
	IsComment   bool `json:"is_comment"`
	IsEmpty     bool `json:"is_empty"`
}

// LineRecord is one non-empty line of source input.
type LineRecord struct {
	// Kind is the semantic category of the record. Lines enter the codec
	// with kind "line"; reconstructed literals keep their compressed kind.
	Kind string `json:"kind"`

	// Text is the trimmed textual payload.
	Text string `json:"text"`

	// LineNumber is the 1-based position in the original source, counting
	// blank lines that were filtered out.
	LineNumber int `json:"line_number"`

	// Language is a caller-supplied dialect tag, opaque to the codec.
	Language string `json:"language"`

	Metadata LineMetadata `json:"metadata"`
}

// Template is the reconstruction payload shared by all occurrences of a
// dictionary entry.
type Template struct {
	Kind         string `json:"kind"`
	Text         string `json:"text"`
	Language     string `json:"language"`
	SemanticType string `json:"semantic_type,omitempty"`
}

// PatternEntry is an exact-duplicate dictionary entry. Entries only exist
// for signatures seen at least twice.
type PatternEntry struct {
	ID       int      `json:"id"`
	Template Template `json:"template"`
	Count    int      `json:"count"`
}

// SemanticEntry is a semantic dictionary entry, keyed by a coarse
// category signature rather than exact text.
type SemanticEntry struct {
	ID           int      `json:"id"`
	Template     Template `json:"template"`
	Count        int      `json:"count"`
	SemanticType string   `json:"semantic_type"`
}

// EncodedRecord is one tagged entry in the encoded stream. Exactly one of
// the variants applies, selected by Tag:
//
//   - TagSemantic: EntryID references the semantic table
//   - TagPattern: EntryID references the pattern table
//   - TagLiteral: Kind, Text and Language are inlined (compressed forms)
type EncodedRecord struct {
	Tag        string `json:"tag"`
	EntryID    int    `json:"entry_id,omitempty"`
	Kind       string `json:"kind,omitempty"`
	Text       string `json:"text,omitempty"`
	Language   string `json:"language,omitempty"`
	LineNumber int    `json:"line_number"`
}

// DocumentMeta summarizes an encoded document.
type DocumentMeta struct {
	TotalNodes    int    `json:"total_nodes"`
	PatternCount  int    `json:"pattern_count"`
	SemanticCount int    `json:"semantic_count"`
	FormatVersion string `json:"format_version"`
}

// EncodedDocument is the complete output of one encode pass: both
// dictionaries plus the ordered record stream. Documents are immutable
// once built.
type EncodedDocument struct {
	PatternTable  map[string]PatternEntry  `json:"patterns"`
	SemanticTable map[string]SemanticEntry `json:"semantic_patterns"`
	Records       []EncodedRecord          `json:"data"`
	Metadata      DocumentMeta             `json:"metadata"`
}
