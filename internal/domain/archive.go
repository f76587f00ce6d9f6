package domain

// PackedFile represents one source file stored in the pack archive.
// It is the primary data structure stored in the Bleve search index.
type PackedFile struct {
	// ID is a unique identifier combining root ID and file path.
	// Format: "home_user_src_project/path/to/file.go"
	ID string `json:"id"`

	// Root is the human-readable source root the file came from.
	Root string `json:"root"`

	// FilePath is the file path relative to the source root.
	FilePath string `json:"file_path"`

	// Language is the dialect tag derived from the file extension.
	Language string `json:"language"`

	// Content is the original source text used for indexing and search
	// snippets. The stored container holds the lossy encoded form; search
	// runs against what the authors wrote.
	Content string `json:"content"`

	// PatternCount and SemanticCount mirror the document metadata.
	PatternCount  int `json:"pattern_count"`
	SemanticCount int `json:"semantic_count"`

	// OriginalBytes and EstimatedBytes feed the compression ratio report.
	OriginalBytes  int     `json:"original_bytes"`
	EstimatedBytes int     `json:"estimated_bytes"`
	Ratio          float64 `json:"ratio"`
}

// Bleve field name constants for consistent field references in queries and mappings.
const (
	PackedFieldID       = "id"
	PackedFieldRoot     = "root"
	PackedFieldFilePath = "file_path"
	PackedFieldLanguage = "language"
	PackedFieldContent  = "content"
	PackedFieldRatio    = "ratio"
)
