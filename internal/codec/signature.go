package codec

import (
	"strings"

	"github.com/codetome/linepack/internal/domain"
)

// exactSignaturePrefixLen bounds the text portion of an exact signature.
// Distinct lines that share a kind, language, and 30-character prefix
// deliberately collapse into one pattern slot; the coarsening trades
// fidelity for cheap near-duplicate detection.
const exactSignaturePrefixLen = 30

// Semantic categories, in rule priority order.
const (
	CategoryFunctionDecl    = "function_decl"
	CategoryTypeDecl        = "type_decl"
	CategoryControlFlow     = "control_flow"
	CategoryLoopConstruct   = "loop_construct"
	CategoryFlowControl     = "flow_control"
	CategoryImportStatement = "import_statement"
	CategoryComment         = "comment"
	CategoryVariableDecl    = "variable_decl"
	CategoryOther           = "other"
)

// Semantic types used for dictionary-inclusion eligibility.
const (
	SemanticFunction  = "function"
	SemanticType      = "type"
	SemanticControl   = "control"
	SemanticComment   = "comment"
	SemanticVariable  = "variable"
	SemanticStatement = "statement"
)

// categoryRule maps a set of keyword substrings to a semantic category.
// Rules are evaluated in order; the first match wins.
type categoryRule struct {
	keywords []string
	category string
}

var categoryRules = []categoryRule{
	{[]string{"function", "def ", "fn ", "pub fn"}, CategoryFunctionDecl},
	{[]string{"class ", "struct ", "impl ", "trait "}, CategoryTypeDecl},
	{[]string{"if ", "else", "match ", "switch "}, CategoryControlFlow},
	{[]string{"for ", "while ", "loop "}, CategoryLoopConstruct},
	{[]string{"return ", "yield ", "break "}, CategoryFlowControl},
	{[]string{"import ", "use ", "extern "}, CategoryImportStatement},
	{[]string{"//", "/*", "#", "///"}, CategoryComment},
	{[]string{"let ", "var ", "const ", "mut "}, CategoryVariableDecl},
}

// semanticTypeRules is the companion classifier used only to decide
// dictionary eligibility. It intentionally uses narrower keyword sets than
// categoryRules, so the two must not be merged.
var semanticTypeRules = []categoryRule{
	{[]string{"function", "def ", "fn "}, SemanticFunction},
	{[]string{"class ", "struct "}, SemanticType},
	{[]string{"if ", "else"}, SemanticControl},
	{[]string{"//", "/*", "#"}, SemanticComment},
	{[]string{"let ", "var ", "const "}, SemanticVariable},
}

// commonConstructTypes are semantic types included in the semantic
// dictionary even when they occur only once.
var commonConstructTypes = map[string]bool{
	SemanticFunction: true,
	SemanticType:     true,
	SemanticControl:  true,
	SemanticComment:  true,
	SemanticVariable: true,
}

// ExactSignature derives the exact-duplicate classification key for a
// record: kind, first 30 characters of text, and language.
func ExactSignature(rec domain.LineRecord) string {
	preview := rec.Text
	if runes := []rune(preview); len(runes) > exactSignaturePrefixLen {
		preview = string(runes[:exactSignaturePrefixLen])
	}
	return rec.Kind + ":" + preview + ":" + rec.Language
}

// SemanticSignature derives the coarse category key for a record:
// category and language. Categories are matched by substring containment
// against the lower-cased trimmed text, first rule wins.
func SemanticSignature(rec domain.LineRecord) string {
	return semanticCategory(rec.Text) + ":" + rec.Language
}

func semanticCategory(text string) string {
	value := strings.ToLower(strings.TrimSpace(text))
	for _, rule := range categoryRules {
		if containsAny(value, rule.keywords) {
			return rule.category
		}
	}
	return CategoryOther
}

// SemanticTypeOf classifies a record for dictionary-inclusion purposes.
// Unmatched records are plain statements.
func SemanticTypeOf(rec domain.LineRecord) string {
	value := strings.ToLower(strings.TrimSpace(rec.Text))
	for _, rule := range semanticTypeRules {
		if containsAny(value, rule.keywords) {
			return rule.category
		}
	}
	return SemanticStatement
}

// IsCommonConstruct reports whether a semantic type earns dictionary
// inclusion regardless of its occurrence count.
func IsCommonConstruct(semanticType string) bool {
	return commonConstructTypes[semanticType]
}

func containsAny(value string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(value, kw) {
			return true
		}
	}
	return false
}
