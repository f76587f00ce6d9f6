package codec

import "strings"

// abbreviation is one keyword→replacement pair of the value-compression
// table. The table is an ordered slice, not a map: replacements apply in
// a fixed order so the transformation is reproducible.
type abbreviation struct {
	keyword     string
	replacement string
}

// abbreviations is the process-wide value-compression table. Each keyword
// is tried in lower, title, and upper case against the working text.
var abbreviations = []abbreviation{
	{"function", "fn"},
	{"return", "ret"},
	{"variable", "var"},
	{"constant", "const"},
	{"public", "pub"},
	{"private", "priv"},
	{"protected", "prot"},
	{"interface", "iface"},
	{"implementation", "impl"},
	{"namespace", "ns"},
	{"exception", "exc"},
	{"parameter", "param"},
	{"argument", "arg"},
	{"dictionary", "dict"},
	{"array", "arr"},
	{"string", "str"},
	{"integer", "int"},
	{"boolean", "bool"},
	{"floating", "float"},
	{"character", "char"},
	{"pointer", "ptr"},
	{"reference", "ref"},
	{"iterator", "iter"},
	{"template", "tpl"},
	{"generic", "gen"},
	{"abstract", "abs"},
	{"virtual", "virt"},
	{"static", "stat"},
	{"final", "fin"},
	{"override", "ovr"},
	{"synchronized", "sync"},
	{"volatile", "vol"},
	{"transient", "trans"},
	{"native", "nat"},
	{"strictfp", "strict"},
	{"enumeration", "enum"},
	{"annotation", "ann"},
	{"deprecated", "dep"},
	{"suppress", "sup"},
	{"package", "pkg"},
	{"import", "imp"},
	{"export", "exp"},
	{"default", "def"},
	{"extends", "ext"},
	{"implements", "impl"},
	{"throws", "thr"},
	{"try", "try"},
	{"catch", "cat"},
	{"finally", "fin"},
	{"throw", "thr"},
	{"new", "new"},
	{"this", "this"},
	{"super", "super"},
	{"null", "null"},
	{"true", "true"},
	{"false", "false"},
}

// strippablePrefixes are removed from the front of a value when enough
// text remains afterwards.
var strippablePrefixes = []string{"get", "set", "is", "has", "can", "should", "will", "do"}

// kindCodes compresses well-known record kinds to short codes. Unmapped
// kinds pass through unchanged.
var kindCodes = map[string]string{
	"line":      "l",
	"statement": "s",
	"function":  "f",
	"class":     "c",
	"variable":  "v",
	"comment":   "cm",
	"control":   "ctrl",
}

// CompressValue rewrites a textual payload using the abbreviation table
// and prefix stripping. The original value is returned unchanged unless
// the transformed result is strictly shorter. This is advisory
// compression only: it never alters record identity fields.
func CompressValue(value string) string {
	if value == "" {
		return value
	}

	compressed := value
	for _, abbr := range abbreviations {
		if !strings.Contains(strings.ToLower(compressed), abbr.keyword) {
			continue
		}
		compressed = strings.ReplaceAll(compressed, abbr.keyword, abbr.replacement)
		compressed = strings.ReplaceAll(compressed, titleCase(abbr.keyword), abbr.replacement)
		compressed = strings.ReplaceAll(compressed, strings.ToUpper(abbr.keyword), strings.ToUpper(abbr.replacement))
	}

	for _, prefix := range strippablePrefixes {
		if strings.HasPrefix(strings.ToLower(compressed), prefix) && len(compressed) > len(prefix)+2 {
			compressed = compressed[len(prefix):]
		}
	}

	if len(compressed) < len(value) {
		return compressed
	}
	return value
}

// CompressKind maps a record kind to its short code.
func CompressKind(kind string) string {
	if code, ok := kindCodes[kind]; ok {
		return code
	}
	return kind
}

// titleCase upper-cases the first letter of an all-lowercase keyword.
func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
