package docsnap

// ConversionMode tags which path produced a Conversion.
type ConversionMode int

const (
	// ConversionEmpty means the input had no content.
	ConversionEmpty ConversionMode = iota
	// ConversionStructured means the HTML was converted to markdown.
	ConversionStructured
	// ConversionPlainText means structured conversion failed and the
	// markdown is a best-effort plain-text rendering of the input.
	ConversionPlainText
)

// String returns a name suitable for logs.
func (m ConversionMode) String() string {
	switch m {
	case ConversionEmpty:
		return "empty"
	case ConversionStructured:
		return "structured"
	case ConversionPlainText:
		return "plaintext"
	default:
		return "unknown"
	}
}

// Conversion is the result of converting an HTML fragment.
type Conversion struct {
	// Markdown is normalized: no trailing whitespace on lines, no runs of
	// more than one blank line, exactly one trailing newline (empty when
	// Mode is ConversionEmpty).
	Markdown string

	Mode ConversionMode

	// Err is the structured conversion error that caused a plain-text
	// fallback. Nil unless Mode is ConversionPlainText.
	Err error
}

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms an HTML content fragment into normalized markdown.
	// It never fails outright; a failing structured conversion is reported
	// through Conversion.Mode and Conversion.Err.
	Convert(html string) Conversion
}
