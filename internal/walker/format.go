package walker

import (
	"path/filepath"
	"strings"
)

// Format is the document format inferred from a file name.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
)

// formatByExt maps lowercase extensions to formats. Anything else that
// passes the binary check is treated as plain text.
var formatByExt = map[string]Format{
	".md":       FormatMarkdown,
	".markdown": FormatMarkdown,
	".mdown":    FormatMarkdown,
	".txt":      FormatText,
	".text":     FormatText,
	".log":      FormatText,
	".csv":      FormatText,
}

// DetectFormat returns the format of filename.
func DetectFormat(filename string) Format {
	if f, ok := formatByExt[strings.ToLower(filepath.Ext(filename))]; ok {
		return f
	}
	return FormatText
}
