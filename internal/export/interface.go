// Package export writes cached session records in file formats meant for
// people and other tools.
package export

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/arkegu/arkegu-cache/internal"
)

// ErrUnsupportedFormat is returned by NewExporter for unknown format names
var ErrUnsupportedFormat = errors.New("unsupported format")

// Exporter writes one session record
type Exporter interface {
	Export(rec *internal.SessionRecord, w io.Writer) error
	Extension() string
}

var exporters = map[string]func() Exporter{
	"jsonl":    func() Exporter { return &JSONLExporter{} },
	"md":       func() Exporter { return &MarkdownExporter{} },
	"markdown": func() Exporter { return &MarkdownExporter{} },
	"yaml":     func() Exporter { return &YAMLExporter{} },
	"yml":      func() Exporter { return &YAMLExporter{} },
	"json":     func() Exporter { return &JSONExporter{} },
}

// Formats lists the accepted format names, aliases included
func Formats() []string {
	names := make([]string, 0, len(exporters))
	for name := range exporters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewExporter returns the exporter for a format name. Names are matched
// case-insensitively.
func NewExporter(format string) (Exporter, error) {
	newFn, ok := exporters[strings.ToLower(strings.TrimSpace(format))]
	if !ok {
		return nil, fmt.Errorf("%w: %q (supported: %s)", ErrUnsupportedFormat, format, strings.Join(Formats(), ", "))
	}
	return newFn(), nil
}
