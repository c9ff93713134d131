package export

import (
	"encoding/json"
	"io"

	"github.com/arkegu/arkegu-cache/internal"
)

// JSONExporter exports a session record as pretty-printed JSON
type JSONExporter struct{}

// Export writes the record as one JSON document
func (e *JSONExporter) Export(rec *internal.SessionRecord, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(rec)
}

// Extension returns the file extension for this format
func (e *JSONExporter) Extension() string {
	return "json"
}
