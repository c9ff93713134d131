package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/arkegu/arkegu-cache/internal"
)

// jsonlLine is one message in JSONL output
type jsonlLine struct {
	ID        string `json:"id,omitempty"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp,omitempty"`
}

// JSONLExporter exports one message per line
type JSONLExporter struct{}

// Export writes every cached message as a JSON line
func (e *JSONLExporter) Export(rec *internal.SessionRecord, w io.Writer) error {
	enc := json.NewEncoder(w)

	for _, msg := range rec.Messages {
		line := jsonlLine{
			ID:      msg.ID,
			Role:    msg.Role,
			Content: msg.Content,
		}
		if !msg.Timestamp.IsZero() {
			line.Timestamp = msg.Timestamp.UTC().Format(time.RFC3339)
		}

		if err := enc.Encode(line); err != nil {
			return fmt.Errorf("failed to encode message: %w", err)
		}
	}

	return nil
}

// Extension returns the file extension for this format
func (e *JSONLExporter) Extension() string {
	return "jsonl"
}
