package export

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewExporter(t *testing.T) {
	tests := []struct {
		format   string
		wantType string
		wantExt  string
	}{
		{"jsonl", "*export.JSONLExporter", "jsonl"},
		{"md", "*export.MarkdownExporter", "md"},
		{"markdown", "*export.MarkdownExporter", "md"},
		{"MD", "*export.MarkdownExporter", "md"},
		{"yaml", "*export.YAMLExporter", "yaml"},
		{" yml ", "*export.YAMLExporter", "yaml"},
		{"json", "*export.JSONExporter", "json"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			exporter, err := NewExporter(tt.format)
			if err != nil {
				t.Fatalf("NewExporter(%q) error = %v", tt.format, err)
			}
			if got := fmt.Sprintf("%T", exporter); got != tt.wantType {
				t.Errorf("NewExporter(%q) = %s, want %s", tt.format, got, tt.wantType)
			}
			if got := exporter.Extension(); got != tt.wantExt {
				t.Errorf("Extension() = %q, want %q", got, tt.wantExt)
			}
		})
	}
}

func TestNewExporter_Unsupported(t *testing.T) {
	for _, format := range []string{"xml", "", "pdf"} {
		exporter, err := NewExporter(format)
		if !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("NewExporter(%q) error = %v, want ErrUnsupportedFormat", format, err)
		}
		if exporter != nil {
			t.Errorf("NewExporter(%q) returned %T, want nil", format, exporter)
		}
	}
}

func TestFormats(t *testing.T) {
	want := []string{"json", "jsonl", "markdown", "md", "yaml", "yml"}
	if diff := cmp.Diff(want, Formats()); diff != "" {
		t.Errorf("Formats() mismatch (-want +got):\n%s", diff)
	}
}
