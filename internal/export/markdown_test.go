package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/arkegu/arkegu-cache/internal"
)

func TestMarkdownExporter_Export(t *testing.T) {
	tests := []struct {
		name string
		rec  *internal.SessionRecord
		want []string
	}{
		{
			name: "basic session",
			rec:  internal.CreateTestRecord("test1"),
			want: []string{
				"# Test Conversation",
				"**Session:** test1",
				"**Messages:** 2 cached of 2",
				"## Messages",
				"**user:**",
				"Hello, how are you?",
				"**assistant:**",
			},
		},
		{
			name: "session with timestamp",
			rec: internal.CreateTestRecordWithMessages("test2", []internal.Message{
				{
					Role:      internal.RoleUser,
					Content:   "Hello",
					Timestamp: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
				},
			}),
			want: []string{
				"**user:** (2023-01-01T00:00:00Z)",
			},
		},
		{
			name: "untitled session falls back to id",
			rec: &internal.SessionRecord{
				ID:       "test3",
				Messages: []internal.Message{},
			},
			want: []string{
				"# test3",
				"**Messages:** 0 cached of 0",
			},
		},
		{
			name: "evicted history",
			rec: &internal.SessionRecord{
				ID:           "test4",
				Title:        "Long chat",
				Messages:     internal.CreateTestMessages(3),
				MessageCount: 40,
			},
			want: []string{
				"**Messages:** 3 cached of 40",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			exporter := &MarkdownExporter{}

			if err := exporter.Export(tt.rec, &buf); err != nil {
				t.Fatalf("MarkdownExporter.Export() error = %v", err)
			}

			output := buf.String()
			for _, wantStr := range tt.want {
				if !strings.Contains(output, wantStr) {
					t.Errorf("Output should contain %q, got:\n%s", wantStr, output)
				}
			}
		})
	}
}

func TestMarkdownExporter_Extension(t *testing.T) {
	exporter := &MarkdownExporter{}
	if got := exporter.Extension(); got != "md" {
		t.Errorf("MarkdownExporter.Extension() = %v, want md", got)
	}
}

func TestEscapeMarkdown(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		want     []string
		notWant  []string
	}{
		{
			name:  "basic text",
			input: "Hello world",
			want:  []string{"Hello world"},
		},
		{
			name:    "markdown bold",
			input:    "This is **bold** text",
			want:     []string{"\\*\\*bold\\*\\*"},
			notWant:  []string{"**bold**"},
		},
		{
			name:    "markdown underline",
			input:    "This is __underlined__ text",
			want:     []string{"\\_\\_underlined\\_\\_"},
			notWant:  []string{"__underlined__"},
		},
		{
			name:  "code block preserved",
			input: "```go\npackage main\n```",
			want:  []string{"```go", "package main", "```"},
		},
		{
			name:    "mixed content",
			input:    "Regular text **bold** and ```code```",
			want:     []string{"\\*\\*bold\\*\\*", "```code```"},
			notWant:  []string{"**bold**"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := escapeMarkdown(tt.input)
			for _, wantStr := range tt.want {
				if !strings.Contains(got, wantStr) {
					t.Errorf("escapeMarkdown() should contain %q, got: %s", wantStr, got)
				}
			}
			for _, notWantStr := range tt.notWant {
				if strings.Contains(got, notWantStr) {
					t.Errorf("escapeMarkdown() should not contain %q, got: %s", notWantStr, got)
				}
			}
		})
	}
}


