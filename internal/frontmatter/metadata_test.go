package frontmatter

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMetadataTitle(t *testing.T) {
	tests := []struct {
		name  string
		meta  Metadata
		want  string
		found bool
	}{
		{"string", Metadata{"title": "Hello World"}, "Hello World", true},
		{"raw value kept", Metadata{"title": " Padded "}, " Padded ", true},
		{"missing", Metadata{}, "", false},
		{"empty string", Metadata{"title": ""}, "", false},
		{"whitespace", Metadata{"title": "   "}, "", false},
		{"null", Metadata{"title": nil}, "", false},
		{"integer", Metadata{"title": 2024}, "2024", true},
		{"zero", Metadata{"title": 0}, "", false},
		{"float", Metadata{"title": 1.5}, "1.5", true},
		{"string zero", Metadata{"title": "0"}, "", false},
		{"float zero", Metadata{"title": 0.0}, "", false},
		{"true", Metadata{"title": true}, "true", true},
		{"false", Metadata{"title": false}, "", false},
		{"sequence", Metadata{"title": []any{"a"}}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.meta.Title()
			require.Equal(t, tt.found, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestMetadataStatus(t *testing.T) {
	require.Equal(t, "draft", Metadata{}.Status("draft"))
	require.Equal(t, "draft", Metadata{"status": nil}.Status("draft"))
	require.Equal(t, "draft", Metadata{"status": " "}.Status("draft"))
	require.Equal(t, "published", Metadata{"status": "published"}.Status("draft"))
	require.Equal(t, "true", Metadata{"status": true}.Status("draft"))
}
