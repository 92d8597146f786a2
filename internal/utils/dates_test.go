package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeServiceDate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{name: "iso date", input: "2025-03-14", expected: "2025-03-14"},
		{name: "us date", input: "03/14/2025", expected: "2025-03-14"},
		{name: "long month", input: "March 14, 2025", expected: "2025-03-14"},
		{name: "rfc3339", input: "2025-03-14T10:30:00Z", expected: "2025-03-14"},
		{name: "whitespace trimmed", input: "  2025-03-14  ", expected: "2025-03-14"},
		{name: "empty stays empty", input: "", expected: ""},
		{name: "garbage rejected", input: "next tuesday", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeServiceDate(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
