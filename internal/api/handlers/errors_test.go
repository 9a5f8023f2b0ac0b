package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsLocalPath(t *testing.T) {
	tests := []struct {
		target string
		want   bool
	}{
		{"/admin/events", true},
		{"/admin/events?season=2024", true},
		{"", false},
		{"admin/events", false},
		{"//evil.example.com", false},
		{"/\\evil.example.com", false},
		{"/admin\\..\\evil", false},
		{"https://evil.example.com", false},
		{"/%zz", false},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			assert.Equal(t, tt.want, isLocalPath(tt.target))
		})
	}
}
