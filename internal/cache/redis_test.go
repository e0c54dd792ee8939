package cache

import (
	"testing"
)

func TestCache_NamespaceKey(t *testing.T) {
	cache := &Cache{}

	tests := []struct {
		name     string
		key      string
		expected string
	}{
		{
			name:     "simple key",
			key:      "test",
			expected: "covernet:test",
		},
		{
			name:     "key with colon",
			key:      "test:key",
			expected: "covernet:test:key",
		},
		{
			name:     "empty key",
			key:      "",
			expected: "covernet:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := cache.namespaceKey(tt.key)
			if result != tt.expected {
				t.Errorf("namespaceKey() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestUnreadCountersKey(t *testing.T) {
	if got := UnreadCountersKey(42); got != "unread:42" {
		t.Errorf("UnreadCountersKey(42) = %v, want unread:42", got)
	}
}
