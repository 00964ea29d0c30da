package route

import (
	"encoding/json"
	"testing"
)

func TestProjectOntoQuery(t *testing.T) {
	tests := []struct {
		name string
		body string
		want map[string]string
	}{
		{
			name: "primitives pass through",
			body: `{"id":"abc","active":true,"count":3}`,
			want: map[string]string{"id": "abc", "active": "true", "count": "3"},
		},
		{
			name: "object and array values dropped",
			body: `{"id":"abc","filter":{"a":1},"tags":["x","y"]}`,
			want: map[string]string{"id": "abc"},
		},
		{
			name: "null dropped",
			body: `{"id":"abc","parentId":null}`,
			want: map[string]string{"id": "abc"},
		},
		{
			name: "not an object yields nil",
			body: `[1,2,3]`,
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := projectOntoQuery(json.RawMessage(tt.body))
			if len(got) != len(tt.want) {
				t.Fatalf("projectOntoQuery(%s) = %v, want %v", tt.body, got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("key %q = %q, want %q", k, got[k], v)
				}
			}
		})
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{3, "3"},
		{3.5, "3.5"},
		{0, "0"},
		{-2, "-2"},
	}
	for _, tt := range tests {
		if got := formatNumber(tt.in); got != tt.want {
			t.Errorf("formatNumber(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
