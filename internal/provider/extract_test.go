package provider

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractString(t *testing.T) {
	cases := []struct {
		name string
		in   interface{}
		want string
		ok   bool
	}{
		{"nil", nil, "", false},
		{"string", "4047646", "4047646", true},
		{"padded", "  13982 ", "13982", true},
		{"blank", "   ", "", false},
		{"number", json.Number("3139477"), "3139477", true},
		{"float", float64(16800), "16800", true},
		{"int", 42, "42", true},
		{"int64", int64(7), "7", true},
		{"bool", true, "", false},
		{"object", map[string]interface{}{"id": "1"}, "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ExtractString(tc.in)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.ok, ok)
		})
	}
}

func TestStringField(t *testing.T) {
	obj := map[string]interface{}{"first_name": "Puka", "espn_id": nil}
	assert.Equal(t, "Puka", StringField(obj, "first_name"))
	assert.Equal(t, "", StringField(obj, "espn_id"))
	assert.Equal(t, "", StringField(obj, "missing"))
}
