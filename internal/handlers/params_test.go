package handlers

import (
	"net/http/httptest"
	"reflect"
	"testing"
)

func TestParseStatuses(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"", nil},
		{"open", []string{"open"}},
		{"open,bidding", []string{"open", "bidding"}},
		{" open , bidding ,", []string{"open", "bidding"}},
		{",,", nil},
	}

	for _, tt := range tests {
		got := parseStatuses(tt.raw)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseStatuses(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestGetParam(t *testing.T) {
	r := httptest.NewRequest("GET", "/requests?:id=7&type=fixed", nil)

	if got := getParam(r, "id"); got != "7" {
		t.Errorf("getParam(id) = %q, want %q", got, "7")
	}
	if got := getParam(r, "type"); got != "fixed" {
		t.Errorf("getParam(type) = %q, want %q", got, "fixed")
	}
	if got := getParam(r, "missing"); got != "" {
		t.Errorf("getParam(missing) = %q, want empty", got)
	}
}
