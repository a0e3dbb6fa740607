package logging

import (
	"errors"
	"testing"
)

func TestAttrHelpers(t *testing.T) {
	tests := []struct {
		name      string
		attr      func() (key, value string)
		wantKey   string
		wantValue string
	}{
		{
			name: "service",
			attr: func() (string, string) {
				a := Service("gmail")
				return a.Key, a.Value.String()
			},
			wantKey:   KeyService,
			wantValue: "gmail",
		},
		{
			name: "account",
			attr: func() (string, string) {
				a := Account("work")
				return a.Key, a.Value.String()
			},
			wantKey:   KeyAccount,
			wantValue: "work",
		},
		{
			name: "error",
			attr: func() (string, string) {
				a := Err(errors.New("boom"))
				return a.Key, a.Value.String()
			},
			wantKey:   KeyError,
			wantValue: "boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, value := tt.attr()
			if key != tt.wantKey {
				t.Errorf("key = %q, want %q", key, tt.wantKey)
			}
			if value != tt.wantValue {
				t.Errorf("value = %q, want %q", value, tt.wantValue)
			}
		})
	}
}

func TestErr_NilBecomesEmptyGroup(t *testing.T) {
	attr := Err(nil)
	if attr.Key != "" {
		t.Errorf("Err(nil) key = %q, want empty group key", attr.Key)
	}
}
