package gmail

import (
	"testing"
)

func TestAccount(t *testing.T) {
	tests := []struct {
		name    string
		account string
	}{
		{
			name:    "default account",
			account: "default",
		},
		{
			name:    "named account",
			account: "work",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Client{account: tt.account}
			if got := c.Account(); got != tt.account {
				t.Errorf("Account() = %v, want %v", got, tt.account)
			}
		})
	}
}
