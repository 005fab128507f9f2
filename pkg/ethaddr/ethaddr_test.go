package ethaddr_test

import (
	"testing"

	"github.com/freelancepay/freelancepay/pkg/ethaddr"
	"github.com/stretchr/testify/assert"
)

func TestIsAddress(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"valid lowercase", "0x742d35cc6634c0532925a3b844bc454e4438f44e", true},
		{"valid mixed case", "0x742d35Cc6634C0532925a3b844Bc454e4438f44e", true},
		{"missing prefix", "742d35cc6634c0532925a3b844bc454e4438f44e", false},
		{"too short", "0x742d35cc6634c0532925a3b844bc454e4438f44", false},
		{"too long", "0x742d35cc6634c0532925a3b844bc454e4438f44e1", false},
		{"non-hex chars", "0x742d35cc6634c0532925a3b844bc454e4438g44e", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ethaddr.IsAddress(tt.in))
		})
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t,
		"0x742d35cc6634c0532925a3b844bc454e4438f44e",
		ethaddr.Normalize("0x742d35Cc6634C0532925a3b844Bc454e4438f44e"))
}
