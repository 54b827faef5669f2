package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"Valid Password", "SecurePass123!", false},
		{"Too Short", "Short1!", true},
		{"Too Long", strings.Repeat("Aa1!", 33), true},
		{"No Uppercase", "securepass123!", true},
		{"No Lowercase", "SECUREPASS123!", true},
		{"No Digit", "SecurePassword!", true},
		{"No Special Character", "SecurePass1234", true},
		{"Exactly Twelve Characters", "SecurePas12!", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{"Valid Username", "jane_doe", false},
		{"Valid With Hyphen", "jane-doe42", false},
		{"Too Short", "ab", true},
		{"Too Long", strings.Repeat("a", 31), true},
		{"Invalid Characters", "jane doe", true},
		{"Leading Underscore", "_jane", true},
		{"Trailing Hyphen", "jane-", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"Valid Email", "reader@example.com", false},
		{"Valid With Plus", "reader+news@example.co.za", false},
		{"Missing At", "readerexample.com", true},
		{"Missing Domain", "reader@", true},
		{"Missing TLD", "reader@example", true},
		{"Too Long", strings.Repeat("a", 250) + "@example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
