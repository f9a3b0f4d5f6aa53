package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseState(t *testing.T) {
	cases := []struct {
		name        string
		definitions []string
		expected    map[string]string
		wantErr     bool
	}{
		{
			name:        "empty",
			definitions: []string{},
			expected:    map[string]string{},
		},
		{
			name:        "single",
			definitions: []string{"user=alice"},
			expected:    map[string]string{"user": "alice"},
		},
		{
			name:        "multiple flags and csv",
			definitions: []string{"user=alice,token=t0k3n", "theme=dark"},
			expected:    map[string]string{"user": "alice", "token": "t0k3n", "theme": "dark"},
		},
		{
			name:        "equal sign in value",
			definitions: []string{"token=a=b=c"},
			expected:    map[string]string{"token": "a=b=c"},
		},
		{
			name:        "missing value",
			definitions: []string{"user"},
			wantErr:     true,
		},
		{
			name:        "missing key",
			definitions: []string{"=alice"},
			wantErr:     true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			actual, err := parseState(tc.definitions)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, actual)
		})
	}
}

func TestGeneratePinIsSixDigits(t *testing.T) {
	for i := 0; i < 50; i++ {
		pin, err := generatePin()
		assert.NoError(t, err)
		assert.Len(t, pin, 6)
		for _, r := range pin {
			assert.GreaterOrEqual(t, r, '0')
			assert.LessOrEqual(t, r, '9')
		}
	}
}
