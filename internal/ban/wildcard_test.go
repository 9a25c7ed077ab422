package ban

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWildcard(t *testing.T) {
	require.True(t, Wildcard("*@spam.example"))
	require.True(t, Wildcard("192.168.*.1"))
	require.False(t, Wildcard("alice@spam.example"))
}

func TestWildcardLike(t *testing.T) {
	tests := []struct {
		item string
		want string
	}{
		{"*@spam.example", "%@spam.example"},
		{"192.168.*.1", "192.168.%.1"},
		// LIKE metacharacters in the item are data, not pattern
		{"50%_off*", "50!%!_off%"},
		{"bang!*", "bang!!%"},
		{"plain", "plain"},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, WildcardLike(tt.item), "item %q", tt.item)
	}
}

func TestMatchItem(t *testing.T) {
	tests := []struct {
		item  string
		value string
		want  bool
	}{
		{"alice@spam.example", "alice@spam.example", true},
		{"alice@spam.example", "Alice@Spam.Example", true},
		{"alice@spam.example", "bob@spam.example", false},
		{"*@spam.example", "anyone@spam.example", true},
		{"*@spam.example", "ANYONE@SPAM.EXAMPLE", true},
		{"*@spam.example", "anyone@ok.example", false},
		{"192.168.*.1", "192.168.5.1", true},
		{"192.168.*.1", "10.0.0.1", false},
		// Regexp metacharacters in the item stay literal
		{"a.c", "abc", false},
		{"a.c", "a.c", true},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, matchItem(tt.item, tt.value), "item %q value %q", tt.item, tt.value)
	}
}

func TestWildcardRegexp(t *testing.T) {
	re, err := WildcardRegexp("10.0.*")
	require.NoError(t, err)
	require.True(t, re.MatchString("10.0.0.7"))
	require.False(t, re.MatchString("10.1.0.7"))
}
