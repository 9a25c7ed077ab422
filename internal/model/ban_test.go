package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBanExpiry(t *testing.T) {
	const now = int64(1_700_000_000)

	testcases := []struct {
		Name      string
		Ban       *Ban
		Permanent bool
		Expired   bool
	}{
		{
			Name:      "Permanent ban",
			Ban:       &Ban{Mode: "user", Item: "42", ExpiresAt: 0},
			Permanent: true,
			Expired:   false,
		},
		{
			Name:      "Active bounded ban",
			Ban:       &Ban{Mode: "ip", Item: "10.0.0.1", ExpiresAt: now + 60},
			Permanent: false,
			Expired:   false,
		},
		{
			Name:      "Expired bounded ban",
			Ban:       &Ban{Mode: "ip", Item: "10.0.0.1", ExpiresAt: now - 1},
			Permanent: false,
			Expired:   true,
		},
	}

	for _, testcase := range testcases {
		t.Run(testcase.Name, func(t *testing.T) {
			require.Equal(t, testcase.Permanent, testcase.Ban.Permanent())
			require.Equal(t, testcase.Expired, testcase.Ban.Expired(now))
		})
	}
}

func TestBanHash(t *testing.T) {
	InitHashFunction()

	ban := &Ban{
		Mode:          "email",
		Item:          "*@spam.example",
		StartedAt:     1_700_000_000,
		ExpiresAt:     0,
		Reason:        "spam wave",
		DisplayReason: "You have been banned",
	}

	hash, err := ban.Hash()
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	// Hashing is deterministic
	hash2, err := ban.Hash()
	require.NoError(t, err)
	require.Equal(t, hash, hash2)

	// Meta fields do not contribute to the hash
	ban.Extra = "ignored"
	hash3, err := ban.Hash()
	require.NoError(t, err)
	require.Equal(t, hash, hash3)

	// Hashed fields do
	ban.Reason = "different"
	hash4, err := ban.Hash()
	require.NoError(t, err)
	require.NotEqual(t, hash, hash4)
}
