package googleauth_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/soucarbonell/portal-gateway/googleauth"
)

func TestAllowedEmail(t *testing.T) {
	const domain = "@soucarbonell.com.br"

	t.Run("allows the institutional domain", func(t *testing.T) {
		require.True(t, googleauth.AllowedEmail("user@soucarbonell.com.br", domain))
	})

	t.Run("matching is case-insensitive", func(t *testing.T) {
		require.True(t, googleauth.AllowedEmail("User@SouCarbonell.COM.BR", domain))
	})

	t.Run("denies other domains", func(t *testing.T) {
		require.False(t, googleauth.AllowedEmail("user@other.com", domain))
	})

	t.Run("denies empty emails", func(t *testing.T) {
		require.False(t, googleauth.AllowedEmail("", domain))
	})

	t.Run("denies everything when no domain is configured", func(t *testing.T) {
		require.False(t, googleauth.AllowedEmail("user@soucarbonell.com.br", ""))
	})

	t.Run("the leading @ in the suffix blocks lookalike domains", func(t *testing.T) {
		require.False(t, googleauth.AllowedEmail("user@evilsoucarbonell.com.br", domain))
	})

	// The match is a raw string suffix, not a parsed domain component. A
	// suffix configured without the leading "@" accepts any registrable
	// domain that merely ends in those characters, which is why the
	// default configuration includes the "@".
	t.Run("a bare suffix accepts lookalike domains", func(t *testing.T) {
		require.True(t, googleauth.AllowedEmail("user@evilsoucarbonell.com.br", "soucarbonell.com.br"))
	})
}
