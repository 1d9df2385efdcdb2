package profile_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/frontdoor/pkg/profile"
)

func TestStripQueryParam(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		qs    string
		param string
		want  string
	}{
		{"only param", "profile/bob?zrl=https://a.example/profile/x", "zrl", "profile/bob"},
		{"first of many", "network?zrl=x&f=&order=post", "zrl", "network?f=&order=post"},
		{"last of many", "network?f=1&owt=abc", "owt", "network?f=1"},
		{"middle", "display?a=1&owt=abc&b=2", "owt", "display?a=1&b=2"},
		{"repeated", "x?owt=1&owt=2&y=3", "owt", "x?y=3"},
		{"prefix is not a match", "x?zrlx=1", "zrl", "x?zrlx=1"},
		{"no query", "home", "zrl", "home"},
		{"empty query", "home?", "zrl", "home"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, profile.StripQueryParam(tt.qs, tt.param))
		})
	}

	assert.Equal(t, "profile/bob?tab=posts", profile.StripZrls("profile/bob?zrl=u&tab=posts"))
}

func TestValidZrl(t *testing.T) {
	t.Parallel()

	assert.True(t, profile.ValidZrl("https://remote.example/profile/alice"))
	assert.False(t, profile.ValidZrl("https://remote.example/profile/alice?x=1"))
	assert.False(t, profile.ValidZrl("https://remote.example/channel/alice"))
	assert.False(t, profile.ValidZrl("%zz"))
	assert.False(t, profile.ValidZrl("https://remote.example/profile/%zz"), "bad escape in an otherwise valid profile path")
	assert.False(t, profile.ValidZrl(""))
}

func TestTokens(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	tokens := profile.NewMemoryTokens()
	t.Cleanup(func() { _ = tokens.Close() })

	visitor := profile.Visitor{URL: "https://remote.example/profile/bob", Name: "Bob"}
	token, err := tokens.Issue(ctx, visitor)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := tokens.Consume(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, visitor, got)

	_, err = tokens.Consume(ctx, token)
	require.ErrorIs(t, err, profile.ErrTokenNotFound, "tokens are single use")

	_, err = tokens.Consume(ctx, "")
	require.ErrorIs(t, err, profile.ErrTokenNotFound)

	_, err = tokens.Issue(ctx, profile.Visitor{})
	require.ErrorIs(t, err, profile.ErrInvalidVisitor)
}
