package hook_test

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/frontdoor/pkg/hook"
)

func TestRegistry_Call(t *testing.T) {
	t.Parallel()

	t.Run("folds callbacks in registration order", func(t *testing.T) {
		t.Parallel()

		reg := hook.NewRegistry()
		reg.Register("page_end", func(_ context.Context, p hook.Payload) (hook.Payload, error) {
			p.Content += "a"
			return p, nil
		})
		reg.Register("page_end", func(_ context.Context, p hook.Payload) (hook.Payload, error) {
			p.Content += "b"
			return p, nil
		})

		out, err := reg.Call(context.Background(), "page_end", hook.Payload{Content: ">"})
		require.NoError(t, err)
		require.Equal(t, ">ab", out.Content)
	})

	t.Run("returns payload unchanged without callbacks", func(t *testing.T) {
		t.Parallel()

		reg := hook.NewRegistry()
		out, err := reg.Call(context.Background(), "missing", hook.Payload{Content: "x"})
		require.NoError(t, err)
		require.Equal(t, "x", out.Content)
	})

	t.Run("stops on error and keeps last good payload", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("boom")
		var thirdCalled bool

		reg := hook.NewRegistry()
		reg.Register("e", func(_ context.Context, p hook.Payload) (hook.Payload, error) {
			p.Content = "first"
			return p, nil
		})
		reg.Register("e", func(_ context.Context, p hook.Payload) (hook.Payload, error) {
			p.Content = "second"
			return p, boom
		})
		reg.Register("e", func(_ context.Context, p hook.Payload) (hook.Payload, error) {
			thirdCalled = true
			return p, nil
		})

		out, err := reg.Call(context.Background(), "e", hook.Payload{})
		require.ErrorIs(t, err, hook.ErrCallback)
		require.ErrorIs(t, err, boom)
		require.Equal(t, "first", out.Content)
		require.False(t, thirdCalled)
	})

	t.Run("callbacks cannot mutate caller form values", func(t *testing.T) {
		t.Parallel()

		reg := hook.NewRegistry()
		reg.Register("e", func(_ context.Context, p hook.Payload) (hook.Payload, error) {
			p.Form.Set("body", "changed")
			return hook.Payload{}, nil
		})

		form := url.Values{"body": {"original"}}
		_, err := reg.Call(context.Background(), "e", hook.Payload{Form: form})
		require.NoError(t, err)
		require.Equal(t, "original", form.Get("body"))
	})
}

func TestRegistry_Register(t *testing.T) {
	t.Parallel()

	reg := hook.NewRegistry()
	reg.Register("", func(_ context.Context, p hook.Payload) (hook.Payload, error) { return p, nil })
	reg.Register("nil", nil)
	reg.Register("b", func(_ context.Context, p hook.Payload) (hook.Payload, error) { return p, nil })
	reg.Register("a", func(_ context.Context, p hook.Payload) (hook.Payload, error) { return p, nil })

	require.False(t, reg.Has("nil"))
	require.True(t, reg.Has("a"))
	require.Equal(t, []string{"a", "b"}, reg.Events())
}

func TestModEvents(t *testing.T) {
	t.Parallel()

	require.Equal(t, "network_mod_init", hook.ModInit("network"))
	require.Equal(t, "network_mod_post", hook.ModPost("network"))
	require.Equal(t, "network_mod_afterpost", hook.ModAfterPost("network"))
	require.Equal(t, "network_mod_content", hook.ModContent("network"))
	require.Equal(t, "network_mod_aftercontent", hook.ModAfterContent("network"))
}
