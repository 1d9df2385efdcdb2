package internal

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdmission_InFlight(t *testing.T) {
	t.Parallel()

	a := newAdmission(2, 0, nil)
	t.Cleanup(func() { _ = a.Close() })
	ctx := context.Background()

	r1, ok := a.Admit(ctx)
	require.True(t, ok)
	r2, ok := a.Admit(ctx)
	require.True(t, ok)

	_, ok = a.Admit(ctx)
	assert.False(t, ok, "limit reached")

	r1()
	r3, ok := a.Admit(ctx)
	assert.True(t, ok, "slot released")
	r2()
	r3()
}

func TestAdmission_Load(t *testing.T) {
	t.Parallel()

	load := func(v float64, err error) LoadFunc {
		return func(context.Context) (float64, error) { return v, err }
	}

	tests := []struct {
		name string
		max  float64
		fn   LoadFunc
		want bool
	}{
		{"below limit", 4, load(1.2, nil), true},
		{"above limit", 4, load(7.9, nil), false},
		{"limit disabled", 0, load(99, nil), true},
		{"load unreadable", 4, load(0, errors.New("no proc")), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			a := newAdmission(0, tt.max, tt.fn)
			t.Cleanup(func() { _ = a.Close() })
			release, ok := a.Admit(context.Background())
			assert.Equal(t, tt.want, ok)
			if ok {
				release()
			}
		})
	}
}

func TestParseLoadAvg(t *testing.T) {
	t.Parallel()

	v, err := parseLoadAvg("0.42 0.31 0.20 1/345 9876\n")
	require.NoError(t, err)
	assert.InDelta(t, 0.42, v, 1e-9)

	_, err = parseLoadAvg("")
	require.Error(t, err)

	_, err = parseLoadAvg("abc")
	require.Error(t, err)
}
