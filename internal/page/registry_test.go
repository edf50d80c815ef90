package page

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counter struct{ inits int }

func (c *counter) Init(context.Context) error { c.inits++; return nil }

func TestRegistryLoad(t *testing.T) {
	env := &Env{}
	reg := NewRegistry(env)

	var seen *Env
	reg.Register("contact", func(e *Env) (Module, error) {
		seen = e
		return &counter{}, nil
	})
	reg.Register("broken", func(*Env) (Module, error) { return nil, errors.New("boom") })
	reg.Register("panics", func(*Env) (Module, error) { panic("bad module") })

	assert.Equal(t, []string{"broken", "contact", "panics"}, reg.Views())

	first, err := reg.Load("contact")
	require.NoError(t, err)
	second, err := reg.Load("contact")
	require.NoError(t, err)
	assert.Same(t, env, seen)
	assert.NotSame(t, first, second, "every load builds a fresh module")
	_, ok := first.(Initializer)
	assert.True(t, ok)

	_, err = reg.Load("cgu")
	assert.ErrorIs(t, err, ErrNoModule)

	_, err = reg.Load("broken")
	assert.ErrorContains(t, err, "boom")

	_, err = reg.Load("panics")
	assert.ErrorContains(t, err, "bad module")
}

func TestEnvLog(t *testing.T) {
	assert.NotNil(t, (&Env{}).Log("login"))
}
