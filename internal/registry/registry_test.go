package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/tensorgridgo/internal/backend"
	"github.com/vk/tensorgridgo/internal/config"
	"github.com/vk/tensorgridgo/internal/graph"
	"github.com/vk/tensorgridgo/internal/selection"
)

type stubBackend struct{ name string }

func (s *stubBackend) Name() string { return s.name }

func (s *stubBackend) ParseGraph(context.Context, *graph.Graph, *selection.Subset) ([]*selection.Subset, error) {
	return nil, nil
}

func (s *stubBackend) Compile(context.Context, *graph.Graph, *selection.Capability) (backend.CompiledUnit, error) {
	return nil, errors.New("not implemented")
}

func stubFactory(name string) Factory {
	return func(*config.BackendDefinition) (backend.Backend, error) {
		return &stubBackend{name: name}, nil
	}
}

func TestRegisterBackend_DuplicatePanics(t *testing.T) {
	t.Parallel()

	r := New()
	r.RegisterBackend("emulator", stubFactory("emulator"))

	require.Panics(t, func() {
		r.RegisterBackend("emulator", stubFactory("emulator"))
	})
}

func TestNewBackend(t *testing.T) {
	t.Parallel()

	r := New()
	r.RegisterBackend("emulator", stubFactory("emulator"))

	t.Run("known type", func(t *testing.T) {
		t.Parallel()
		be, err := r.NewBackend(&config.BackendDefinition{Type: "emulator"})
		require.NoError(t, err)
		assert.Equal(t, "emulator", be.Name())
	})

	t.Run("unknown type", func(t *testing.T) {
		t.Parallel()
		_, err := r.NewBackend(&config.BackendDefinition{Type: "quantum"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), `no backend registered for type "quantum"`)
	})
}

func TestBackendTypes_Sorted(t *testing.T) {
	t.Parallel()

	r := New()
	r.RegisterBackend("zeta", stubFactory("zeta"))
	r.RegisterBackend("alpha", stubFactory("alpha"))

	assert.Equal(t, []string{"alpha", "zeta"}, r.BackendTypes())
}
