package memory

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/phaser/pkg/host"
	"github.com/NVIDIA/phaser/pkg/key"
	"github.com/NVIDIA/phaser/pkg/meta"
	"github.com/NVIDIA/phaser/pkg/phase"
	"github.com/NVIDIA/phaser/pkg/worldgen"
)

type scriptedLifecycle struct {
	fired     []phase.Phase
	groupings []string
	onPhase   func(p phase.Phase, h host.Handle) error
}

func (s *scriptedLifecycle) Activate(_ context.Context, p phase.Phase, h host.Handle) error {
	s.fired = append(s.fired, p)
	if s.onPhase != nil {
		return s.onPhase(p, h)
	}
	return nil
}

func (s *scriptedLifecycle) OnGrouping(_ context.Context, g *worldgen.Grouping) int {
	s.groupings = append(s.groupings, g.Name)
	return 0
}

func k(name string) key.Key { return key.Key{Namespace: "example", Name: name} }

func TestRegistry(t *testing.T) {
	r := NewRegistry("blocks")
	assert.Equal(t, "blocks", r.Name())

	require.NoError(t, r.Register(k("a"), 1))
	require.NoError(t, r.Register(k("b"), 2))
	assert.ErrorIs(t, r.Register(k("a"), 3), ErrDuplicate)
	assert.ErrorIs(t, r.Register(key.Key{}, 3), ErrInvalidKey)

	v, ok := r.Get(k("a"))
	require.True(t, ok)
	assert.Equal(t, 1, v)
	assert.Equal(t, []key.Key{k("a"), k("b")}, r.Keys())

	r.Seal()
	assert.True(t, r.Sealed())
	assert.ErrorIs(t, r.Register(k("c"), 3), ErrSealed)
	assert.Equal(t, 2, r.Len())
}

func TestRunOrder(t *testing.T) {
	tests := []struct {
		name string
		dist meta.Dist
		want []phase.Phase
	}{
		{
			name: "server",
			dist: meta.DistServer,
			want: []phase.Phase{
				phase.PrimaryEntity, phase.SecondaryEntity, phase.Resource,
				phase.InteractionSurface, phase.Aggregate, phase.CommonSetup,
			},
		},
		{
			name: "client",
			dist: meta.DistClient,
			want: []phase.Phase{
				phase.PrimaryEntity, phase.SecondaryEntity, phase.Resource,
				phase.InteractionSurface, phase.Aggregate, phase.ClientSetup, phase.CommonSetup,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New(tt.dist, worldgen.NewGrouping("plains", worldgen.CategoryOverworld))
			lc := &scriptedLifecycle{}
			require.NoError(t, h.Run(context.Background(), lc))
			assert.Equal(t, tt.want, lc.fired)
			assert.Equal(t, []string{"plains"}, lc.groupings)
		})
	}
}

func TestRunStopsOnError(t *testing.T) {
	h := New(meta.DistServer)
	boom := errors.New("boom")
	lc := &scriptedLifecycle{onPhase: func(p phase.Phase, _ host.Handle) error {
		if p == phase.Resource {
			return boom
		}
		return nil
	}}

	err := h.Run(context.Background(), lc)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []phase.Phase{phase.PrimaryEntity, phase.SecondaryEntity, phase.Resource}, lc.fired)

	reg, ok := h.Registry(phase.Resource)
	require.True(t, ok)
	assert.True(t, reg.Sealed())
}

func TestRunNestedWorkAndPresentations(t *testing.T) {
	h := New(meta.DistClient)
	var ran atomic.Int32

	lc := &scriptedLifecycle{onPhase: func(p phase.Phase, hd host.Handle) error {
		switch p {
		case phase.PrimaryEntity:
			return hd.Register(k("furnace"), "block")
		case phase.ClientSetup:
			ch, ok := hd.(host.ClientHandle)
			require.True(t, ok)
			ch.EnqueueWork(func() {
				_ = ch.AssignPresentation("block", "cutout")
				ran.Add(1)
			})
		case phase.CommonSetup:
			sh, ok := hd.(host.SetupHandle)
			require.True(t, ok)
			_, isClient := hd.(host.ClientHandle)
			assert.False(t, isClient)
			for i := range 20 {
				name := string(rune('a' + i))
				sh.EnqueueWork(func() {
					_ = sh.Register(k(name), i)
					ran.Add(1)
				})
			}
			sh.EnqueueWork(nil)
		}
		return nil
	}}

	require.NoError(t, h.Run(context.Background(), lc))
	assert.Equal(t, int32(21), ran.Load())

	reg, _ := h.Registry(phase.CommonSetup)
	assert.Equal(t, 20, reg.Len())

	presentations := h.Presentations()
	require.Len(t, presentations, 1)
	assert.Equal(t, "cutout", presentations[0].Attr)

	commits := h.Commits()
	require.Len(t, commits, 21)
	assert.Equal(t, Commit{Phase: phase.PrimaryEntity, Key: k("furnace")}, commits[0])
}

func TestFactory(t *testing.T) {
	f := Factory{}

	c, err := f.Companion("block", host.Properties{Listed: true, Group: "example"})
	require.NoError(t, err)
	assert.Equal(t, "block", c.(*Companion).Of)

	contributors := []any{"a", "b"}
	a, err := f.AggregateType("supplier", contributors)
	require.NoError(t, err)
	contributors[0] = "mutated"
	assert.Equal(t, []any{"a", "b"}, a.(*AggregateType).Contributors)

	feat, err := f.WorldFeature(worldgen.Descriptor{Key: k("ore"), Count: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, feat.(*Feature).Descriptor.Count)
}
