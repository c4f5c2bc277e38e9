package pipeline

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/phaser/pkg/host"
	"github.com/NVIDIA/phaser/pkg/host/memory"
	"github.com/NVIDIA/phaser/pkg/key"
	"github.com/NVIDIA/phaser/pkg/meta"
	"github.com/NVIDIA/phaser/pkg/phase"
	"github.com/NVIDIA/phaser/pkg/scanner"
	"github.com/NVIDIA/phaser/pkg/slot"
	"github.com/NVIDIA/phaser/pkg/worldgen"
)

type block struct{ name string }

type oreBlock struct {
	block
	nether bool
}

func (o *oreBlock) Nether() bool        { return o.nether }
func (o *oreBlock) VeinSize() int       { return 8 }
func (o *oreBlock) Count() int          { return 12 }
func (o *oreBlock) MinLevel() int       { return 5 }
func (o *oreBlock) MaxLevel() int       { return 40 }
func (o *oreBlock) Spawns() bool        { return true }
func (o *oreBlock) Groupings() []string { return nil }

type fluid struct {
	props  *host.ResourceProperties
	source bool
}

func (f *fluid) MarkSource() { f.source = true }

type item struct {
	props host.Properties
}

func k(name string) key.Key { return key.Key{Namespace: "example", Name: name} }

func value(name string, v any) meta.Field {
	return meta.Field{
		Name:   name,
		Static: true,
		Final:  true,
		Get:    func() (any, error) { return v, nil },
	}
}

func holding(name string, d meta.Designation, holds meta.Capability, v any) meta.Field {
	f := value(name, v)
	f.Holds = holds
	f.Designations = []meta.Designation{d}
	return f
}

func receiver(name string, d meta.Designation, holds meta.Capability, s *slot.Slot[any]) meta.Field {
	return meta.Field{
		Name:         name,
		Static:       true,
		Final:        true,
		Holds:        holds,
		Designations: []meta.Designation{d},
		Get: func() (any, error) {
			v, _ := s.Get()
			return v, nil
		},
		Receiver: s,
	}
}

func blockType(name string, fields ...meta.Field) *meta.Type {
	return &meta.Type{
		Name:         name,
		Capabilities: []meta.Capability{meta.CapPrimaryEntity},
		Constructors: []meta.Constructor{{
			Signature: meta.SigDefault,
			New:       func(...any) (any, error) { return &block{}, nil },
		}},
		Fields: fields,
	}
}

func legacyAggregateType(name string, fields ...meta.Field) *meta.Type {
	return &meta.Type{
		Name:         name,
		Capabilities: []meta.Capability{meta.CapAggregate},
		Constructors: []meta.Constructor{{
			Signature: meta.SigPositionState,
			New:       func(...any) (any, error) { return "tile", nil },
		}},
		Fields: fields,
	}
}

func primary(owner, member string, params meta.Params) scanner.Entry {
	return scanner.Entry{Owner: owner, Member: member, Marker: meta.MarkerPrimaryEntity, Params: params}
}

func newPipeline(t *testing.T, index scanner.Table, types scanner.Types, opts ...Option) *Pipeline {
	t.Helper()
	opts = append([]Option{WithOrigin("example"), WithFactory(memory.Factory{})}, opts...)
	p, err := New(index, types, opts...)
	require.NoError(t, err)
	return p
}

func runHost(p *Pipeline, dist meta.Dist, groupings ...*worldgen.Grouping) (*memory.Host, error) {
	h := memory.New(dist, groupings...)
	return h, h.Run(context.Background(), p)
}

func keysOf(t *testing.T, h *memory.Host, ph phase.Phase) []key.Key {
	t.Helper()
	reg, ok := h.Registry(ph)
	require.True(t, ok)
	return reg.Keys()
}

func valueOf(t *testing.T, h *memory.Host, ph phase.Phase, k key.Key) any {
	t.Helper()
	reg, ok := h.Registry(ph)
	require.True(t, ok)
	v, ok := reg.Get(k)
	require.True(t, ok, "missing %s in %s", k, ph)
	return v
}

type recordingHandle struct {
	mu   sync.Mutex
	keys []key.Key
	work []func()
}

func (r *recordingHandle) Register(k key.Key, _ any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys = append(r.keys, k)
	return nil
}

func (r *recordingHandle) EnqueueWork(fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.work = append(r.work, fn)
}
