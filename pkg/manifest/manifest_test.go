package manifest

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/NVIDIA/phaser/pkg/config"
	cnserrors "github.com/NVIDIA/phaser/pkg/errors"
	"github.com/NVIDIA/phaser/pkg/host/memory"
	"github.com/NVIDIA/phaser/pkg/key"
	"github.com/NVIDIA/phaser/pkg/meta"
	"github.com/NVIDIA/phaser/pkg/phase"
	"github.com/NVIDIA/phaser/pkg/pipeline"
	"github.com/NVIDIA/phaser/pkg/worldgen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadExample(t *testing.T) *Manifest {
	t.Helper()
	f, err := os.Open("testdata/example.yaml")
	require.NoError(t, err)
	defer f.Close()

	m, err := Parse(f)
	require.NoError(t, err)
	return m
}

func TestParse(t *testing.T) {
	m := loadExample(t)

	assert.Equal(t, "example", m.Package)
	assert.Equal(t, "v0.1.0", m.MinVersion())
	assert.Len(t, m.Types, 9)
	assert.Len(t, m.Declarations, 15)
	assert.Equal(t, meta.MarkerModuleInit, m.Declarations[2].Marker)
	assert.Equal(t, uint32(3355443), m.Declarations[9].Params.Color)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "empty", doc: ""},
		{name: "malformed", doc: "kind: [unterminated"},
		{name: "unknown field", doc: "kind: DeclarationIndex\npackage: example\nbogus: true\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBytes([]byte(tt.doc))
			require.Error(t, err)
			assert.Equal(t, cnserrors.ErrCodeInvalidRequest, cnserrors.CodeOf(err))
		})
	}
}

func TestValidate(t *testing.T) {
	const base = "kind: DeclarationIndex\npackage: example\n"

	tests := []struct {
		name    string
		doc     string
		version string
		wantErr string
	}{
		{name: "minimal", doc: base, version: "v0.1.0"},
		{name: "dev binary ignores min version", doc: base + "metadata: {minVersion: v9.0.0}\n", version: "dev"},
		{name: "wrong kind", doc: "kind: RunReport\npackage: example\n", wantErr: "header"},
		{name: "unsupported api version", doc: base + "apiVersion: phaser.nvidia.com/v9\n", wantErr: "header"},
		{name: "binary too old", doc: base + "metadata: {minVersion: v0.5.0}\n", version: "v0.4.9", wantErr: "newer binary"},
		{name: "missing package", doc: "kind: DeclarationIndex\n", wantErr: "package"},
		{name: "duplicate type", doc: base + "types: [{name: a.A}, {name: a.A}]\n", wantErr: "duplicate type"},
		{name: "unknown side", doc: base + "types: [{name: a.A, side: both}]\n", wantErr: "side"},
		{name: "unknown constructor", doc: base + "types: [{name: a.A, constructors: [copy]}]\n", wantErr: "constructor"},
		{
			name:    "exclusive field sources",
			doc:     base + "types: [{name: a.A, fields: [{name: f, receiver: true, config: 1}]}]\n",
			wantErr: "exclusive",
		},
		{name: "declaration without owner", doc: base + "declarations: [{marker: config}]\n", wantErr: "owner"},
		{name: "unknown marker", doc: base + "declarations: [{owner: a.A, marker: tile}]\n", wantErr: "marker"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ParseBytes([]byte(tt.doc))
			require.NoError(t, err)

			err = m.Validate(tt.version)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Equal(t, cnserrors.ErrCodeInvalidRequest, cnserrors.CodeOf(err))
		})
	}
}

func TestBuild_Fields(t *testing.T) {
	doc := strings.Join([]string{
		"kind: DeclarationIndex",
		"package: example",
		"types:",
		"  - name: example.A",
		"    displayName: Thing",
		"    constructors: [default]",
		"    fields:",
		"      - {name: count, config: 3}",
		"      - {name: ratio, config: 0.25}",
		"      - {name: label, config: plain}",
		"      - {name: cell, receiver: true, holds: surface-type}",
		"      - {name: secret, hidden: true, value: {a: 1}}",
		"      - {name: loose, static: false, final: false}",
		"      - {name: ore, value: {displayName: Ore}, world: {nether: true, veinSize: 4}}",
		"      - {name: PRODUCER, producer: {holds: example.B}}",
		"    methods:",
		"      - {name: broken, error: boom}",
		"      - {name: answer, result: 42}",
	}, "\n")

	m, err := ParseBytes([]byte(doc))
	require.NoError(t, err)
	model, err := m.Build("dev")
	require.NoError(t, err)

	typ, err := model.Types.Load("example.A")
	require.NoError(t, err)

	t.Run("config knobs keep their default type", func(t *testing.T) {
		f, ok := typ.Field("count")
		require.True(t, ok)
		assert.Equal(t, meta.CapConfig, f.Holds)
		require.NoError(t, f.Receiver.Assign(7))
		v, err := f.Get()
		require.NoError(t, err)
		assert.Equal(t, 7, v)
		assert.Error(t, f.Receiver.Assign("seven"))

		ratio, _ := typ.Field("ratio")
		require.NoError(t, ratio.Receiver.Assign(1))
		v, _ = ratio.Get()
		assert.Equal(t, float64(1), v)
	})

	t.Run("config store reads knobs", func(t *testing.T) {
		label, _ := typ.Field("label")
		store := config.NewStore(config.Overrides{"example": {"label": "fancy"}})
		require.NoError(t, store.Register(label, "example"))
		v, ok := store.Value("example", "label")
		require.True(t, ok)
		assert.Equal(t, "fancy", v)
	})

	t.Run("receiver reads back after assignment", func(t *testing.T) {
		f, _ := typ.Field("cell")
		v, err := f.Get()
		require.NoError(t, err)
		assert.Nil(t, v)

		require.NoError(t, f.Receiver.Assign("menu"))
		v, _ = f.Get()
		assert.Equal(t, "menu", v)
		assert.True(t, model.Receivers["example.A.cell"].IsSet())
	})

	t.Run("hidden and non-static flags", func(t *testing.T) {
		secret, _ := typ.Field("secret")
		assert.Nil(t, secret.Get)

		loose, _ := typ.Field("loose")
		assert.False(t, loose.Static)
		assert.False(t, loose.Final)
		v, err := loose.Get()
		require.NoError(t, err)
		assert.Nil(t, v)
	})

	t.Run("world object describes world data", func(t *testing.T) {
		f, _ := typ.Field("ore")
		v, _ := f.Get()
		src, ok := v.(worldgen.Source)
		require.True(t, ok)
		assert.True(t, src.Nether())
		assert.Equal(t, 4, src.VeinSize())
		assert.True(t, src.Spawns())
		assert.Equal(t, "Ore", v.(*WorldObject).DisplayName())
	})

	t.Run("producer", func(t *testing.T) {
		f, _ := typ.Field("PRODUCER")
		assert.Equal(t, meta.CapAggregateProducer, f.Holds)
		prod := model.Producers["example.A.PRODUCER"]
		require.NotNil(t, prod)
		assert.Equal(t, "example.B", prod.Holds)
		v, _ := f.Get()
		assert.Same(t, prod, v)
	})

	t.Run("methods and constructors", func(t *testing.T) {
		broken, _ := typ.Method("broken")
		_, err := broken.Invoke(nil)
		assert.EqualError(t, err, "boom")

		answer, _ := typ.Method("answer")
		v, err := answer.Invoke(nil)
		require.NoError(t, err)
		assert.Equal(t, 42, v)

		ctor, ok := typ.Constructor(meta.SigDefault)
		require.True(t, ok)
		obj, err := ctor.New("x", "y")
		require.NoError(t, err)
		assert.Equal(t, "Thing", obj.(*Object).DisplayName())
		assert.Equal(t, 2, obj.(*Object).Args)
	})
}

func TestBuild_RunsPipeline(t *testing.T) {
	model, err := loadExample(t).Build("v0.1.0")
	require.NoError(t, err)

	p, err := pipeline.New(model.Index, model.Types,
		pipeline.WithOrigin("example"),
		pipeline.WithFactory(memory.Factory{}))
	require.NoError(t, err)

	overworld := worldgen.NewGrouping("plains", worldgen.CategoryOverworld)
	h := memory.New(meta.DistServer, overworld)
	require.NoError(t, h.Run(context.Background(), p))

	keys := func(ph phase.Phase) []string {
		r, ok := h.Registry(ph)
		require.True(t, ok)
		var out []string
		for _, k := range r.Keys() {
			out = append(out, k.Name)
		}
		return out
	}

	assert.ElementsMatch(t, []string{"furnace", "copper_ore", "chest", "crate", "oil"}, keys(phase.PrimaryEntity))
	assert.ElementsMatch(t, []string{"furnace", "copper_ore", "wrench", "oil_bucket"}, keys(phase.SecondaryEntity))
	assert.ElementsMatch(t, []string{"oil", "oil_flowing"}, keys(phase.Resource))
	assert.ElementsMatch(t, []string{"furnace"}, keys(phase.InteractionSurface))
	assert.ElementsMatch(t, []string{"chest", "crate"}, keys(phase.Aggregate))
	assert.ElementsMatch(t, []string{"copper_ore"}, keys(phase.CommonSetup))

	assert.True(t, model.Receivers["example.Wrench.INSTANCE"].IsSet())
	assert.True(t, model.Receivers["example.Oil.STILL"].IsSet())
	assert.True(t, model.Receivers["example.FurnaceMenu.TYPE"].IsSet())
	assert.True(t, model.Receivers["example.ChestTile.TYPE"].IsSet())
	assert.True(t, model.Producers["example.Tiles.CRATE"].Type.IsSet())

	still, _ := model.Receivers["example.Oil.STILL"].Get()
	assert.True(t, still.(*Object).Source)

	assert.Equal(t, 4, p.Catalog().Len())
	assert.Len(t, overworld.Features(worldgen.StageUndergroundOres), 1)
	assert.Empty(t, p.PendingContributors())

	k, ok := p.Committed("example.Blocks", "copper_ore")
	require.True(t, ok)
	assert.Equal(t, key.Key{Namespace: "example", Name: "copper_ore"}, k)
}

func TestBuild_ClientDistribution(t *testing.T) {
	model, err := loadExample(t).Build("dev")
	require.NoError(t, err)

	p, err := pipeline.New(model.Index, model.Types,
		pipeline.WithOrigin("example"),
		pipeline.WithDist(meta.DistClient),
		pipeline.WithFactory(memory.Factory{}))
	require.NoError(t, err)

	h := memory.New(meta.DistClient)
	require.NoError(t, h.Run(context.Background(), p))

	r, _ := h.Registry(phase.PrimaryEntity)
	_, ok := r.Get(key.Key{Namespace: "example", Name: "debug_marker"})
	assert.True(t, ok)

	var attrs []any
	for _, pr := range h.Presentations() {
		attrs = append(attrs, pr.Attr)
	}
	assert.Len(t, attrs, 4)
	for _, a := range attrs {
		assert.Equal(t, "cutout", a)
	}
}
