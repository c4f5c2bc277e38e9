package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/phaser/pkg/meta"
)

func testTypes() Types {
	return Types{}.
		Add(&meta.Type{Name: "example.blocks.Furnace"}).
		Add(&meta.Type{Name: "example.client.Renderer", ClientOnly: true}).
		Add(&meta.Type{Name: "example.server.Ticker", Side: meta.SideServer}).
		Add(&meta.Type{Name: "example.client.Overlay", Side: meta.SideClient}).
		Add(&meta.Type{Name: "other.Thing"})
}

func TestOriginFromPackage(t *testing.T) {
	tests := []struct {
		pkg  string
		want string
	}{
		{"github.com/acme/example", "example"},
		{"net.roguelogix.biggerreactors", "biggerreactors"},
		{"example", "example"},
	}
	for _, tt := range tests {
		t.Run(tt.pkg, func(t *testing.T) {
			o := OriginFromPackage(tt.pkg)
			assert.Equal(t, tt.pkg, o.Package)
			assert.Equal(t, tt.want, o.Namespace)
		})
	}
}

func TestCallerOrigin(t *testing.T) {
	o := CallerOrigin(0)
	assert.Equal(t, "github.com/NVIDIA/phaser/pkg/scanner", o.Package)
	assert.Equal(t, "scanner", o.Namespace)
}

func TestPackageOf(t *testing.T) {
	assert.Equal(t, "github.com/acme/example", packageOf("github.com/acme/example.(*Mod).Init"))
	assert.Equal(t, "main", packageOf("main.main"))
	assert.Equal(t, "github.com/acme/example/content", packageOf("github.com/acme/example/content.init.0"))
}

func TestInPackage(t *testing.T) {
	assert.True(t, InPackage("example.Furnace", "example"))
	assert.True(t, InPackage("example.blocks.Furnace", "example"))
	assert.True(t, InPackage("github.com/acme/example/blocks.Furnace", "github.com/acme/example"))
	assert.False(t, InPackage("examplex.Furnace", "example"))
	assert.False(t, InPackage("examplemod.blocks.B", "example"))
	assert.False(t, InPackage("other.Thing", "example"))
	assert.False(t, InPackage("example.Furnace", ""))
}

func TestScanFilters(t *testing.T) {
	index := Table{
		{Owner: "example.blocks.Furnace", Member: "FURNACE", Marker: meta.MarkerPrimaryEntity},
		{Owner: "example.client.Renderer", Marker: meta.MarkerPrimaryEntity},
		{Owner: "example.server.Ticker", Marker: meta.MarkerPrimaryEntity},
		{Owner: "example.client.Overlay", Marker: meta.MarkerPrimaryEntity},
		{Owner: "example.Missing", Marker: meta.MarkerPrimaryEntity},
		{Owner: "other.Thing", Marker: meta.MarkerPrimaryEntity},
		{Owner: "example.blocks.Furnace", Member: "maxHeat", Marker: meta.MarkerConfig},
	}
	origin := OriginFromPackage("example")

	t.Run("server", func(t *testing.T) {
		decls := Scan(index, testTypes(), origin, meta.DistServer, meta.MarkerPrimaryEntity)
		require.Len(t, decls, 2)
		assert.Equal(t, "example.blocks.Furnace", decls[0].Owner.Name)
		assert.Equal(t, "FURNACE", decls[0].Member)
		assert.Equal(t, "example.server.Ticker", decls[1].Owner.Name)
		assert.Equal(t, meta.SideServer, decls[1].Side)
	})

	t.Run("client", func(t *testing.T) {
		decls := Scan(index, testTypes(), origin, meta.DistClient, meta.MarkerPrimaryEntity)
		require.Len(t, decls, 3)
		assert.Equal(t, "example.blocks.Furnace", decls[0].Owner.Name)
		assert.Equal(t, "example.client.Renderer", decls[1].Owner.Name)
		assert.Equal(t, "example.client.Overlay", decls[2].Owner.Name)
	})

	t.Run("marker selection", func(t *testing.T) {
		decls := Scan(index, testTypes(), origin, meta.DistServer, meta.MarkerConfig)
		require.Len(t, decls, 1)
		assert.Equal(t, "maxHeat", decls[0].Member)
	})

	t.Run("no markers", func(t *testing.T) {
		assert.Empty(t, Scan(index, testTypes(), origin, meta.DistServer))
	})

	t.Run("nil index", func(t *testing.T) {
		assert.Nil(t, Scan(nil, testTypes(), origin, meta.DistServer, meta.MarkerConfig))
	})
}

func TestTypesLoad(t *testing.T) {
	_, err := testTypes().Load("nope")
	assert.ErrorIs(t, err, ErrTypeNotFound)
}
