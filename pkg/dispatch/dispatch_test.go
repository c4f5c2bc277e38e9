package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/phaser/pkg/meta"
	"github.com/NVIDIA/phaser/pkg/scanner"
)

func TestRegister(t *testing.T) {
	table := NewTable()
	noop := func(string, scanner.Declaration) {}

	require.NoError(t, table.Register(meta.MarkerPrimaryEntity, noop))
	assert.Error(t, table.Register(meta.MarkerPrimaryEntity, noop))
	assert.Error(t, table.Register(meta.MarkerConfig, noop))
	assert.Error(t, table.Register(meta.MarkerModuleInit, noop))
	assert.Error(t, table.Register(meta.MarkerResource, nil))

	assert.Panics(t, func() { table.MustRegister(meta.MarkerPrimaryEntity, noop) })

	table.MustRegister(meta.MarkerAggregate, noop)
	assert.Equal(t, []meta.Marker{meta.MarkerAggregate, meta.MarkerPrimaryEntity}, table.Markers())
}

func TestDispatchOrder(t *testing.T) {
	table := NewTable()
	var seen []string
	record := func(ns string, d scanner.Declaration) {
		seen = append(seen, ns+"/"+string(d.Marker)+"/"+d.Member)
	}
	table.MustRegister(meta.MarkerPrimaryEntity, record)
	table.MustRegister(meta.MarkerSecondaryEntity, record)

	owner := &meta.Type{Name: "example.Thing"}
	decls := []scanner.Declaration{
		{Owner: owner, Member: "A", Marker: meta.MarkerSecondaryEntity},
		{Owner: owner, Member: "B", Marker: meta.MarkerWorldDatum},
		{Owner: owner, Member: "C", Marker: meta.MarkerPrimaryEntity},
	}

	handled := table.Dispatch("example", decls)
	assert.Equal(t, 2, handled)
	assert.Equal(t, []string{
		"example/secondary-entity/A",
		"example/primary-entity/C",
	}, seen)
}
