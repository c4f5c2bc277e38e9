package phase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cnserrors "github.com/NVIDIA/phaser/pkg/errors"
	"github.com/NVIDIA/phaser/pkg/key"
)

type recordingHandle struct {
	mu   sync.Mutex
	keys []key.Key
}

func (h *recordingHandle) Register(k key.Key, _ any) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.keys = append(h.keys, k)
	return nil
}

func TestOrdered(t *testing.T) {
	phases := Ordered()
	require.Len(t, phases, 8)
	assert.Equal(t, PrimaryEntity, phases[0])
	assert.Equal(t, WorldData, phases[len(phases)-1])
	for _, p := range phases {
		assert.True(t, p.IsValid())
	}
	assert.False(t, Phase("bogus").IsValid())
	assert.Len(t, Registries(), 5)
}

func TestQueueDrainsOnce(t *testing.T) {
	q := NewQueue(PrimaryEntity)
	var ran []int
	for i := range 3 {
		assert.True(t, q.Enqueue(func() error {
			ran = append(ran, i)
			return nil
		}))
	}
	require.Equal(t, 3, q.Len())

	require.NoError(t, q.Drain())
	assert.Equal(t, []int{0, 1, 2}, ran)
	assert.True(t, q.Spent())

	assert.False(t, q.Enqueue(func() error {
		ran = append(ran, 99)
		return nil
	}))
	require.NoError(t, q.Drain())
	assert.Equal(t, []int{0, 1, 2}, ran)
}

func TestQueueEnqueueDuringDrain(t *testing.T) {
	q := NewQueue(SecondaryEntity)
	nested := false
	q.Enqueue(func() error {
		assert.False(t, q.Enqueue(func() error {
			nested = true
			return nil
		}))
		return nil
	})
	require.NoError(t, q.Drain())
	assert.False(t, nested)
}

func TestQueueErrorPolicy(t *testing.T) {
	tests := []struct {
		name    string
		failure error
		wantRan []int
		wantErr bool
	}{
		{
			name:    "warning continues",
			failure: cnserrors.Warn(cnserrors.ErrCodeNotFinal, "field is not final", nil),
			wantRan: []int{0, 1, 2},
		},
		{
			name:    "error continues",
			failure: cnserrors.New(cnserrors.ErrCodeMissingMember, "no such field"),
			wantRan: []int{0, 1, 2},
		},
		{
			name:    "plain error continues",
			failure: errors.New("boom"),
			wantRan: []int{0, 1, 2},
		},
		{
			name:    "fatal aborts",
			failure: cnserrors.Fatal(cnserrors.ErrCodeMissingDesignation, "type unable to be saved", nil),
			wantRan: []int{0},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := NewQueue(Aggregate)
			var ran []int
			q.Enqueue(func() error { ran = append(ran, 0); return tt.failure })
			q.Enqueue(func() error { ran = append(ran, 1); return nil })
			q.Enqueue(func() error { ran = append(ran, 2); return nil })

			err := q.Drain()
			assert.Equal(t, tt.wantRan, ran)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, cnserrors.IsFatal(err))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestQueueRecoversPanics(t *testing.T) {
	q := NewQueue(Resource)
	ran := false
	q.Enqueue(func() error { panic("kaboom") })
	q.Enqueue(func() error { ran = true; return nil })
	require.NoError(t, q.Drain())
	assert.True(t, ran)
}

func TestRouterHandleLifetime(t *testing.T) {
	r := NewRouter()
	h := &recordingHandle{}
	fk := key.Key{Namespace: "example", Name: "furnace"}

	_, err := r.Handle(PrimaryEntity)
	assert.ErrorIs(t, err, ErrPhaseNotLive)

	r.Enqueue(PrimaryEntity, func() error {
		live, err := r.Handle(PrimaryEntity)
		if err != nil {
			return err
		}
		if _, err := r.Handle(SecondaryEntity); !errors.Is(err, ErrPhaseNotLive) {
			return errors.New("secondary handle live during primary drain")
		}
		return live.Register(fk, "furnace")
	})
	assert.Equal(t, 1, r.Pending(PrimaryEntity))

	require.NoError(t, r.Activate(context.Background(), PrimaryEntity, h))
	assert.Equal(t, []key.Key{fk}, h.keys)
	assert.True(t, r.Fired(PrimaryEntity))
	assert.False(t, r.Fired(SecondaryEntity))

	_, err = r.Handle(PrimaryEntity)
	assert.ErrorIs(t, err, ErrPhaseNotLive)
}

func TestRouterCrossPhaseChaining(t *testing.T) {
	r := NewRouter()
	primary := &recordingHandle{}
	secondary := &recordingHandle{}
	fk := key.Key{Namespace: "example", Name: "furnace"}

	r.Enqueue(PrimaryEntity, func() error {
		h, err := r.Handle(PrimaryEntity)
		if err != nil {
			return err
		}
		if err := h.Register(fk, "block"); err != nil {
			return err
		}
		r.Enqueue(SecondaryEntity, func() error {
			h, err := r.Handle(SecondaryEntity)
			if err != nil {
				return err
			}
			return h.Register(fk, "item")
		})
		return nil
	})

	require.NoError(t, r.Activate(context.Background(), PrimaryEntity, primary))
	assert.Equal(t, 1, r.Pending(SecondaryEntity))
	require.NoError(t, r.Activate(context.Background(), SecondaryEntity, secondary))
	assert.Equal(t, []key.Key{fk}, primary.keys)
	assert.Equal(t, []key.Key{fk}, secondary.keys)
}

func TestRouterSecondActivationIsNoop(t *testing.T) {
	r := NewRouter()
	h := &recordingHandle{}
	count := 0
	r.Enqueue(Resource, func() error { count++; return nil })

	require.NoError(t, r.Activate(context.Background(), Resource, h))
	require.NoError(t, r.Activate(context.Background(), Resource, h))
	assert.Equal(t, 1, count)
}

func TestRouterActivateErrors(t *testing.T) {
	r := NewRouter()

	err := r.Activate(context.Background(), PrimaryEntity, nil)
	require.Error(t, err)
	assert.Equal(t, cnserrors.ErrCodeInvalidRequest, cnserrors.CodeOf(err))

	err = r.Activate(context.Background(), Phase("bogus"), &recordingHandle{})
	require.Error(t, err)
	assert.Equal(t, cnserrors.ErrCodeInvalidRequest, cnserrors.CodeOf(err))

	assert.False(t, r.Enqueue(Phase("bogus"), func() error { return nil }))
}

func TestRouterFatalAbort(t *testing.T) {
	r := NewRouter()
	var ran []string
	r.Enqueue(Aggregate, func() error {
		ran = append(ran, "first")
		return cnserrors.Fatal(cnserrors.ErrCodeUnresolvedAggregateOwner, "no contributors", nil)
	})
	r.Enqueue(Aggregate, func() error {
		ran = append(ran, "second")
		return nil
	})

	err := r.Activate(context.Background(), Aggregate, &recordingHandle{})
	require.Error(t, err)
	assert.Equal(t, cnserrors.ErrCodeUnresolvedAggregateOwner, cnserrors.CodeOf(err))
	assert.Equal(t, []string{"first"}, ran)
}

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestRouterDrainCarriesAttrs(t *testing.T) {
	buf := captureLogs(t)

	r := NewRouter("pipeline", "p-1", "namespace", "example")
	r.Enqueue(Resource, func() error {
		return cnserrors.New(cnserrors.ErrCodeWrongType, "field does not hold a fluid")
	})
	require.NoError(t, r.Activate(context.Background(), Resource, &recordingHandle{}))

	var found bool
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec))
		if rec["msg"] != "registration abandoned" {
			continue
		}
		found = true
		assert.Equal(t, "p-1", rec["pipeline"])
		assert.Equal(t, "example", rec["namespace"])
		assert.Equal(t, string(Resource), rec["phase"])
		assert.EqualValues(t, 0, rec["action"])
	}
	assert.True(t, found, "drain should report the failed action")
}

func TestRouterWorldDataHasNoQueue(t *testing.T) {
	assert.True(t, WorldData.PerGrouping())
	assert.False(t, CommonSetup.PerGrouping())

	r := NewRouter()
	_, ok := r.Queue(WorldData)
	assert.False(t, ok)
	assert.False(t, r.Enqueue(WorldData, func() error { return nil }))

	err := r.Activate(context.Background(), WorldData, &recordingHandle{})
	require.Error(t, err)
	assert.Equal(t, cnserrors.ErrCodeInvalidRequest, cnserrors.CodeOf(err))
	assert.False(t, r.Fired(WorldData))
}

func TestRouterClose(t *testing.T) {
	r := NewRouter()
	r.Enqueue(CommonSetup, func() error { return nil })
	r.Close()
	assert.Equal(t, 0, r.Pending(CommonSetup))
	assert.False(t, r.Enqueue(CommonSetup, func() error { return nil }))
}

func TestReportNil(t *testing.T) {
	assert.NotPanics(t, func() { Report(nil) })
}
