package snapshot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/grassgo/blobstore"
)

func sampleState() *State {
	return &State{
		CoordDim:    2,
		Rows:        4,
		Cols:        3,
		Rank:        2,
		ElementWise: true,
		Coords:      [][]float64{{0, 0}, {1, 0}, {0, 1}},
		AnchorU:     Matrix{Rows: 4, Cols: 2, Data: []float64{1, 0, 0, 1, 0, 0, 0, 0}},
		AnchorV:     Matrix{Rows: 3, Cols: 2, Data: []float64{1, 0, 0, 1, 0, 0}},
		TangentsU: []Matrix{
			{Rows: 4, Cols: 2, Data: make([]float64, 8)},
			{Rows: 4, Cols: 2, Data: []float64{0.1, 0, 0, 0.2, 0.3, 0, 0, 0}},
			{Rows: 4, Cols: 2, Data: []float64{0, 0.1, 0.2, 0, 0, 0, 0.4, 0}},
		},
		TangentsV: []Matrix{
			{Rows: 3, Cols: 2, Data: make([]float64, 6)},
			{Rows: 3, Cols: 2, Data: []float64{0.1, 0, 0, 0, 0, 0.2}},
			{Rows: 3, Cols: 2, Data: []float64{0, 0, 0.3, 0, 0.1, 0}},
		},
		Sigmas:     [][]float64{{3, 1}, {2.5, 1.2}, {2.8, 0.9}},
		ConvergedU: true,
		ConvergedV: true,
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()

	compressions := []struct {
		name string
		mode Compression
	}{
		{"None", CompressionNone},
		{"LZ4", CompressionLZ4},
		{"ZSTD", CompressionZSTD},
	}

	for _, tc := range compressions {
		t.Run(tc.name, func(t *testing.T) {
			store := blobstore.NewMemoryStore()
			state := sampleState()

			err := Save(ctx, store, "model.snap", state, func(o *Options) {
				o.Compression = tc.mode
			})
			require.NoError(t, err)

			loaded, err := Load(ctx, store, "model.snap")
			require.NoError(t, err)
			assert.Equal(t, state, loaded)
		})
	}
}

func TestLoadMissing(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	_, err := Load(ctx, store, "absent.snap")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestLoadRejectsForeignBlob(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	require.NoError(t, store.Put(ctx, "junk", []byte("definitely not a snapshot")))

	_, err := Load(ctx, store, "junk")
	assert.ErrorIs(t, err, ErrBadMagic)
}

func TestLoadRejectsNewerVersion(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	require.NoError(t, Save(ctx, store, "model.snap", sampleState()))

	blob, err := store.Open(ctx, "model.snap")
	require.NoError(t, err)
	raw, err := blobstore.ReadAll(blob)
	require.NoError(t, err)
	require.NoError(t, blob.Close())

	raw[4] = formatVersion + 1
	require.NoError(t, store.Put(ctx, "model.snap", raw))

	_, err = Load(ctx, store, "model.snap")
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestOverwrite(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	first := sampleState()
	require.NoError(t, Save(ctx, store, "model.snap", first))

	second := sampleState()
	second.Rank = 1
	require.NoError(t, Save(ctx, store, "model.snap", second))

	loaded, err := Load(ctx, store, "model.snap")
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.Rank)
}
