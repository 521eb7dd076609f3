package entityset

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/featureforge/entityset/manifest"
)

func assertEntitySetsEqual(t *testing.T, want, got *EntitySet) {
	t.Helper()
	require.Len(t, got.Entities(), len(want.Entities()))
	require.Len(t, got.Relationships(), len(want.Relationships()))

	for i, we := range want.Entities() {
		ge := got.Entities()[i]
		assert.Equal(t, we.ID, ge.ID)
		assert.Equal(t, we.Index, ge.Index)
		assert.Equal(t, we.TimeIndex, ge.TimeIndex)
		assert.Equal(t, we.Frame.Names(), ge.Frame.Names())
		assert.Equal(t, we.Frame.Dtypes(), ge.Frame.Dtypes())

		for _, name := range we.Frame.Names() {
			wc, err := we.Frame.Column(name)
			require.NoError(t, err)
			gc, err := ge.Frame.Column(name)
			require.NoError(t, err)
			require.Len(t, gc.Values, len(wc.Values), "%s.%s", we.ID, name)
			for j, wv := range wc.Values {
				if wt, ok := wv.(time.Time); ok {
					gt, ok := gc.Values[j].(time.Time)
					require.True(t, ok, "%s.%s[%d]", we.ID, name, j)
					assert.True(t, wt.Equal(gt), "%s.%s[%d]: %v != %v", we.ID, name, j, wt, gt)
					continue
				}
				assert.Equal(t, wv, gc.Values[j], "%s.%s[%d]", we.ID, name, j)
			}
		}
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	ctx := context.Background()
	want, err := ReadEntitySet(ctx, writeRetailDir(t))
	require.NoError(t, err)

	for _, format := range []string{"csv", "parquet", "pickle"} {
		t.Run(format, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, WriteEntitySet(ctx, want, dir, WithFormat(format)))

			got, err := ReadEntitySet(ctx, dir)
			require.NoError(t, err)
			assertEntitySetsEqual(t, want, got)

			// derived last-time columns survive the round trip
			orders, err := got.Entity("orders")
			require.NoError(t, err)
			assert.NotNil(t, orders.LastTimeIndex())
			products, err := got.Entity("products")
			require.NoError(t, err)
			assert.Nil(t, products.LastTimeIndex())
		})
	}
}

func TestWriteEntitySetLayout(t *testing.T) {
	ctx := context.Background()
	es := buildRetail(t)

	dir := t.TempDir()
	require.NoError(t, WriteEntitySet(ctx, es, dir))

	for _, name := range []string{
		manifest.DescriptionFilename,
		filepath.Join("data", "customers.csv"),
		filepath.Join("data", "orders.csv"),
	} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}

	m, err := manifest.Read(dir)
	require.NoError(t, err)
	assert.Equal(t, "retail", m.ID)
	assert.Equal(t, manifest.SchemaVersion, m.SchemaVersion)
	assert.Equal(t, []string{"customers", "orders"}, m.Entities.IDs())

	desc, ok := m.Entities.Get("orders")
	require.True(t, ok)
	assert.Equal(t, "csv", desc.LoadingInfo.Type)
	assert.Equal(t, "data/orders.csv", desc.LoadingInfo.Location)
	assert.Equal(t, "int64", desc.LoadingInfo.Properties.Dtypes["order_id"])

	require.Len(t, m.Relationships, 1)
	assert.Equal(t, [2]string{"customers", "customer_id"}, m.Relationships[0].Parent)
	assert.Equal(t, [2]string{"orders", "customer_id"}, m.Relationships[0].Child)
}

func TestWriteEntitySetCompressedCSV(t *testing.T) {
	ctx := context.Background()
	es := buildRetail(t)

	dir := t.TempDir()
	require.NoError(t, WriteEntitySet(ctx, es, dir, WithCompression("gzip")))

	m, err := manifest.Read(dir)
	require.NoError(t, err)
	desc, ok := m.Entities.Get("orders")
	require.True(t, ok)
	assert.Equal(t, "gzip", desc.LoadingInfo.Params["compression"])

	// declared compression makes the read side decompress transparently
	got, err := ReadEntitySet(ctx, dir)
	require.NoError(t, err)
	orders, err := got.Entity("orders")
	require.NoError(t, err)
	assert.Equal(t, 4, orders.NumRows())
}

func TestWriteEntitySetUnsupportedFormat(t *testing.T) {
	err := WriteEntitySet(context.Background(), buildRetail(t), t.TempDir(), WithFormat("xml"))
	var ferr *UnsupportedFormatError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, "xml", ferr.Format)
}
