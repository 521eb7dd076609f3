package fetch

import (
	"archive/tar"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathClassification(t *testing.T) {
	assert.True(t, IsURL("http://example.com/es.tar"))
	assert.True(t, IsURL("https://example.com/es.tar"))
	assert.False(t, IsURL("s3://bucket/es.tar"))
	assert.False(t, IsURL("./local/dir"))

	assert.True(t, IsS3("s3://bucket/es.tar"))
	assert.False(t, IsS3("https://example.com/es.tar"))
	assert.False(t, IsS3("/tmp/es"))

	assert.True(t, IsRemote("s3://bucket/es.tar"))
	assert.True(t, IsRemote("https://example.com/es.tar"))
	assert.False(t, IsRemote("/tmp/es"))
}

type fakeResolver struct {
	ambientFound bool
	namedCalls   []string
	ambientCalls int
}

func (r *fakeResolver) Ambient(context.Context) (aws.Config, bool, error) {
	r.ambientCalls++
	return aws.Config{}, r.ambientFound, nil
}

func (r *fakeResolver) Named(_ context.Context, profile string) (aws.Config, error) {
	r.namedCalls = append(r.namedCalls, profile)
	return aws.Config{}, nil
}

func TestChooseS3Strategy(t *testing.T) {
	ctx := context.Background()

	t.Run("named profile streams through that session", func(t *testing.T) {
		r := &fakeResolver{}
		strategy, _, err := chooseS3Strategy(ctx, NamedProfile("research"), r)
		require.NoError(t, err)
		assert.Equal(t, StrategySession, strategy)
		assert.Equal(t, []string{"research"}, r.namedCalls)
		assert.Zero(t, r.ambientCalls)
	})

	t.Run("forced anonymous skips credential probing", func(t *testing.T) {
		r := &fakeResolver{ambientFound: true}
		strategy, _, err := chooseS3Strategy(ctx, AnonymousProfile(), r)
		require.NoError(t, err)
		assert.Equal(t, StrategyAnonymous, strategy)
		assert.Zero(t, r.ambientCalls)
	})

	t.Run("default with ambient credentials streams", func(t *testing.T) {
		r := &fakeResolver{ambientFound: true}
		strategy, _, err := chooseS3Strategy(ctx, Profile{}, r)
		require.NoError(t, err)
		assert.Equal(t, StrategySession, strategy)
		assert.Equal(t, 1, r.ambientCalls)
	})

	t.Run("default without ambient credentials is anonymous", func(t *testing.T) {
		r := &fakeResolver{ambientFound: false}
		strategy, _, err := chooseS3Strategy(ctx, Profile{}, r)
		require.NoError(t, err)
		assert.Equal(t, StrategyAnonymous, strategy)
	})
}

// buildTar renders files into an (optionally gzipped) tar archive.
func buildTar(t *testing.T, files map[string]string, gzipped bool) []byte {
	t.Helper()
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	for name, body := range files {
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name:     name,
			Typeflag: tar.TypeReg,
			Mode:     0o644,
			Size:     int64(len(body)),
		}))
		_, err := tw.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	if !gzipped {
		return buf.Bytes()
	}

	var gzBuf bytes.Buffer
	gz := gzip.NewWriter(&gzBuf)
	_, err := gz.Write(buf.Bytes())
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	return gzBuf.Bytes()
}

func TestExtractTar(t *testing.T) {
	for _, gzipped := range []bool{false, true} {
		name := "plain"
		if gzipped {
			name = "gzip"
		}
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			archive := filepath.Join(dir, "es.tar")
			data := buildTar(t, map[string]string{
				"data_description.json": `{"id":"demo"}`,
				"data/people.csv":       "id,age\n1,57\n",
			}, gzipped)
			require.NoError(t, os.WriteFile(archive, data, 0o644))

			out := t.TempDir()
			require.NoError(t, extractTar(archive, out))

			body, err := os.ReadFile(filepath.Join(out, "data", "people.csv"))
			require.NoError(t, err)
			assert.Equal(t, "id,age\n1,57\n", string(body))
		})
	}
}

func TestExtractTarRejectsTraversal(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "evil.tar")
	data := buildTar(t, map[string]string{"../escape.txt": "nope"}, false)
	require.NoError(t, os.WriteFile(archive, data, 0o644))

	err := extractTar(archive, t.TempDir())
	assert.ErrorContains(t, err, "escapes extraction directory")
}

func TestStageHTTP(t *testing.T) {
	data := buildTar(t, map[string]string{
		"data_description.json": `{"id":"demo","schema_version":"3.0.0","entities":{},"relationships":[]}`,
	}, true)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	dir, release, err := Stage(context.Background(), srv.URL+"/demo.tar.gz", Options{HTTPClient: srv.Client()})
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "data_description.json"))
	require.NoError(t, err)

	release()
	_, err = os.Stat(dir)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestStageHTTPErrorCleansUp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, _, err := Stage(context.Background(), srv.URL+"/missing.tar", Options{HTTPClient: srv.Client()})
	assert.ErrorContains(t, err, "unexpected status")
}

func TestIntegration_StageS3(t *testing.T) {
	uri := os.Getenv("ENTITYSET_S3_URI")
	if uri == "" {
		t.Skip("Skipping S3 integration test: ENTITYSET_S3_URI not set")
	}

	dir, release, err := Stage(context.Background(), uri, Options{})
	require.NoError(t, err)
	defer release()

	_, err = os.Stat(filepath.Join(dir, "data_description.json"))
	require.NoError(t, err)
}

func TestStageRejectsLocalPath(t *testing.T) {
	_, _, err := Stage(context.Background(), "/tmp/es", Options{})
	assert.ErrorContains(t, err, "not a remote path")
}
