package serializer

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/NVIDIA/phaser/pkg/header"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"
)

type report struct {
	header.Header `json:",inline" yaml:",inline"`

	Name    string            `json:"name" yaml:"name"`
	Keys    []string          `json:"keys,omitempty" yaml:"keys,omitempty"`
	Labels  map[string]string `json:"labels,omitempty" yaml:"labels,omitempty"`
	Skipped string            `json:"-" yaml:"-"`
}

func newReport() *report {
	r := &report{Name: "run", Keys: []string{"a", "b"}, Labels: map[string]string{"env": "test"}, Skipped: "x"}
	r.Init(header.KindRunReport, header.APIVersion, "v1.2.3")
	return r
}

func configMap(ns, name string, data map[string]string) *corev1.ConfigMap {
	return &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{Namespace: ns, Name: name},
		Data:       data,
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, []string{"json", "yaml", "table"}, SupportedFormats())
	assert.True(t, Format("xml").IsUnknown())
	assert.False(t, FormatTable.IsUnknown())

	tests := map[string]Format{
		"a.json":     FormatJSON,
		"A.YAML":     FormatYAML,
		"b.yml":      FormatYAML,
		"c.txt":      FormatTable,
		"d.table":    FormatTable,
		"no-ext":     FormatYAML,
		"weird.conf": FormatYAML,
	}
	for path, want := range tests {
		assert.Equal(t, want, FormatFromPath(path), path)
	}
}

func TestParseConfigMapURI(t *testing.T) {
	tests := []struct {
		uri     string
		want    ConfigMapRef
		wantErr bool
	}{
		{uri: "cm://default/phaser", want: ConfigMapRef{Namespace: "default", Name: "phaser"}},
		{uri: "cm://ns/name/manifest.yaml", want: ConfigMapRef{Namespace: "ns", Name: "name", Key: "manifest.yaml"}},
		{uri: "cm://ns", wantErr: true},
		{uri: "cm:///name", wantErr: true},
		{uri: "cm://ns/", wantErr: true},
		{uri: "cm://ns/name/", wantErr: true},
		{uri: "file://ns/name", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			got, err := ParseConfigMapURI(tt.uri)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.uri, got.String())
		})
	}
}

func TestReadConfigMap(t *testing.T) {
	c := fake.NewClientset(
		configMap("ns", "single", map[string]string{"overrides": "a: 1"}),
		configMap("ns", "docs", map[string]string{"manifest.yaml": "kind: x", "README": "notes"}),
		configMap("ns", "many", map[string]string{"a.yaml": "a", "b.json": "b"}),
	)
	ctx := context.Background()

	tests := []struct {
		name    string
		ref     ConfigMapRef
		want    string
		wantErr string
	}{
		{name: "single entry", ref: ConfigMapRef{Namespace: "ns", Name: "single"}, want: "a: 1"},
		{name: "single document entry", ref: ConfigMapRef{Namespace: "ns", Name: "docs"}, want: "kind: x"},
		{name: "explicit key", ref: ConfigMapRef{Namespace: "ns", Name: "many", Key: "b.json"}, want: "b"},
		{name: "ambiguous", ref: ConfigMapRef{Namespace: "ns", Name: "many"}, wantErr: "select one"},
		{name: "missing key", ref: ConfigMapRef{Namespace: "ns", Name: "many", Key: "c.yaml"}, wantErr: "no key"},
		{name: "missing configmap", ref: ConfigMapRef{Namespace: "ns", Name: "absent"}, wantErr: "failed to get"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadConfigMap(ctx, c, tt.ref)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestReadSource(t *testing.T) {
	ctx := context.Background()

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "m.yaml")
		require.NoError(t, os.WriteFile(path, []byte("package: example\n"), 0o600))
		got, err := ReadSource(ctx, path)
		require.NoError(t, err)
		assert.Equal(t, "package: example\n", string(got))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ReadSource(ctx, filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})

	t.Run("empty source", func(t *testing.T) {
		_, err := ReadSource(ctx, "  ")
		assert.Error(t, err)
	})

	t.Run("stdin", func(t *testing.T) {
		got, err := ReadSource(ctx, "-", WithStdin(strings.NewReader("from stdin")))
		require.NoError(t, err)
		assert.Equal(t, "from stdin", string(got))
	})

	t.Run("http", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "phaser-test", r.Header.Get("User-Agent"))
			if r.URL.Path == "/missing" {
				http.NotFound(w, r)
				return
			}
			_, _ = w.Write([]byte("remote"))
		}))
		defer srv.Close()

		reader := NewHTTPReader(WithUserAgent("phaser-test"))
		got, err := ReadSource(ctx, srv.URL+"/manifest.yaml", WithHTTPReader(reader))
		require.NoError(t, err)
		assert.Equal(t, "remote", string(got))

		_, err = ReadSource(ctx, srv.URL+"/missing", WithHTTPReader(reader))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "404")
	})

	t.Run("configmap", func(t *testing.T) {
		c := fake.NewClientset(configMap("phaser", "overrides", map[string]string{"overrides.yaml": "example: {veins: 4}"}))
		got, err := ReadSource(ctx, "cm://phaser/overrides", WithKubeClient(c))
		require.NoError(t, err)
		assert.Equal(t, "example: {veins: 4}", string(got))

		_, err = ReadSource(ctx, "cm://phaser", WithKubeClient(c))
		assert.Error(t, err)
	})
}

func TestUnmarshal(t *testing.T) {
	var out map[string]any
	require.NoError(t, Unmarshal(FormatJSON, []byte(`{"a":1}`), &out))
	assert.Equal(t, float64(1), out["a"])

	out = nil
	require.NoError(t, Unmarshal(FormatYAML, []byte("a: 1\n"), &out))
	assert.Equal(t, 1, out["a"])

	assert.Error(t, Unmarshal(FormatTable, []byte("x"), &out))
	assert.Error(t, Unmarshal(Format("xml"), []byte("x"), &out))
	assert.Error(t, Unmarshal(FormatJSON, []byte("{"), &out))
	assert.Error(t, Unmarshal(FormatJSON, []byte("{}"), nil))
}

func TestWriter(t *testing.T) {
	ctx := context.Background()

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewWriter(FormatJSON, &buf).Serialize(ctx, newReport()))
		var got map[string]any
		require.NoError(t, Unmarshal(FormatJSON, buf.Bytes(), &got))
		assert.Equal(t, "RunReport", got["kind"])
		assert.Equal(t, "run", got["name"])
		assert.NotContains(t, got, "Skipped")
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewWriter(FormatYAML, &buf).Serialize(ctx, newReport()))
		var got report
		require.NoError(t, Unmarshal(FormatYAML, buf.Bytes(), &got))
		assert.Equal(t, header.KindRunReport, got.Kind)
		assert.Equal(t, []string{"a", "b"}, got.Keys)
		assert.Empty(t, got.Skipped)
	})

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewWriter(FormatTable, &buf).Serialize(ctx, newReport()))
		out := buf.String()
		assert.True(t, strings.HasPrefix(out, "FIELD"))
		assert.Contains(t, out, "keys.[1]")
		assert.Contains(t, out, "labels.env")
		assert.Contains(t, out, "metadata.version")
		assert.Contains(t, out, "kind")
		assert.NotContains(t, out, "Skipped")
	})

	t.Run("table of scalar and empty", func(t *testing.T) {
		got, err := Marshal(FormatTable, 42)
		require.NoError(t, err)
		assert.Contains(t, string(got), "value")

		got, err = Marshal(FormatTable, map[string]any{})
		require.NoError(t, err)
		assert.Equal(t, "<empty>\n", string(got))
	})

	t.Run("unknown format defaults to yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewWriter(Format("xml"), &buf).Serialize(ctx, map[string]int{"a": 1}))
		assert.Equal(t, "a: 1\n", buf.String())
	})
}

func TestNewFileWriterOrStdout(t *testing.T) {
	ctx := context.Background()

	t.Run("stdout", func(t *testing.T) {
		var buf bytes.Buffer
		w, err := NewFileWriterOrStdout(FormatJSON, "", WithStdout(&buf))
		require.NoError(t, err)
		require.NoError(t, w.Serialize(ctx, map[string]int{"a": 1}))
		assert.NoError(t, Close(w))
		assert.Contains(t, buf.String(), `"a": 1`)
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "report.yaml")
		w, err := NewFileWriterOrStdout(FormatYAML, path)
		require.NoError(t, err)
		require.NoError(t, w.Serialize(ctx, newReport()))
		require.NoError(t, Close(w))
		assert.NoError(t, Close(w))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "kind: RunReport")
	})

	t.Run("unwritable file", func(t *testing.T) {
		_, err := NewFileWriterOrStdout(FormatYAML, filepath.Join(t.TempDir(), "absent", "report.yaml"))
		assert.Error(t, err)
	})

	t.Run("invalid configmap", func(t *testing.T) {
		_, err := NewFileWriterOrStdout(FormatYAML, "cm://only-namespace")
		assert.Error(t, err)
	})
}

func TestConfigMapWriter(t *testing.T) {
	ctx := context.Background()
	c := fake.NewClientset()

	w, err := NewFileWriterOrStdout(FormatYAML, "cm://phaser/last-run", WithKubeClient(c))
	require.NoError(t, err)
	_, ok := w.(*ConfigMapWriter)
	require.True(t, ok)
	require.NoError(t, w.Serialize(ctx, newReport()))

	cm, err := c.CoreV1().ConfigMaps("phaser").Get(ctx, "last-run", metav1.GetOptions{})
	require.NoError(t, err)
	assert.Contains(t, cm.Data["report.yaml"], "kind: RunReport")
	assert.Equal(t, "yaml", cm.Data["format"])
	assert.Equal(t, "RunReport", cm.Labels["app.kubernetes.io/component"])
	assert.Equal(t, "v1.2.3", cm.Labels["app.kubernetes.io/version"])

	keyed := NewConfigMapWriter(ConfigMapRef{Namespace: "phaser", Name: "keyed", Key: "run.json"}, FormatJSON, WithKubeClient(c))
	require.NoError(t, keyed.Serialize(ctx, map[string]int{"a": 1}))
	cm, err = c.CoreV1().ConfigMaps("phaser").Get(ctx, "keyed", metav1.GetOptions{})
	require.NoError(t, err)
	assert.Contains(t, cm.Data["run.json"], `"a": 1`)
	assert.Equal(t, "document", cm.Labels["app.kubernetes.io/component"])
}
