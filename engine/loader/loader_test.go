package loader

import (
	"context"
	"io/fs"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/Carmen-Shannon/oxy-chase/engine/game_object"
	"github.com/Carmen-Shannon/oxy-chase/engine/model"
	"github.com/Carmen-Shannon/oxy-chase/engine/scene"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const triangleYAML = `
name: tri
positions: [0, 0, 0, 2, 0, 0, 0, 2, 0]
indices: [0, 1, 2]
`

const triangleJSON = `{
  "name": "tri",
  "positions": [0, 0, 0, 1, 0, 0, 0, 1, 0],
  "normals": [0, 0, 1, 0, 0, 1, 0, 0, 1],
  "indices": [0, 1, 2],
  "targetSize": 3
}`

func newTestLoader(t *testing.T, files fstest.MapFS) (Loader, *test.Hook) {
	t.Helper()
	logger, hook := test.NewNullLogger()
	l := NewLoader(WithFS(files), WithLogger(logger))
	t.Cleanup(l.Close)
	return l, hook
}

func extent(m *model.Mesh) float32 {
	lo, hi := m.Bounds()
	d := hi.Sub(lo)
	return max(d.X, d.Y, d.Z)
}

func TestLoadYAMLNormalizesAndComputesNormals(t *testing.T) {
	l, _ := newTestLoader(t, fstest.MapFS{"assets/tri.yaml": {Data: []byte(triangleYAML)}})

	m, err := l.Load(context.Background(), "assets/tri.yaml")
	require.NoError(t, err)
	assert.Equal(t, "tri", m.Name)
	assert.Len(t, m.Normals, 9)
	assert.Equal(t, 3, m.IndexCount())
	assert.InDelta(t, DefaultTargetSize, extent(m), 1e-5)
}

func TestLoadJSONHonorsTargetSize(t *testing.T) {
	l, _ := newTestLoader(t, fstest.MapFS{"tri.json": {Data: []byte(triangleJSON)}})

	m, err := l.Load(context.Background(), "tri.json")
	require.NoError(t, err)
	assert.InDelta(t, 3, extent(m), 1e-5)
	assert.Equal(t, []float32{0, 0, 1, 0, 0, 1, 0, 0, 1}, m.Normals)
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	l, _ := newTestLoader(t, fstest.MapFS{
		"a.yaml": {Data: []byte(triangleYAML + "colour: red\n")},
		"b.json": {Data: []byte(`{"positions": [], "indices": [], "extra": 1}`)},
	})
	_, err := l.Load(context.Background(), "a.yaml")
	assert.Error(t, err)
	_, err = l.Load(context.Background(), "b.json")
	assert.Error(t, err)
}

func TestLoadErrors(t *testing.T) {
	l, _ := newTestLoader(t, fstest.MapFS{
		"bad.yaml":   {Data: []byte("positions: [0, 0, 0]\nindices: [0, 1, 2]\n")},
		"empty.yaml": {Data: []byte("")},
	})

	_, err := l.Load(context.Background(), "mesh.obj")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = l.Load(context.Background(), "missing.yaml")
	assert.ErrorIs(t, err, fs.ErrNotExist)

	_, err = l.Load(context.Background(), "bad.yaml")
	assert.ErrorIs(t, err, model.ErrIndexOutOfRange)

	_, err = l.Load(context.Background(), "empty.yaml")
	assert.ErrorIs(t, err, model.ErrEmptyMesh)
}

func TestLoadCaches(t *testing.T) {
	files := fstest.MapFS{"tri.yaml": {Data: []byte(triangleYAML)}}
	l, _ := newTestLoader(t, files)

	first, err := l.Load(context.Background(), "tri.yaml")
	require.NoError(t, err)
	delete(files, "tri.yaml")

	second, err := l.Load(context.Background(), "tri.yaml")
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Same(t, first, l.Get("tri.yaml"))
}

func TestConcurrentLoadsShareOneMesh(t *testing.T) {
	l, _ := newTestLoader(t, fstest.MapFS{"tri.yaml": {Data: []byte(triangleYAML)}})

	const n = 8
	meshes := make([]*model.Mesh, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m, err := l.Load(context.Background(), "tri.yaml")
			assert.NoError(t, err)
			meshes[i] = m
		}(i)
	}
	wg.Wait()
	for _, m := range meshes {
		assert.Same(t, l.Get("tri.yaml"), m)
	}
}

func TestLoadIntoAttachesMesh(t *testing.T) {
	l, hook := newTestLoader(t, fstest.MapFS{"bunny.yaml": {Data: []byte(triangleYAML)}})
	sc := scene.NewScene()
	id := sc.Add(game_object.NewGameObject(game_object.WithMesh("placeholder")))

	require.NoError(t, l.LoadInto(context.Background(), sc, id, "bunny.yaml"))
	assert.Equal(t, "bunny.yaml", sc.Get(id).Mesh())
	assert.NotNil(t, sc.Mesh("bunny.yaml"))
	assert.Equal(t, logrus.InfoLevel, hook.LastEntry().Level)
}

func TestLoadIntoFailureLeavesSceneUntouched(t *testing.T) {
	l, hook := newTestLoader(t, fstest.MapFS{"broken.json": {Data: []byte("{")}})
	sc := scene.NewScene()
	sc.AddMesh("placeholder", model.Cube(1))
	id := sc.Add(game_object.NewGameObject(game_object.WithMesh("placeholder")))
	keys := sc.MeshKeys()

	err := l.LoadInto(context.Background(), sc, id, "broken.json")
	require.Error(t, err)
	assert.Equal(t, "placeholder", sc.Get(id).Mesh())
	assert.Equal(t, keys, sc.MeshKeys())

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, "broken.json", entry.Data["path"])
}

func TestLoadIntoUnknownEntity(t *testing.T) {
	l, _ := newTestLoader(t, fstest.MapFS{"tri.yaml": {Data: []byte(triangleYAML)}})
	sc := scene.NewScene()
	err := l.LoadInto(context.Background(), sc, 42, "tri.yaml")
	assert.ErrorIs(t, err, ErrUnknownEntity)
	assert.Empty(t, sc.MeshKeys())
}

func TestPrepopulatedMeshAndClose(t *testing.T) {
	cube := model.Cube(1)
	l := NewLoader(WithMesh("cube.yaml", cube), WithWorkers(1), WithTargetSize(0))

	m, err := l.Load(context.Background(), "cube.yaml")
	require.NoError(t, err)
	assert.Same(t, cube, m)

	l.Close()
	l.Close()
	_, err = l.Load(context.Background(), "cube.yaml")
	assert.ErrorIs(t, err, ErrClosed)
}
