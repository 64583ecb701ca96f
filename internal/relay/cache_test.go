package relay

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetaFromURL(t *testing.T) {
	meta, err := MetaFromURL("https://cdn.example.com/images/cubemaps/kr_nNmq/kr_nNmq_f.png")
	require.NoError(t, err)

	assert.Equal(t, "kr_nNmq", meta.PanoramaID)
	assert.Equal(t, "f", meta.FaceLetter)
	assert.Equal(t, "kr_nNmq_f", meta.FilenameBase)
	assert.Equal(t, "kr_nNmq_f.png", meta.OriginalFilename)
	assert.Equal(t, "kr_nNmq_f_m.png", meta.ModifiedFilename)
}

func TestMetaFromURLRejects(t *testing.T) {
	_, err := MetaFromURL("http://host/")
	assert.Error(t, err)

	_, err = MetaFromURL("://bad")
	assert.Error(t, err)
}

func TestCachePutGetLatest(t *testing.T) {
	fixed := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	now = func() time.Time { return fixed }
	defer func() { now = time.Now }()

	c := NewCache(0)
	_, ok := c.Latest()
	assert.False(t, ok)

	a := c.Put([]byte("a"), ImageMeta{FaceLetter: "f"})
	b := c.Put([]byte("b"), ImageMeta{FaceLetter: "r"})

	assert.Equal(t, "unity_image_20250102_030405", a.ID)
	assert.Equal(t, "unity_image_20250102_030405_2", b.ID)
	assert.Equal(t, "20250102_030405", b.Stamp)

	got, ok := c.Get(a.ID)
	require.True(t, ok)
	assert.Equal(t, []byte("a"), got.Bytes)

	latest, ok := c.Latest()
	require.True(t, ok)
	assert.Equal(t, b.ID, latest.ID)
}

func TestCacheEvictsOldest(t *testing.T) {
	c := NewCache(2)
	first := c.Put([]byte("1"), ImageMeta{})
	c.Put([]byte("2"), ImageMeta{})
	c.Put([]byte("3"), ImageMeta{})

	assert.Equal(t, 2, c.Len())
	_, ok := c.Get(first.ID)
	assert.False(t, ok)
}
