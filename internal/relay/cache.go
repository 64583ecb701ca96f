package relay

import (
	"fmt"
	"net/url"
	"path"
	"strings"
	"sync"
	"time"
)

const (
	imageIDPrefix  = "unity_image_"
	idTimeLayout   = "20060102_150405"
	defaultMaxKeep = 64
)

// now is replaced in tests.
var now = time.Now

// ImageMeta describes where a cached image came from.
type ImageMeta struct {
	OriginalURL      string `json:"original_url"`
	PanoramaID       string `json:"pano_id"`
	FaceLetter       string `json:"face_letter"`
	FilenameBase     string `json:"filename_base"`
	OriginalFilename string `json:"original_filename"`
	ModifiedFilename string `json:"modified_filename"`
}

// MetaFromURL derives metadata from a cubemap face URL of the form
// .../{pano}/{pano}_{face}.png.
func MetaFromURL(raw string) (ImageMeta, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return ImageMeta{}, fmt.Errorf("invalid image url: %w", err)
	}

	filename := path.Base(u.Path)
	if filename == "." || filename == "/" {
		return ImageMeta{}, fmt.Errorf("image url %q has no file name", raw)
	}
	pano := path.Base(path.Dir(u.Path))
	if pano == "." || pano == "/" {
		pano = ""
	}

	base, _, _ := strings.Cut(filename, ".")
	face := base
	if i := strings.LastIndex(base, "_"); i >= 0 {
		face = base[i+1:]
	}

	return ImageMeta{
		OriginalURL:      raw,
		PanoramaID:       pano,
		FaceLetter:       face,
		FilenameBase:     base,
		OriginalFilename: filename,
		ModifiedFilename: base + "_m.png",
	}, nil
}

// CachedImage is one entry of the in-memory image cache.
type CachedImage struct {
	ID       string
	Bytes    []byte
	Meta     ImageMeta
	Stamp    string
	CachedAt time.Time
}

// Cache keeps downloaded images in memory, oldest evicted first.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*CachedImage
	order   []string
	maxKeep int
}

// NewCache creates a cache holding at most maxKeep images.
func NewCache(maxKeep int) *Cache {
	if maxKeep <= 0 {
		maxKeep = defaultMaxKeep
	}
	return &Cache{entries: make(map[string]*CachedImage), maxKeep: maxKeep}
}

// Put stores data and returns its new id.
func (c *Cache) Put(data []byte, meta ImageMeta) CachedImage {
	c.mu.Lock()
	defer c.mu.Unlock()

	at := now()
	stamp := at.Format(idTimeLayout)
	id := imageIDPrefix + stamp
	for n := 2; c.entries[id] != nil; n++ {
		id = fmt.Sprintf("%s%s_%d", imageIDPrefix, stamp, n)
	}

	entry := &CachedImage{ID: id, Bytes: data, Meta: meta, Stamp: stamp, CachedAt: at}
	c.entries[id] = entry
	c.order = append(c.order, id)

	for len(c.order) > c.maxKeep {
		delete(c.entries, c.order[0])
		c.order = c.order[1:]
	}
	return *entry
}

// Get returns the image with the given id.
func (c *Cache) Get(id string) (CachedImage, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[id]
	if !ok {
		return CachedImage{}, false
	}
	return *e, true
}

// Latest returns the most recently cached image.
func (c *Cache) Latest() (CachedImage, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(c.order) == 0 {
		return CachedImage{}, false
	}
	return *c.entries[c.order[len(c.order)-1]], true
}

// Len returns the number of cached images.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}
