package render

import (
	"bytes"
	"fmt"
	"image"
	_ "image/png"
	"os"
	"path/filepath"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/bullets/assets"
)

// Textures caches decoded bullet textures by asset key. Safe for concurrent
// use; kit files load in parallel.
type Textures struct {
	mu     sync.Mutex
	images map[string]*ebiten.Image
}

var defaultTextures = NewTextures()

func NewTextures() *Textures {
	return &Textures{images: map[string]*ebiten.Image{}}
}

// Register stores img under key, replacing any previous entry.
func (t *Textures) Register(key string, img *ebiten.Image) {
	if t == nil || key == "" || img == nil {
		return
	}
	t.mu.Lock()
	t.images[key] = img
	t.mu.Unlock()
}

func (t *Textures) Get(key string) *ebiten.Image {
	if t == nil || key == "" {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.images[key]
}

// Load returns the cached texture for key, decoding it from the embedded
// assets or the working directory on first use.
func (t *Textures) Load(key string) (*ebiten.Image, error) {
	if t == nil {
		return nil, fmt.Errorf("render: nil texture cache")
	}
	if key == "" {
		return nil, fmt.Errorf("render: empty texture key")
	}
	if img := t.Get(key); img != nil {
		return img, nil
	}
	img, err := decodeTexture(key)
	if err != nil {
		return nil, err
	}
	t.Register(key, img)
	return img, nil
}

// LoadTexture loads through the package-wide cache.
func LoadTexture(key string) (*ebiten.Image, error) {
	return defaultTextures.Load(key)
}

func decodeTexture(path string) (*ebiten.Image, error) {
	if img, err := assets.LoadImage(path); err == nil {
		return img, nil
	}
	for _, p := range []string{path, filepath.Join("assets", path)} {
		b, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		im, _, err := image.Decode(bytes.NewReader(b))
		if err != nil {
			return nil, fmt.Errorf("render: decode texture %s: %w", p, err)
		}
		return ebiten.NewImageFromImage(im), nil
	}
	return nil, fmt.Errorf("render: texture %s not found", path)
}
