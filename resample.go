package iterm2img

import (
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/nfnt/resize"
)

// Maximum number of cached resampled images.
const defaultResampleCacheSize = 100

// resampleCache caches resampled pixel grids so re-ingesting the same
// source file at the same target size skips the expensive filter pass.
type resampleCache struct {
	cache       map[string]*resampleEntry
	accessOrder []string // LRU tracking
	mutex       sync.RWMutex
	maxSize     int
}

type resampleEntry struct {
	image    image.Image
	lastUsed int64 // Unix timestamp
}

var globalResampleCache = &resampleCache{
	cache:   make(map[string]*resampleEntry),
	maxSize: defaultResampleCacheSize,
}

// resampleKey identifies a resample result by source path, source bounds,
// and target size.
func resampleKey(width, height uint, path string, srcBounds image.Rectangle) string {
	return fmt.Sprintf("%dx%d_%s_%dx%d", width, height, path, srcBounds.Dx(), srcBounds.Dy())
}

// Resample scales img to the target size before encoding. A zero width or
// height keeps that axis proportional. Results are cached per source path;
// an empty path disables the cache since bounds alone cannot identify an
// image.
func Resample(img image.Image, width, height uint, path string) image.Image {
	bounds := img.Bounds()

	// Skip the filter pass if already the right size.
	if uint(bounds.Dx()) == width && uint(bounds.Dy()) == height {
		return img
	}

	cacheable := path != ""
	key := resampleKey(width, height, path, bounds)
	if cacheable {
		globalResampleCache.mutex.RLock()
		entry, exists := globalResampleCache.cache[key]
		globalResampleCache.mutex.RUnlock()
		if exists {
			globalResampleCache.touch(key)
			return entry.image
		}
	}

	// Lanczos for downscaling, where ringing matters; bilinear is plenty
	// when upscaling for the terminal to shrink again.
	interp := resize.Bilinear
	if targetPixels := int(width) * int(height); targetPixels > 0 && bounds.Dx()*bounds.Dy() > targetPixels {
		interp = resize.Lanczos3
	}

	resampled := resize.Resize(width, height, img, interp)

	if cacheable {
		globalResampleCache.set(key, resampled)
	}
	return resampled
}

// touch moves a key to the front of the access order.
func (rc *resampleCache) touch(key string) {
	rc.mutex.Lock()
	defer rc.mutex.Unlock()

	for i, k := range rc.accessOrder {
		if k == key {
			rc.accessOrder = append(rc.accessOrder[:i], rc.accessOrder[i+1:]...)
			break
		}
	}
	rc.accessOrder = append([]string{key}, rc.accessOrder...)

	if entry, exists := rc.cache[key]; exists {
		entry.lastUsed = time.Now().Unix()
	}
}

func (rc *resampleCache) set(key string, img image.Image) {
	rc.mutex.Lock()
	defer rc.mutex.Unlock()

	if entry, exists := rc.cache[key]; exists {
		entry.image = img
		entry.lastUsed = time.Now().Unix()
		for i, k := range rc.accessOrder {
			if k == key {
				rc.accessOrder = append(rc.accessOrder[:i], rc.accessOrder[i+1:]...)
				break
			}
		}
		rc.accessOrder = append([]string{key}, rc.accessOrder...)
		return
	}

	for len(rc.cache) >= rc.maxSize {
		rc.evictLRU()
	}

	rc.cache[key] = &resampleEntry{image: img, lastUsed: time.Now().Unix()}
	rc.accessOrder = append([]string{key}, rc.accessOrder...)
}

func (rc *resampleCache) evictLRU() {
	if len(rc.accessOrder) == 0 {
		return
	}
	lruKey := rc.accessOrder[len(rc.accessOrder)-1]
	rc.accessOrder = rc.accessOrder[:len(rc.accessOrder)-1]
	delete(rc.cache, lruKey)
}

// ClearResampleCache clears the resample cache to free memory.
func ClearResampleCache() {
	globalResampleCache.mutex.Lock()
	globalResampleCache.cache = make(map[string]*resampleEntry)
	globalResampleCache.accessOrder = nil
	globalResampleCache.mutex.Unlock()
}
