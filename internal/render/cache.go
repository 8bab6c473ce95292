package render

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/glamour"
)

// maxCachedOutputs bounds the rendered-text cache. The chat screen redraws
// the whole transcript on every spinner tick, so replies are rendered once
// per option set and then served from here.
const maxCachedOutputs = 512

// termRenderer serializes Render calls; glamour.TermRenderer is not safe
// for concurrent use.
type termRenderer struct {
	mu sync.Mutex
	tr *glamour.TermRenderer
}

type outputKey struct {
	opts string
	text string
}

// renderCache holds one renderer per option set and recent outputs in
// insertion order.
type renderCache struct {
	mu        sync.Mutex
	renderers map[string]*termRenderer
	outputs   map[outputKey]string
	order     []outputKey
}

func newRenderCache() *renderCache {
	return &renderCache{
		renderers: make(map[string]*termRenderer),
		outputs:   make(map[outputKey]string),
	}
}

var defaultCache = newRenderCache()

// optionsKey identifies an option set.
func optionsKey(opts Options) string {
	return fmt.Sprintf("%s:%d:%t:%t:%t:%t",
		opts.Style,
		opts.Width,
		opts.EnableEmoji,
		opts.PreserveNewLines,
		opts.TableWrap,
		opts.InlineTableLinks,
	)
}

func (c *renderCache) render(content string, opts Options) (string, error) {
	key := outputKey{opts: optionsKey(opts), text: content}

	c.mu.Lock()
	if out, ok := c.outputs[key]; ok {
		c.mu.Unlock()
		return out, nil
	}
	r, err := c.rendererLocked(key.opts, opts)
	c.mu.Unlock()
	if err != nil {
		return "", err
	}

	r.mu.Lock()
	out, err := r.tr.Render(content)
	r.mu.Unlock()
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	c.storeLocked(key, out)
	c.mu.Unlock()
	return out, nil
}

func (c *renderCache) rendererLocked(key string, opts Options) (*termRenderer, error) {
	if r, ok := c.renderers[key]; ok {
		return r, nil
	}
	tr, err := createRenderer(opts)
	if err != nil {
		return nil, err
	}
	r := &termRenderer{tr: tr}
	c.renderers[key] = r
	return r, nil
}

// storeLocked records out, evicting the oldest entry when full
func (c *renderCache) storeLocked(key outputKey, out string) {
	if _, ok := c.outputs[key]; ok {
		return
	}
	c.outputs[key] = out
	c.order = append(c.order, key)
	if len(c.order) > maxCachedOutputs {
		delete(c.outputs, c.order[0])
		c.order = c.order[1:]
	}
}

func (c *renderCache) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.renderers = make(map[string]*termRenderer)
	c.outputs = make(map[outputKey]string)
	c.order = nil
}

func (c *renderCache) sizes() (renderers, outputs int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.renderers), len(c.outputs)
}

// createRenderer creates a new TermRenderer with the specified options.
func createRenderer(opts Options) (*glamour.TermRenderer, error) {
	rendererOpts := []glamour.TermRendererOption{
		glamour.WithStylePath(opts.Style),
		glamour.WithWordWrap(opts.Width),
		glamour.WithTableWrap(opts.TableWrap),
		glamour.WithInlineTableLinks(opts.InlineTableLinks),
	}

	if opts.EnableEmoji {
		rendererOpts = append(rendererOpts, glamour.WithEmoji())
	}

	if opts.PreserveNewLines {
		rendererOpts = append(rendererOpts, glamour.WithPreservedNewLines())
	}

	return glamour.NewTermRenderer(rendererOpts...)
}

// ClearCache drops all renderers and cached outputs.
func ClearCache() {
	defaultCache.reset()
}

// CacheSize returns the number of option sets with a live renderer.
func CacheSize() int {
	n, _ := defaultCache.sizes()
	return n
}
