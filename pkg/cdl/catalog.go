package cdl

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Catalog indexes the containers and telecommands of one or more parsed
// description files by name.
type Catalog struct {
	mu     sync.RWMutex
	blocks map[string]*Block
	order  []string
}

// NewCatalog builds a catalog from parsed files. Names must be unique
// across all files.
func NewCatalog(files ...*File) (*Catalog, error) {
	c := &Catalog{blocks: make(map[string]*Block)}
	for _, f := range files {
		if err := c.AddFile(f); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// AddFile registers every block of a parsed file.
func (c *Catalog) AddFile(f *File) error {
	if f == nil {
		return fmt.Errorf("cdl: nil file")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, b := range f.Blocks {
		if _, dup := c.blocks[b.Name]; dup {
			return fmt.Errorf("cdl: duplicate definition of %q", b.Name)
		}
		c.blocks[b.Name] = b
		c.order = append(c.order, b.Name)
	}
	return nil
}

// Load parses the provided file paths into a single catalog.
func Load(paths ...string) (*Catalog, error) {
	parser, err := NewParser()
	if err != nil {
		return nil, err
	}
	c := &Catalog{blocks: make(map[string]*Block)}
	for _, path := range paths {
		file, err := parser.ParseFile(path)
		if err != nil {
			return nil, fmt.Errorf("cdl: parse %s: %w", path, err)
		}
		if err := c.AddFile(file); err != nil {
			return nil, fmt.Errorf("cdl: add %s: %w", path, err)
		}
	}
	return c, nil
}

// LoadDir recursively loads all .cdl files below root. Files are read in
// lexical order so that declaration order is stable.
func LoadDir(root string) (*Catalog, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".cdl") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("cdl: walk %s: %w", root, err)
	}
	sort.Strings(paths)
	return Load(paths...)
}

// Names returns all block names in declaration order.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Block looks up a block by name.
func (c *Catalog) Block(name string) (*Block, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.blocks[name]
	return b, ok
}

// Len returns the number of blocks in the catalog.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}
