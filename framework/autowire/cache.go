package autowire

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

const cacheFilePerm = 0o644

var errCacheFormat = zerr.New("parameter cache is not a mapping of type names to lists")

// CacheEntry is one type and its constructor dependencies.
type CacheEntry struct {
	Type         string   `json:"type"`
	Dependencies []string `json:"dependencies"`
}

// ParameterCache maps type names to their constructor dependency type names.
// A present key with an empty list is a computed result, distinct from an
// absent key. Keys keep their insertion order so the persisted file is
// deterministic.
//
// A ParameterCache is not safe for concurrent use; Factory serialises access.
type ParameterCache struct {
	keys    []string
	entries map[string][]string
}

// NewParameterCache returns an empty cache.
func NewParameterCache() *ParameterCache {
	return &ParameterCache{entries: make(map[string][]string)}
}

// Get returns a copy of the dependencies stored for typeName.
func (pc *ParameterCache) Get(typeName string) ([]string, bool) {
	deps, ok := pc.entries[typeName]
	if !ok {
		return nil, false
	}
	return slices.Clone(deps), true
}

// Put stores deps under typeName; nil is stored as an empty list.
func (pc *ParameterCache) Put(typeName string, deps []string) {
	if _, ok := pc.entries[typeName]; !ok {
		pc.keys = append(pc.keys, typeName)
	}
	stored := make([]string, len(deps))
	copy(stored, deps)
	pc.entries[typeName] = stored
}

// Len returns the number of cached types.
func (pc *ParameterCache) Len() int { return len(pc.keys) }

// Keys returns the cached type names in insertion order.
func (pc *ParameterCache) Keys() []string { return slices.Clone(pc.keys) }

// Entries returns a copy of the cache in insertion order.
func (pc *ParameterCache) Entries() []CacheEntry {
	out := make([]CacheEntry, 0, len(pc.keys))
	for _, k := range pc.keys {
		out = append(out, CacheEntry{Type: k, Dependencies: slices.Clone(pc.entries[k])})
	}
	return out
}

// Reset empties the cache.
func (pc *ParameterCache) Reset() {
	pc.keys = nil
	pc.entries = make(map[string][]string)
}

// LoadFrom replaces the cache contents with the YAML mapping stored at path.
// A missing or empty file loads as an empty cache. On any other failure the
// cache is left empty and the error is returned for the caller to log.
func (pc *ParameterCache) LoadFrom(path string) error {
	pc.Reset()

	//nolint:gosec // path is the configured cache file
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.Wrap(err, "read parameter cache")
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return zerr.Wrap(err, errCacheFormat.Error())
	}
	if doc.Kind == 0 {
		return nil
	}

	loaded, err := decodeCache(&doc)
	if err != nil {
		return zerr.With(err, "path", path)
	}
	*pc = *loaded
	return nil
}

func decodeCache(doc *yaml.Node) (*ParameterCache, error) {
	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, errCacheFormat
	}
	root := doc.Content[0]
	out := NewParameterCache()
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		if key.Kind != yaml.ScalarNode {
			return nil, errCacheFormat
		}
		var deps []string
		switch {
		case value.Kind == yaml.ScalarNode && value.ShortTag() == "!!null":
		case value.Kind == yaml.SequenceNode:
			if err := value.Decode(&deps); err != nil {
				return nil, zerr.Wrap(err, errCacheFormat.Error())
			}
		default:
			return nil, zerr.With(errCacheFormat, "type", key.Value)
		}
		out.Put(key.Value, deps)
	}
	return out, nil
}

// SaveTo writes the whole cache to path, replacing any previous file. The
// snapshot is written to a temporary file in the same directory and renamed
// into place.
func (pc *ParameterCache) SaveTo(path string) error {
	data, err := yaml.Marshal(pc.encode())
	if err != nil {
		return errors.Join(ErrCacheWrite, zerr.Wrap(err, "marshal parameter cache"))
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.Join(ErrCacheWrite, zerr.With(zerr.Wrap(err, "create temp file"), "path", path))
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // gone after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close() //nolint:errcheck,gosec // write error takes precedence
		return errors.Join(ErrCacheWrite, zerr.With(zerr.Wrap(err, "write temp file"), "path", path))
	}
	if err := tmp.Close(); err != nil {
		return errors.Join(ErrCacheWrite, zerr.With(zerr.Wrap(err, "close temp file"), "path", path))
	}
	if err := os.Chmod(tmpName, cacheFilePerm); err != nil {
		return errors.Join(ErrCacheWrite, zerr.With(zerr.Wrap(err, "chmod temp file"), "path", path))
	}
	if err := os.Rename(tmpName, path); err != nil {
		return errors.Join(ErrCacheWrite, zerr.With(zerr.Wrap(err, "replace cache file"), "path", path))
	}
	return nil
}

func (pc *ParameterCache) encode() *yaml.Node {
	root := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range pc.keys {
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		if len(pc.entries[k]) == 0 {
			seq.Style = yaml.FlowStyle
		}
		for _, dep := range pc.entries[k] {
			seq.Content = append(seq.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: dep})
		}
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
			seq,
		)
	}
	return root
}
