// Package wordbank loads YAML word packs and generates fresh game boards
// from them on demand.
package wordbank

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"codemafia/internal/game/board"
)

// DefaultMinWords is the minimum distinct corpus size accepted at startup.
const DefaultMinWords = 200

// yamlPackFile is the top-level YAML structure for word-pack files.
type yamlPackFile struct {
	Pack yamlPack `yaml:"pack"`
}

// yamlPack is the YAML representation of a word pack.
type yamlPack struct {
	Name  string   `yaml:"name"`
	Words []string `yaml:"words"`
}

// Bank is a word corpus that acts as a board factory. Safe for concurrent
// use by multiple rooms.
type Bank struct {
	mu    sync.Mutex
	words []string
	rng   *rand.Rand
}

// NewBank builds a Bank from an already-assembled word list, deduplicating
// case-insensitively.
//
// Precondition: minWords must be >= board.NumWords; pass DefaultMinWords for
// the production corpus bound.
// Postcondition: Returns an error if fewer than minWords distinct words remain.
func NewBank(words []string, minWords int) (*Bank, error) {
	seen := make(map[string]bool, len(words))
	distinct := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		key := strings.ToLower(w)
		if seen[key] {
			continue
		}
		seen[key] = true
		distinct = append(distinct, w)
	}

	if len(distinct) < minWords {
		return nil, fmt.Errorf("word corpus too small: %d distinct words, need %d", len(distinct), minWords)
	}

	// Deterministic base ordering; randomness comes from the rng alone.
	sort.Strings(distinct)

	return &Bank{
		words: distinct,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

// LoadDir reads every .yaml/.yml word pack in dir and assembles a Bank.
//
// Precondition: dir must exist and contain at least one pack file.
// Postcondition: Returns a Bank with at least minWords distinct words, or an error.
func LoadDir(dir string, minWords int) (*Bank, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading word pack directory %s: %w", dir, err)
	}

	var words []string
	packs := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		pack, err := loadPackFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		words = append(words, pack.Words...)
		packs++
	}

	if packs == 0 {
		return nil, fmt.Errorf("no word pack files found in %s", dir)
	}

	return NewBank(words, minWords)
}

func loadPackFile(path string) (yamlPack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return yamlPack{}, fmt.Errorf("reading word pack %s: %w", path, err)
	}

	var file yamlPackFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return yamlPack{}, fmt.Errorf("parsing word pack %s: %w", path, err)
	}
	if file.Pack.Name == "" {
		return yamlPack{}, fmt.Errorf("word pack %s: pack.name must not be empty", path)
	}
	if len(file.Pack.Words) == 0 {
		return yamlPack{}, fmt.Errorf("word pack %s: pack.words must not be empty", path)
	}
	return file.Pack, nil
}

// Size returns the number of distinct words in the corpus.
func (b *Bank) Size() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.words)
}

// NewBoard samples 25 distinct words and builds a color-assigned board.
//
// Postcondition: The returned board satisfies the color-count invariant with
// every word unclicked.
func (b *Bank) NewBoard() (*board.Board, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	sample := make([]string, len(b.words))
	copy(sample, b.words)
	b.rng.Shuffle(len(sample), func(i, j int) {
		sample[i], sample[j] = sample[j], sample[i]
	})

	return board.New(sample[:board.NumWords], b.rng)
}
