package words

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/mcoot/sketchgame/internal/dependencies/random"
	"github.com/mcoot/sketchgame/internal/model"
	"github.com/mcoot/sketchgame/internal/storage"
)

// Service holds the themed word pools rounds draw their choices from
type Service struct {
	storage storage.Storage
	random  random.Random

	mu     sync.RWMutex
	themes map[string][]string
}

// New creates a new word pool service
func New(storage storage.Storage, random random.Random) *Service {
	return &Service{
		storage: storage,
		random:  random,
		themes:  make(map[string][]string),
	}
}

// LoadFromStorage loads every theme previously saved to storage
func (s *Service) LoadFromStorage(ctx context.Context) error {
	themes, err := s.storage.ListThemes(ctx)
	if err != nil {
		return err
	}
	for _, theme := range themes {
		words, err := s.storage.GetThemeWords(ctx, theme)
		if err != nil {
			if errors.Is(err, model.ErrNoWords) {
				continue
			}
			return err
		}
		s.setTheme(theme, words)
	}
	return nil
}

// LoadFromFile loads a theme from a file (one word or phrase per line)
// and saves it to storage for future use
func (s *Service) LoadFromFile(ctx context.Context, theme, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	var words []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	words = normalize(words)
	if err := s.storage.SaveThemeWords(ctx, theme, words); err != nil {
		return fmt.Errorf("saving theme %q: %w", theme, err)
	}

	s.setTheme(theme, words)
	return nil
}

// LoadFromDir loads every *.txt file in dir as a theme named after the file
func (s *Service) LoadFromDir(ctx context.Context, dir string) error {
	paths, err := filepath.Glob(filepath.Join(dir, "*.txt"))
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no theme files in %s", dir)
	}
	for _, path := range paths {
		theme := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		if err := s.LoadFromFile(ctx, theme, path); err != nil {
			return fmt.Errorf("loading %s: %w", path, err)
		}
	}
	return nil
}

// LoadWords directly loads a theme (useful for testing)
func (s *Service) LoadWords(theme string, words []string) error {
	words = normalize(words)
	if len(words) == 0 {
		return model.ErrNoWords
	}
	s.setTheme(theme, words)
	return nil
}

func (s *Service) setTheme(theme string, words []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.themes[theme] = words
}

// Themes returns the names of the loaded themes
func (s *Service) Themes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	themes := make([]string, 0, len(s.themes))
	for theme := range s.themes {
		themes = append(themes, theme)
	}
	slices.Sort(themes)
	return themes
}

// HasTheme returns whether a theme is loaded
func (s *Service) HasTheme(theme string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.themes[theme]) > 0
}

// WordCount returns the number of words in a theme
func (s *Service) WordCount(theme string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.themes[theme])
}

// Draw returns n distinct words from theme, falling back to the default
// theme when the requested one is unknown. Fewer than n words are returned
// if the pool is smaller than n.
func (s *Service) Draw(theme string, n int) ([]string, error) {
	s.mu.RLock()
	pool := s.themes[theme]
	if len(pool) == 0 {
		pool = s.themes[model.DefaultTheme]
	}
	pool = slices.Clone(pool)
	s.mu.RUnlock()

	if len(pool) == 0 {
		return nil, model.ErrNoWords
	}
	n = min(max(n, 1), len(pool))

	// Partial Fisher-Yates: the first n slots end up as a sample without replacement
	for i := 0; i < n; i++ {
		j := i + s.random.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:n], nil
}

// normalize lower-cases, trims and de-duplicates words, keeping first-seen order
func normalize(words []string) []string {
	seen := make(map[string]struct{}, len(words))
	out := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.Join(strings.Fields(w), " "))
		if w == "" {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}

// ServiceInterface is the word pool surface consumed by the session coordinator
type ServiceInterface interface {
	Draw(theme string, n int) ([]string, error)
	HasTheme(theme string) bool
	Themes() []string
}

var _ ServiceInterface = (*Service)(nil)
