package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/mikepeiman/elemental-craft/internal/core/ports/driven"
	"github.com/mikepeiman/elemental-craft/internal/logger"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore loads LLM prompts from user-editable files on disk.
// Prompts are loaded from a configurable directory with fallback to embedded defaults.
//
// The store uses lazy initialisation - files are only created when first accessed,
// not in the constructor. This makes testing easier and avoids unexpected I/O.
//
// Watch starts a filesystem watcher so prompt edits take effect without a
// restart, which makes iterating on combination prompts much quicker.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]string
	initOnce  sync.Once
	initErr   error
	watcher   *fsnotify.Watcher
}

// defaultPrompts contains embedded default prompts.
// These are used when user files don't exist and as the initial content for new files.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
var defaultPrompts = map[string]string{
	driven.PromptSystem: `You are a creative assistant that combines elements in unique ways.`,

	driven.PromptCombine: `Combine "%s" and "%s" into a single concept. It should be as semantically logical a result as possible, using metaphoric reasoning.

STRICT RULES:
1. Respond with ONLY 1 to 3 words. No exceptions.
2. Prefer single-word or two-word responses.
3. Use Title Case (capitalise the first letter of each word).
4. Do not use any punctuation.
5. The result must be a noun, or a short noun phrase.
6. Ensure a logical connection to both original elements.
7. Prefer concrete things with existing references over coined portmanteaus.

Examples:
"Fire + Water = Steam. Your response would be only: Steam"
"Earth + Wind = Dust. Your response would be only: Dust"
"Lava + Mountain = Volcano. Your response would be only: Volcano"
"Steam + Wood = Train. Your response would be only: Train"
"Gold + Lake = Pirate. Your response would be only: Pirate"
"Night + Paris = Eiffel Tower. Your response would be only: Eiffel Tower"

Respond with only the resulting combination, nothing else.`,

	driven.PromptAdjudicate: `Two game elements, "%s" and "%s", were combined. Several candidate results were produced:

%s

Pick the single best candidate. Judge by: logical and semantic connection to BOTH inputs, concreteness (a real or well-known referent beats a vague coinage), and conformance to the format rules (1 to 3 words, Title Case, no punctuation).

Respond with ONLY a JSON object of the form:
{"result": "<the winning candidate>", "explanation": "<one short sentence>"}`,
}

// NewPromptStore creates a new file-based prompt store.
// If promptDir is empty, defaults to ~/.elemental/prompts/.
//
// The constructor does not perform any I/O - directory creation and
// file writes happen lazily on first Load() call.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		promptDir = filepath.Join(home, ".elemental", "prompts")
	}

	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
	}, nil
}

// Load returns the prompt template for the given name.
// On first call, initialises the prompt directory and creates default files.
// Returns cached value if available, otherwise loads from file.
// Falls back to embedded default if file doesn't exist.
func (s *PromptStore) Load(name string) (string, error) {
	// Ensure directory and defaults exist (lazy init)
	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		// Fall back to embedded defaults if init failed
		if prompt, ok := defaultPrompts[name]; ok {
			return prompt, nil
		}
		return "", fmt.Errorf("prompt store init failed: %w", s.initErr)
	}

	// Check cache first (read lock)
	s.mu.RLock()
	if prompt, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return prompt, nil
	}
	s.mu.RUnlock()

	// Load from file (no lock held during I/O)
	prompt, err := s.loadFromFile(name)
	if err != nil {
		// Fall back to embedded default
		if defaultPrompt, ok := defaultPrompts[name]; ok {
			return defaultPrompt, nil
		}
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}

	// Cache the result (write lock)
	// Use double-check pattern to avoid overwriting concurrent loads
	s.mu.Lock()
	if _, ok := s.cache[name]; !ok {
		s.cache[name] = prompt
	} else {
		// Another goroutine loaded it first, use their value
		prompt = s.cache[name]
	}
	s.mu.Unlock()

	return prompt, nil
}

// Reload clears the prompt cache, forcing fresh loads from disk.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Watch starts watching the prompt directory and reloads the cache when a
// prompt file changes. Returns a stop function. Safe to call once.
func (s *PromptStore) Watch() (stop func(), err error) {
	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		return nil, s.initErr
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create prompt watcher: %w", err)
	}
	if err := watcher.Add(s.promptDir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch prompt directory: %w", err)
	}

	s.mu.Lock()
	s.watcher = watcher
	s.mu.Unlock()

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				if filepath.Ext(event.Name) != ".txt" {
					continue
				}
				logger.Debug("Prompt file changed: %s", filepath.Base(event.Name))
				s.Reload()
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return func() { watcher.Close() }, nil
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

// initialise creates the prompt directory and default files.
// Called once via sync.Once on first Load().
func (s *PromptStore) initialise() {
	// Create directory
	if err := os.MkdirAll(s.promptDir, 0700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	// Create default prompt files (only if they don't exist)
	for name, content := range defaultPrompts {
		path := filepath.Join(s.promptDir, name+".txt")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte(content), 0600); err != nil {
				s.initErr = fmt.Errorf("create default prompt %q: %w", name, err)
				return
			}
		}
	}

	// Create README
	if err := s.createReadme(); err != nil {
		s.initErr = err
	}
}

// loadFromFile reads a prompt from disk.
func (s *PromptStore) loadFromFile(name string) (string, error) {
	path := filepath.Join(s.promptDir, name+".txt")
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// createReadme writes a README file explaining the prompts directory.
func (s *PromptStore) createReadme() error {
	path := filepath.Join(s.promptDir, "README.md")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil // Already exists or stat error (ignore)
	}

	content := `# Elemental Prompts

This directory contains customisable prompts used by the combination engine.

## Files

- ` + "`combine.txt`" + ` - Asks a model to combine two elements into one
- ` + "`adjudicate.txt`" + ` - Asks a model to pick the best candidate result
- ` + "`system.txt`" + ` - System prompt framing every request

## Customisation

Edit any file to customise engine behaviour. Changes take effect on the
next resolution while the watcher is running, or after a restart.

## Format Placeholders

Prompts use Go fmt placeholders:
- ` + "`combine.txt`" + ` takes two ` + "`%s`" + ` values: the two element labels
- ` + "`adjudicate.txt`" + ` takes three ` + "`%s`" + ` values: the two labels and the candidate list

Ensure customised prompts maintain placeholders in the correct positions.
`
	return os.WriteFile(path, []byte(content), 0600)
}
