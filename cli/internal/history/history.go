// ABOUTME: Keeps the most recent generation prompts for reuse
// ABOUTME: Stores them as JSON in the CLI config directory

package history

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// MaxPrompts is the number of prompts kept
const MaxPrompts = 10

// Prompts manages the recently used prompts, newest first
type Prompts struct {
	configDir string
	prompts   []string
}

type promptData struct {
	Prompts []string `json:"prompts"`
}

// New creates a prompt history stored under configDir
func New(configDir string) *Prompts {
	return &Prompts{configDir: configDir}
}

func (p *Prompts) file() string {
	return filepath.Join(p.configDir, "prompts.json")
}

// Load reads the history from disk. A missing or corrupt file yields an
// empty history.
func (p *Prompts) Load() ([]string, error) {
	data, err := os.ReadFile(p.file())
	if os.IsNotExist(err) {
		p.prompts = []string{}
		return p.prompts, nil
	}
	if err != nil {
		return nil, err
	}

	var stored promptData
	if err := json.Unmarshal(data, &stored); err != nil {
		p.prompts = []string{}
		return p.prompts, nil
	}

	p.prompts = make([]string, 0, len(stored.Prompts))
	for _, prompt := range stored.Prompts {
		if strings.TrimSpace(prompt) != "" {
			p.prompts = append(p.prompts, prompt)
		}
	}
	return p.prompts, nil
}

// Save writes prompts to disk, keeping at most MaxPrompts
func (p *Prompts) Save(prompts []string) error {
	if err := os.MkdirAll(p.configDir, 0700); err != nil {
		return err
	}
	if len(prompts) > MaxPrompts {
		prompts = prompts[:MaxPrompts]
	}
	p.prompts = prompts

	data, err := json.MarshalIndent(promptData{Prompts: prompts}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p.file(), data, 0600)
}

// Add puts prompt at the front, dropping an earlier copy of it
func (p *Prompts) Add(prompt string) error {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil
	}
	if p.prompts == nil {
		if _, err := p.Load(); err != nil {
			p.prompts = []string{}
		}
	}

	next := make([]string, 0, len(p.prompts)+1)
	next = append(next, prompt)
	for _, existing := range p.prompts {
		if !strings.EqualFold(existing, prompt) {
			next = append(next, existing)
		}
	}
	return p.Save(next)
}

// List returns the history, loading it on first use
func (p *Prompts) List() []string {
	if p.prompts == nil {
		p.Load()
	}
	return p.prompts
}
