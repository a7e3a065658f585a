// Package yaml implements artex.RuleRepository on per-site YAML rule
// files. Each file holds one ExtractionRule; custom-root rules are
// registered in code because locator functions cannot be serialized.
package yaml

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fwojciec/artex"
	"gopkg.in/yaml.v3"
)

// Ensure Repository implements artex.RuleRepository at compile time.
var _ artex.RuleRepository = (*Repository)(nil)

// Repository holds extraction rules keyed by domain key. It is safe for
// concurrent lookup while rules are being registered.
type Repository struct {
	mu    sync.RWMutex
	rules map[string]artex.ExtractionRule
}

// NewRepository creates an empty Repository.
func NewRepository() *Repository {
	return &Repository{rules: make(map[string]artex.ExtractionRule)}
}

// LoadDir loads every .yml and .yaml file in dir as one rule each.
// A file that fails to parse or validate aborts the load.
func (r *Repository) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return artex.Errorf(artex.EINVALID, "failed to read rules directory %q: %v", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yml" && ext != ".yaml" {
			continue
		}
		if err := r.LoadFile(filepath.Join(dir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

// LoadFile loads a single rule file.
func (r *Repository) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return artex.Errorf(artex.EINVALID, "failed to read rule file %q: %v", path, err)
	}

	var rule artex.ExtractionRule
	if err := yaml.Unmarshal(data, &rule); err != nil {
		return artex.Errorf(artex.EINVALID, "failed to parse rule file %q: %v", path, err)
	}
	if rule.Site == "" {
		return artex.Errorf(artex.EINVALID, "rule file %q has no site", path)
	}

	return r.Register(rule)
}

// Register adds a rule, replacing any existing rule for the same site.
// Rules with custom root locators must be registered this way.
func (r *Repository) Register(rule artex.ExtractionRule) error {
	if err := rule.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules[rule.Site] = rule
	return nil
}

// RuleFor returns the rule for a domain key.
func (r *Repository) RuleFor(domainKey string) (artex.ExtractionRule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rule, ok := r.rules[domainKey]
	return rule, ok
}

// Sites returns the configured domain keys, sorted.
func (r *Repository) Sites() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sites := make([]string, 0, len(r.rules))
	for site := range r.rules {
		sites = append(sites, site)
	}
	sort.Strings(sites)
	return sites
}
