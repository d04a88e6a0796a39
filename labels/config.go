package labels

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fedepasi/racetagger-training/utils"
)

// Group bundles label keys for UI convenience.
type Group struct {
	Name   string   `json:"name"`
	Color  string   `json:"color"`
	Labels []string `json:"labels"`
}

// Config maps short input keys to canonical label names, plus optional
// grouping and shortcut metadata. A copy is embedded into the extraction
// metadata so labeling sessions stay self-describing even when the external
// config file is edited later.
type Config struct {
	ProjectName string              `json:"project_name"`
	Description string              `json:"description,omitempty"`
	Labels      map[string]string   `json:"labels"`
	Groups      map[string]Group    `json:"groups"`
	Shortcuts   map[string][]string `json:"shortcuts"`
}

// Default returns the template configuration written when no config file
// exists at extraction time.
func Default() Config {
	lbls := make(map[string]string, 20)
	for i := 1; i <= 20; i++ {
		key := fmt.Sprintf("%d", i)
		lbls[key] = fmt.Sprintf("CLASS_%d", i)
	}
	return Config{
		ProjectName: "my_project",
		Description: "Label configuration - edit this file!",
		Labels:      lbls,
		Groups:      map[string]Group{},
		Shortcuts:   map[string][]string{},
	}
}

// Load reads a label configuration from path. When the file is missing it
// writes the default template there (best effort) and returns the default,
// so extraction never starts without a config.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("failed to read label config: %w", err)
		}
		cfg := Default()
		if writeErr := Write(path, cfg); writeErr != nil {
			utils.GetLogger().Warn("could not write default label config",
				"path", path, "error", writeErr.Error())
		}
		return cfg, nil
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("unable to parse label config %s: %w", path, err)
	}
	if cfg.Labels == nil {
		cfg.Labels = map[string]string{}
	}
	if cfg.Groups == nil {
		cfg.Groups = map[string]Group{}
	}
	if cfg.Shortcuts == nil {
		cfg.Shortcuts = map[string][]string{}
	}
	return cfg, nil
}

// Write saves the configuration as indented JSON, creating parent folders.
func Write(path string, cfg Config) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := utils.CreateFolder(dir); err != nil {
			return fmt.Errorf("error creating config directory: %s", err)
		}
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling label config: %s", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Lookup resolves a direct key to its canonical label.
func (c Config) Lookup(key string) (string, bool) {
	label, ok := c.Labels[key]
	return label, ok
}

// Shortcut expands a group shortcut to the label keys it covers.
func (c Config) Shortcut(key string) ([]string, bool) {
	keys, ok := c.Shortcuts[strings.ToLower(key)]
	return keys, ok
}

// MatchName reports whether input matches a canonical label name, ignoring
// case, and returns the canonical form.
func (c Config) MatchName(input string) (string, bool) {
	upper := strings.ToUpper(input)
	for _, label := range c.Labels {
		if strings.ToUpper(label) == upper {
			return label, true
		}
	}
	return "", false
}

// SortedKeys returns the label keys in stable display order.
func (c Config) SortedKeys() []string {
	keys := make([]string, 0, len(c.Labels))
	for key := range c.Labels {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
