// Package config loads the fork-entry configuration document: a JSON
// object keyed by entry name, each value describing one managed fork.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/kdevan/forkpin/internal/domain/entities"
)

// selfEntryName is reserved: a config document may describe forkpin's own
// repository under this key for self-hosting, and it is excluded from
// AllNames so aggregate commands never operate on it implicitly.
const selfEntryName = "forkpin"

// Config is the parsed entry map, keyed by entry name.
type Config struct {
	entries map[string]entities.Entry
}

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// Load reads and parses the configuration document, expanding environment
// variables in upstream/fork URLs and resolving file-path tokens.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	var raw map[string]entities.Entry
	if unmarshalErr := json.Unmarshal(data, &raw); unmarshalErr != nil {
		return nil, fmt.Errorf("%w: %w", entities.ErrMalformedConfig, unmarshalErr)
	}

	entries := make(map[string]entities.Entry, len(raw))
	for name, entry := range raw {
		entry.Name = name
		entry.UpstreamURL = resolveToken(entry.UpstreamURL)
		entry.ForkURL = resolveToken(entry.ForkURL)
		if entry.UpstreamURL == "" {
			return nil, fmt.Errorf("%w: entry %q missing upstream url", entities.ErrMalformedConfig, name)
		}
		entries[name] = entry
	}

	return &Config{entries: entries}, nil
}

// Get returns the entry with the given name.
func (c *Config) Get(name string) (entities.Entry, error) {
	entry, ok := c.entries[name]
	if !ok {
		return entities.Entry{}, fmt.Errorf("%w: %q", entities.ErrEntryNotFound, name)
	}
	return entry, nil
}

// AllNames returns every entry name, sorted, excluding the tool's own
// self-hosting entry.
func (c *Config) AllNames() []string {
	names := make([]string, 0, len(c.entries))
	for name := range c.entries {
		if name == selfEntryName {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FindConfigFile searches for a configuration file in standard locations.
func FindConfigFile() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = ""
	}

	locations := []string{".", ".config", "configs"}
	if homeDir != "" {
		locations = append(locations, homeDir, filepath.Join(homeDir, ".config"))
	}

	patterns := []string{".forkpin.json", "forkpin.json"}

	for _, loc := range locations {
		for _, pat := range patterns {
			p := filepath.Join(loc, pat)
			if _, statErr := os.Stat(p); statErr == nil {
				return p, nil
			}
		}
	}

	return "", errors.New("config file not found in default locations")
}

// ResolveToken expands environment variable references (${VAR}) and, if the
// resulting string is a path to an existing file, reads the value from it.
func ResolveToken(raw string) string {
	return resolveToken(raw)
}

func resolveToken(raw string) string {
	if raw == "" {
		return raw
	}

	resolved := envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		logger.Warnf("environment variable %q is not set", varName)
		return ""
	})

	if _, statErr := os.Stat(resolved); statErr == nil {
		data, readErr := os.ReadFile(resolved)
		if readErr != nil {
			logger.Warnf("failed to read file %q: %v", resolved, readErr)
			return resolved
		}
		logger.Debugf("read value from file %q", resolved)
		return strings.TrimSpace(string(data))
	}

	return resolved
}
