// Package manifest handles shaderdesk.toml project configuration.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ManifestName is the file searched for in a project directory.
const ManifestName = "shaderdesk.toml"

// Manifest represents a shaderdesk.toml project configuration.
type Manifest struct {
	Project  Project       `toml:"project"`
	Shader   Shader        `toml:"shader"`
	Engine   EngineConfig  `toml:"engine"`
	Server   ServerConfig  `toml:"server"`
	Records  RecordsConfig `toml:"records"`
	Textures Textures      `toml:"textures"`

	// Dir is the directory containing the shaderdesk.toml file (set at load time).
	Dir string `toml:"-"`
}

// Project contains project metadata.
type Project struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

// Shader configures the edited shader and its reload behavior.
type Shader struct {
	Entry     string `toml:"entry"`
	PassF32   bool   `toml:"pass-f32"`
	HotReload bool   `toml:"hot-reload"`
	Playing   bool   `toml:"playing"`
}

// EngineConfig points at a remote compile/execute engine. An empty URL
// means the in-process front end is used instead.
type EngineConfig struct {
	URL string `toml:"url"`
}

// ServerConfig configures the control API listener.
type ServerConfig struct {
	Listen string `toml:"listen"`
}

// RecordsConfig configures the shader record database.
type RecordsConfig struct {
	Path string `toml:"path"`
}

// Textures seeds the channel slot bindings.
type Textures struct {
	Slots []string `toml:"slots"`
}

// Load parses a shaderdesk.toml file from the given directory.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, ManifestName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	m.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	applyDefaults(&m)
	return &m, nil
}

// FindAndLoad walks up from startDir to find a shaderdesk.toml file,
// then loads and returns the manifest. Returns nil if no manifest is found.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return nil, nil
		}
		dir = parent
	}
}

// Default returns the configuration used when no manifest exists.
func Default() *Manifest {
	m := &Manifest{}
	applyDefaults(m)
	return m
}

func applyDefaults(m *Manifest) {
	if m.Shader.Entry == "" {
		m.Shader.Entry = "shader.wgsl"
	}
	if m.Server.Listen == "" {
		m.Server.Listen = ":9289"
	}
	if m.Records.Path == "" {
		m.Records.Path = filepath.Join(".shaderdesk", "records.db")
	}
}

// EntryPath returns the absolute path of the shader entry file.
func (m *Manifest) EntryPath() string {
	if filepath.IsAbs(m.Shader.Entry) {
		return m.Shader.Entry
	}
	return filepath.Join(m.Dir, m.Shader.Entry)
}

// RecordsPath returns the absolute path of the record database.
func (m *Manifest) RecordsPath() string {
	if filepath.IsAbs(m.Records.Path) {
		return m.Records.Path
	}
	return filepath.Join(m.Dir, m.Records.Path)
}
