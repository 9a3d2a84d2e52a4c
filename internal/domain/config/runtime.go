package config

import (
	"path/filepath"
	"time"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot  string
	Profile      string // deployment profile, selects sai_<profile>.toml
	ManifestPath string

	// Execution settings
	Debug          bool
	NonInteractive bool
	JSON           bool // Output in JSON format
	Timeout        time.Duration

	// Command-specific settings (only populated for relevant commands)
	DryRun    bool
	KeepGoing bool

	// Account settings, resolved flag > env > profile
	Account AccountConfig

	// Resolved configurations
	Scarb         *ScarbConfig
	ProfileConfig *ProfileConfig
	// ProfileOrder keeps the document order of [declare] and [deploy] tags.
	ProfileOrder ProfileOrder
}

// TargetDir is where scarb writes the profile's compiled classes.
func (c *RuntimeConfig) TargetDir() string {
	return filepath.Join(c.ProjectRoot, "target", c.Profile)
}

// ConfigDir is the directory holding game configuration documents.
func (c *RuntimeConfig) ConfigDir() string {
	dir := "post-deploy-config"
	if c.ProfileConfig != nil && c.ProfileConfig.Seed.ConfigDir != "" {
		dir = c.ProfileConfig.Seed.ConfigDir
	}
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(c.ProjectRoot, dir)
}

// PackageName is the scarb package name prefixing artifact files.
func (c *RuntimeConfig) PackageName() string {
	if c.Scarb == nil {
		return ""
	}
	return c.Scarb.Package.Name
}

// ProfileOrder lists profile table keys in the order they were written.
type ProfileOrder struct {
	Declare []string
	Deploy  []string
}
