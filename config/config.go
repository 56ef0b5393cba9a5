// Package config loads pathbridge.yaml and overlays PATHBRIDGE_* environment
// variables, optionally read from a .env file.
package config

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zero-day-ai/pathbridge/bridgeerr"
	"github.com/zero-day-ai/pathbridge/classify"
	"github.com/zero-day-ai/pathbridge/protocol"
	"github.com/zero-day-ai/pathbridge/transport"
)

// FileName is the configuration file looked up by LoadFromDir.
const FileName = "pathbridge.yaml"

// Config is the bridge configuration. Every section is optional; getters
// return defaults for anything unset.
type Config struct {
	Pipes     *PipesConfig     `yaml:"pipes,omitempty"`
	Protocol  *ProtocolConfig  `yaml:"protocol,omitempty"`
	Actions   *ActionsConfig   `yaml:"actions,omitempty"`
	Companion *CompanionConfig `yaml:"companion,omitempty"`
	Log       *LogConfig       `yaml:"log,omitempty"`
	RouteSink *RouteSinkConfig `yaml:"route_sink,omitempty"`
	Telemetry *TelemetryConfig `yaml:"telemetry,omitempty"`
}

// PipesConfig locates the two named pipes.
type PipesConfig struct {
	Request  string `yaml:"request,omitempty"`
	Response string `yaml:"response,omitempty"`

	// Create makes the bridge create missing pipes. Default: true
	Create *bool `yaml:"create,omitempty"`

	// Mode is the octal permission of created pipes. Default: "0600"
	Mode string `yaml:"mode,omitempty"`
}

// Paths returns the configured pipe paths, falling back to the defaults.
func (p *PipesConfig) Paths() transport.Paths {
	paths := transport.DefaultPaths()
	if p == nil {
		return paths
	}
	if p.Request != "" {
		paths.Request = p.Request
	}
	if p.Response != "" {
		paths.Response = p.Response
	}
	return paths
}

// ShouldCreate reports whether missing pipes are created.
func (p *PipesConfig) ShouldCreate() bool {
	if p == nil || p.Create == nil {
		return true
	}
	return *p.Create
}

// GetMode parses Mode. Returns 0600 if unset or invalid.
func (p *PipesConfig) GetMode() fs.FileMode {
	if p == nil || p.Mode == "" {
		return 0o600
	}
	m, err := strconv.ParseUint(p.Mode, 8, 32)
	if err != nil {
		return 0o600
	}
	return fs.FileMode(m) & fs.ModePerm
}

// ProtocolConfig overrides the wire bounds. Both ends must agree.
type ProtocolConfig struct {
	NameBound  int    `yaml:"name_bound,omitempty"`
	ResultSize int    `yaml:"result_size,omitempty"`
	Sentinel   string `yaml:"sentinel,omitempty"`
}

// Format returns the configured wire format.
func (p *ProtocolConfig) Format() protocol.Format {
	f := protocol.DefaultFormat()
	if p == nil {
		return f
	}
	if p.NameBound > 0 {
		f.NameBound = p.NameBound
	}
	if p.ResultSize > 0 {
		f.ResultSize = p.ResultSize
	}
	if p.Sentinel != "" {
		f.Sentinel = p.Sentinel
	}
	return f
}

// ActionsConfig describes how move actions look.
type ActionsConfig struct {
	// MoveAction is the move operator name. Default: "MOVE_TO"
	MoveAction string `yaml:"move_action,omitempty"`

	// CellMarker prefixes cell arguments. Default: "C"
	CellMarker string `yaml:"cell_marker,omitempty"`

	// MoveExpression is a CEL expression over name and args. When set it
	// replaces MoveAction.
	MoveExpression string `yaml:"move_expression,omitempty"`
}

// GetMoveAction returns the move operator name or the default.
func (a *ActionsConfig) GetMoveAction() string {
	if a == nil || a.MoveAction == "" {
		return classify.DefaultMoveAction
	}
	return a.MoveAction
}

// GetCellMarker returns the cell marker or the default.
func (a *ActionsConfig) GetCellMarker() string {
	if a == nil || a.CellMarker == "" {
		return "C"
	}
	return a.CellMarker
}

// Classifier builds the configured move classifier.
func (a *ActionsConfig) Classifier() (classify.Classifier, error) {
	var expr string
	if a != nil {
		expr = a.MoveExpression
	}
	return classify.New(a.GetMoveAction(), expr)
}

// CompanionConfig describes how to start the path planner.
type CompanionConfig struct {
	// Command is the companion executable, e.g. "java".
	Command string   `yaml:"command,omitempty"`
	Args    []string `yaml:"args,omitempty"`
	WorkDir string   `yaml:"workdir,omitempty"`

	// Start makes the bridge launch the companion itself.
	Start bool `yaml:"start,omitempty"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	// Level is debug, info, warn or error. Default: info
	Level string `yaml:"level,omitempty"`

	// Format is text or json. Default: text
	Format string `yaml:"format,omitempty"`
}

// GetLevel returns the log level or the default.
func (l *LogConfig) GetLevel() string {
	if l == nil || l.Level == "" {
		return "info"
	}
	return strings.ToLower(l.Level)
}

// GetFormat returns the log format or the default.
func (l *LogConfig) GetFormat() string {
	if l == nil || l.Format == "" {
		return "text"
	}
	return strings.ToLower(l.Format)
}

// RouteSinkConfig enables publishing the announced plan to Redis.
type RouteSinkConfig struct {
	URL    string `yaml:"url,omitempty"`
	Prefix string `yaml:"prefix,omitempty"`

	// TTL is a Go duration string. Default: 24h
	TTL string `yaml:"ttl,omitempty"`
}

// Enabled reports whether a sink URL is configured.
func (r *RouteSinkConfig) Enabled() bool {
	return r != nil && r.URL != ""
}

// TelemetryConfig toggles span and metric logging.
type TelemetryConfig struct {
	Enabled bool `yaml:"enabled,omitempty"`
}

// IsEnabled reports whether telemetry is on.
func (t *TelemetryConfig) IsEnabled() bool {
	return t != nil && t.Enabled
}

// Load reads and parses a configuration file. If path is a directory, the
// file pathbridge.yaml (or pathbridge.yml) inside it is read.
func Load(path string) (*Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat path: %w", err)
	}

	configPath := path
	if info.IsDir() {
		configPath = ""
		for _, name := range []string{FileName, "pathbridge.yml"} {
			candidate := filepath.Join(path, name)
			if _, err := os.Stat(candidate); err == nil {
				configPath = candidate
				break
			}
		}
		if configPath == "" {
			return nil, fmt.Errorf("no %s found in %s", FileName, path)
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, bridgeerr.New("config", "parse", bridgeerr.ErrCodeInvalidConfig,
			"failed to parse config file").WithCause(err)
	}
	return &cfg, nil
}

// LoadFromDir searches for pathbridge.yaml from dir up to the filesystem
// root.
func LoadFromDir(dir string) (*Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	for {
		cfg, err := Load(absDir)
		if err == nil {
			return cfg, nil
		}
		parent := filepath.Dir(absDir)
		if parent == absDir {
			return nil, fmt.Errorf("no %s found in %s or parent directories", FileName, dir)
		}
		absDir = parent
	}
}

// Validate checks the parts of the configuration that can be wrong on their
// own: the wire bounds, the move expression and durations.
func (c *Config) Validate() error {
	if err := c.Protocol.Format().Validate(); err != nil {
		return err
	}
	if _, err := c.Actions.Classifier(); err != nil {
		return err
	}
	if c.Companion != nil && c.Companion.Start && c.Companion.Command == "" {
		return bridgeerr.New("config", "validate", bridgeerr.ErrCodeInvalidConfig,
			"companion.start requires companion.command")
	}
	if c.Pipes != nil && c.Pipes.Mode != "" {
		if _, err := strconv.ParseUint(c.Pipes.Mode, 8, 32); err != nil {
			return bridgeerr.Newf("config", "validate", bridgeerr.ErrCodeInvalidConfig,
				"pipes.mode %q is not octal", c.Pipes.Mode).WithCause(err)
		}
	}
	switch c.Log.GetLevel() {
	case "debug", "info", "warn", "error":
	default:
		return bridgeerr.Newf("config", "validate", bridgeerr.ErrCodeInvalidConfig,
			"unknown log level %q", c.Log.GetLevel())
	}
	switch c.Log.GetFormat() {
	case "text", "json":
	default:
		return bridgeerr.Newf("config", "validate", bridgeerr.ErrCodeInvalidConfig,
			"unknown log format %q", c.Log.GetFormat())
	}
	if _, err := c.RouteSink.GetTTL(); err != nil {
		return err
	}
	return nil
}
