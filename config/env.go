package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/zero-day-ai/pathbridge/bridgeerr"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "PATHBRIDGE_"

// LoadEnvFile loads variables from a .env file into the process environment
// without overriding variables already set. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return bridgeerr.Newf("config", "env_file", bridgeerr.ErrCodeInvalidConfig,
			"failed to load %s", path).WithCause(err)
	}
	return nil
}

// ApplyEnv overrides configuration values from PATHBRIDGE_* variables
// returned by lookup, typically os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + key); ok && v != "" {
			*dst = v
		}
	}
	integer := func(key string, dst *int) error {
		v, ok := lookup(EnvPrefix + key)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return bridgeerr.Newf("config", "env", bridgeerr.ErrCodeInvalidConfig,
				"%s%s=%q is not an integer", EnvPrefix, key, v).WithCause(err)
		}
		*dst = n
		return nil
	}
	boolean := func(key string, dst *bool) error {
		v, ok := lookup(EnvPrefix + key)
		if !ok || v == "" {
			return nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return bridgeerr.Newf("config", "env", bridgeerr.ErrCodeInvalidConfig,
				"%s%s=%q is not a boolean", EnvPrefix, key, v).WithCause(err)
		}
		*dst = b
		return nil
	}

	if c.Pipes == nil {
		c.Pipes = &PipesConfig{}
	}
	if c.Protocol == nil {
		c.Protocol = &ProtocolConfig{}
	}
	if c.Actions == nil {
		c.Actions = &ActionsConfig{}
	}
	if c.Companion == nil {
		c.Companion = &CompanionConfig{}
	}
	if c.Log == nil {
		c.Log = &LogConfig{}
	}
	if c.RouteSink == nil {
		c.RouteSink = &RouteSinkConfig{}
	}
	if c.Telemetry == nil {
		c.Telemetry = &TelemetryConfig{}
	}

	str("REQUEST_PIPE", &c.Pipes.Request)
	str("RESPONSE_PIPE", &c.Pipes.Response)
	str("PIPE_MODE", &c.Pipes.Mode)
	if v, ok := lookup(EnvPrefix + "CREATE_PIPES"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return bridgeerr.Newf("config", "env", bridgeerr.ErrCodeInvalidConfig,
				"%sCREATE_PIPES=%q is not a boolean", EnvPrefix, v).WithCause(err)
		}
		c.Pipes.Create = &b
	}

	if err := integer("NAME_BOUND", &c.Protocol.NameBound); err != nil {
		return err
	}
	if err := integer("RESULT_SIZE", &c.Protocol.ResultSize); err != nil {
		return err
	}
	str("SENTINEL", &c.Protocol.Sentinel)

	str("MOVE_ACTION", &c.Actions.MoveAction)
	str("CELL_MARKER", &c.Actions.CellMarker)
	str("MOVE_EXPRESSION", &c.Actions.MoveExpression)

	str("COMPANION_COMMAND", &c.Companion.Command)
	if v, ok := lookup(EnvPrefix + "COMPANION_ARGS"); ok && v != "" {
		c.Companion.Args = strings.Fields(v)
	}
	str("COMPANION_WORKDIR", &c.Companion.WorkDir)
	if err := boolean("START_COMPANION", &c.Companion.Start); err != nil {
		return err
	}

	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)

	str("REDIS_URL", &c.RouteSink.URL)
	str("ROUTE_PREFIX", &c.RouteSink.Prefix)
	str("ROUTE_TTL", &c.RouteSink.TTL)

	return boolean("TELEMETRY", &c.Telemetry.Enabled)
}

// ApplyOSEnv is ApplyEnv with os.LookupEnv.
func (c *Config) ApplyOSEnv() error {
	return c.ApplyEnv(os.LookupEnv)
}

// GetTTL parses TTL. Returns 24h when unset.
func (r *RouteSinkConfig) GetTTL() (time.Duration, error) {
	if r == nil || r.TTL == "" {
		return 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(r.TTL)
	if err != nil {
		return 0, bridgeerr.Newf("config", "route_sink", bridgeerr.ErrCodeInvalidConfig,
			"route_sink.ttl %q is not a duration", r.TTL).WithCause(err)
	}
	return d, nil
}
