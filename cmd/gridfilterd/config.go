package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/hugr-lab/gridfilter"
	"github.com/hugr-lab/gridfilter/catalog"
	"github.com/hugr-lab/gridfilter/predicate"
)

// envPrefix prefixes environment overrides: GRIDFILTER_SERVER_ADDRESS etc.
const envPrefix = "GRIDFILTER"

// Config holds all daemon configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Entities []EntityConfig `mapstructure:"entities"`
}

type ServerConfig struct {
	Address        string `mapstructure:"address"`
	MaxMessageSize int    `mapstructure:"max_message_size"`
	TLSCertFile    string `mapstructure:"tls_cert_file"`
	TLSKeyFile     string `mapstructure:"tls_key_file"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// AuthConfig lists accepted bearer tokens. No tokens disables auth.
type AuthConfig struct {
	Tokens []TokenConfig `mapstructure:"tokens"`
}

type TokenConfig struct {
	Token    string `mapstructure:"token"`
	Identity string `mapstructure:"identity"`
}

// EntityConfig declares one filterable entity.
type EntityConfig struct {
	Name       string           `mapstructure:"name"`
	Comment    string           `mapstructure:"comment"`
	Properties []PropertyConfig `mapstructure:"properties"`
}

// PropertyConfig declares one property. Collections use type "array" with
// the element type in Items.
type PropertyConfig struct {
	Path        string `mapstructure:"path"`
	Type        string `mapstructure:"type"`
	Items       string `mapstructure:"items"`
	Format      string `mapstructure:"format"`
	Nullable    bool   `mapstructure:"nullable"`
	OffsetAware bool   `mapstructure:"offset_aware"`
	Enum        string `mapstructure:"enum"`
}

// GetDefaults returns a Config with all default values
func GetDefaults() *Config {
	return &Config{
		Server: ServerConfig{
			Address:        ":50052",
			MaxMessageSize: 16 << 20,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load loads configuration from flags, environment and an optional YAML
// file, in decreasing priority.
func Load(args []string) (*Config, error) {
	flags := pflag.NewFlagSet("gridfilterd", pflag.ContinueOnError)
	configFile := flags.StringP("config", "c", "", "path to the YAML config file")
	flags.String("address", "", "listen address")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("log-format", "", "log format (text, json)")
	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	defaults := GetDefaults()
	v.SetDefault("server.address", defaults.Server.Address)
	v.SetDefault("server.max_message_size", defaults.Server.MaxMessageSize)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.format", defaults.Log.Format)

	for key, flag := range map[string]string{
		"server.address": "address",
		"log.level":      "log-level",
		"log.format":     "log-format",
	} {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			return nil, fmt.Errorf("error binding flag %s: %w", flag, err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if *configFile != "" {
		v.SetConfigFile(*configFile)
	} else {
		v.SetConfigName("gridfilterd")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/gridfilterd")
	}

	// a missing default config file is fine, we have defaults
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if *configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &cfg, nil
}

// Logger creates the daemon logger.
func (c *Config) Logger() (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", c.Log.Level, err)
	}
	opts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(c.Log.Format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(os.Stderr, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(os.Stderr, opts)), nil
	}
	return nil, fmt.Errorf("invalid log format %q", c.Log.Format)
}

// Authenticator returns the configured token authenticator, or nil when no
// tokens are configured.
func (c *Config) Authenticator() (gridfilter.Authenticator, error) {
	if len(c.Auth.Tokens) == 0 {
		return nil, nil
	}
	tokens := make(map[string]string, len(c.Auth.Tokens))
	for i, t := range c.Auth.Tokens {
		if t.Token == "" || t.Identity == "" {
			return nil, fmt.Errorf("auth token %d: token and identity are required", i)
		}
		tokens[t.Token] = t.Identity
	}
	return gridfilter.StaticTokens(tokens), nil
}

// Catalog builds the entity catalog.
func (c *Config) Catalog() (catalog.Catalog, error) {
	builder := gridfilter.NewCatalogBuilder()
	for _, e := range c.Entities {
		eb := builder.Entity(e.Name).Comment(e.Comment)
		for _, p := range e.Properties {
			prop, err := p.property()
			if err != nil {
				return nil, fmt.Errorf("entity %s: %w", e.Name, err)
			}
			eb.Property(p.Path, prop)
		}
	}
	return builder.Build()
}

func (p PropertyConfig) property() (predicate.Property, error) {
	typ, ok := predicate.ParseDeclaredType(p.Type)
	if !ok {
		return predicate.Property{}, fmt.Errorf("property %s: unknown type %q", p.Path, p.Type)
	}

	prop := predicate.Property{
		Type:        typ,
		Format:      predicate.Format(strings.ToLower(p.Format)),
		Nullable:    p.Nullable,
		OffsetAware: p.OffsetAware,
	}
	if typ == predicate.TypeCollection {
		items, ok := predicate.ParseDeclaredType(p.Items)
		if !ok || items == predicate.TypeCollection {
			return predicate.Property{}, fmt.Errorf("property %s: invalid items type %q", p.Path, p.Items)
		}
		prop.Type = items
		prop.Collection = true
	}
	if prop.Type == predicate.TypeEnum {
		members, err := catalog.ParseEnumMembers(p.Enum)
		if err != nil {
			return predicate.Property{}, fmt.Errorf("property %s: %w", p.Path, err)
		}
		prop.Enum = members
	}
	return prop, nil
}
