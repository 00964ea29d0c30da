// Package config loads the routelens.yaml/routelens.json options bag (spec
// §6 "Parser options") with github.com/spf13/viper, the same way the teacher
// loads fuego.yaml in cmd/fuego/commands/deploy.go: a missing config file is
// tolerated, never fatal, and callers fall back to the extractor's defaults.
package config

import (
	"regexp"

	"github.com/spf13/viper"

	"github.com/watchapi-dev/routelens/pkg/extractor"
	"github.com/watchapi-dev/routelens/pkg/trpc"
	"github.com/watchapi-dev/routelens/pkg/tsproject"
)

// Config is the on-disk shape of routelens.yaml/routelens.json, matching the
// Parser options bag of spec §6 verbatim: tsconfigPath, include, verbose,
// routerFactories, routerIdentifierPattern.
type Config struct {
	TsconfigPath            string   `mapstructure:"tsconfigPath" yaml:"tsconfigPath"`
	Include                 []string `mapstructure:"include" yaml:"include,omitempty"`
	Verbose                 bool     `mapstructure:"verbose" yaml:"verbose,omitempty"`
	RouterFactories         []string `mapstructure:"routerFactories" yaml:"routerFactories,omitempty"`
	RouterIdentifierPattern string   `mapstructure:"routerIdentifierPattern" yaml:"routerIdentifierPattern,omitempty"`
}

// Load reads routelens.yaml (or .json) from dir using viper. A missing
// config file is not an error — Load returns the zero Config, exactly the
// tolerant branch shape the teacher uses around v.ReadInConfig() in
// cmd/fuego/commands/deploy.go.
func Load(dir string) (Config, error) {
	v := viper.New()
	v.SetConfigName("routelens")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	var cfg Config
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return cfg, nil
		}
		return cfg, err
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ExtractorOptions translates the loaded Config (plus a workspace root) into
// the options bag pkg/extractor.Run expects.
func (c Config) ExtractorOptions(rootDir string) (extractor.Options, error) {
	opts := extractor.Options{
		Project: tsproject.Options{
			RootDir:    rootDir,
			ConfigPath: c.TsconfigPath,
			Include:    c.Include,
		},
		TRPC: trpc.Options{
			ExtraFactoryNames: c.RouterFactories,
		},
	}
	if c.RouterIdentifierPattern != "" {
		re, err := regexp.Compile(c.RouterIdentifierPattern)
		if err != nil {
			return extractor.Options{}, err
		}
		opts.TRPC.IdentifierPattern = re
	}
	return opts, nil
}
