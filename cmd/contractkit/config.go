package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/reoring/contractkit/catalog"
)

// loadConfig reads contractkit.yaml (or path, when set) and CONTRACTKIT_*
// environment variables on top of the catalog defaults.
func loadConfig(path string) (catalog.Config, error) {
	v := viper.New()

	def := catalog.DefaultConfig()
	v.SetDefault("emit_default_value", def.EmitDefaultValue)
	v.SetDefault("allow_member_access", def.AllowMemberAccess)
	v.SetDefault("name_policy", def.NamePolicy)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("contractkit")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("CONTRACTKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return catalog.Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg catalog.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return catalog.Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return catalog.Config{}, err
	}
	return cfg, nil
}

// newCatalog builds the catalog the subcommands inspect.
func (o *rootOptions) newCatalog() (*catalog.Catalog, *zap.Logger, error) {
	log, err := o.logger()
	if err != nil {
		return nil, nil, err
	}
	cfg, err := loadConfig(o.configPath)
	if err != nil {
		return nil, nil, err
	}
	log.Debug("config loaded",
		zap.String("name_policy", cfg.NamePolicy),
		zap.Bool("emit_default_value", cfg.EmitDefaultValue),
		zap.Bool("allow_member_access", cfg.AllowMemberAccess))
	cat, err := catalog.New(catalog.WithConfig(cfg), catalog.WithLogger(log))
	if err != nil {
		return nil, nil, err
	}
	return cat, log, nil
}

func newConfigCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective catalog configuration as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, log, err := opts.newCatalog()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(cat.Config()); err != nil {
				return err
			}
			return enc.Close()
		},
	}
}
