package catalog

import (
	ck "github.com/reoring/contractkit"
)

// Config holds the catalog-wide defaults applied when class contracts build
// their members.
type Config struct {
	// EmitDefaultValue is the default for members not tagged omitdefault.
	EmitDefaultValue bool `mapstructure:"emit_default_value" yaml:"emit_default_value" json:"emit_default_value"`
	// AllowMemberAccess lets compiled accessors reach unexported fields.
	AllowMemberAccess bool `mapstructure:"allow_member_access" yaml:"allow_member_access" json:"allow_member_access"`
	// NamePolicy is one of "declared", "camel", "snake".
	NamePolicy string `mapstructure:"name_policy" yaml:"name_policy" json:"name_policy"`
}

// DefaultConfig returns the configuration used when none is supplied.
func DefaultConfig() Config {
	return Config{
		EmitDefaultValue: ck.DefaultEmitDefaultValue,
		NamePolicy:       string(ck.NameDeclared),
	}
}

// Validate reports an invalid_config issue for unknown settings.
func (c Config) Validate() error {
	switch ck.NamePolicy(c.NamePolicy) {
	case ck.NameDeclared, ck.NameCamel, ck.NameSnake:
		return nil
	}
	return ck.NewIssue("/name_policy", ck.CodeInvalidConfig, nil, map[string]any{"got": c.NamePolicy})
}
