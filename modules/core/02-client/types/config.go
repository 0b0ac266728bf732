package types

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix is the prefix of environment variables overriding client parameters,
	// e.g. IBC_CLIENT_ALLOWED_CLIENTS.
	EnvPrefix = "IBC_CLIENT"

	flagAllowedClients             = "allowed_clients"
	flagMaxConcurrentVerifications = "max_concurrent_verifications"
)

// NewParamsViper returns a viper instance with the client parameter defaults registered and
// environment overrides enabled.
func NewParamsViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	defaults := DefaultParams()
	v.SetDefault(flagAllowedClients, defaults.AllowedClients)
	v.SetDefault(flagMaxConcurrentVerifications, defaults.MaxConcurrentVerifications)
	return v
}

// LoadParams reads the client parameters from the config file at path. An empty path loads the
// defaults and environment overrides only.
func LoadParams(path string) (Params, error) {
	v := NewParamsViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Params{}, errors.Wrapf(err, "failed to read client config %s", path)
		}
	}

	return ParamsFromViper(v)
}

// ParamsFromViper extracts and validates client parameters from v. List values may be given
// either as a list or as a comma separated string, as environment variables are.
func ParamsFromViper(v *viper.Viper) (Params, error) {
	allowed, err := toStringSlice(v.Get(flagAllowedClients))
	if err != nil {
		return Params{}, errors.Wrap(err, "invalid allowed_clients")
	}

	workers, err := cast.ToIntE(v.Get(flagMaxConcurrentVerifications))
	if err != nil {
		return Params{}, errors.Wrap(err, "invalid max_concurrent_verifications")
	}

	params := NewParams(workers, allowed...)
	if err := params.Validate(); err != nil {
		return Params{}, errors.Wrap(err, "invalid client params")
	}
	return params, nil
}

func toStringSlice(value interface{}) ([]string, error) {
	if s, ok := value.(string); ok {
		var out []string
		for _, item := range strings.Split(s, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
		return out, nil
	}
	return cast.ToStringSliceE(value)
}
