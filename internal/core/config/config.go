package config

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/spf13/viper"
)

// AppConfig holds the configuration for the application.
// Tags used:
// - mapstructure: used by viper to unmarshal
// - default: default value to set if missing
// - required: if "true", error if missing
type AppConfig struct {
	// Environment specifies the runtime environment (e.g., development, production).
	Environment string `mapstructure:"APP_ENV" default:"development"`
	// LogLevel defines the logging verbosity (e.g., debug, info, error).
	LogLevel string `mapstructure:"LOG_LEVEL" default:"info"`
	// ServerPort is the port where the server will listen.
	ServerPort int `mapstructure:"SERVER_PORT" default:"8080"`

	// Redis holds the Redis connection configuration.
	Redis RedisConfig `mapstructure:",squash"`

	// Auth holds the token verification configuration.
	Auth AuthConfig `mapstructure:",squash"`

	// Mail holds the outbound email configuration.
	Mail MailConfig `mapstructure:",squash"`

	// Geocoder holds the address lookup configuration.
	Geocoder GeocoderConfig `mapstructure:",squash"`
}

// RedisConfig holds the connection details for the Redis document store.
type RedisConfig struct {
	// URL is the Redis connection string, e.g. redis://localhost:6379/0.
	URL string `mapstructure:"REDIS_URL" required:"true"`
}

// AuthConfig holds the settings for validating caller identity tokens.
type AuthConfig struct {
	// JWTSecret is the HMAC secret used to verify bearer tokens.
	JWTSecret string `mapstructure:"JWT_SECRET" required:"true"`
}

// MailConfig holds the SendGrid credentials for status notifications.
// When APIKey is empty the application runs with email disabled.
type MailConfig struct {
	// APIKey is the SendGrid API key.
	APIKey string `mapstructure:"SENDGRID_API_KEY"`
	// FromEmail is the sender address on outgoing notifications.
	FromEmail string `mapstructure:"MAIL_FROM_EMAIL" default:"no-reply@shipment-tracker.local"`
	// FromName is the display name on outgoing notifications.
	FromName string `mapstructure:"MAIL_FROM_NAME" default:"Shipment Tracker"`
}

// GeocoderConfig holds the address-to-coordinates lookup settings.
type GeocoderConfig struct {
	// URL is the base URL of the Nominatim-compatible geocoding service.
	URL string `mapstructure:"GEOCODER_URL" default:"https://nominatim.openstreetmap.org"`
	// CacheBackend selects where geocode results are memoized: "memory" for a
	// per-process cache, "redis" to share lookups across instances.
	CacheBackend string `mapstructure:"GEOCODE_CACHE_BACKEND" default:"memory"`
	// TimeoutMS bounds a single geocoding call in milliseconds.
	TimeoutMS int `mapstructure:"GEOCODER_TIMEOUT_MS" default:"3000"`
	// CacheTTLSeconds is how long a geocoded address stays cached.
	CacheTTLSeconds int `mapstructure:"GEOCODE_CACHE_TTL_SECONDS" default:"86400"`
	// CacheMaxEntries bounds the in-memory geocode cache size.
	CacheMaxEntries int `mapstructure:"GEOCODE_CACHE_MAX_ENTRIES" default:"10000"`
}

// Load loads configuration from .env files and environment variables.
func Load(path string) (*AppConfig, error) {
	v := viper.New()

	v.AutomaticEnv()

	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config AppConfig

	if err := processTags(v, &config); err != nil {
		return nil, err
	}

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := validateRequired(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// processTags iterates over the struct fields and sets default values in Viper.
func processTags(v *viper.Viper, config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := processTags(v, val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		key := field.Tag.Get("mapstructure")
		defaultValue := field.Tag.Get("default")

		if key != "" {
			v.BindEnv(key)
		}

		if key != "" && defaultValue != "" {
			v.SetDefault(key, defaultValue)
		}
	}
	return nil
}

// validateRequired checks if fields marked as required have non-zero values.
func validateRequired(config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := validateRequired(val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		required := field.Tag.Get("required")
		if required == "true" {
			value := val.Field(i)
			if isZero(value) {
				key := field.Tag.Get("mapstructure")
				return fmt.Errorf("missing required configuration: %s", key)
			}
		}
	}
	return nil
}

// isZero checks if a reflect.Value is the zero value for its type.
func isZero(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return v.String() == ""
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Slice, reflect.Map:
		return v.Len() == 0
	default:
		return v.IsZero()
	}
}
