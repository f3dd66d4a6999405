package config

import (
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"reminders/core/database"
	"reminders/core/dispatch"
	"reminders/core/logger"
	"reminders/core/reconcile"
	"reminders/core/server"
	"reminders/core/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the full service configuration. Every section belongs to the
// package that consumes it.
type Config struct {
	Server    server.Config      `mapstructure:"server"`
	Storage   storage.Config     `mapstructure:"storage"`
	Log       logger.Config      `mapstructure:"log"`
	Database  database.Config    `mapstructure:"database"`
	Reconcile reconcile.Settings `mapstructure:"reconcile"`
	Dispatch  dispatch.Config    `mapstructure:"dispatch"`
}

// LoadConfig reads dir/.env when present, then the environment. A variable
// such as RECONCILE_MAX_DIFF_OPS sets reconcile.max_diff_ops; keys nobody
// sets keep their `default` tag.
func LoadConfig(dir string) (*Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Overload(filepath.Join(dir, ".env"))

	v := viper.New()
	registerDefaults(v, reflect.TypeOf(Config{}), "")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	return &cfg, nil
}

// registerDefaults walks t and registers one viper key per leaf field, named
// by the mapstructure tags on the path to it. AutomaticEnv only resolves keys
// viper knows about, so untagged defaults are registered as "".
func registerDefaults(v *viper.Viper, t reflect.Type, prefix string) {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name := f.Tag.Get("mapstructure")
		if name == "" {
			continue
		}
		if prefix != "" {
			name = prefix + "." + name
		}
		if f.Type.Kind() == reflect.Struct {
			registerDefaults(v, f.Type, name)
			continue
		}
		v.SetDefault(name, f.Tag.Get("default"))
	}
}
