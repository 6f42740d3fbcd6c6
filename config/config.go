package config

import (
	"github.com/spf13/viper"

	"github.com/Ati1707/renpy-img-prune/internal"
)

type Config struct {
	Scanner struct {
		ImageExtensions []string `mapstructure:"image_extensions"`
		ScriptDirNames  []string `mapstructure:"script_dir_names"`
		KeyMode         string   `mapstructure:"key_mode"`
	}
	History struct {
		Path string
	}
	Performance struct {
		HashWorkers int `mapstructure:"hash_workers"`
	}
	Logging struct {
		Level string
		File  string
	}
}

var cfg Config

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.AddConfigPath("$HOME/.renpy-img-prune")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/renpy-img-prune")

	viper.SetDefault("scanner.image_extensions", internal.DefaultImageExtensions)
	viper.SetDefault("scanner.script_dir_names", internal.DefaultScriptDirNames)
	viper.SetDefault("scanner.key_mode", string(internal.KeyModeRelative))
	viper.SetDefault("history.path", internal.DefaultHistoryPath)
	viper.SetDefault("performance.hash_workers", internal.DefaultHashWorkers)
	viper.SetDefault("logging.level", "info")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func Get() *Config {
	return &cfg
}
