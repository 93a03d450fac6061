package config

import (
	"flag"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	ServerURL     string        `yaml:"server_url" env:"COLLABOARD_SERVER_URL"`
	Nickname      string        `yaml:"nickname" env:"COLLABOARD_NICKNAME" env-default:"anonymous"`
	FrameInterval time.Duration `yaml:"frame_interval" env:"COLLABOARD_FRAME_INTERVAL" env-default:"16ms"`
	Brush         BrushConfig   `yaml:"brush"`
	Discovery     Discovery     `yaml:"discovery"`
}

type BrushConfig struct {
	Color string  `yaml:"color" env-default:"#000000"`
	Width float64 `yaml:"width" env-default:"2"`
}

type Discovery struct {
	Enabled bool          `yaml:"enabled" env:"COLLABOARD_DISCOVERY" env-default:"true"`
	Window  time.Duration `yaml:"window" env-default:"2s"`
}

// MustLoad reads the config file named by -config or CONFIG_PATH,
// falling back to environment defaults when no file exists.
func MustLoad() *Config {
	path := fetchConfigPath()

	var cfg Config
	if path != "" {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			panic("config file does not exist: " + path)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			panic("cannot read config: " + err.Error())
		}
		return &cfg
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		panic("cannot read environment: " + err.Error())
	}
	return &cfg
}

func fetchConfigPath() string {
	var res string

	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	return res
}
