package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the global application configuration
var Config AppConfig

// DefaultPaths are searched in order by LoadAppConfig
var DefaultPaths = []string{"config.yml", "./configs/config.yml"}

// LoadAppConfig loads the configuration from the default paths into Config
func LoadAppConfig() error {
	cfg, err := Load(DefaultPaths...)
	if err != nil {
		return err
	}
	Config = *cfg
	return nil
}

// Load reads the first existing file of paths, applies environment
// overrides and defaults, and validates the result. No file at all is not an
// error: the built-in defaults are playable.
func Load(paths ...string) (*AppConfig, error) {
	// .env is optional
	_ = godotenv.Load()

	var cfg AppConfig
	data, path, err := readFirst(paths)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
		log.Printf("no config file found in %v, using defaults", paths)
	default:
		return nil, err
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func readFirst(paths []string) ([]byte, string, error) {
	err := fs.ErrNotExist
	for _, p := range paths {
		data, rerr := os.ReadFile(p)
		if rerr == nil {
			return data, p, nil
		}
		if !errors.Is(rerr, fs.ErrNotExist) {
			return nil, p, rerr
		}
	}
	return nil, "", err
}

func applyEnv(cfg *AppConfig) error {
	if v := os.Getenv("METROPAC_CITY"); v != "" {
		cfg.City = v
	}
	if v := os.Getenv("METROPAC_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("METROPAC_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if v := os.Getenv("OPENCAGE_API_KEY"); v != "" {
		cfg.Geocoder.APIKey = v
	}
	if v := os.Getenv("METROPAC_CACHE_PATH"); v != "" {
		cfg.Cache.Path = v
	}
	if v := os.Getenv("METROPAC_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("METROPAC_SEED: %w", err)
		}
		cfg.Game.Seed = seed
	}
	return nil
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Overpass.TimeoutMS == 0 {
		cfg.Overpass.TimeoutMS = 60000
	}
	if cfg.Geocoder.CacheSize == 0 {
		cfg.Geocoder.CacheSize = 128
	}
	if cfg.Game.Lives == 0 {
		cfg.Game.Lives = 3
	}
	if cfg.Game.FruitBonus == 0 {
		cfg.Game.FruitBonus = 50
	}
	if cfg.Game.StationsPerGhost == 0 {
		cfg.Game.StationsPerGhost = 15
	}
	if cfg.Game.StationsPerFruit == 0 {
		cfg.Game.StationsPerFruit = 20
	}
	if cfg.Game.StartMode == "" {
		cfg.Game.StartMode = "free-roam"
	}
}

// SelectCity chooses a city by name from the configured and built-in cities;
// fallback to the first configured city, then to DefaultCity.
func (c *AppConfig) SelectCity(name string) City {
	if name == "" {
		name = c.City
	}
	if name != "" {
		for _, list := range [][]City{c.Cities, BuiltinCities} {
			for _, city := range list {
				if strings.EqualFold(city.Name, name) {
					return city
				}
			}
		}
		log.Printf("unknown city %q", name)
	}
	if len(c.Cities) > 0 {
		return c.Cities[0]
	}
	for _, city := range BuiltinCities {
		if city.Name == DefaultCity {
			return city
		}
	}
	return BuiltinCities[0]
}

// SelectCity chooses a city from the global Config
func SelectCity(name string) City {
	return Config.SelectCity(name)
}
