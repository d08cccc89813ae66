package config

import (
	"fmt"
	"os"
	"sort"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"holdem-engine/internal/util"
)

// Stakes are the blinds for a table
type Stakes struct {
	SmallBlind int `yaml:"smallBlind"`
	BigBlind   int `yaml:"bigBlind"`
}

// stakePresets are the tables the engine offers out of the box
var stakePresets = map[string]Stakes{
	"micro":   {SmallBlind: 5, BigBlind: 10},
	"small":   {SmallBlind: 10, BigBlind: 20},
	"medium":  {SmallBlind: 25, BigBlind: 50},
	"high":    {SmallBlind: 50, BigBlind: 100},
	"premium": {SmallBlind: 100, BigBlind: 200},
}

// Config provides configuration for the hold'em engine
type Config struct {
	loaded            bool
	LogLevel          string `yaml:"logLevel" envconfig:"log_level"`
	LogFormat         string `yaml:"logFormat" envconfig:"log_format"`
	DefaultStakes     string `yaml:"defaultStakes" envconfig:"default_stakes"`
	MinBuyInBigBlinds int    `yaml:"minBuyInBigBlinds" envconfig:"min_buy_in_big_blinds"`
}

var config Config

// Instance returns a singleton instance
// If the config hasn't been loaded, it will be loaded
func Instance() Config {
	if !config.loaded {
		if err := Load(); err != nil {
			panic(err)
		}
	}

	return config
}

// Load will load the configuration. A missing config file is not an error;
// the defaults and environment still apply.
func Load() error {
	config = Config{
		LogLevel:          "info",
		DefaultStakes:     "micro",
		MinBuyInBigBlinds: 20,
	}

	configFile := util.Getenv("HOLDEM_CONFIG_FILE", "config.yaml")
	file, err := os.Open(configFile)
	if err == nil {
		defer file.Close()
		if err := yaml.NewDecoder(file).Decode(&config); err != nil {
			return err
		}
	} else if !os.IsNotExist(err) {
		return err
	}

	if err := envconfig.Process("holdem", &config); err != nil {
		return err
	}

	config.loaded = true
	return nil
}

// StakesByName returns the blinds for a named preset
func StakesByName(name string) (Stakes, error) {
	stakes, ok := stakePresets[name]
	if !ok {
		return Stakes{}, fmt.Errorf("unknown stakes: %s", name)
	}

	return stakes, nil
}

// StakeNames returns the preset names, cheapest table first
func StakeNames() []string {
	names := make([]string, 0, len(stakePresets))
	for name := range stakePresets {
		names = append(names, name)
	}

	sort.Slice(names, func(i, j int) bool {
		return stakePresets[names[i]].BigBlind < stakePresets[names[j]].BigBlind
	})

	return names
}
