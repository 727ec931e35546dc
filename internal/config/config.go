// Package config loads game settings from the environment and an optional
// YAML balance file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	PlayerName  string
	WeaponsFile string
	SaveFile    string
	BalanceFile string

	// Seed for random number generation. 0 means a time-based seed.
	Seed int64

	LogLevel  string
	LogFormat string
	LogFile   string

	TelemetryEnabled bool
	HoneycombAPIKey  string
	HoneycombDataset string

	Balance Balance
}

// Balance holds the tunable gameplay numbers.
type Balance struct {
	WorldWidth  int `yaml:"world_width"`
	WorldHeight int `yaml:"world_height"`

	HeroHealth  int    `yaml:"hero_health"`
	HeroAttack  int    `yaml:"hero_attack"`
	HeroDefense int    `yaml:"hero_defense"`
	StartWeapon string `yaml:"start_weapon"`

	RestHeal int `yaml:"rest_heal"`

	MoveEncounterChance    float64 `yaml:"move_encounter_chance"`
	ExploreEncounterChance float64 `yaml:"explore_encounter_chance"`
	MoveLootChance         float64 `yaml:"move_loot_chance"`
	ExploreLootChance      float64 `yaml:"explore_loot_chance"`
	QuietLootChance        float64 `yaml:"quiet_loot_chance"`

	ShopPerRarity int `yaml:"shop_per_rarity"`
}

// DefaultBalance returns the stock game tuning.
func DefaultBalance() Balance {
	return Balance{
		WorldWidth:             10,
		WorldHeight:            10,
		HeroHealth:             100,
		HeroAttack:             15,
		HeroDefense:            5,
		StartWeapon:            "Rusty Sword",
		RestHeal:               25,
		MoveEncounterChance:    0.4,
		ExploreEncounterChance: 0.6,
		MoveLootChance:         0.3,
		ExploreLootChance:      0.4,
		QuietLootChance:        0.5,
		ShopPerRarity:          5,
	}
}

// Load reads configuration from the environment. A .env file is loaded first
// if present; real environment variables win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		PlayerName:       getEnv("PLAYER_NAME", "Hero"),
		WeaponsFile:      getEnv("WEAPONS_FILE", "weapons.txt"),
		SaveFile:         getEnv("SAVE_FILE", "savegame.json"),
		BalanceFile:      getEnv("BALANCE_FILE", "balance.yaml"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "text"),
		LogFile:          getEnv("LOG_FILE", "terminalrealm.log"),
		HoneycombAPIKey:  getEnv("HONEYCOMB_API_KEY", ""),
		HoneycombDataset: getEnv("HONEYCOMB_DATASET", "terminalrealm"),
	}

	seed, err := strconv.ParseInt(getEnv("SEED", "0"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid SEED value: %w", err)
	}
	cfg.Seed = seed

	enabled, err := strconv.ParseBool(getEnv("TELEMETRY_ENABLED", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid TELEMETRY_ENABLED value: %w", err)
	}
	cfg.TelemetryEnabled = enabled

	balance, err := LoadBalance(cfg.BalanceFile)
	if err != nil {
		return nil, err
	}
	cfg.Balance = balance

	return cfg, nil
}

// LoadBalance overlays the YAML file at path onto DefaultBalance.
// A missing file is not an error.
func LoadBalance(path string) (Balance, error) {
	b := DefaultBalance()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return b, nil
		}
		return b, fmt.Errorf("read balance file: %w", err)
	}
	if err := yaml.Unmarshal(data, &b); err != nil {
		return b, fmt.Errorf("parse balance file %s: %w", path, err)
	}
	if err := b.Validate(); err != nil {
		return b, fmt.Errorf("balance file %s: %w", path, err)
	}
	return b, nil
}

// MaxWorldSide is the largest world width or height; saves use the same limit.
const MaxWorldSide = 100

// Validate rejects tunings the game cannot run with.
func (b Balance) Validate() error {
	var problems []string
	if b.WorldWidth < 1 || b.WorldHeight < 1 || b.WorldWidth > MaxWorldSide || b.WorldHeight > MaxWorldSide {
		problems = append(problems, fmt.Sprintf("world dimensions must be between 1 and %d", MaxWorldSide))
	}
	if b.HeroHealth < 1 {
		problems = append(problems, "hero_health must be positive")
	}
	for name, p := range map[string]float64{
		"move_encounter_chance":    b.MoveEncounterChance,
		"explore_encounter_chance": b.ExploreEncounterChance,
		"move_loot_chance":         b.MoveLootChance,
		"explore_loot_chance":      b.ExploreLootChance,
		"quiet_loot_chance":        b.QuietLootChance,
	} {
		if p < 0 || p > 1 {
			problems = append(problems, name+" must be within [0,1]")
		}
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// OTelHeaders builds the OTLP header string for Honeycomb, or "" without an API key.
func (c *Config) OTelHeaders() string {
	if c.HoneycombAPIKey == "" {
		return ""
	}
	return fmt.Sprintf("x-honeycomb-team=%s,x-honeycomb-dataset=%s", c.HoneycombAPIKey, c.HoneycombDataset)
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
