package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, key := range []string{"PLAYER_NAME", "WEAPONS_FILE", "SAVE_FILE", "BALANCE_FILE", "SEED", "TELEMETRY_ENABLED", "HONEYCOMB_API_KEY"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Hero", cfg.PlayerName)
	assert.Equal(t, "weapons.txt", cfg.WeaponsFile)
	assert.Equal(t, "savegame.json", cfg.SaveFile)
	assert.Equal(t, int64(0), cfg.Seed)
	assert.False(t, cfg.TelemetryEnabled)
	assert.Equal(t, DefaultBalance(), cfg.Balance)
	assert.Empty(t, cfg.OTelHeaders())
}

func TestLoadFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SEED", "42")
	t.Setenv("SAVE_FILE", "slot1.json")
	t.Setenv("TELEMETRY_ENABLED", "true")
	t.Setenv("HONEYCOMB_API_KEY", "abc")
	t.Setenv("HONEYCOMB_DATASET", "realm")
	t.Setenv("BALANCE_FILE", "missing.yaml")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, "slot1.json", cfg.SaveFile)
	assert.True(t, cfg.TelemetryEnabled)
	assert.Equal(t, "x-honeycomb-team=abc,x-honeycomb-dataset=realm", cfg.OTelHeaders())
}

func TestLoadInvalidSeed(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SEED", "lucky")

	_, err := Load()
	assert.ErrorContains(t, err, "SEED")
}

func TestLoadBalanceOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "balance.yaml")
	require.NoError(t, os.WriteFile(path, []byte("world_width: 16\nrest_heal: 40\nmove_encounter_chance: 0.1\n"), 0o644))

	b, err := LoadBalance(path)
	require.NoError(t, err)

	assert.Equal(t, 16, b.WorldWidth)
	assert.Equal(t, 10, b.WorldHeight, "unset keys keep defaults")
	assert.Equal(t, 40, b.RestHeal)
	assert.Equal(t, 0.1, b.MoveEncounterChance)
}

func TestLoadBalanceRejectsBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "balance.yaml")
	require.NoError(t, os.WriteFile(path, []byte("world_width: 0\nquiet_loot_chance: 1.5\n"), 0o644))

	_, err := LoadBalance(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "world dimensions")
	assert.Contains(t, err.Error(), "quiet_loot_chance")
}

func TestValidateCapsWorldSize(t *testing.T) {
	b := DefaultBalance()
	b.WorldHeight = MaxWorldSide
	assert.NoError(t, b.Validate())

	b.WorldWidth = MaxWorldSide + 1
	assert.ErrorContains(t, b.Validate(), "world dimensions must be between 1 and 100")
}

func TestLoadBalanceMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "balance.yaml")
	require.NoError(t, os.WriteFile(path, []byte("world_width: [1, 2\n"), 0o644))

	_, err := LoadBalance(path)
	assert.ErrorContains(t, err, "parse balance file")
}
