package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, ',', cfg.Delimiter)
	assert.False(t, cfg.Database.Enabled)
	assert.Equal(t, int64(1), cfg.Scheduler.Seed)
	assert.Equal(t, []string{"A", "B"}, cfg.Scheduler.Groups)

	sc, err := cfg.SchedulerConfiguration()
	require.NoError(t, err)
	assert.Equal(t, 0.6, sc.RoomAffinity)
	assert.Equal(t, 80*time.Minute, sc.SlotDuration)
	assert.Len(t, sc.BaseTimes, 9)
	require.Len(t, sc.SkewRules, 1)
	assert.Equal(t, "Third", sc.SkewRules[0].YearLevel)
	assert.Equal(t, []string{"Second", "Third"}, sc.SkewRules[0].Trimesters)
	assert.NoError(t, sc.Check())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SCHEDULER_SEED", "42")
	t.Setenv("SCHEDULER_ROOM_AFFINITY", "0.25")
	t.Setenv("SCHEDULER_LAB_ROOMS", "L1, L2")
	t.Setenv("SCHEDULER_BASE_TIMES", "8:00am,9:30am")
	t.Setenv("SCHEDULER_SLOT_MINUTES", "90")
	t.Setenv("SCHEDULER_SKEW_RULES", "none")
	t.Setenv("CSV_DELIMITER", ";")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, ';', cfg.Delimiter)

	sc, err := cfg.SchedulerConfiguration()
	require.NoError(t, err)
	assert.Equal(t, int64(42), sc.Seed)
	assert.Equal(t, 0.25, sc.RoomAffinity)
	assert.Equal(t, []string{"L1", "L2"}, sc.LabRooms)
	assert.Equal(t, []string{"8:00am", "9:30am"}, sc.BaseTimes)
	assert.Equal(t, 90*time.Minute, sc.SlotDuration)
	assert.Empty(t, sc.SkewRules)
}

func TestLoadClearsDefaultLists(t *testing.T) {
	t.Setenv("SCHEDULER_MAJOR_ROOMS", "none")
	t.Setenv("SCHEDULER_MAJOR_CODES", "NONE")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	sc, err := cfg.SchedulerConfiguration()
	require.NoError(t, err)
	assert.Empty(t, sc.MajorRooms)
	assert.Empty(t, sc.MajorCodes)
	assert.NotEmpty(t, sc.LabRooms)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scheduler.env")
	require.NoError(t, os.WriteFile(path, []byte("PORT=9090\nSCHEDULER_MAX_ATTEMPTS=4\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 4, cfg.Scheduler.MaxAttempts)
}

func TestParseSkewRules(t *testing.T) {
	rules, err := ParseSkewRules("Third:Second|Third:0.3; Fourth:First:0.1")
	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.Equal(t, 0.1, rules[1].Probability)
	assert.Equal(t, []string{"First"}, rules[1].Trimesters)

	_, err = ParseSkewRules("Third:0.3")
	assert.Error(t, err)
	_, err = ParseSkewRules("Third:Second:often")
	assert.Error(t, err)
}
