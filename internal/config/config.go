package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/rhyrak/section-scheduler/internal/scheduler"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	Delimiter rune

	Database  DatabaseConfig
	Log       LogConfig
	Scheduler SchedulerConfig
}

type DatabaseConfig struct {
	Enabled      bool
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type LogConfig struct {
	Level  string
	Format string
}

// SchedulerConfig holds the engine settings as read from the environment.
// Empty lists keep the engine defaults.
type SchedulerConfig struct {
	Seed                  int64
	MaxAttempts           int
	RoomAffinity          float64
	BalanceBias           float64
	BaseTimes             []string
	SlotDuration          time.Duration
	LabRooms              []string
	MajorRooms            []string
	AuditoriumRooms       []string
	GymRooms              []string
	SaturdayExcludedRooms []string
	MajorCodes            []string
	SynchronizedCodes     []string
	PECodes               []string
	SkewRules             string
	Groups                []string
	DefaultSections       int
}

// Load reads .env, the optional config file at path and the environment.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	if path == "" {
		path = ".env"
	}
	v := viper.New()
	v.SetConfigFile(path)
	if strings.HasSuffix(path, ".env") {
		v.SetConfigType("env")
	}
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}
	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.Delimiter = ','
	if d := []rune(v.GetString("CSV_DELIMITER")); len(d) == 1 {
		cfg.Delimiter = d[0]
	}

	cfg.Database = DatabaseConfig{
		Enabled:      v.GetBool("DB_ENABLED"),
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Scheduler = SchedulerConfig{
		Seed:                  v.GetInt64("SCHEDULER_SEED"),
		MaxAttempts:           v.GetInt("SCHEDULER_MAX_ATTEMPTS"),
		RoomAffinity:          v.GetFloat64("SCHEDULER_ROOM_AFFINITY"),
		BalanceBias:           v.GetFloat64("SCHEDULER_BALANCE_BIAS"),
		BaseTimes:             splitAndTrim(v.GetString("SCHEDULER_BASE_TIMES")),
		SlotDuration:          time.Duration(v.GetInt("SCHEDULER_SLOT_MINUTES")) * time.Minute,
		LabRooms:              splitAndTrim(v.GetString("SCHEDULER_LAB_ROOMS")),
		MajorRooms:            splitAndTrim(v.GetString("SCHEDULER_MAJOR_ROOMS")),
		AuditoriumRooms:       splitAndTrim(v.GetString("SCHEDULER_AUDITORIUM_ROOMS")),
		GymRooms:              splitAndTrim(v.GetString("SCHEDULER_GYM_ROOMS")),
		SaturdayExcludedRooms: splitAndTrim(v.GetString("SCHEDULER_SATURDAY_EXCLUDED_ROOMS")),
		MajorCodes:            splitAndTrim(v.GetString("SCHEDULER_MAJOR_CODES")),
		SynchronizedCodes:     splitAndTrim(v.GetString("SCHEDULER_SYNCHRONIZED_CODES")),
		PECodes:               splitAndTrim(v.GetString("SCHEDULER_PE_CODES")),
		SkewRules:             v.GetString("SCHEDULER_SKEW_RULES"),
		Groups:                splitAndTrim(v.GetString("SCHEDULER_GROUPS")),
		DefaultSections:       v.GetInt("SCHEDULER_DEFAULT_SECTIONS"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("CSV_DELIMITER", ",")

	v.SetDefault("DB_ENABLED", false)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "section_scheduler")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("SCHEDULER_SEED", 1)
	v.SetDefault("SCHEDULER_MAX_ATTEMPTS", 1)
	v.SetDefault("SCHEDULER_ROOM_AFFINITY", 0.6)
	v.SetDefault("SCHEDULER_BALANCE_BIAS", 0.5)
	v.SetDefault("SCHEDULER_SLOT_MINUTES", 80)
	v.SetDefault("SCHEDULER_SKEW_RULES", "Third:Second|Third:0.3")
	v.SetDefault("SCHEDULER_GROUPS", "A,B")
	v.SetDefault("SCHEDULER_DEFAULT_SECTIONS", 3)
}

// SchedulerConfiguration converts the settings into an engine configuration.
func (c *Config) SchedulerConfiguration() (*scheduler.Configuration, error) {
	s := c.Scheduler
	out := scheduler.NewDefaultConfiguration()
	out.Seed = s.Seed
	out.MaxAttempts = s.MaxAttempts
	out.RoomAffinity = s.RoomAffinity
	out.BalanceBias = s.BalanceBias
	if s.SlotDuration > 0 {
		out.SlotDuration = s.SlotDuration
	}
	override(&out.BaseTimes, s.BaseTimes)
	override(&out.LabRooms, s.LabRooms)
	override(&out.MajorRooms, s.MajorRooms)
	override(&out.AuditoriumRooms, s.AuditoriumRooms)
	override(&out.GymRooms, s.GymRooms)
	override(&out.SaturdayExcludedRooms, s.SaturdayExcludedRooms)
	override(&out.MajorCodes, s.MajorCodes)
	override(&out.SynchronizedCodes, s.SynchronizedCodes)
	override(&out.PhysicalEducation, s.PECodes)

	rules, err := ParseSkewRules(s.SkewRules)
	if err != nil {
		return nil, err
	}
	out.SkewRules = rules
	return out, nil
}

// override replaces a default list when the setting is present. "none"
// clears it.
func override(dst *[]string, values []string) {
	switch {
	case len(values) == 1 && strings.EqualFold(values[0], "none"):
		*dst = nil
	case len(values) > 0:
		*dst = values
	}
}

// ParseSkewRules reads "Third:Second|Third:0.3;Fourth:First:0.1". An empty
// string or "none" disables skew.
func ParseSkewRules(raw string) ([]scheduler.SkewRule, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "none") {
		return nil, nil
	}
	var rules []scheduler.SkewRule
	for _, part := range strings.Split(raw, ";") {
		fields := strings.Split(strings.TrimSpace(part), ":")
		if len(fields) != 3 {
			return nil, fmt.Errorf("invalid skew rule %q, want year:trimester|trimester:probability", part)
		}
		p, err := strconv.ParseFloat(strings.TrimSpace(fields[2]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid skew probability in %q: %w", part, err)
		}
		var trimesters []string
		for _, t := range strings.Split(fields[1], "|") {
			if t = strings.TrimSpace(t); t != "" {
				trimesters = append(trimesters, t)
			}
		}
		rules = append(rules, scheduler.SkewRule{
			YearLevel:   strings.TrimSpace(fields[0]),
			Trimesters:  trimesters,
			Probability: p,
		})
	}
	return rules, nil
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
