package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"

	"github.com/MahimaAnade/GPS-Attendance-system/internal/core/biometric"
	"github.com/MahimaAnade/GPS-Attendance-system/internal/core/geo"
	"github.com/MahimaAnade/GPS-Attendance-system/internal/core/schedule"
)

type Config struct {
	Port       string        `env:"PORT,       default=8080"`
	Env        string        `env:"ENV,        default=development"`
	JWTSecret  string        `env:"JWT_SECRET"`
	LogLevel   string        `env:"LOG_LEVEL,  default=info"`
	TokenTTL   time.Duration `env:"TOKEN_TTL,  default=24h"`
	PolicyFile string        `env:"POLICY_FILE"`

	Mongo  MongoConfig
	Redis  RedisConfig
	SMTP   SMTPConfig
	Policy PolicyConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=attendance_system"`
}

// RedisConfig backs the cross-instance admission lock. With Enabled false the
// ledger's unique index alone settles concurrent admissions.
type RedisConfig struct {
	Enabled bool          `env:"REDIS_ENABLED,      default=true"`
	Addr    string        `env:"REDIS_ADDR,         default=localhost:6379"`
	DB      int           `env:"REDIS_DB,           default=0"`
	LockTTL time.Duration `env:"ADMISSION_LOCK_TTL, default=5s"`
}

// SMTPConfig configures reset notifications. An empty Host logs notices
// instead of mailing them.
type SMTPConfig struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT,      default=587"`
	Username string `env:"SMTP_USER"`
	Password string `env:"SMTP_PASS"`
	From     string `env:"SMTP_FROM"`
	Workers  int    `env:"NOTIFY_WORKERS, default=4"`
}

// PolicyConfig is the attendance policy. Every key can also come from the
// YAML file named by POLICY_FILE.
type PolicyConfig struct {
	ReferenceLat       float64 `env:"REFERENCE_LAT,        default=23.256394" koanf:"reference_lat"`
	ReferenceLng       float64 `env:"REFERENCE_LNG,        default=77.458534" koanf:"reference_lng"`
	RadiusKm           float64 `env:"ADMISSION_RADIUS_KM,  default=0.5"       koanf:"admission_radius_km"`
	MatchThreshold     float64 `env:"FACE_MATCH_THRESHOLD, default=0.4"       koanf:"face_match_threshold"`
	BiometricDimension int     `env:"BIOMETRIC_DIMENSION,  default=128"       koanf:"biometric_dimension"`
	AdmissionStartHour int     `env:"ADMISSION_START_HOUR, default=19"        koanf:"admission_start_hour"`
	AdmissionEndHour   int     `env:"ADMISSION_END_HOUR,   default=20"        koanf:"admission_end_hour"`
	TrackingStartHour  int     `env:"TRACKING_START_HOUR,  default=19"        koanf:"tracking_start_hour"`
	TrackingEndHour    int     `env:"TRACKING_END_HOUR,    default=23"        koanf:"tracking_end_hour"`
	Timezone           string  `env:"TIMEZONE,             default=Local"     koanf:"timezone"`
	LiveLookupWorkers  int     `env:"LIVE_LOOKUP_WORKERS,  default=8"         koanf:"live_lookup_workers"`
}

// Load reads configuration from environment variables using go-envconfig and
// then applies the policy file, if any.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if cfg.PolicyFile != "" {
		if err := loadPolicyFile(cfg.PolicyFile, &cfg.Policy); err != nil {
			return nil, fmt.Errorf("config: policy file %s: %w", cfg.PolicyFile, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// Validate rejects settings the engine cannot run with.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set")
	}
	p := c.Policy
	if p.ReferenceLat < -90 || p.ReferenceLat > 90 || p.ReferenceLng < -180 || p.ReferenceLng > 180 {
		return fmt.Errorf("reference point %f,%f out of range", p.ReferenceLat, p.ReferenceLng)
	}
	if p.RadiusKm <= 0 {
		return errors.New("admission radius must be positive")
	}
	if p.MatchThreshold <= 0 {
		return errors.New("face match threshold must be positive")
	}
	if p.BiometricDimension < 0 {
		return errors.New("biometric dimension must not be negative")
	}
	if _, err := p.Schedule(); err != nil {
		return err
	}
	return nil
}

func (p PolicyConfig) Fence() geo.Fence {
	return geo.Fence{Lat: p.ReferenceLat, Lng: p.ReferenceLng, RadiusKm: p.RadiusKm}
}

func (p PolicyConfig) Matcher() biometric.Matcher {
	return biometric.NewMatcher(p.MatchThreshold, p.BiometricDimension)
}

// Schedule resolves the time zone and validates both windows.
func (p PolicyConfig) Schedule() (schedule.Policy, error) {
	loc := time.Local
	if p.Timezone != "" && p.Timezone != "Local" {
		var err error
		if loc, err = time.LoadLocation(p.Timezone); err != nil {
			return schedule.Policy{}, fmt.Errorf("timezone %q: %w", p.Timezone, err)
		}
	}

	sp := schedule.Policy{
		Admission: schedule.HourRange{Start: p.AdmissionStartHour, End: p.AdmissionEndHour},
		Tracking:  schedule.HourRange{Start: p.TrackingStartHour, End: p.TrackingEndHour},
		Location:  loc,
	}
	if err := sp.Validate(); err != nil {
		return schedule.Policy{}, err
	}
	return sp, nil
}
