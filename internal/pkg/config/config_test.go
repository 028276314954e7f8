package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFrom(t *testing.T, env map[string]string) (*Config, error) {
	t.Helper()
	return load(context.Background(), envconfig.MapLookuper(env))
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := loadFrom(t, map[string]string{"JWT_SECRET": "secret"})
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "attendance_system", cfg.Mongo.Database)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 5*time.Second, cfg.Redis.LockTTL)
	assert.Equal(t, 587, cfg.SMTP.Port)
	assert.Equal(t, 4, cfg.SMTP.Workers)

	fence := cfg.Policy.Fence()
	assert.Equal(t, 23.256394, fence.Lat)
	assert.Equal(t, 77.458534, fence.Lng)
	assert.Equal(t, 0.5, fence.RadiusKm)

	m := cfg.Policy.Matcher()
	assert.Equal(t, 0.4, m.Threshold)
	assert.Equal(t, 128, m.Dimension)

	sched, err := cfg.Policy.Schedule()
	require.NoError(t, err)
	assert.Equal(t, 19, sched.Admission.Start)
	assert.Equal(t, 20, sched.Admission.End)
	assert.Equal(t, 23, sched.Tracking.End)
	assert.Equal(t, time.Local, sched.Location)
}

func TestLoad_EnvOverrides(t *testing.T) {
	cfg, err := loadFrom(t, map[string]string{
		"JWT_SECRET":           "secret",
		"ADMISSION_RADIUS_KM":  "1.25",
		"FACE_MATCH_THRESHOLD": "0.35",
		"BIOMETRIC_DIMENSION":  "0",
		"TIMEZONE":             "UTC",
		"REDIS_ENABLED":        "false",
	})
	require.NoError(t, err)

	assert.Equal(t, 1.25, cfg.Policy.RadiusKm)
	assert.Equal(t, 0.35, cfg.Policy.MatchThreshold)
	assert.Equal(t, 0, cfg.Policy.BiometricDimension)
	assert.False(t, cfg.Redis.Enabled)

	sched, err := cfg.Policy.Schedule()
	require.NoError(t, err)
	assert.Equal(t, "UTC", sched.Location.String())
}

func TestLoad_PolicyFileOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"reference_lat: 12.9716\n"+
			"reference_lng: 77.5946\n"+
			"admission_start_hour: 18\n"+
			"admission_end_hour: 21\n",
	), 0o600))

	cfg, err := loadFrom(t, map[string]string{
		"JWT_SECRET":          "secret",
		"POLICY_FILE":         path,
		"ADMISSION_RADIUS_KM": "0.75",
	})
	require.NoError(t, err)

	assert.Equal(t, 12.9716, cfg.Policy.ReferenceLat)
	assert.Equal(t, 77.5946, cfg.Policy.ReferenceLng)
	assert.Equal(t, 18, cfg.Policy.AdmissionStartHour)
	assert.Equal(t, 21, cfg.Policy.AdmissionEndHour)
	assert.Equal(t, 0.75, cfg.Policy.RadiusKm, "keys absent from the file keep the env value")
	assert.Equal(t, 23, cfg.Policy.TrackingEndHour)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"missing secret":   {},
		"zero radius":      {"JWT_SECRET": "s", "ADMISSION_RADIUS_KM": "0"},
		"zero threshold":   {"JWT_SECRET": "s", "FACE_MATCH_THRESHOLD": "0"},
		"latitude":         {"JWT_SECRET": "s", "REFERENCE_LAT": "91"},
		"inverted window":  {"JWT_SECRET": "s", "ADMISSION_START_HOUR": "21", "ADMISSION_END_HOUR": "20"},
		"unknown timezone": {"JWT_SECRET": "s", "TIMEZONE": "Mars/Olympus"},
		"missing file":     {"JWT_SECRET": "s", "POLICY_FILE": "/nonexistent/policy.yaml"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := loadFrom(t, env)
			assert.Error(t, err)
		})
	}
}
