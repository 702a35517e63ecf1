package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	keys := []string{
		"ADMIN_APP_ENV",
		"ADMIN_APP_PORT",
		"ADMIN_TENANCY_ROOT_DOMAIN",
		"ADMIN_TENANCY_REGISTRATION_DOMAIN",
		"ADMIN_BOOTSTRAP_TIMEOUT",
		"ADMIN_COOKIE_SECURE",
		"ADMIN_COOKIE_SEAL_KEY",
		"ADMIN_DATABASE_DRIVER",
		"ADMIN_UPSTREAM_BASE_URL",
	}
	for _, k := range keys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "ocm-admin", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "3000", cfg.App.Port)
		assert.Equal(t, "", cfg.Tenancy.RootDomain)
		assert.Equal(t, "/login", cfg.Tenancy.LoginPath)
		assert.Equal(t, "/", cfg.Tenancy.HomePath)
		assert.Equal(t, "/register", cfg.Tenancy.RegisterPath)
		assert.Equal(t, time.Duration(0), cfg.Bootstrap.Timeout)
		assert.Equal(t, "sqlite", cfg.Database.Driver)
		assert.Equal(t, "lax", cfg.Cookie.SameSite)
		assert.False(t, cfg.Redis.Enabled)
	})

	t.Run("loads values from environment variables with ADMIN prefix", func(t *testing.T) {
		t.Setenv("ADMIN_APP_PORT", "9000")
		t.Setenv("ADMIN_TENANCY_ROOT_DOMAIN", "ocm.vn")
		t.Setenv("ADMIN_BOOTSTRAP_TIMEOUT", "5s")
		t.Setenv("ADMIN_DATABASE_DRIVER", "postgres")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "ocm.vn", cfg.Tenancy.RootDomain)
		assert.Equal(t, 5*time.Second, cfg.Bootstrap.Timeout)
		assert.Equal(t, "postgres", cfg.Database.Driver)
	})

	t.Run("rejects unknown database driver", func(t *testing.T) {
		t.Setenv("ADMIN_DATABASE_DRIVER", "mysql")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.driver")
	})
}

func TestValidate_Production(t *testing.T) {
	base := func() *Config {
		cfg := &Config{App: AppConfig{Env: "production"}}
		applyDefaults(cfg)
		cfg.Tenancy.RootDomain = "ocm.vn"
		cfg.Cookie.Secure = true
		cfg.Cookie.SealKey = "0123456789abcdef0123456789abcdef"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid production config", mutate: func(*Config) {}},
		{
			name:    "missing root domain",
			mutate:  func(c *Config) { c.Tenancy.RootDomain = "" },
			wantErr: "tenancy.root_domain",
		},
		{
			name:    "insecure cookies",
			mutate:  func(c *Config) { c.Cookie.Secure = false },
			wantErr: "cookie.secure",
		},
		{
			name:    "missing seal key",
			mutate:  func(c *Config) { c.Cookie.SealKey = "" },
			wantErr: "cookie.seal_key",
		},
		{
			name: "postgres without tls",
			mutate: func(c *Config) {
				c.Database.Driver = "postgres"
				c.Database.SSLMode = "disable"
			},
			wantErr: "sslmode",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_SamplingRatio(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)
	cfg.Telemetry.SamplingRatio = 1.5

	err := cfg.validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sampling_ratio")
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "db",
		Port:     5432,
		User:     "admin",
		Password: "p@ss word",
		DBName:   "ocm_admin",
		SSLMode:  "require",
	}

	assert.Equal(t, "postgres://admin:p%40ss%20word@db:5432/ocm_admin?sslmode=require", d.DSN())
}

func TestRedisConfig_Addr(t *testing.T) {
	r := RedisConfig{Host: "cache", Port: 6380}
	assert.Equal(t, "cache:6380", r.Addr())
}
