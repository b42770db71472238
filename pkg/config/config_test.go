package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	cfg := fromViper(v)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, "en", cfg.Site.DefaultLanguage)
	assert.Equal(t, "/admin/login", cfg.Admin.SignInPath)
	assert.Equal(t, 12*time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, time.Hour, cfg.Reset.TTL)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.Nil(t, cfg.CORS.AllowedOrigins)
}

func TestOverrides(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("ALLOWED_ORIGINS", " https://court.example , ,https://admin.court.example")
	v.Set("JWT_EXPIRATION", "not-a-duration")
	v.Set("SITE_DEFAULT_LANGUAGE", "am")
	cfg := fromViper(v)

	assert.Equal(t, []string{"https://court.example", "https://admin.court.example"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 12*time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, "am", cfg.Site.DefaultLanguage)
}
