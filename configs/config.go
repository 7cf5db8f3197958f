package configs

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

var (
	config *Config
	once   sync.Once
)

type Config struct {
	Viper *viper.Viper
}

// GetConfig returns the process wide configuration. Values come from defaults,
// an optional config.yaml (./ or ./configs) and XELA_* environment variables.
func GetConfig() *Config {
	once.Do(func() {
		config = Load("")
	})
	return config
}

// Load builds a fresh Config. A non-empty path forces that config file.
func Load(path string) *Config {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix("XELA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn().Err(err).Msg("failed to read config file, using defaults")
		}
	}

	return &Config{Viper: v}
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("service.name", "xelaconnect")

	v.SetDefault("api.base_url", "http://localhost:8000")
	v.SetDefault("api.token", "")
	v.SetDefault("http.timeout", 10*time.Second)

	v.SetDefault("poll.interval", 3*time.Second)
	v.SetDefault("poll.max_interval", 30*time.Second)
	v.SetDefault("poll.randomization", 0.0)

	v.SetDefault("push.enabled", false)
	v.SetDefault("push.url", "ws://localhost:8000/ws/messaging")
	v.SetDefault("push.resync_interval", 30*time.Second)

	v.SetDefault("storage.path", defaultStoragePath())
	v.SetDefault("storage.token_key", "token")

	v.SetDefault("viewer.id", "")

	v.SetDefault("server.address", ":8000")
	v.SetDefault("jwt.secret", "aycEW3OtV+axBFZQL4cplAVRFMhSEc+xRrcHXxhTM8U=")
	v.SetDefault("jwt.expiration_time", 86400)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.channel", "messaging_channel")

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.name", "xelaconnect")
	v.SetDefault("database.ssl", "disable")
	v.SetDefault("database.timezone", "UTC")
}

func defaultStoragePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".xelaconnect", "storage.yaml")
	}
	return filepath.Join(home, ".xelaconnect", "storage.yaml")
}

func (c *Config) PollInterval() time.Duration {
	return c.Viper.GetDuration("poll.interval")
}

func (c *Config) PollMaxInterval() time.Duration {
	return c.Viper.GetDuration("poll.max_interval")
}

func (c *Config) HTTPTimeout() time.Duration {
	return c.Viper.GetDuration("http.timeout")
}

func (c *Config) JwtKey() []byte {
	return []byte(c.Viper.GetString("jwt.secret"))
}
