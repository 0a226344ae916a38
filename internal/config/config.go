package config

import (
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/pkg/errors"
)

type Config struct {
	BaseURL     string `env:"BASE_URL" env-required:"true"`
	ExecutePath string `env:"EXECUTE_PATH" env-default:"/challenges/execute/"`
	SubmitPath  string `env:"SUBMIT_PATH" env-default:"/challenges/submit/"`

	CSRFHeader  string `env:"CSRF_HEADER" env-default:"X-CSRFToken"`
	CSRFToken   string `env:"CSRF_TOKEN"`
	CSRFPageURL string `env:"CSRF_PAGE_URL"`
	CSRFCookie  string `env:"CSRF_COOKIE"`
	SessionID   string `env:"SESSION_ID"`

	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT" env-default:"0s"`
	ReloadDelay time.Duration `env:"RELOAD_DELAY" env-default:"2s"`
	Serialize   bool          `env:"SERIALIZE" env-default:"false"`
	LogLevel    string        `env:"LOG_LEVEL" env-default:"warn"`

	StarterDir     string `env:"STARTER_DIR"`
	StarterPattern string `env:"STARTER_PATTERN" env-default:"challenges/{id}/starter.py"`

	MinIOHost     string `env:"MINIO_HOST"`
	MinIOLogin    string `env:"MINIO_LOGIN"`
	MinIOPassword string `env:"MINIO_PASSWORD"`
	MinIOBucket   string `env:"MINIO_BUCKET" env-default:"tasks"`
	MinIOSecure   bool   `env:"MINIO_SECURE" env-default:"false"`

	RabbitMQEnabled  bool   `env:"RABBIT_ENABLED" env-default:"false"`
	RabbitMQHost     string `env:"RABBIT_HOST" env-default:"127.0.0.1"`
	RabbitMQPort     int    `env:"RABBIT_PORT" env-default:"5672"`
	RabbitMQUser     string `env:"RABBIT_USER"`
	RabbitMQPassword string `env:"RABBIT_PASSWORD"`
	RabbitMQQueue    string `env:"RABBIT_QUEUE" env-default:"console-events"`
}

// MinIOEnabled reports whether starter code should come from object storage.
func (c *Config) MinIOEnabled() bool {
	return c.MinIOHost != ""
}

func NewConfig() (*Config, error) {
	return Load(".env")
}

// Load reads path if it exists and then the environment, which wins.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	var err error
	if _, statErr := os.Stat(path); statErr == nil {
		err = cleanenv.ReadConfig(path, cfg)
	} else {
		err = cleanenv.ReadEnv(cfg)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config")
	}
	if cfg.RabbitMQEnabled && (cfg.RabbitMQUser == "" || cfg.RabbitMQPassword == "") {
		return nil, errors.New("RABBIT_USER and RABBIT_PASSWORD are required when RABBIT_ENABLED is set")
	}
	if cfg.MinIOEnabled() && (cfg.MinIOLogin == "" || cfg.MinIOPassword == "") {
		return nil, errors.New("MINIO_LOGIN and MINIO_PASSWORD are required when MINIO_HOST is set")
	}

	return cfg, nil
}
