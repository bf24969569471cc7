package config

import (
	"flag"
	"log"
	"os"
	"sync"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type (
	Config struct {
		App      `yaml:"app"`
		HTTP     `yaml:"http"`
		Log      `yaml:"logger"`
		PG       `yaml:"postgres"`
		Notifier `yaml:"notifier"`
	}

	App struct {
		Env     string `yaml:"env"     env-default:"local"`
		Name    string `yaml:"name"    env-default:"remind-go"`
		Version string `yaml:"version" env-required:"true" env:"APP_VERSION"`
	}

	HTTP struct {
		IP         string        `yaml:"ip"           env-default:"0.0.0.0"`
		Port       string        `yaml:"port"         env-default:"8082"`
		Timeout    time.Duration `yaml:"timeout"      env-default:"4s"`
		IdleTimout time.Duration `yaml:"idle_timeout" env-default:"60s"`
		// User left empty disables basic auth.
		User     string `yaml:"user"`
		Password string `yaml:"password" env:"HTTP_SERVER_PASSWORD"`
		CORS     struct {
			AllowedMethods     []string `yaml:"allowed_methods"`
			AllowedOrigins     []string `yaml:"allowed_origins"`
			AllowCredentials   bool     `yaml:"allow_credentials"`
			AllowedHeaders     []string `yaml:"allowed_headers"`
			OptionsPassthrough bool     `yaml:"options_passthrough"`
			ExposedHeaders     []string `yaml:"exposed_headers"`
			Debug              bool     `yaml:"debug"`
		} `yaml:"cors"`
	}

	Log struct {
		Level string `yaml:"log_level" env-required:"true" env:"LOG_LEVEL"`
	}

	PG struct {
		PoolMax int `yaml:"pool_max" env-default:"2"`
		// URL left empty selects the in-memory store (local runs).
		URL string `yaml:"url" env:"PG_URL"`
	}

	Notifier struct {
		// Permission is the platform permission decision: granted, denied
		// or undecided (ask on first use).
		Permission string `yaml:"permission" env-default:"undecided" env:"NOTIFIER_PERMISSION"`
		// AttachmentDir is the app-private directory notification image
		// attachments are copied into.
		AttachmentDir string `yaml:"attachment_dir" env-default:"./data/notifications" env:"NOTIFIER_ATTACHMENT_DIR"`
		// MaxScheduled bounds the number of concurrently armed triggers,
		// 0 means unbounded.
		MaxScheduled int `yaml:"max_scheduled" env-default:"64"`
	}
)

const (
	EnvConfigPathName  = "CONFIG-PATH"
	FlagConfigPathName = "config"
)

var (
	configPath string
	instance   *Config
	once       sync.Once
)

// GetConfig returns app configs.
func GetConfig() *Config {
	once.Do(func() {
		flag.StringVar(
			&configPath,
			FlagConfigPathName,
			"./configs/config.yml",
			"this is app config file",
		)
		flag.Parse()

		log.Print("config init")

		if configPath == "" {
			configPath = os.Getenv(EnvConfigPathName)
		}

		if configPath == "" {
			log.Fatal("config path is required")
		}

		instance = &Config{}

		if err := cleanenv.ReadConfig(configPath, instance); err != nil {
			helpText := "Remind-Go - Reminder Scheduling Service"
			help, _ := cleanenv.GetDescription(instance, &helpText)
			log.Print(help)
			log.Fatal(err)
		}
	})
	return instance
}
