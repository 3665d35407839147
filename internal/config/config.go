package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const defaultConfigPath = "./config/local.yaml"

const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

type Config struct {
	Env           string `yaml:"env" env:"ENV" env-default:"prod"`
	StorageDriver string `yaml:"storage_driver" env:"STORAGE_DRIVER" env-default:"sqlite"`
	StoragePath   string `yaml:"storage_path" env:"STORAGE_PATH" env-default:"./checkmaster.db"`
	FrontendDir   string `yaml:"frontend_dir" env:"FRONTEND_DIR" env-default:"./frontend-dist"`
	ErrorLogPath  string `yaml:"error_log" env:"ERROR_LOG" env-default:"errors.log"`
	HTTPServer    `yaml:"http_server"`
	MySQL         `yaml:"mysql"`
	Runner        `yaml:"runner"`

	// named: Vision.Timeout would collide with HTTPServer.Timeout
	Vision Vision `yaml:"vision"`

	AllowedOrigins []string `yaml:"allowed_origins" env:"ALLOWED_ORIGINS" env-separator:"," env-default:"http://localhost:5173"`

	// Basic auth over template mutations; disabled when AdminLogin is empty.
	AdminLogin string `yaml:"admin_login" env:"ADMIN_LOGIN"`
	AdminPass  string `yaml:"admin_pass" env:"ADMIN_PASS"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:4001"`
	Timeout     time.Duration `yaml:"timeout" env:"HTTP_TIMEOUT" env-default:"15s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

type MySQL struct {
	DBUser     string `yaml:"db_user" env:"DB_USER"`
	DBPassword string `yaml:"db_password" env:"DB_PASSWORD"`
	DBHost     string `yaml:"db_host" env:"DB_HOST" env-default:"localhost"`
	DBPort     int    `yaml:"db_port" env:"DB_PORT" env-default:"3306"`
	DBName     string `yaml:"db_name" env:"DB_NAME"`
}

type Vision struct {
	APIKey       string        `yaml:"api_key" env:"GEMINI_API_KEY"`
	Model        string        `yaml:"model" env:"GEMINI_MODEL" env-default:"gemini-2.5-flash"`
	Timeout      time.Duration `yaml:"timeout" env:"VISION_TIMEOUT" env-default:"30s"`
	MaxImageSize int64         `yaml:"max_image_size" env:"VISION_MAX_IMAGE_SIZE" env-default:"10485760"`
}

type Runner struct {
	EnforceRequired bool `yaml:"enforce_required" env:"RUNNER_ENFORCE_REQUIRED" env-default:"false"`
}

// Load reads the YAML file at path, or only the environment when the file
// does not exist, and validates the result.
func Load(path string) (*Config, error) {
	const op = "config.Load"

	// .env is optional
	_ = godotenv.Load()

	var cfg Config

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	} else if errors.Is(err, os.ErrNotExist) {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	} else {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.StorageDriver {
	case DriverSQLite:
		if c.StoragePath == "" {
			return errors.New("storage_path is required for sqlite")
		}
	case DriverMySQL:
		if c.DBUser == "" || c.DBName == "" {
			return errors.New("mysql.db_user and mysql.db_name are required for mysql")
		}
	default:
		return fmt.Errorf("unknown storage_driver %q", c.StorageDriver)
	}
	if c.AdminLogin != "" && c.AdminPass == "" {
		return errors.New("admin_pass is required when admin_login is set")
	}
	return nil
}

func MustConfig() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}

	return cfg
}
