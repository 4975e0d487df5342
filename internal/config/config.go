package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

// ErrIncomplete is returned by Validate when required database settings are missing.
var ErrIncomplete = errors.New("incomplete database configuration")

// DBConfig holds the relational store connection parameters.
type DBConfig struct {
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// Config holds application level configuration loaded from the secrets file and environment.
type Config struct {
	ServerPort  string
	DB          DBConfig
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	JWTSecret   string
	CacheTTL    time.Duration
	LogLevel    string
	SwaggerHost string
	// SecretsFile is the secrets file that was read, empty when none was found.
	SecretsFile string
}

// Load builds Config from secrets.toml, .env and the environment, in increasing precedence.
func Load() *Config {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	secrets := readSecrets()

	driver := strings.ToLower(getEnv("DB_DRIVER", secrets.GetString("postgres.driver")))
	if driver == "" {
		driver = DriverPostgres
	}

	return &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),
		DB: DBConfig{
			Driver:   driver,
			Host:     getEnv("DB_HOST", secrets.GetString("postgres.host")),
			Port:     getEnv("DB_PORT", firstNonEmpty(secrets.GetString("postgres.port"), defaultPort(driver))),
			User:     getEnv("DB_USER", secrets.GetString("postgres.user")),
			Password: getEnv("DB_PASSWORD", secrets.GetString("postgres.password")),
			Name:     getEnv("DB_NAME", secrets.GetString("postgres.database")),
			SSLMode:  getEnv("DB_SSLMODE", firstNonEmpty(secrets.GetString("postgres.sslmode"), "require")),
		},
		RedisAddr:   os.Getenv("REDIS_ADDR"),
		RedisDB:     getEnvInt("REDIS_DB", 0),
		RedisPass:   os.Getenv("REDIS_PASSWORD"),
		JWTSecret:   getEnv("JWT_SECRET", "change-me"),
		CacheTTL:    getEnvDuration("CACHE_TTL", 5*time.Minute),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		SwaggerHost: os.Getenv("SWAGGER_HOST"),
		SecretsFile: secrets.ConfigFileUsed(),
	}
}

// readSecrets loads the optional secrets.toml. SECRETS_FILE pins an explicit path.
func readSecrets() *viper.Viper {
	v := viper.New()
	if path := os.Getenv("SECRETS_FILE"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("secrets")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		v.AddConfigPath("./.streamlit")
		v.AddConfigPath("$HOME/.surveydesk")
	}
	if err := v.ReadInConfig(); err != nil {
		// Environment variables alone are a valid setup; Validate reports what is still missing.
		return viper.New()
	}
	return v
}

// Validate reports every missing database setting.
func (c *Config) Validate() error {
	var missing []string
	switch c.DB.Driver {
	case DriverSQLite:
		if c.DB.Name == "" {
			missing = append(missing, "DB_NAME")
		}
	case DriverPostgres, DriverMySQL:
		required := []struct{ key, value string }{
			{"DB_HOST", c.DB.Host},
			{"DB_NAME", c.DB.Name},
			{"DB_USER", c.DB.User},
			{"DB_PASSWORD", c.DB.Password},
			{"DB_PORT", c.DB.Port},
		}
		for _, r := range required {
			if r.value == "" {
				missing = append(missing, r.key)
			}
		}
	default:
		return fmt.Errorf("%w: unsupported DB_DRIVER %q", ErrIncomplete, c.DB.Driver)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrIncomplete, strings.Join(missing, ", "))
	}
	return nil
}

// DSN renders the driver specific data source name.
func (c DBConfig) DSN() string {
	switch c.Driver {
	case DriverMySQL:
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			c.User, c.Password, c.Host, c.Port, c.Name)
	case DriverSQLite:
		return c.Name
	default:
		return "host=" + c.Host +
			" port=" + c.Port +
			" user=" + c.User +
			" password=" + c.Password +
			" dbname=" + c.Name +
			" sslmode=" + c.SSLMode
	}
}

// SetupInstructions explains to the operator how to provide the database settings.
func (c *Config) SetupInstructions() string {
	var b strings.Builder
	b.WriteString("Database configuration required.\n\n")
	if err := c.Validate(); err != nil {
		b.WriteString(err.Error())
		b.WriteString("\n\n")
	}
	b.WriteString("Provide the connection either as a secrets.toml file (./secrets.toml, ./.streamlit/secrets.toml,\n")
	b.WriteString("$HOME/.surveydesk/secrets.toml or the path in SECRETS_FILE):\n\n")
	b.WriteString("  [postgres]\n")
	b.WriteString("  host = \"db.example.com\"\n")
	b.WriteString("  database = \"surveys\"\n")
	b.WriteString("  user = \"surveys_owner\"\n")
	b.WriteString("  password = \"<password>\"\n")
	b.WriteString("  port = 5432\n\n")
	b.WriteString("or as environment variables: DB_HOST, DB_NAME, DB_USER, DB_PASSWORD, DB_PORT\n")
	b.WriteString("(DB_DRIVER=postgres|mysql|sqlite, DB_SSLMODE for postgres).\n")
	return b.String()
}

func defaultPort(driver string) string {
	switch driver {
	case DriverPostgres:
		return "5432"
	case DriverMySQL:
		return "3306"
	default:
		return ""
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil && parsed > 0 {
			return parsed
		}
	}
	return def
}
