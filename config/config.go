// Application configuration loaded from config/config.yaml with
// environment-variable fallbacks for secrets.
package config

import (
	"log"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Queue         QueueConfig         `mapstructure:"queue"`
	RabbitMQ      RabbitMQConfig      `mapstructure:"rabbitmq"`
	Email         EmailConfig         `mapstructure:"email"`
	Chapa         ChapaConfig         `mapstructure:"chapa"`
	Notifications NotificationConfig  `mapstructure:"notifications"`
	Worker        WorkerConfig        `mapstructure:"worker"`
	App           AppConfig           `mapstructure:"app"`
}

type ServerConfig struct {
	AppVersion  string        `mapstructure:"appVersion"`
	Host        string        `mapstructure:"host" validate:"required"`
	Port        string        `mapstructure:"port" validate:"required"`
	Timeout     time.Duration `mapstructure:"timeout"`
	IdleTimeout time.Duration `mapstructure:"idle_timeout"`
	Env         string        `mapstructure:"environment"`
	Mode        string        `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`

	MaxRetries   int           `mapstructure:"max_retries"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	PoolTimeout  time.Duration `mapstructure:"pool_timeout"`
}

// QueueConfig selects the notification-queue driver. Supported drivers:
// "redis", "rabbitmq", "inline" (no queue, synchronous send).
type QueueConfig struct {
	Driver    string `mapstructure:"driver"`
	MainQueue string `mapstructure:"main_queue"`
	DLQ       string `mapstructure:"dlq"`
}

type RabbitMQConfig struct {
	URL       string `mapstructure:"url"`
	QueueName string `mapstructure:"queue_name"`
}

type EmailConfig struct {
	From     string `mapstructure:"from"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Enabled  bool   `mapstructure:"enabled"`
}

type ChapaConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	SecretKey string        `mapstructure:"secret_key"`
	Currency  string        `mapstructure:"currency"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

type NotificationConfig struct {
	MaxRetries int           `mapstructure:"max_retries"`
	RetryDelay time.Duration `mapstructure:"retry_delay"`
}

type WorkerConfig struct {
	CompletionInterval time.Duration `mapstructure:"completion_interval"`
}

type AppConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

func LoadConfig() (*viper.Viper, error) {

	viperInstance := viper.New()

	viperInstance.AddConfigPath("./config")
	viperInstance.SetConfigName("config")
	viperInstance.SetConfigType("yaml")

	setDefaults(viperInstance)

	err := viperInstance.ReadInConfig()

	if err != nil {
		return nil, err
	}
	return viperInstance, nil
}

func ParseConfig(v *viper.Viper) (*Config, error) {

	var c Config

	err := v.Unmarshal(&c)
	if err != nil {
		log.Fatalf("unable to decode config into struct, %v", err)
		return nil, err
	}

	// Secrets come from the environment when present.
	c.Database.Password = GetEnv("DB_PASSWORD", c.Database.Password)
	c.Chapa.SecretKey = GetEnv("CHAPA_SECRET_KEY", c.Chapa.SecretKey)
	c.Email.Password = GetEnv("EMAIL_PASSWORD", c.Email.Password)

	return &c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.mode", "debug")

	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)

	v.SetDefault("queue.driver", "redis")
	v.SetDefault("queue.main_queue", "travel_booking:tasks")
	v.SetDefault("queue.dlq", "travel_booking:dlq")

	v.SetDefault("chapa.base_url", "https://api.chapa.co/v1")
	v.SetDefault("chapa.currency", "USD")
	v.SetDefault("chapa.timeout", 10*time.Second)

	v.SetDefault("notifications.max_retries", 3)
	v.SetDefault("notifications.retry_delay", 60*time.Second)

	v.SetDefault("worker.completion_interval", 30*time.Minute)

	v.SetDefault("app.base_url", "http://localhost:8080")
}

func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
