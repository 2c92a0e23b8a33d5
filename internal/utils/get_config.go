package utils

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"
)

type Config struct {
	// Server configuration
	AppPort     string `yaml:"APP_PORT"`
	AppURL      string `yaml:"APP_URL"`
	Timezone    string `yaml:"TIMEZONE"`
	LogLevel    string `yaml:"LOG_LEVEL"`
	LogFormat   string `yaml:"LOG_FORMAT"`
	RateLimit   int    `yaml:"RATE_LIMIT"`
	CORSOrigins string `yaml:"CORS_ORIGINS"`

	// Database configuration
	DBDriver   string `yaml:"DB_DRIVER"`
	DBUser     string `yaml:"DB_USER"`
	DBName     string `yaml:"DB_NAME"`
	DBPassword string `yaml:"DB_PASSWORD"`
	DBPort     string `yaml:"DB_PORT"`
	DBHost     string `yaml:"DB_HOST"`
	DBPath     string `yaml:"DB_PATH"`

	// JWT configuration
	JWTSecret string `yaml:"JWT_SECRET"`

	// Redis (token revocation)
	RedisAddr     string `yaml:"REDIS_ADDR"`
	RedisPassword string `yaml:"REDIS_PASSWORD"`
	RedisDB       int    `yaml:"REDIS_DB"`

	// Mailing configuration
	SMTPHost         string `yaml:"SMTP_HOST"`
	SMTPPort         string `yaml:"SMTP_PORT"`
	SMTPSenderName   string `yaml:"SMTP_SENDER_NAME"`
	SMTPAuthEmail    string `yaml:"SMTP_AUTH_EMAIL"`
	SMTPAuthPassword string `yaml:"SMTP_AUTH_PASSWORD"`

	// AWS S3 configuration
	AWSS3Bucket   string `yaml:"AWS_S3_BUCKET"`
	AWSS3Region   string `yaml:"AWS_S3_REGION"`
	AWSS3Endpoint string `yaml:"AWS_S3_ENDPOINT"`
	AWSAccessKey  string `yaml:"AWS_ACCESS_KEY"`
	AWSSecretKey  string `yaml:"AWS_SECRET_KEY"`
}

var config Config

// LoadConfig reads config.yaml from path. A missing file is not fatal:
// every key can also come from the environment.
func LoadConfig(path string) {
	if path == "" {
		path = "config.yaml"
	}
	file, err := os.ReadFile(path)
	if err != nil {
		log.Printf("Error reading YAML file: %s\n", err)
		return
	}

	err = yaml.Unmarshal(file, &config)
	if err != nil {
		log.Printf("Error parsing YAML file: %s\n", err)
		return
	}
}

// GetConfig returns the value for key, preferring the environment over config.yaml.
func GetConfig(key string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}

	switch key {
	case "APP_PORT":
		return withDefault(config.AppPort, "8080")
	case "APP_URL":
		return config.AppURL
	case "TIMEZONE":
		return withDefault(config.Timezone, "UTC")
	case "LOG_LEVEL":
		return withDefault(config.LogLevel, "info")
	case "LOG_FORMAT":
		return withDefault(config.LogFormat, "json")
	case "RATE_LIMIT":
		if config.RateLimit > 0 {
			return strconv.Itoa(config.RateLimit)
		}
		return "20"
	case "CORS_ORIGINS":
		return withDefault(config.CORSOrigins, "*")
	case "DB_DRIVER":
		return withDefault(config.DBDriver, "postgres")
	case "DB_USER":
		return config.DBUser
	case "DB_NAME":
		return config.DBName
	case "DB_PASSWORD":
		return config.DBPassword
	case "DB_PORT":
		return config.DBPort
	case "DB_HOST":
		return config.DBHost
	case "DB_PATH":
		return withDefault(config.DBPath, "kitchenlog.db")
	case "JWT_SECRET":
		return config.JWTSecret
	case "REDIS_ADDR":
		return config.RedisAddr
	case "REDIS_PASSWORD":
		return config.RedisPassword
	case "REDIS_DB":
		return strconv.Itoa(config.RedisDB)
	case "SMTP_HOST":
		return config.SMTPHost
	case "SMTP_PORT":
		return config.SMTPPort
	case "SMTP_SENDER_NAME":
		return config.SMTPSenderName
	case "SMTP_AUTH_EMAIL":
		return config.SMTPAuthEmail
	case "SMTP_AUTH_PASSWORD":
		return config.SMTPAuthPassword
	case "AWS_S3_BUCKET":
		return config.AWSS3Bucket
	case "AWS_S3_REGION":
		return config.AWSS3Region
	case "AWS_S3_ENDPOINT":
		return config.AWSS3Endpoint
	case "AWS_ACCESS_KEY":
		return config.AWSAccessKey
	case "AWS_SECRET_KEY":
		return config.AWSSecretKey
	default:
		return ""
	}
}

// GetConfigInt is GetConfig for numeric keys; fallback is used when the value is not a number.
func GetConfigInt(key string, fallback int) int {
	n, err := strconv.Atoi(GetConfig(key))
	if err != nil {
		return fallback
	}
	return n
}

func withDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
