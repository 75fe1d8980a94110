package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type DatabaseConfig struct {
	Host     string `mapstructure:"DB_HOST"`
	Port     int    `mapstructure:"DB_PORT"`
	User     string `mapstructure:"DB_USER"`
	Password string `mapstructure:"DB_PASSWORD"`
	Name     string `mapstructure:"DB_NAME"`
	SSLMode  string `mapstructure:"DB_SSLMODE"`
	MaxConns int32  `mapstructure:"DB_MAX_CONNS"`
	// MigrationsPath is a golang-migrate source URL. Empty uses the
	// migrations embedded in the binary.
	MigrationsPath string `mapstructure:"DB_MIGRATIONS_PATH"`
}

type KafkaConfig struct {
	// Brokers is a comma separated list; empty disables Kafka and events are
	// only logged.
	Brokers         string `mapstructure:"KAFKA_BROKERS"`
	EventsTopic     string `mapstructure:"KAFKA_EVENTS_TOPIC"`
	EvaluationTopic string `mapstructure:"KAFKA_EVALUATION_TOPIC"`
	ConsumerGroup   string `mapstructure:"KAFKA_CONSUMER_GROUP"`
	TLS             bool   `mapstructure:"KAFKA_TLS"`
	SASLMechanism   string `mapstructure:"KAFKA_SASL_MECHANISM"`
	SASLUsername    string `mapstructure:"KAFKA_SASL_USERNAME"`
	SASLPassword    string `mapstructure:"KAFKA_SASL_PASSWORD"`
}

// BrokerList splits Brokers on commas, dropping blanks.
func (k KafkaConfig) BrokerList() []string {
	var out []string
	for _, b := range strings.Split(k.Brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

type RiskCentralConfig struct {
	// URL of the risk central; empty selects the in-process stub scorer.
	URL     string        `mapstructure:"RISK_CENTRAL_URL"`
	Timeout time.Duration `mapstructure:"RISK_CENTRAL_TIMEOUT"`
	// CAFile is a PEM bundle trusted for an https URL instead of the system roots.
	CAFile string `mapstructure:"RISK_CENTRAL_CA_FILE"`
}

type AuthConfig struct {
	JWTSecret    string `mapstructure:"JWT_SECRET"`
	JWTPublicKey string `mapstructure:"JWT_PUBLIC_KEY_FILE"`
	JWTIssuer    string `mapstructure:"JWT_ISSUER"`
	// JWTLeeway is the clock skew tolerated on exp and nbf.
	JWTLeeway time.Duration `mapstructure:"JWT_LEEWAY"`
	// Disabled skips token validation entirely. Development only.
	Disabled bool `mapstructure:"AUTH_DISABLED"`
}

type TLSConfig struct {
	CertFile string `mapstructure:"TLS_CERT_FILE"`
	KeyFile  string `mapstructure:"TLS_KEY_FILE"`
}

func (t TLSConfig) Enabled() bool { return t.CertFile != "" && t.KeyFile != "" }

type LogConfig struct {
	Level  string `mapstructure:"LOG_LEVEL"`
	Format string `mapstructure:"LOG_FORMAT"`
}

type TracingConfig struct {
	// OTLPEndpoint is a host:port gRPC collector address; empty disables tracing.
	OTLPEndpoint string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	Insecure     bool   `mapstructure:"OTEL_EXPORTER_OTLP_INSECURE"`
}

// PolicyConfig holds the credit evaluation thresholds.
type PolicyConfig struct {
	MinTenureMonths         int     `mapstructure:"CREDIT_MIN_TENURE_MONTHS"`
	SalaryMultiplier        float64 `mapstructure:"CREDIT_SALARY_MULTIPLIER"`
	MinScore                int     `mapstructure:"CREDIT_MIN_SCORE"`
	MaxPaymentToIncomeRatio float64 `mapstructure:"CREDIT_MAX_PAYMENT_RATIO"`
}

type Config struct {
	GRPCPort    int    `mapstructure:"GRPC_PORT"`
	HTTPPort    int    `mapstructure:"HTTP_PORT"`
	ServiceName string `mapstructure:"SERVICE_NAME"`
	// GRPCReflection registers the reflection service for grpcurl and friends.
	GRPCReflection bool `mapstructure:"GRPC_REFLECTION"`

	DB          DatabaseConfig    `mapstructure:",squash"`
	Kafka       KafkaConfig       `mapstructure:",squash"`
	RiskCentral RiskCentralConfig `mapstructure:",squash"`
	Auth        AuthConfig        `mapstructure:",squash"`
	TLS         TLSConfig         `mapstructure:",squash"`
	Log         LogConfig         `mapstructure:",squash"`
	Tracing     TracingConfig     `mapstructure:",squash"`
	Policy      PolicyConfig      `mapstructure:",squash"`
}

var defaults = map[string]any{
	"GRPC_PORT":       9090,
	"HTTP_PORT":       8080,
	"SERVICE_NAME":    "credit-service",
	"GRPC_REFLECTION": false,

	"DB_HOST":      "localhost",
	"DB_PORT":      5432,
	"DB_USER":      "coopcredit",
	"DB_PASSWORD":  "",
	"DB_NAME":      "coopcredit",
	"DB_SSLMODE":   "require",
	"DB_MAX_CONNS": 10,

	"DB_MIGRATIONS_PATH":     "",
	"KAFKA_BROKERS":          "",
	"KAFKA_EVENTS_TOPIC":     "coopcredit.credit.events",
	"KAFKA_EVALUATION_TOPIC": "coopcredit.credit.evaluation-requests",
	"KAFKA_CONSUMER_GROUP":   "credit-service",
	"KAFKA_TLS":              false,
	"KAFKA_SASL_MECHANISM":   "",
	"KAFKA_SASL_USERNAME":    "",
	"KAFKA_SASL_PASSWORD":    "",

	"RISK_CENTRAL_URL":     "",
	"RISK_CENTRAL_TIMEOUT": "5s",
	"RISK_CENTRAL_CA_FILE": "",

	"JWT_SECRET":          "",
	"JWT_PUBLIC_KEY_FILE": "",
	"JWT_ISSUER":          "coopcredit",
	"JWT_LEEWAY":          "30s",
	"AUTH_DISABLED":       false,

	"TLS_CERT_FILE": "",
	"TLS_KEY_FILE":  "",

	"LOG_LEVEL":  "info",
	"LOG_FORMAT": "json",

	"OTEL_EXPORTER_OTLP_ENDPOINT": "",
	"OTEL_EXPORTER_OTLP_INSECURE": true,

	"CREDIT_MIN_TENURE_MONTHS": 6,
	"CREDIT_SALARY_MULTIPLIER": 3.0,
	"CREDIT_MIN_SCORE":         500,
	"CREDIT_MAX_PAYMENT_RATIO": 40.0,
}

// Load reads the configuration from the environment, falling back to a .env
// file in the working directory and then to defaults.
func Load() (Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.AddConfigPath(".")
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("config: read .env: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	return cfg, nil
}

// Validate reports configuration that would make the service unusable.
func (c Config) Validate() error {
	var errs []error
	if c.DB.Password == "" {
		errs = append(errs, errors.New("DB_PASSWORD is required"))
	}
	if !c.Auth.Disabled && c.Auth.JWTSecret == "" && c.Auth.JWTPublicKey == "" {
		errs = append(errs, errors.New("JWT_SECRET or JWT_PUBLIC_KEY_FILE is required unless AUTH_DISABLED=true"))
	}
	if c.Policy.MinTenureMonths < 0 {
		errs = append(errs, errors.New("CREDIT_MIN_TENURE_MONTHS must not be negative"))
	}
	if c.Policy.SalaryMultiplier <= 0 {
		errs = append(errs, errors.New("CREDIT_SALARY_MULTIPLIER must be positive"))
	}
	if c.Policy.MaxPaymentToIncomeRatio <= 0 {
		errs = append(errs, errors.New("CREDIT_MAX_PAYMENT_RATIO must be positive"))
	}
	if c.RiskCentral.CAFile != "" && !strings.HasPrefix(c.RiskCentral.URL, "https://") {
		errs = append(errs, errors.New("RISK_CENTRAL_CA_FILE requires an https RISK_CENTRAL_URL"))
	}
	if (c.TLS.CertFile == "") != (c.TLS.KeyFile == "") {
		errs = append(errs, errors.New("TLS_CERT_FILE and TLS_KEY_FILE must be set together"))
	}
	return errors.Join(errs...)
}

func (c Config) GRPCAddr() string {
	return fmt.Sprintf(":%d", c.GRPCPort)
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
