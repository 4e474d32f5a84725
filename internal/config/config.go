package config

import (
	"time"

	"github.com/spf13/viper"
)

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

type Config struct {
	AppPort  string
	LogLevel string

	SessionBackend     string
	SessionGracePeriod time.Duration
	SessionIdleTimeout time.Duration
	DispatchTimeout    time.Duration

	ServiceCodeEmergency string
	ServiceCodeCrime     string
	ServiceCodeSafety    string

	SafetyChecker string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	DatabaseDSN string

	AMQPURL      string
	AMQPExchange string

	OpsKeyHash string
}

func defaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("SESSION_BACKEND", BackendMemory)
	v.SetDefault("SESSION_GRACE_PERIOD", 5*time.Minute)
	v.SetDefault("SESSION_IDLE_TIMEOUT", 3*time.Minute)
	v.SetDefault("DISPATCH_TIMEOUT", 2*time.Second)

	v.SetDefault("SERVICE_CODE_EMERGENCY", "*234*911#")
	v.SetDefault("SERVICE_CODE_CRIME", "*234*100#")
	v.SetDefault("SERVICE_CODE_SAFETY", "*234*199#")

	v.SetDefault("SAFETY_CHECKER", "auto")

	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("AMQP_EXCHANGE", "ussd.incidents")
}

// Load reads configuration from the environment.
func Load() Config {
	v := viper.New()
	defaults(v)
	v.AutomaticEnv()

	return fromViper(v)
}

func fromViper(v *viper.Viper) Config {

	cfg := Config{

		AppPort:  v.GetString("APP_PORT"),
		LogLevel: v.GetString("LOG_LEVEL"),

		SessionBackend:     v.GetString("SESSION_BACKEND"),
		SessionGracePeriod: v.GetDuration("SESSION_GRACE_PERIOD"),
		SessionIdleTimeout: v.GetDuration("SESSION_IDLE_TIMEOUT"),
		DispatchTimeout:    v.GetDuration("DISPATCH_TIMEOUT"),

		ServiceCodeEmergency: v.GetString("SERVICE_CODE_EMERGENCY"),
		ServiceCodeCrime:     v.GetString("SERVICE_CODE_CRIME"),
		ServiceCodeSafety:    v.GetString("SERVICE_CODE_SAFETY"),

		SafetyChecker: v.GetString("SAFETY_CHECKER"),

		RedisAddr:     v.GetString("REDIS_ADDR"),
		RedisPassword: v.GetString("REDIS_PASSWORD"),
		RedisDB:       v.GetInt("REDIS_DB"),

		DatabaseDSN: v.GetString("DATABASE_DSN"),

		AMQPURL:      v.GetString("AMQP_URL"),
		AMQPExchange: v.GetString("AMQP_EXCHANGE"),

		OpsKeyHash: v.GetString("OPS_KEY_HASH"),
	}

	return cfg

}
