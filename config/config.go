package config

import (
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port             string `mapstructure:"PORT"`
	GRPCPort         string `mapstructure:"GRPC_PORT"`
	DBHost           string `mapstructure:"DB_HOST"`
	DBPort           string `mapstructure:"DB_PORT"`
	DBUser           string `mapstructure:"DB_USER"`
	DBPassword       string `mapstructure:"DB_PASSWORD"`
	DBName           string `mapstructure:"DB_NAME"`
	RedisAddr        string `mapstructure:"REDIS_ADDR"`
	AccessSecret     string `mapstructure:"ACCESS_SECRET"`
	RazorpayKey      string `mapstructure:"RAZORPAY_KEY"`
	RazorpaySecret   string `mapstructure:"RAZORPAY_SECRET"`
	RazorpayURL      string `mapstructure:"RAZORPAY_URL"`
	Currency         string `mapstructure:"CURRENCY"`
	AMQPURL          string `mapstructure:"AMQP_URL"`
	AllowedOrigins   string `mapstructure:"ALLOWED_ORIGINS"`
	ReconcileOnStart bool   `mapstructure:"RECONCILE_ON_START"`
	LogLevel         string `mapstructure:"LOG_LEVEL"`
}

var keys = []string{
	"PORT", "GRPC_PORT",
	"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME",
	"REDIS_ADDR", "ACCESS_SECRET",
	"RAZORPAY_KEY", "RAZORPAY_SECRET", "RAZORPAY_URL", "CURRENCY",
	"AMQP_URL", "ALLOWED_ORIGINS", "RECONCILE_ON_START", "LOG_LEVEL",
}

func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("app")
	viper.SetConfigType("env")

	viper.AutomaticEnv()

	// Явно биндим, чтобы Viper видел переменные без файла
	for _, k := range keys {
		viper.BindEnv(k)
	}

	viper.SetDefault("PORT", ":8080")
	viper.SetDefault("GRPC_PORT", ":50055")
	viper.SetDefault("RAZORPAY_URL", "https://api.razorpay.com")
	viper.SetDefault("CURRENCY", "INR")
	viper.SetDefault("LOG_LEVEL", "info")

	err = viper.ReadInConfig()
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return
		}
	}

	err = viper.Unmarshal(&config)
	return
}

func (c Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
