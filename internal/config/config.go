package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel   string    `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort   string    `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	SocketPort string    `yaml:"socket-port" env:"SOCKET_PORT" env-default:"8080"`
	WebSocket  WebSocket `yaml:"websocket"`
	Redis      Redis     `yaml:"redis"`
	Stats      Stats     `yaml:"stats"`
}

type WebSocket struct {
	ReadBufferSize  int   `yaml:"read-buffer-size" env-default:"1024"`
	WriteBufferSize int   `yaml:"write-buffer-size" env-default:"1024"`
	SendBufferSize  int   `yaml:"send-buffer-size" env-default:"256"`
	MaxMessageSize  int64 `yaml:"max-message-size" env-default:"4096"`
	// PingInterval of zero disables keepalive pings.
	PingInterval time.Duration `yaml:"ping-interval" env-default:"54s"`
	PongWait     time.Duration `yaml:"pong-wait" env-default:"60s"`
	WriteWait    time.Duration `yaml:"write-wait" env-default:"10s"`
}

type Redis struct {
	Enabled bool   `yaml:"enabled" env:"REDIS_ENABLED" env-default:"false"`
	Host    string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port    string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

type Stats struct {
	HistorySize int `yaml:"history-size" env-default:"100"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

// Path - returns CONFIG_PATH if set, otherwise the fallback.
func Path(fallback string) string {
	var env struct {
		Path string `env:"CONFIG_PATH"`
	}

	if err := cleanenv.ReadEnv(&env); err != nil || env.Path == "" {
		return fallback
	}

	return env.Path
}

func (that *Redis) GetRedisAddr() string {
	if that.Host == "" {
		return ""
	}
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
