package main

import "time"

type Config struct {
	BufferSize        int           `env:"BUFFER_SIZE,default=256"`
	SessionBufferSize int           `env:"SESSION_BUFFER_SIZE,default=64"`
	RestartInterval   time.Duration `env:"RESTART_INTERVAL,default=200ms"`
	RatePermits       int           `env:"RATE_PERMITS_PER_SECOND,default=10"`
	RateGraceWait     time.Duration `env:"RATE_GRACE_WAIT,default=100ms"`
	LogLevel          string        `env:"LOG_LEVEL,default=INFO"`
	Host              string        `env:"HOST,default=localhost"`
	Port              int           `env:"PORT,default=8080"`
}
