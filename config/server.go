package config

import (
	"fmt"
	"time"
)

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

func (c *ServerConfig) applyEnv() {
	envString(&c.Addr, "HTTP_ADDR")
}

type ScraperConfig struct {
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"userAgent"`
}

func (c *ScraperConfig) applyEnv() error {
	envString(&c.UserAgent, "SCRAPER_USER_AGENT")
	return envDuration(&c.Timeout, "SCRAPER_TIMEOUT")
}

// WorkerConfig sizes the worker pools and bounds each invocation.
type WorkerConfig struct {
	PoolSize          int           `yaml:"poolSize"`
	FanoutPoolSize    int           `yaml:"fanoutPoolSize"`
	WatchPoolSize     int           `yaml:"watchPoolSize"`
	InvocationTimeout time.Duration `yaml:"invocationTimeout"`
	StuckAfter        time.Duration `yaml:"stuckAfter"`
	WatchInterval     time.Duration `yaml:"watchInterval"`
}

func (c *WorkerConfig) applyEnv() error {
	if err := envInt(&c.PoolSize, "WORKER_POOL_SIZE"); err != nil {
		return err
	}
	if err := envInt(&c.FanoutPoolSize, "FANOUT_POOL_SIZE"); err != nil {
		return err
	}
	if err := envInt(&c.WatchPoolSize, "WATCH_POOL_SIZE"); err != nil {
		return err
	}
	if err := envDuration(&c.InvocationTimeout, "INVOCATION_TIMEOUT"); err != nil {
		return err
	}
	if err := envDuration(&c.StuckAfter, "STUCK_AFTER"); err != nil {
		return err
	}
	return envDuration(&c.WatchInterval, "WATCH_INTERVAL")
}

func (c *WorkerConfig) Validate() error {
	if c.PoolSize <= 0 {
		return fmt.Errorf("WORKER_POOL_SIZE must be positive")
	}
	if c.FanoutPoolSize <= 0 {
		return fmt.Errorf("FANOUT_POOL_SIZE must be positive")
	}
	if c.WatchPoolSize <= 0 {
		return fmt.Errorf("WATCH_POOL_SIZE must be positive")
	}
	if c.WatchInterval <= 0 {
		return fmt.Errorf("WATCH_INTERVAL must be positive")
	}
	return nil
}

type LogConfig struct {
	Level string `yaml:"level"`
}

func (c *LogConfig) applyEnv() {
	envString(&c.Level, "LOG_LEVEL")
}
