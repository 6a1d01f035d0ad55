// Package config resolves runtime settings from defaults and the
// environment. Command flags override the result.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const envPrefix = "ZKGRADE_"

type Config struct {
	// Dataset is the training file, .csv or .xlsx.
	Dataset string
	// Addr is the HTTP listen address for serve.
	Addr string
	// CircuitCache stores the compiled circuit and keys; empty disables it.
	CircuitCache string
	// Proofs enables proof generation in serve and simulate.
	Proofs    bool
	Latency   time.Duration
	LogLevel  string
	LogPretty bool
}

func Default() Config {
	return Config{
		Dataset:      "data/student_performance_data.csv",
		Addr:         ":8080",
		CircuitCache: "data/linear_circuit.cache",
		LogLevel:     "info",
		LogPretty:    true,
	}
}

// Load returns Default overridden by ZKGRADE_* variables taken from getenv.
// Pass os.Getenv in production.
func Load(getenv func(string) string) (Config, error) {
	if getenv == nil {
		getenv = os.Getenv
	}
	c := Default()
	str := func(key string, dst *string) {
		if v := getenv(envPrefix + key); v != "" {
			*dst = v
		}
	}
	str("DATASET", &c.Dataset)
	str("ADDR", &c.Addr)
	str("CIRCUIT_CACHE", &c.CircuitCache)
	str("LOG_LEVEL", &c.LogLevel)

	for key, dst := range map[string]*bool{"PROOFS": &c.Proofs, "LOG_PRETTY": &c.LogPretty} {
		if v := getenv(envPrefix + key); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return c, fmt.Errorf("config: %s%s: %w", envPrefix, key, err)
			}
			*dst = b
		}
	}
	if v := getenv(envPrefix + "LATENCY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return c, fmt.Errorf("config: %sLATENCY: %w", envPrefix, err)
		}
		c.Latency = d
	}
	return c, nil
}
