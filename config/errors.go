package config

import "fmt"

// ConfigError reports an invalid sensor entry. Only that sensor is skipped.
type ConfigError struct {
	Sensor string
	Key    string
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("sensor %q: %s: %s", e.Sensor, e.Key, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
