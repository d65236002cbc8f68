package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Environment variables read by FromEnv.
const (
	EnvBaseURL       = "ORANGEPROBE_BASE_URL"
	EnvScenario      = "ORANGEPROBE_SCENARIO"
	EnvTimeout       = "ORANGEPROBE_TIMEOUT"
	EnvRate          = "ORANGEPROBE_RATE"
	EnvOutput        = "ORANGEPROBE_OUTPUT"
	EnvHistory       = "ORANGEPROBE_HISTORY"
	EnvProxy         = "ORANGEPROBE_PROXY"
	EnvCheckEnvelope = "ORANGEPROBE_CHECK_ENVELOPE"
	EnvNoColor       = "ORANGEPROBE_NO_COLOR"
	EnvConfig        = "ORANGEPROBE_CONFIG"
)

// FromEnv builds a partial config from ORANGEPROBE_* variables, for use as
// the argument of Merge. Unset variables leave their fields zero.
func FromEnv() (*Config, error) {
	return fromLookup(os.LookupEnv)
}

func fromLookup(lookup func(string) (string, bool)) (*Config, error) {
	get := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}

	c := &Config{
		BaseURL:  get(EnvBaseURL),
		Scenario: get(EnvScenario),
		Output:   get(EnvOutput),
		History:  get(EnvHistory),
		Proxy:    get(EnvProxy),
	}

	if v := get(EnvTimeout); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %q is not a number of milliseconds", EnvTimeout, v)
		}
		c.Timeout = ms
	}
	if v := get(EnvRate); v != "" {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: %q is not a number", EnvRate, v)
		}
		c.Rate = &rate
	}

	var err error
	if c.CheckEnvelope, err = envBool(EnvCheckEnvelope, get(EnvCheckEnvelope)); err != nil {
		return nil, err
	}
	if c.NoColor, err = envBool(EnvNoColor, get(EnvNoColor)); err != nil {
		return nil, err
	}
	return c, nil
}

func envBool(key, v string) (*bool, error) {
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %q is not a boolean", key, v)
	}
	return &b, nil
}
