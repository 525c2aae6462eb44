package config

import (
	"os"
	"strconv"
	"strings"
)

// EnvPrefix is the prefix of every environment key read by FromEnv.
const EnvPrefix = "SKETCHBOARD_"

// FromEnv returns options for every SKETCHBOARD_* variable that is set.
// Values that do not parse are skipped so the defaults stay in effect.
func FromEnv() []Option {
	var opts []Option

	if v, ok := lookup("WIDTH"); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			opts = append(opts, func(c *Config) { c.Width = f })
		}
	}
	if v, ok := lookup("HEIGHT"); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			opts = append(opts, func(c *Config) { c.Height = f })
		}
	}
	if v, ok := lookup("CLASS_NAME"); ok {
		opts = append(opts, WithClassName(v))
	}
	if v, ok := lookup("MAX_REVOKE_STEPS"); ok {
		opts = append(opts, WithMaxRevokeSteps(RevokeSteps(v)))
	}
	if v, ok := lookup("MODE"); ok {
		opts = append(opts, WithMode(ParseMode(v)))
	}
	if v, ok := lookup("PEN_COLOR"); ok {
		opts = append(opts, WithPenColor(v))
	}
	if v, ok := lookup("PEN_WIDTH"); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			opts = append(opts, WithPenWidth(f))
		}
	}
	if v, ok := lookup("BG_IMG_URL"); ok {
		opts = append(opts, WithBackgroundURL(v))
	}
	if v, ok := lookup("BG_IMG_ROTATE"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			opts = append(opts, WithBackgroundRotate(n))
		}
	}
	if v, ok := lookup("BG_COLOR"); ok {
		opts = append(opts, WithBackgroundColor(v))
	}

	return opts
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(EnvPrefix + key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}
