// Package log configures the process-wide logrus logger from a LogConfig:
// text or JSON formatting, a configurable level, and an optional Loki
// shipping hook.
package log

import (
	"github.com/geoffjay/switchboard/internal/config"
	log "github.com/sirupsen/logrus"
	"github.com/yukitsune/lokirus"
)

const timestampFormat = "2006-01-02 15:04:05"

// lokiHookLevels are the severities worth shipping to Loki. Trace/Debug
// stay local — they're routing-decision noise, not incident material.
var lokiHookLevels = []log.Level{log.InfoLevel, log.WarnLevel, log.ErrorLevel, log.FatalLevel}

// Initialize applies cfg to the standard logrus logger: level, formatter,
// and — when cfg.Loki.Address is set — a Loki hook. An invalid level
// leaves the current level untouched rather than failing the process.
func Initialize(cfg config.LogConfig) {
	if cfg.Level != "" {
		if level, err := log.ParseLevel(cfg.Level); err == nil {
			log.SetLevel(level)
		} else {
			log.WithField("level", cfg.Level).Warn("invalid log level, keeping current level")
		}
	}

	switch cfg.Formatter {
	case "json":
		log.SetFormatter(&log.JSONFormatter{TimestampFormat: timestampFormat})
	default:
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true, TimestampFormat: timestampFormat})
	}

	if cfg.Loki.Address == "" {
		return
	}

	opts := lokirus.NewLokiHookOptions().
		WithLevelMap(lokirus.LevelMap{}).
		WithFormatter(&log.JSONFormatter{}).
		WithStaticLabels(lokirus.Labels(cfg.Loki.Labels))

	hook := lokirus.NewLokiHookWithOpts(cfg.Loki.Address, opts, lokiHookLevels...)
	log.AddHook(hook)
}
