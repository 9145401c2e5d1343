package logging

import (
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// LoggerPatternConfig is a level to apply to every logger whose name matches a pattern.
type LoggerPatternConfig struct {
	Pattern string `json:"pattern"`
	Level   string `json:"level"`
}

// e.g. "robot.component:motor/fl", "robot.*" or "robot.service:locator/*".
var loggerPatternRegexp = regexp.MustCompile(`^[\w:/*-]+(\.[\w:/*-]+)*$`)

// ValidatePattern reports whether pattern is a dotted logger name where any section may be "*".
func ValidatePattern(pattern string) bool {
	return loggerPatternRegexp.MatchString(pattern)
}

func buildRegexFromPattern(pattern string) string {
	var matcher strings.Builder
	matcher.WriteRune('^')
	for _, ch := range pattern {
		switch ch {
		case '*':
			matcher.WriteString(`.*`)
		case '.':
			matcher.WriteString(`\.`)
		default:
			matcher.WriteString(regexp.QuoteMeta(string(ch)))
		}
	}
	matcher.WriteRune('$')
	return matcher.String()
}

// Registry tracks named loggers so their levels can be set from configuration. A Registry is
// owned by whoever builds the loggers; there is no process-wide instance.
type Registry struct {
	mu      sync.RWMutex
	loggers map[string]Logger
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{loggers: map[string]Logger{}}
}

// Register records logger under its name, replacing any previous logger with that name.
func (lr *Registry) Register(logger Logger) {
	lr.mu.Lock()
	defer lr.mu.Unlock()
	lr.loggers[logger.Name()] = logger
}

// LoggerNamed returns the registered logger with the given name.
func (lr *Registry) LoggerNamed(name string) (Logger, bool) {
	lr.mu.RLock()
	defer lr.mu.RUnlock()
	logger, ok := lr.loggers[name]
	return logger, ok
}

// Names returns the sorted names of all registered loggers.
func (lr *Registry) Names() []string {
	lr.mu.RLock()
	defer lr.mu.RUnlock()
	names := make([]string, 0, len(lr.loggers))
	for name := range lr.loggers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Apply sets the level of every registered logger matched by a pattern. Later patterns win over
// earlier ones. Loggers matched by no pattern are left untouched.
func (lr *Registry) Apply(logConfig []LoggerPatternConfig) error {
	applied := make(map[string]Level)
	for _, lpc := range logConfig {
		if !ValidatePattern(lpc.Pattern) {
			return errors.Errorf("invalid logger pattern %q", lpc.Pattern)
		}
		level, err := LevelFromString(lpc.Level)
		if err != nil {
			return err
		}
		r, err := regexp.Compile(buildRegexFromPattern(lpc.Pattern))
		if err != nil {
			return err
		}
		for _, name := range lr.Names() {
			if r.MatchString(name) {
				applied[name] = level
			}
		}
	}

	lr.mu.RLock()
	defer lr.mu.RUnlock()
	for name, level := range applied {
		lr.loggers[name].SetLevel(level)
	}
	return nil
}
