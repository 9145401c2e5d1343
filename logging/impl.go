package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type impl struct {
	*zap.SugaredLogger

	name  string
	level AtomicLevel
	// base is the unfiltered output shared with every sublogger.
	base zapcore.Core
}

func newImpl(name string, level AtomicLevel, base zapcore.Core) *impl {
	core := &levelFilterCore{Core: base, level: level}
	sugared := zap.New(core, zap.AddCaller()).Sugar()
	if name != "" {
		sugared = sugared.Named(name)
	}
	return &impl{
		SugaredLogger: sugared,
		name:          name,
		level:         level,
		base:          base,
	}
}

func (imp *impl) Name() string {
	return imp.name
}

// Sublogger returns a logger named "<parent>.<subname>" sharing the parent's outputs. The
// sublogger starts at the parent's current level and is adjusted independently afterwards.
func (imp *impl) Sublogger(subname string) Logger {
	newName := subname
	if imp.name != "" {
		newName = fmt.Sprintf("%s.%s", imp.name, subname)
	}
	return newImpl(newName, NewAtomicLevelAt(imp.level.Get()), imp.base)
}

func (imp *impl) SetLevel(level Level) {
	imp.level.Set(level)
}

func (imp *impl) GetLevel() Level {
	return imp.level.Get()
}

func (imp *impl) AsZap() *zap.SugaredLogger {
	return imp.SugaredLogger
}

// levelFilterCore gates a shared core with a per-logger level.
type levelFilterCore struct {
	zapcore.Core
	level AtomicLevel
}

func (c *levelFilterCore) Enabled(lvl zapcore.Level) bool {
	return c.level.Enabled(lvl) && c.Core.Enabled(lvl)
}

func (c *levelFilterCore) With(fields []zapcore.Field) zapcore.Core {
	return &levelFilterCore{Core: c.Core.With(fields), level: c.level}
}

func (c *levelFilterCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !c.level.Enabled(ent.Level) {
		return ce
	}
	return c.Core.Check(ent, ce)
}
