package xlog

import (
	"errors"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/benz9527/xtree/lib/infra"
)

var _ XLogger = (*xLogger)(nil)

// xLogger is wrapper logger of Uber zap logger.
type xLogger struct {
	logger              *zap.Logger
	dynamicLevelEnabler zap.AtomicLevel
}

// IncreaseLogLevel we can increase or decrease the log level concurrently.
func (l *xLogger) IncreaseLogLevel(level zapcore.Level) {
	l.dynamicLevelEnabler.SetLevel(level)
}

func (l *xLogger) Level() string {
	return l.dynamicLevelEnabler.Level().String()
}

func (l *xLogger) Sync() error {
	return l.logger.Sync()
}

func (l *xLogger) Debug(msg string, fields ...zap.Field) {
	l.logger.Debug(msg, fields...)
}

func (l *xLogger) Info(msg string, fields ...zap.Field) {
	l.logger.Info(msg, fields...)
}

func (l *xLogger) Warn(msg string, fields ...zap.Field) {
	l.logger.Warn(msg, fields...)
}

func (l *xLogger) Error(err error, msg string, fields ...zap.Field) {
	newFields := make([]zap.Field, 0, len(fields)+1)
	if err != nil {
		newFields = append(newFields, zap.String("error", err.Error()))
	}
	newFields = append(newFields, fields...)
	l.logger.Error(msg, newFields...)
}

func (l *xLogger) ErrorStack(err error, msg string, fields ...zap.Field) {
	newFields := make([]zap.Field, 0, len(fields)+1)
	var es infra.ErrorStack
	if errors.As(err, &es) {
		newFields = append(newFields, zap.Inline(es))
	} else if err != nil {
		newFields = append(newFields, zap.String("error", err.Error()))
	}
	newFields = append(newFields, fields...)
	l.logger.Error(msg, newFields...)
}

func (l *xLogger) Named(component string) XLogger {
	return &xLogger{
		logger:              l.logger.Named(component),
		dynamicLevelEnabler: l.dynamicLevelEnabler,
	}
}

type loggerCfg struct {
	writerType  *LogOutWriterType
	writer      zapcore.WriteSyncer
	encoderType *LogEncoderType
	lvlEncoder  zapcore.LevelEncoder
	tsEncoder   zapcore.TimeEncoder
	level       *zapcore.Level
}

func (cfg *loggerCfg) apply() {
	if cfg.writer == nil {
		if cfg.writerType != nil {
			cfg.writer = getOutWriterByType(*cfg.writerType)
		} else {
			cfg.writer = getOutWriterByType(StdOut)
		}
	}

	if cfg.encoderType == nil {
		enc := JSON
		cfg.encoderType = &enc
	}

	if cfg.level == nil {
		lvl := getLogLevelOrDefault(os.Getenv(envLogLevel))
		cfg.level = &lvl
	}

	if cfg.lvlEncoder == nil {
		cfg.lvlEncoder = zapcore.CapitalLevelEncoder
	}

	if cfg.tsEncoder == nil {
		cfg.tsEncoder = zapcore.ISO8601TimeEncoder
	}
}

type XLoggerOption func(*loggerCfg) error

func NewXLogger(opts ...XLoggerOption) XLogger {
	cfg := &loggerCfg{}
	for _, o := range opts {
		if err := o(cfg); err != nil {
			panic(err)
		}
	}
	cfg.apply()

	xl := &xLogger{
		dynamicLevelEnabler: zap.NewAtomicLevelAt(*cfg.level),
	}
	core := newConsoleCore(xl.dynamicLevelEnabler, *cfg.encoderType, cfg.writer, cfg.lvlEncoder, cfg.tsEncoder)
	// Disable zap logger error stack.
	xl.logger = zap.New(
		core,
		zap.AddCallerSkip(1), // Use caller filename as service
		zap.AddCaller(),
	)
	return xl
}

// NewNopXLogger never writes out logs. It is the default logger of
// every container in this module.
func NewNopXLogger() XLogger {
	return &xLogger{
		logger:              zap.NewNop(),
		dynamicLevelEnabler: zap.NewAtomicLevelAt(zapcore.InvalidLevel),
	}
}

// NewXLoggerFromZap adapts an existing zap logger, the level
// is managed by the zap logger itself.
func NewXLoggerFromZap(logger *zap.Logger) XLogger {
	if logger == nil {
		return NewNopXLogger()
	}
	lvl := zapcore.LevelOf(logger.Core())
	return &xLogger{
		logger:              logger,
		dynamicLevelEnabler: zap.NewAtomicLevelAt(lvl),
	}
}

func WithXLoggerWriter(w LogOutWriterType) XLoggerOption {
	return func(cfg *loggerCfg) error {
		if w >= _writerMax {
			return infra.NewErrorStack("[xlog] unknown xlogger writer")
		}
		cfg.writerType = &w
		return nil
	}
}

// WithXLoggerWriteSyncer redirects the output to ws, it takes
// precedence over WithXLoggerWriter.
func WithXLoggerWriteSyncer(ws zapcore.WriteSyncer) XLoggerOption {
	return func(cfg *loggerCfg) error {
		if ws == nil {
			return infra.NewErrorStack("[xlog] nil xlogger write syncer")
		}
		cfg.writer = zapcore.Lock(ws)
		return nil
	}
}

func WithXLoggerEncoder(logEnc LogEncoderType) XLoggerOption {
	return func(cfg *loggerCfg) error {
		if logEnc >= _encMax {
			return infra.NewErrorStack("[xlog] unknown xlogger encoder")
		}
		cfg.encoderType = &logEnc
		return nil
	}
}

func WithXLoggerLevel(lvl LogLevel) XLoggerOption {
	return func(cfg *loggerCfg) error {
		_lvl := lvl.zapLevel()
		cfg.level = &_lvl
		return nil
	}
}

func WithXLoggerLevelEncoder(lvlEnc zapcore.LevelEncoder) XLoggerOption {
	return func(cfg *loggerCfg) error {
		if lvlEnc == nil {
			lvlEnc = zapcore.CapitalColorLevelEncoder
		}
		cfg.lvlEncoder = lvlEnc
		return nil
	}
}

func WithXLoggerTimeEncoder(tsEnc zapcore.TimeEncoder) XLoggerOption {
	return func(cfg *loggerCfg) error {
		if tsEnc == nil {
			tsEnc = zapcore.ISO8601TimeEncoder
		}
		cfg.tsEncoder = tsEnc
		return nil
	}
}
