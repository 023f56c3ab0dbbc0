package logger

import (
	"io"
	"log"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type FileRotate struct {
	Enable     bool
	Filename   string // e.g. logs/employee-api.log
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool // gzip rotated files
}

type Options struct {
	Service string // added to every entry as "service" when set
	Level   string // debug / info / warn / error; anything else is info
	JSON    bool   // JSON lines; otherwise a colored console layout
	Rotate  FileRotate
	Output  zapcore.WriteSyncer // defaults to stdout
}

// New is Build with console or JSON output to stdout and nothing else.
func New(level string, json bool) (*zap.Logger, func()) {
	return Build(Options{Level: level, JSON: json})
}

// Build returns the process logger and a cleanup that flushes it and closes
// the rotating file, if any.
func Build(opt Options) (*zap.Logger, func()) {
	var lvl zapcore.Level
	if err := lvl.Set(opt.Level); err != nil {
		lvl = zapcore.InfoLevel
	}

	out := opt.Output
	if out == nil {
		out = zapcore.Lock(os.Stdout)
	}
	cores := []zapcore.Core{zapcore.NewCore(encoder(opt.JSON, !opt.JSON), out, lvl)}

	var rotator *lumberjack.Logger
	if opt.Rotate.Enable {
		rotator = &lumberjack.Logger{
			Filename:   opt.Rotate.Filename,
			MaxSize:    max(1, opt.Rotate.MaxSizeMB),
			MaxBackups: max(0, opt.Rotate.MaxBackups),
			MaxAge:     max(0, opt.Rotate.MaxAgeDays),
			Compress:   opt.Rotate.Compress,
		}
		// files never get color escapes
		cores = append(cores, zapcore.NewCore(encoder(opt.JSON, false), zapcore.AddSync(rotator), lvl))
	}

	core := zapcore.NewSamplerWithOptions(zapcore.NewTee(cores...), time.Second, 100, 100)

	zopts := []zap.Option{zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)}
	if !opt.JSON {
		zopts = append(zopts, zap.Development())
	}
	if opt.Service != "" {
		zopts = append(zopts, zap.Fields(zap.String("service", opt.Service)))
	}
	l := zap.New(core, zopts...)

	return l, func() {
		_ = l.Sync()
		if rotator != nil {
			_ = rotator.Close()
		}
	}
}

func encoder(json, color bool) zapcore.Encoder {
	if json {
		cfg := zap.NewProductionEncoderConfig()
		cfg.TimeKey = "ts"
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.EncodeCaller = zapcore.ShortCallerEncoder
		return zapcore.NewJSONEncoder(cfg)
	}
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000")
	cfg.EncodeCaller = zapcore.ShortCallerEncoder
	if color {
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	return zapcore.NewConsoleEncoder(cfg)
}

// zapIOWriter adapts a zap logger to io.Writer, one entry per Write.
type zapIOWriter struct {
	l     *zap.Logger
	level zapcore.Level
}

func (w *zapIOWriter) Write(p []byte) (int, error) {
	msg := strings.TrimRight(string(p), "\r\n")
	if ce := w.l.Check(w.level, msg); ce != nil {
		ce.Write()
	}
	return len(p), nil
}

// ToWriter is used for gin's debug and error writers.
func ToWriter(l *zap.Logger, level zapcore.Level) io.Writer {
	return &zapIOWriter{l: l, level: level}
}

// ToStdLogger is used for GORM's SQL logger.
func ToStdLogger(l *zap.Logger, level zapcore.Level) (*log.Logger, error) {
	return zap.NewStdLogAt(l, level)
}

func RedirectStdLog(l *zap.Logger, level zapcore.Level) func() {
	undo, err := zap.RedirectStdLogAt(l, level)
	if err != nil {
		return func() {}
	}
	return undo
}
