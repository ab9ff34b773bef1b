package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/hearth-planner/hearth/internal/constants"
)

// Logger starts out discarding everything so packages can log before Init
// runs (or when it fails) without nil checks at every call site.
var Logger = log.New(io.Discard)

// Config selects log verbosity and where the rotating file lands.
type Config struct {
	Debug     bool
	ConfigDir string
}

// Init points the package logger at a rotating file under
// <ConfigDir>/logs. Debug mode mirrors output to stderr and lowers the
// level; normal runs log warnings and up, silently.
func Init(cfg Config) error {
	logDir := filepath.Join(cfg.ConfigDir, "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return err
	}

	var sink io.Writer = &lumberjack.Logger{
		Filename:   filepath.Join(logDir, constants.AppName+".log"),
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}
	level := log.WarnLevel
	if cfg.Debug {
		sink = io.MultiWriter(os.Stderr, sink)
		level = log.DebugLevel
	}

	Logger = log.NewWithOptions(sink, log.Options{
		ReportCaller:    cfg.Debug,
		ReportTimestamp: true,
		Level:           level,
		Prefix:          constants.AppName,
	})
	return nil
}

func Debug(msg string, keyvals ...interface{}) { Logger.Debug(msg, keyvals...) }
func Info(msg string, keyvals ...interface{})  { Logger.Info(msg, keyvals...) }
func Warn(msg string, keyvals ...interface{})  { Logger.Warn(msg, keyvals...) }
func Error(msg string, keyvals ...interface{}) { Logger.Error(msg, keyvals...) }
