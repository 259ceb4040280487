package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"

	"github.com/branchtools/sweep/util/pathutil"
)

var (
	loggers   = make(map[string]*logrus.Entry)
	loggersMu sync.Mutex

	// configured holds logging settings pushed in from the loaded sweep
	// config. Loggers created before Configure is called use defaults.
	configured Config
)

// Configure sets the logging configuration used by subsequently created
// loggers. Existing loggers are not reconfigured.
func Configure(cfg Config) {
	loggersMu.Lock()
	defer loggersMu.Unlock()
	configured = cfg
}

// NewLogger creates and returns a pre-configured logger for a specific component.
// It uses a singleton pattern per component to avoid re-initializing.
func NewLogger(component string) *logrus.Entry {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	if logger, exists := loggers[component]; exists {
		return logger
	}

	logger := logrus.New()
	logCfg := configured

	// Configure Level
	levelStr := "info"
	if os.Getenv("SWEEP_LOG_LEVEL") != "" {
		levelStr = os.Getenv("SWEEP_LOG_LEVEL")
	} else if logCfg.Level != "" {
		levelStr = logCfg.Level
	}
	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	// Configure Caller Reporting
	if os.Getenv("SWEEP_LOG_CALLER") == "true" || logCfg.ReportCaller {
		logger.SetReportCaller(true)
	}

	// Configure Formatter
	switch logCfg.Format.Preset {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "simple":
		logger.SetFormatter(&TextFormatter{Config: FormatConfig{
			DisableTimestamp: true,
			DisableComponent: true,
		}})
	default:
		logger.SetFormatter(&TextFormatter{Config: logCfg.Format})
	}

	// Configure Output Sinks
	var writers []io.Writer

	if logFilePath := fileSinkPath(component, logCfg); logFilePath != "" {
		dir := filepath.Dir(logFilePath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			if logCfg.File.Enabled {
				logger.Warnf("Failed to create log directory %s: %v", dir, err)
			}
		} else {
			file, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
			if err == nil {
				writers = append(writers, file)
			} else if logCfg.File.Enabled {
				logger.Warnf("Failed to open log file %s: %v", logFilePath, err)
			}
		}
	}

	// Write to stderr when debugging or when not attached to a terminal,
	// so piped output still carries the structured logs.
	isDebug := os.Getenv("SWEEP_DEBUG") == "1" || logger.GetLevel() == logrus.DebugLevel
	isInteractive := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	if isDebug || !isInteractive {
		writers = append(writers, os.Stderr)
	}

	if len(writers) == 0 {
		logger.SetOutput(io.Discard)
	} else {
		logger.SetOutput(io.MultiWriter(writers...))
	}

	entry := logger.WithField("component", component)
	loggers[component] = entry
	return entry
}

// fileSinkPath resolves the log file path for a component. An explicitly
// configured path wins; otherwise logs land in .sweep/logs/<component>-<date>.log
// next to the working directory so logs stay with the project.
func fileSinkPath(component string, logCfg Config) string {
	if logCfg.File.Enabled && logCfg.File.Path != "" {
		path, err := pathutil.Expand(logCfg.File.Path)
		if err != nil {
			return logCfg.File.Path
		}
		return path
	}

	cwd, err := os.Getwd()
	if err != nil {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return ""
		}
		cwd = home
	}
	dateStr := time.Now().Format("2006-01-02")
	return filepath.Join(cwd, ".sweep", "logs", fmt.Sprintf("%s-%s.log", component, dateStr))
}
