// pkg/logger/logger.go

package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Уровни логирования
const (
	LevelDebug = "DEBUG"
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
	LevelFatal = "FATAL"
)

var levelPriority = map[string]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
	LevelFatal: 4,
}

var levelColors = map[string]string{
	LevelDebug: "\033[36m",
	LevelInfo:  "\033[32m",
	LevelWarn:  "\033[33m",
	LevelError: "\033[31m",
	LevelFatal: "\033[35m",
}

type Logger struct {
	logFile   *os.File
	out       *log.Logger
	logLevel  string
	debugMode bool
	now       func() time.Time
}

// NewLogger пишет в stdout и в файл logPath (пустой путь - только stdout)
func NewLogger(logPath string, logLevel string, debug bool) (*Logger, error) {
	var writer io.Writer = os.Stdout
	var file *os.File

	if logPath != "" {
		if dir := filepath.Dir(logPath); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("не удалось создать каталог логов: %w", err)
			}
		}

		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return nil, err
		}
		file = f
		writer = io.MultiWriter(os.Stdout, f)
	}

	l := NewWithWriter(writer, logLevel, debug)
	l.logFile = file
	return l, nil
}

// NewWithWriter создает логгер поверх произвольного writer
func NewWithWriter(w io.Writer, logLevel string, debug bool) *Logger {
	return &Logger{
		out:       log.New(w, "", 0),
		logLevel:  strings.ToUpper(logLevel),
		debugMode: debug,
		now:       time.Now,
	}
}

// shouldLog проверяет, нужно ли логировать сообщение на данном уровне
func (l *Logger) shouldLog(level string) bool {
	currentPriority, ok1 := levelPriority[l.logLevel]
	msgPriority, ok2 := levelPriority[level]

	if !ok1 || !ok2 {
		return true // неизвестный уровень - логируем всё
	}

	return msgPriority >= currentPriority
}

func (l *Logger) log(level string, format string, v ...interface{}) {
	if !l.shouldLog(level) {
		return
	}

	msg := fmt.Sprintf(format, v...)
	timestamp := l.now().Format("2006-01-02 15:04:05")

	color, reset := "", ""
	if l.debugMode {
		color = levelColors[level]
		reset = "\033[0m"
	}

	l.out.Printf("%s[%s] %s %s%s", color, level, timestamp, msg, reset)
}

// Методы для разных уровней
func (l *Logger) Debug(format string, v ...interface{}) {
	l.log(LevelDebug, format, v...)
}

func (l *Logger) Info(format string, v ...interface{}) {
	l.log(LevelInfo, format, v...)
}

func (l *Logger) Warn(format string, v ...interface{}) {
	l.log(LevelWarn, format, v...)
}

func (l *Logger) Error(format string, v ...interface{}) {
	l.log(LevelError, format, v...)
}

func (l *Logger) Fatal(format string, v ...interface{}) {
	l.log(LevelFatal, format, v...)
	l.Close()
	os.Exit(1)
}

// Payment логирует событие по платежу
func (l *Logger) Payment(paymentID, method, status string, amountUSD string) {
	icon := "💳"
	switch status {
	case "confirmed":
		icon = "✅"
	case "rejected":
		icon = "❌"
	}

	l.Info("%s ПЛАТЕЖ %s: %s %s USD (%s)", icon, paymentID, method, amountUSD, status)
}

func (l *Logger) Close() {
	if l.logFile != nil {
		l.logFile.Close()
	}
}
