// pkg/logger/global.go
package logger

import "sync"

var (
	globalMu     sync.RWMutex
	globalLogger *Logger
)

func InitGlobal(logPath, logLevel string, debug bool) error {
	l, err := NewLogger(logPath, logLevel, debug)
	if err != nil {
		return err
	}
	SetGlobal(l)
	return nil
}

// SetGlobal подменяет глобальный логгер
func SetGlobal(l *Logger) {
	globalMu.Lock()
	globalLogger = l
	globalMu.Unlock()
}

func GetLogger() *Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalLogger
}

// Глобальные методы для удобства, до InitGlobal ничего не пишут
func Debug(format string, v ...interface{}) {
	if l := GetLogger(); l != nil {
		l.Debug(format, v...)
	}
}

func Info(format string, v ...interface{}) {
	if l := GetLogger(); l != nil {
		l.Info(format, v...)
	}
}

func Warn(format string, v ...interface{}) {
	if l := GetLogger(); l != nil {
		l.Warn(format, v...)
	}
}

func Error(format string, v ...interface{}) {
	if l := GetLogger(); l != nil {
		l.Error(format, v...)
	}
}

func Payment(paymentID, method, status, amountUSD string) {
	if l := GetLogger(); l != nil {
		l.Payment(paymentID, method, status, amountUSD)
	}
}
