package logger

// NoOpLogger 丢弃所有日志,测试用
type NoOpLogger struct{}

// NewNop 创建空日志
func NewNop() Logger {
	return &NoOpLogger{}
}

func (l *NoOpLogger) Debug(msg string, fields ...Field) {}
func (l *NoOpLogger) Info(msg string, fields ...Field) {}
func (l *NoOpLogger) Warn(msg string, fields ...Field) {}
func (l *NoOpLogger) Error(msg string, fields ...Field) {}
func (l *NoOpLogger) With(fields ...Field) Logger { return l }
func (l *NoOpLogger) Sync() error { return nil }
