package extensibility

import (
	"go.uber.org/zap"

	"github.com/comalice/hsmx/internal/core"
)

// LoggingListener logs every action execution.
type LoggingListener struct {
	logger *zap.Logger
}

// NewLoggingListener creates a LoggingListener writing to logger.
func NewLoggingListener(logger *zap.Logger) *LoggingListener {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoggingListener{logger: logger}
}

func actionFields(e core.ActionEvent) []zap.Field {
	return []zap.Field{
		zap.String("machine", e.MachineID),
		zap.Stringer("phase", e.Phase),
		zap.String("state", string(e.State)),
		zap.String("from", string(e.From)),
		zap.String("to", string(e.To)),
		zap.String("event", string(e.Event.Type)),
		zap.Stringer("kind", e.Kind),
		zap.Int("index", e.Index),
	}
}

// BeforeAction implements core.ActionListener.
func (l *LoggingListener) BeforeAction(e core.ActionEvent) {
	l.logger.Debug("executing action", actionFields(e)...)
}

// AfterAction implements core.ActionListener.
func (l *LoggingListener) AfterAction(e core.ActionEvent) {
	fields := append(actionFields(e), zap.Duration("took", e.Duration))
	if e.Err != nil {
		l.logger.Warn("action failed", append(fields, zap.Error(e.Err))...)
		return
	}
	l.logger.Debug("action completed", fields...)
}
