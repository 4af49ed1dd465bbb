package screen

import (
	"sync"

	"go.uber.org/zap"
)

// ToastLevel classifies a transient notification.
type ToastLevel string

const (
	ToastSuccess ToastLevel = "success"
	ToastError   ToastLevel = "error"
	ToastInfo    ToastLevel = "info"
)

// Toast is one auto-dismissing, non-blocking notification.
type Toast struct {
	Level   ToastLevel
	Message string
}

// Notifier receives transient success/error feedback from screens.
type Notifier interface {
	Toast(level ToastLevel, message string)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(level ToastLevel, message string)

// Toast implements Notifier.
func (f NotifierFunc) Toast(level ToastLevel, message string) {
	f(level, message)
}

// LogNotifier forwards toasts to a structured logger.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier builds a Notifier backed by the given logger.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger}
}

// Toast implements Notifier.
func (n *LogNotifier) Toast(level ToastLevel, message string) {
	switch level {
	case ToastError:
		n.logger.Warn("toast", zap.String("level", string(level)), zap.String("message", message))
	default:
		n.logger.Info("toast", zap.String("level", string(level)), zap.String("message", message))
	}
}

// MemoryNotifier buffers toasts for later inspection or rendering.
type MemoryNotifier struct {
	mu     sync.Mutex
	toasts []Toast
}

// Toast implements Notifier.
func (n *MemoryNotifier) Toast(level ToastLevel, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.toasts = append(n.toasts, Toast{Level: level, Message: message})
}

// Drain returns buffered toasts and clears the buffer.
func (n *MemoryNotifier) Drain() []Toast {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := n.toasts
	n.toasts = nil
	return out
}
