package logger

import "sync"

// named holds loggers registered under a component name.
var named sync.Map

// Register makes Get(name) return l.
func Register(name string, l *Logger) { named.Store(name, l) }

// Get returns the logger registered for name, or the global logger tagged
// with the component. Call Init first so unregistered components pick up
// the configured level and format.
func Get(name string) *Logger {
	if l, ok := named.Load(name); ok {
		return l.(*Logger)
	}
	return GetGlobalLogger().WithComponent(name)
}

// Reset forgets every registered logger.
func Reset() { named.Clear() }
