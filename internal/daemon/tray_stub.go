//go:build !windows
// +build !windows

package daemon

import (
	"errors"

	"go.uber.org/zap"
)

// ErrTrayUnsupported is returned by NewTrayApp outside Windows
var ErrTrayUnsupported = errors.New("system tray is only supported on Windows")

// TrayApp is never constructed outside Windows; Start falls back to console reminders
type TrayApp struct{}

// NewTrayApp always fails with ErrTrayUnsupported
func NewTrayApp(d *Daemon, logger *zap.Logger) (*TrayApp, error) {
	return nil, ErrTrayUnsupported
}

func (t *TrayApp) Run() {}
func (t *TrayApp) Stop() {}

func (t *TrayApp) ShowNotification(title, message string) {}
