//go:build windows
// +build windows

package daemon

import (
	"fmt"
	"syscall"
	"unsafe"

	"fyne.io/systray"
	"go.uber.org/zap"
)

var (
	user32      = syscall.NewLazyDLL("user32.dll")
	messageBoxW = user32.NewProc("MessageBoxW")
)

const (
	MB_OK              = 0x00000000
	MB_ICONINFORMATION = 0x00000040
)

// TrayApp represents system tray application
type TrayApp struct {
	daemon *Daemon
	logger *zap.Logger
	quit   chan struct{}
}

// NewTrayApp creates a new system tray application
func NewTrayApp(daemon *Daemon, logger *zap.Logger) (*TrayApp, error) {
	return &TrayApp{
		daemon: daemon,
		logger: logger,
		quit:   make(chan struct{}),
	}, nil
}

// Run starts the system tray application (blocks until Quit)
func (t *TrayApp) Run() {
	systray.Run(t.onReady, t.onExit)
}

func (t *TrayApp) onReady() {
	systray.SetTitle("AB")
	systray.SetTooltip("Address Book birthday reminder")

	mCheckNow := systray.AddMenuItem("Check Now", "Check upcoming birthdays immediately")
	systray.AddSeparator()
	mUpcoming := systray.AddMenuItem("Upcoming", "Show upcoming birthdays")
	systray.AddSeparator()
	mQuit := systray.AddMenuItem("Quit", "Exit the reminder")

	// Start daemon logic in background
	go t.daemon.runScheduledLogic()

	go func() {
		for {
			select {
			case <-mCheckNow.ClickedCh:
				t.logger.Info("Check Now clicked from tray")
				go t.daemon.CheckAndReport()
			case <-mUpcoming.ClickedCh:
				t.logger.Info("Upcoming clicked from tray")
				t.showUpcoming()
			case <-mQuit.ClickedCh:
				t.logger.Info("Quit clicked from tray")
				t.daemon.Stop()
				systray.Quit()
				return
			case <-t.quit:
				systray.Quit()
				return
			}
		}
	}()
}

func (t *TrayApp) onExit() {
	t.logger.Info("System tray exited")
}

// Stop stops the system tray application
func (t *TrayApp) Stop() {
	select {
	case <-t.quit:
	default:
		close(t.quit)
	}
}

// ShowNotification updates the tooltip and shows a message box
func (t *TrayApp) ShowNotification(title, message string) {
	t.logger.Info("Notification", zap.String("title", title), zap.String("message", message))
	systray.SetTooltip(fmt.Sprintf("%s\n%s", title, message))
	go showMessageBox(title, message)
}

func (t *TrayApp) showUpcoming() {
	status := t.daemon.GetStatus()
	t.logger.Info("Current status", zap.Any("status", status))

	message := FormatSummary(t.daemon.LastResult())
	showMessageBox("Upcoming Birthdays", message)
}

func showMessageBox(title, message string) {
	titlePtr, _ := syscall.UTF16PtrFromString(title)
	messagePtr, _ := syscall.UTF16PtrFromString(message)
	messageBoxW.Call(
		0,
		uintptr(unsafe.Pointer(messagePtr)),
		uintptr(unsafe.Pointer(titlePtr)),
		uintptr(MB_OK|MB_ICONINFORMATION),
	)
}
