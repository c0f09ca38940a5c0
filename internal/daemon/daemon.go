package daemon

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/username/address-book-bot/internal/contacts"
	"github.com/username/address-book-bot/pkg/dateutil"
	"go.uber.org/zap"
)

// BookLoader provides a fresh copy of the address book for each check
type BookLoader interface {
	Load() (*contacts.AddressBook, error)
}

// Daemon reports upcoming birthdays once a day
type Daemon struct {
	loader      BookLoader
	window      int
	dailyHour   int  // Hour to run daily check (0-23)
	dailyMinute int  // Minute to run daily check (0-59)
	systemTray  bool // Show system tray icon
	logger      *zap.Logger
	now         func() time.Time
	ctx         context.Context
	cancel      context.CancelFunc
	trayApp     *TrayApp
	lastRunDate time.Time  // Last day a check completed, to avoid duplicates
	lastResult  []contacts.Congratulation
	mu          sync.Mutex // Protect against concurrent runs
}

// NewScheduledDaemon creates a daemon that checks birthdays daily at the given local time
func NewScheduledDaemon(loader BookLoader, window, dailyHour, dailyMinute int, systemTray bool, logger *zap.Logger) *Daemon {
	ctx, cancel := context.WithCancel(context.Background())

	return &Daemon{
		loader:      loader,
		window:      window,
		dailyHour:   dailyHour,
		dailyMinute: dailyMinute,
		systemTray:  systemTray,
		logger:      logger,
		now:         time.Now,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start starts the daemon and blocks until it is stopped
func (d *Daemon) Start() error {
	// Initialize system tray if enabled (Windows only)
	if d.systemTray {
		d.logger.Info("Initializing system tray")
		trayApp, err := NewTrayApp(d, d.logger)
		if err != nil {
			d.logger.Warn("Failed to initialize system tray", zap.Error(err))
			d.runScheduledLogic()
			return nil
		}
		d.trayApp = trayApp
		// Run tray (blocks until Quit)
		d.trayApp.Run()
		return nil
	}

	d.logger.Info("Running without system tray")
	d.runScheduledLogic()
	return nil
}

// runScheduledLogic runs the scheduled check loop (called from tray or standalone)
func (d *Daemon) runScheduledLogic() {
	d.logger.Info("Birthday reminder started",
		zap.Int("daily_hour", d.dailyHour),
		zap.Int("daily_minute", d.dailyMinute),
		zap.Int("window_days", d.window))

	// Run immediately if the scheduled time already passed today
	now := d.now()
	if d.scheduledPassed(now) {
		d.logger.Info("Scheduled time already passed today, checking now",
			zap.Time("current_time", now))
		d.checkAndNotify()
	}

	nextRun := d.calculateNextRun(d.now())
	d.logger.Info("Next check scheduled",
		zap.Time("next_run", nextRun),
		zap.Duration("wait_duration", nextRun.Sub(d.now())))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	// Check every minute if it's time to run
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-d.ctx.Done():
			d.logger.Info("Birthday reminder stopped")
			if d.trayApp != nil {
				d.trayApp.Stop()
			}
			return

		case sig := <-sigChan:
			d.logger.Info("Received signal, shutting down",
				zap.String("signal", sig.String()))
			if d.trayApp != nil {
				d.trayApp.Stop()
			}
			d.Stop()
			return

		case <-ticker.C:
			if d.shouldRunAt(d.now()) {
				d.checkAndNotify()
			}
		}
	}
}

// Stop stops the daemon
func (d *Daemon) Stop() {
	d.cancel()
}

// CheckNow loads the book and returns upcoming congratulations, ignoring the daily guard
func (d *Daemon) CheckNow() ([]contacts.Congratulation, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.check()
}

// LastResult returns the congratulations found by the most recent check
func (d *Daemon) LastResult() []contacts.Congratulation {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.lastResult
}

// runDaily performs the check at most once per calendar day.
// ran is false when today's check already happened.
func (d *Daemon) runDaily() (upcoming []contacts.Congratulation, ran bool, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	if !d.lastRunDate.IsZero() && dateutil.IsSameDay(d.lastRunDate, now) {
		d.logger.Debug("Already checked today, skipping",
			zap.Time("last_run_date", d.lastRunDate))
		return nil, false, nil
	}

	upcoming, err = d.check()
	if err != nil {
		return nil, true, err
	}

	d.lastRunDate = dateutil.StartOfDay(now)
	return upcoming, true, nil
}

func (d *Daemon) check() ([]contacts.Congratulation, error) {
	book, err := d.loader.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load address book: %w", err)
	}

	upcoming := book.UpcomingBirthdaysAt(d.now(), d.window)
	d.lastResult = upcoming

	d.logger.Info("Upcoming birthdays checked",
		zap.Int("contacts", book.Len()),
		zap.Int("upcoming", len(upcoming)),
		zap.Int("window_days", d.window))

	return upcoming, nil
}

func (d *Daemon) checkAndNotify() {
	upcoming, ran, err := d.runDaily()
	if err != nil {
		d.logger.Error("Birthday check failed", zap.Error(err))
		d.notify("Birthday Check Failed", fmt.Sprintf("Error: %v", err))
		return
	}
	if !ran {
		return
	}
	d.report(upcoming)
}

// CheckAndReport runs an immediate check and reports the result (called from tray menu)
func (d *Daemon) CheckAndReport() {
	d.logger.Info("Manual birthday check triggered")
	upcoming, err := d.CheckNow()
	if err != nil {
		d.logger.Error("Manual birthday check failed", zap.Error(err))
		d.notify("Birthday Check Failed", fmt.Sprintf("Error: %v", err))
		return
	}
	d.report(upcoming)
}

func (d *Daemon) report(upcoming []contacts.Congratulation) {
	for _, c := range upcoming {
		d.logger.Info("Upcoming birthday",
			zap.String("name", c.Name),
			zap.String("congratulation_date", c.CongratulationDate))
	}
	if len(upcoming) > 0 {
		d.notify("Upcoming Birthdays", FormatSummary(upcoming))
	}
}

func (d *Daemon) notify(title, message string) {
	if d.trayApp != nil {
		d.trayApp.ShowNotification(title, message)
	}
}

// FormatSummary renders congratulations as "name - date" lines
func FormatSummary(upcoming []contacts.Congratulation) string {
	if len(upcoming) == 0 {
		return "No upcoming birthdays"
	}
	var summary string
	for i, c := range upcoming {
		if i > 0 {
			summary += "\n"
		}
		summary += fmt.Sprintf("%s - %s", c.Name, c.CongratulationDate)
	}
	return summary
}

// GetStatus returns daemon status
func (d *Daemon) GetStatus() map[string]interface{} {
	d.mu.Lock()
	defer d.mu.Unlock()

	lastRun := ""
	if !d.lastRunDate.IsZero() {
		lastRun = d.lastRunDate.Format("2006-01-02")
	}

	return map[string]interface{}{
		"running":       d.ctx.Err() == nil,
		"window_days":   d.window,
		"next_check":    d.calculateNextRun(d.now()).Format("2006-01-02 15:04"),
		"last_run_date": lastRun,
		"upcoming":      len(d.lastResult),
	}
}

// scheduledPassed reports whether today's scheduled time is already behind now
func (d *Daemon) scheduledPassed(now time.Time) bool {
	scheduledToday := time.Date(now.Year(), now.Month(), now.Day(),
		d.dailyHour, d.dailyMinute, 0, 0, now.Location())
	return now.After(scheduledToday)
}

// calculateNextRun calculates the next scheduled run time
func (d *Daemon) calculateNextRun(now time.Time) time.Time {
	today := time.Date(now.Year(), now.Month(), now.Day(),
		d.dailyHour, d.dailyMinute, 0, 0, now.Location())

	// If target time already passed today, schedule for tomorrow
	if !now.Before(today) {
		return today.AddDate(0, 0, 1)
	}

	return today
}

// shouldRunAt checks if the check should run at the given time
func (d *Daemon) shouldRunAt(now time.Time) bool {
	return now.Hour() == d.dailyHour &&
		now.Minute() == d.dailyMinute
}
