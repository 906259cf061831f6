package notify

import (
	"time"

	"github.com/gen2brain/beeep"

	"github.com/entrhq/droplink/pkg/logging"
)

// DefaultAppName is shown as the notification source.
const DefaultAppName = "droplink"

// Desktop shows notifications through the operating system's notification
// center. The timeout is decided by the system.
type Desktop struct {
	title  string
	icon   string
	logger *logging.Logger

	notify func(title, message, icon string) error
}

// NewDesktop creates a desktop notifier. Failures to deliver are logged to
// logger, which may be nil.
func NewDesktop(title, icon string, logger *logging.Logger) *Desktop {
	if title == "" {
		title = DefaultAppName
	}
	if logger == nil {
		logger = logging.Discard("notify")
	}
	beeep.AppName = title
	return &Desktop{
		title:  title,
		icon:   icon,
		logger: logger,
		notify: func(title, message, icon string) error {
			return beeep.Notify(title, message, icon)
		},
	}
}

// Notify sends message to the desktop.
func (d *Desktop) Notify(message string, timeout time.Duration) {
	if err := d.notify(d.title, message, d.icon); err != nil {
		d.logger.Warnf("desktop notification failed: %v", err)
	}
}
