package config

import (
	"fmt"
	"sync"
	"time"
)

const (
	// SectionIDNotifications is the identifier for the notification settings section
	SectionIDNotifications = "notifications"

	defaultSuccessDuration = 4 * time.Second
	defaultErrorDuration   = 5 * time.Second
	defaultDesktopNotify   = false
)

// NotificationSection controls how placement results are surfaced.
type NotificationSection struct {
	SuccessDuration time.Duration `json:"success_duration"`
	ErrorDuration   time.Duration `json:"error_duration"`
	Desktop         bool          `json:"desktop"`
	mu              sync.RWMutex
}

// NewNotificationSection creates a new notification section with default settings.
func NewNotificationSection() *NotificationSection {
	return &NotificationSection{
		SuccessDuration: defaultSuccessDuration,
		ErrorDuration:   defaultErrorDuration,
		Desktop:         defaultDesktopNotify,
	}
}

// ID returns the section identifier.
func (s *NotificationSection) ID() string {
	return SectionIDNotifications
}

// Title returns the section title.
func (s *NotificationSection) Title() string {
	return "Notifications"
}

// Description returns the section description.
func (s *NotificationSection) Description() string {
	return "How long success and error notices stay visible, and whether they are also sent as desktop notifications."
}

// Data returns the current configuration data.
func (s *NotificationSection) Data() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]interface{}{
		"success_duration": s.SuccessDuration.String(),
		"error_duration":   s.ErrorDuration.String(),
		"desktop":          s.Desktop,
	}
}

// SetData updates the configuration from the provided data.
func (s *NotificationSection) SetData(data map[string]interface{}) error {
	if data == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, value := range data {
		switch key {
		case "success_duration":
			d, err := parseDuration(key, value)
			if err != nil {
				return err
			}
			s.SuccessDuration = d

		case "error_duration":
			d, err := parseDuration(key, value)
			if err != nil {
				return err
			}
			s.ErrorDuration = d

		case "desktop":
			enabled, ok := value.(bool)
			if !ok {
				return fmt.Errorf("invalid value type for desktop: expected bool, got %T", value)
			}
			s.Desktop = enabled

		default:
			// Ignore unknown keys for forward compatibility
			continue
		}
	}

	return nil
}

// parseDuration accepts a duration string or a raw nanosecond count.
func parseDuration(key string, value interface{}) (time.Duration, error) {
	switch v := value.(type) {
	case string:
		d, err := time.ParseDuration(v)
		if err != nil {
			return 0, fmt.Errorf("invalid duration string for %s: %w", key, err)
		}
		return d, nil
	case float64:
		// JSON numbers come as float64
		return time.Duration(v), nil
	case int:
		return time.Duration(v), nil
	case int64:
		return time.Duration(v), nil
	default:
		return 0, fmt.Errorf("invalid value type for %s: expected string or number, got %T", key, value)
	}
}

// Validate validates the current configuration.
func (s *NotificationSection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.SuccessDuration < 500*time.Millisecond || s.SuccessDuration > time.Minute {
		return fmt.Errorf("success_duration must be between 500ms and 1m, got %v", s.SuccessDuration)
	}
	if s.ErrorDuration < 500*time.Millisecond || s.ErrorDuration > time.Minute {
		return fmt.Errorf("error_duration must be between 500ms and 1m, got %v", s.ErrorDuration)
	}
	return nil
}

// Reset resets the section to default configuration.
func (s *NotificationSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.SuccessDuration = defaultSuccessDuration
	s.ErrorDuration = defaultErrorDuration
	s.Desktop = defaultDesktopNotify
}

// Durations returns (success, error) display durations.
func (s *NotificationSection) Durations() (time.Duration, time.Duration) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.SuccessDuration, s.ErrorDuration
}

// DesktopEnabled reports whether desktop notifications are requested.
func (s *NotificationSection) DesktopEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Desktop
}

// SetDesktop toggles desktop notifications.
func (s *NotificationSection) SetDesktop(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Desktop = enabled
}
