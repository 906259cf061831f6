// Package config persists droplink settings as named sections in a single
// JSON or YAML file and exposes them through a process-wide Manager.
package config

import (
	"sync"
)

var (
	// globalManager is the singleton configuration manager instance
	globalManager *Manager
	globalMu      sync.Mutex
)

// Initialize creates and initializes the global configuration manager.
// This should be called once at application startup.
func Initialize(configPath string) error {
	manager, err := NewDefaultManager(configPath)
	if err != nil {
		return err
	}

	globalMu.Lock()
	globalManager = manager
	globalMu.Unlock()
	return nil
}

// NewDefaultManager builds a manager with every droplink section registered
// and loaded from configPath. Stored values override defaults; missing keys
// keep them.
func NewDefaultManager(configPath string) (*Manager, error) {
	store, err := NewFileStore(configPath)
	if err != nil {
		return nil, err
	}

	manager := NewManager(store)
	for _, section := range []Section{
		NewAttachmentSection(),
		NewNotificationSection(),
		NewVaultSection(),
	} {
		if err := manager.RegisterSection(section); err != nil {
			return nil, err
		}
	}

	if err := manager.LoadAll(); err != nil {
		return nil, err
	}
	return manager, nil
}

// Global returns the global configuration manager.
// Panics if Initialize has not been called.
func Global() *Manager {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalManager == nil {
		panic("config not initialized: call config.Initialize first")
	}

	return globalManager
}

// IsInitialized returns true if the global configuration has been initialized.
func IsInitialized() bool {
	globalMu.Lock()
	defer globalMu.Unlock()
	return globalManager != nil
}

// GetAttachments returns the attachment section from global config.
// Returns nil if config is not initialized.
func GetAttachments() *AttachmentSection {
	return globalSection[*AttachmentSection](SectionIDAttachments)
}

// GetNotifications returns the notification section from global config.
// Returns nil if config is not initialized.
func GetNotifications() *NotificationSection {
	return globalSection[*NotificationSection](SectionIDNotifications)
}

// GetVault returns the vault section from global config.
// Returns nil if config is not initialized.
func GetVault() *VaultSection {
	return globalSection[*VaultSection](SectionIDVault)
}

func globalSection[T Section](id string) T {
	var zero T
	if !IsInitialized() {
		return zero
	}

	section, ok := Global().GetSection(id)
	if !ok {
		return zero
	}

	typed, ok := section.(T)
	if !ok {
		return zero
	}
	return typed
}

// AllowedExtensions returns the configured extension set, or the defaults
// when config is not initialized.
func AllowedExtensions() ExtensionSet {
	if attachments := GetAttachments(); attachments != nil {
		return attachments.AllowedExtensionSet()
	}
	return ParseExtensions(DefaultAllowedExtensions)
}
