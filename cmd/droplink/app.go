package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/atotto/clipboard"

	"github.com/entrhq/droplink/pkg/config"
	"github.com/entrhq/droplink/pkg/drop"
	"github.com/entrhq/droplink/pkg/editor"
	"github.com/entrhq/droplink/pkg/history"
	"github.com/entrhq/droplink/pkg/logging"
	"github.com/entrhq/droplink/pkg/notify"
	"github.com/entrhq/droplink/pkg/settingsui"
	"github.com/entrhq/droplink/pkg/vault"
)

// copyToClipboard is swapped out in tests.
var copyToClipboard = clipboard.WriteAll

// run executes the mode selected by the flags.
func run(ctx context.Context, cfg *Config, stdout io.Writer) error {
	logging.SetDefaultLevel(logging.ParseLevel(cfg.LogLevel))
	// A logger is returned even on error; it falls back to stderr.
	logger, _ := logging.NewLogger("droplink")
	defer logger.Close()

	if err := config.Initialize(cfg.ConfigPath); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	manager := config.Global()

	switch {
	case cfg.setExtensionsGiven:
		return runSetExtensions(manager, cfg.SetExtensions, stdout)
	case cfg.Settings:
		return settingsui.Run(manager)
	case cfg.History > 0:
		return runHistory(ctx, cfg, stdout)
	default:
		return runDrop(ctx, cfg, logger, stdout)
	}
}

func runSetExtensions(manager *config.Manager, list string, stdout io.Writer) error {
	attachments := config.GetAttachments()

	previous := attachments.RawAllowedExtensions()
	attachments.SetAllowedExtensions(list)
	if err := manager.SaveAll(); err != nil {
		attachments.SetAllowedExtensions(previous)
		return fmt.Errorf("failed to save allowed extensions: %w", err)
	}

	fmt.Fprintf(stdout, "Allowed extensions: %s\n", attachments.AllowedExtensionSet())
	return nil
}

func runHistory(ctx context.Context, cfg *Config, stdout io.Writer) error {
	ledger, err := openLedger(cfg.HistoryPath)
	if err != nil {
		return err
	}
	defer ledger.Close()

	records, err := ledger.Recent(ctx, cfg.History)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(stdout, "No placements recorded yet.")
		return nil
	}

	w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tNOTE\tDROPPED\tWRITTEN")
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.PlacedAt.Format("2006-01-02 15:04:05"), r.NotePath, r.OriginalName, r.TargetPath)
	}
	return w.Flush()
}

func openLedger(path string) (*history.Ledger, error) {
	if path == "" {
		var err error
		if path, err = history.DefaultPath(); err != nil {
			return nil, err
		}
	}
	return history.Open(path)
}

func runDrop(ctx context.Context, cfg *Config, logger *logging.Logger, stdout io.Writer) error {
	attachments := config.GetAttachments()
	notifications := config.GetNotifications()
	vaultSettings := config.GetVault()

	vaultLogger, _ := logging.NewLogger("vault")
	defer vaultLogger.Close()
	dropLogger, _ := logging.NewLogger("drop")
	defer dropLogger.Close()
	notifyLogger, _ := logging.NewLogger("notify")
	defer notifyLogger.Close()

	v, err := vault.OpenFS(cfg.VaultDir,
		vault.WithIgnoredPatterns(vaultSettings.Patterns()),
		vault.WithLogger(vaultLogger),
	)
	if err != nil {
		return fmt.Errorf("failed to open vault: %w", err)
	}

	doc, ok := v.Lookup(cfg.Note)
	if !ok || doc.IsDir {
		return fmt.Errorf("note %q not found in vault %s", cfg.Note, v.Root())
	}

	buf, err := editor.Open(v, doc.Path)
	if err != nil {
		return err
	}
	if cfg.Cursor != "" {
		from, to, err := editor.ParseRange(cfg.Cursor)
		if err != nil {
			return fmt.Errorf("invalid -cursor: %w", err)
		}
		if err := buf.Select(from, to); err != nil {
			return fmt.Errorf("invalid -cursor: %w", err)
		}
	}

	notifier := notify.Multi{notify.NewConsole(stdout)}
	if cfg.Desktop || notifications.DesktopEnabled() {
		notifier = append(notifier, notify.NewDesktop(notify.DefaultAppName, "", notifyLogger))
	}

	placer := drop.NewPlacer(v, notifier, dropLogger)
	placer.SuccessDuration, placer.ErrorDuration = notifications.Durations()

	opts := []drop.InterceptorOption{drop.WithInterceptorLogger(dropLogger)}
	if !cfg.NoHistory {
		ledger, err := openLedger(cfg.HistoryPath)
		if err != nil {
			logger.Warnf("placement history disabled: %v", err)
		} else {
			defer ledger.Close()
			opts = append(opts, drop.WithRecorder(ledger))
		}
	}
	interceptor := drop.NewInterceptor(placer, attachments, opts...)

	res, err := interceptor.Drop(ctx, buildEvent(cfg.Items), buf, &doc)
	if err != nil {
		return err
	}
	if !res.Handled {
		fmt.Fprintf(stdout, "Nothing to place: no local file with an allowed extension (%s)\n", attachments.AllowedExtensionSet())
		return nil
	}

	if buf.Dirty() {
		if err := buf.Save(ctx); err != nil {
			return err
		}
	}

	if cfg.Copy && res.Inserted != "" {
		if err := copyToClipboard(res.Inserted); err != nil {
			logger.Warnf("failed to copy links to the clipboard: %v", err)
			fmt.Fprintf(stdout, "Could not copy to the clipboard: %v\n", err)
		}
	}

	return placementErrors(res.Placements, logger)
}

// buildEvent turns command line arguments into drop items. http and https
// URLs become string items; everything else is a local file.
func buildEvent(args []string) *drop.Event {
	ev := drop.NewEvent()
	for _, arg := range args {
		lower := strings.ToLower(arg)
		if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
			ev.Items = append(ev.Items, drop.StringItem("text/uri-list", arg))
			continue
		}
		ev.Items = append(ev.Items, drop.FileItem(drop.DiskFile{Path: arg}))
	}
	return ev
}

func placementErrors(placements []drop.Placement, logger *logging.Logger) error {
	var errs []error
	for _, p := range placements {
		if !p.OK() {
			errs = append(errs, p.Err)
		}
	}
	if len(errs) == 0 {
		return nil
	}

	err := fmt.Errorf("%d of %d file(s) could not be placed: %w", len(errs), len(placements), errors.Join(errs...))
	if path := logger.LogPath(); path != "" {
		return fmt.Errorf("%w (log: %s)", err, path)
	}
	return err
}
