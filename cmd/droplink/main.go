// Package main provides the droplink command, which drops files onto a
// note in a vault: allowed files are renamed after the note, written to
// the vault's attachment folder and linked at the cursor.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
)

const version = "0.1.0"

// Config holds the command line options.
type Config struct {
	VaultDir      string
	Note          string
	Cursor        string
	ConfigPath    string
	HistoryPath   string
	LogLevel      string
	Copy          bool
	Desktop       bool
	NoHistory     bool
	Settings      bool
	SetExtensions string
	History       int
	ShowVersion   bool
	Items         []string

	setExtensionsGiven bool
}

func main() {
	config := parseFlags()

	if config.ShowVersion {
		fmt.Printf("droplink v%s\n", version)
		return
	}

	if err := config.validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n\n", err)
		flag.Usage()
		os.Exit(2)
	}

	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nCanceling...")
		cancel()
	}()

	if runErr := run(ctx, config, os.Stdout); runErr != nil {
		cancel()
		log.Fatalf("droplink: %v", runErr)
	}
	cancel()
}

// parseFlags parses command line flags
func parseFlags() *Config {
	config := &Config{}

	flag.StringVar(&config.VaultDir, "vault", ".", "Vault directory")
	flag.StringVar(&config.Note, "note", "", "Vault path of the note the files are dropped on")
	flag.StringVar(&config.Cursor, "cursor", "", "Cursor (L:C) or selection (L:C-L:C) to replace; default end of note")
	flag.StringVar(&config.ConfigPath, "config", "", "Config file (default ~/.droplink/config.json; .yaml/.yml for YAML)")
	flag.StringVar(&config.HistoryPath, "history-db", "", "Placement history database (default ~/.droplink/history.db)")
	flag.StringVar(&config.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	flag.BoolVar(&config.Copy, "copy", false, "Also copy the inserted links to the clipboard")
	flag.BoolVar(&config.Desktop, "desktop", false, "Also show desktop notifications")
	flag.BoolVar(&config.NoHistory, "no-history", false, "Do not record placements")
	flag.BoolVar(&config.Settings, "settings", false, "Edit the allowed extensions interactively")
	flag.StringVar(&config.SetExtensions, "set-extensions", "", "Save the comma-separated allowed extensions and exit")
	flag.IntVar(&config.History, "history", 0, "Print the N most recent placements and exit")
	flag.BoolVar(&config.ShowVersion, "version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "droplink - rename dropped files after the note and link them\n\n")
		fmt.Fprintf(os.Stderr, "Usage: droplink [options] -note NOTE FILE|URL...\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  droplink -vault ~/notes -note Notes.md ~/Desktop/photo.PNG ~/Desktop/clip.mp4\n")
		fmt.Fprintf(os.Stderr, "  droplink -vault ~/notes -note Notes.md -cursor 3:1 -copy shot.png\n")
		fmt.Fprintf(os.Stderr, "  droplink -set-extensions png,jpg,pdf\n")
		fmt.Fprintf(os.Stderr, "  droplink -settings\n")
		fmt.Fprintf(os.Stderr, "  droplink -history 20\n")
	}

	flag.Parse()
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "set-extensions" {
			config.setExtensionsGiven = true
		}
	})
	config.Items = flag.Args()
	return config
}

// validate checks that the configuration is valid
func (c *Config) validate() error {
	if c.History < 0 {
		return fmt.Errorf("-history must not be negative")
	}
	if c.Settings || c.setExtensionsGiven || c.History > 0 {
		return nil
	}
	if c.Note == "" {
		return fmt.Errorf("a note is required (use -note)")
	}
	if len(c.Items) == 0 {
		return fmt.Errorf("nothing to drop: pass one or more files or URLs")
	}

	info, err := os.Stat(c.VaultDir)
	if err != nil {
		return fmt.Errorf("vault directory error: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("vault path '%s' is not a directory", c.VaultDir)
	}
	return nil
}
