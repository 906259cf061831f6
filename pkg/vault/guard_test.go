package vault

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestNewGuard(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name    string
		dir     string
		wantErr bool
	}{
		{name: "existing directory", dir: tmpDir},
		{name: "current directory", dir: "."},
		{name: "empty directory", dir: "", wantErr: true},
		{name: "missing directory", dir: filepath.Join(tmpDir, "does-not-exist"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			guard, err := NewGuard(tt.dir)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewGuard() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && guard.Root() == "" {
				t.Error("NewGuard() created guard with empty root")
			}
		})
	}
}

func TestGuard_Resolve(t *testing.T) {
	guard, err := NewGuard(t.TempDir())
	if err != nil {
		t.Fatalf("NewGuard() error = %v", err)
	}
	root := guard.Root()

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr bool
	}{
		{name: "root", path: "", want: root},
		{name: "nested", path: "attachments/Notes-1.png", want: filepath.Join(root, "attachments", "Notes-1.png")},
		{name: "backslashes", path: `attachments\a.png`, want: filepath.Join(root, "attachments", "a.png")},
		{name: "inner dot dot", path: "a/../b.png", want: filepath.Join(root, "b.png")},
		{name: "escape", path: "../outside.png", wantErr: true},
		{name: "deep escape", path: "a/../../outside.png", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := guard.Resolve(tt.path)
			if tt.wantErr {
				if !errors.Is(err, ErrOutsideVault) {
					t.Fatalf("Resolve(%q) error = %v, want ErrOutsideVault", tt.path, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve(%q) error = %v", tt.path, err)
			}
			if got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestGuard_ResolveSymlinkEscape(t *testing.T) {
	vaultDir := t.TempDir()
	outside := t.TempDir()

	if err := os.Symlink(outside, filepath.Join(vaultDir, "link")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	guard, err := NewGuard(vaultDir)
	if err != nil {
		t.Fatalf("NewGuard() error = %v", err)
	}

	if _, err := guard.Resolve("link/new.png"); !errors.Is(err, ErrOutsideVault) {
		t.Errorf("Resolve() through escaping symlink error = %v, want ErrOutsideVault", err)
	}
}

func TestGuard_Rel(t *testing.T) {
	guard, err := NewGuard(t.TempDir())
	if err != nil {
		t.Fatalf("NewGuard() error = %v", err)
	}

	rel, err := guard.Rel(filepath.Join(guard.Root(), "attachments", "a.png"))
	if err != nil {
		t.Fatalf("Rel() error = %v", err)
	}
	if rel != "attachments/a.png" {
		t.Errorf("Rel() = %q, want %q", rel, "attachments/a.png")
	}

	if _, err := guard.Rel(filepath.Dir(guard.Root())); err == nil {
		t.Error("Rel() of the parent directory should fail")
	}
}
