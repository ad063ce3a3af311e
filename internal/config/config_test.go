package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Notes:
// - White-box testing (package config) to reach parseFile directly.
// - Uses t.TempDir() + t.Setenv("XDG_CONFIG_HOME") for I/O isolation.
// - Tests using t.Setenv are NOT parallel (incompatible with t.Parallel).
// - Pure functions (ResolveOutputPath, ExpandPath, ValidKey) use t.Parallel().

// writeConfigFile creates a config file in the given directory.
func writeConfigFile(t *testing.T, dir, content string) {
	t.Helper()
	configDir := filepath.Join(dir, "hushai")
	if err := os.MkdirAll(configDir, 0750); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}
	configPath := filepath.Join(configDir, "config")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
}

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv(EnvOutputDir, "")
	t.Setenv(EnvLanguage, "")
	t.Setenv(EnvChunkMinutes, "")
}

func TestResolveOutputPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		output      string
		outputDir   string
		defaultName string
		want        string
	}{
		{
			name:        "absolute path ignores outputDir",
			output:      "/absolute/path/file.txt",
			outputDir:   "/some/dir",
			defaultName: "default.txt",
			want:        "/absolute/path/file.txt",
		},
		{
			name:        "relative path joined with outputDir",
			output:      "subdir/file.txt",
			outputDir:   "/base/dir",
			defaultName: "default.txt",
			want:        "/base/dir/subdir/file.txt",
		},
		{
			name:        "relative path without outputDir",
			output:      "file.txt",
			outputDir:   "",
			defaultName: "default.txt",
			want:        "file.txt",
		},
		{
			name:        "empty output uses default in outputDir",
			output:      "",
			outputDir:   "/base/dir",
			defaultName: "talk.txt",
			want:        "/base/dir/talk.txt",
		},
		{
			name:        "empty output without outputDir uses default in cwd",
			output:      "",
			outputDir:   "",
			defaultName: "talk.txt",
			want:        "talk.txt",
		},
		{
			name:        "redundant elements cleaned",
			output:      "./sub/../file.txt",
			outputDir:   "/base",
			defaultName: "default.txt",
			want:        "/base/file.txt",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ResolveOutputPath(tt.output, tt.outputDir, tt.defaultName)
			if got != tt.want {
				t.Errorf("ResolveOutputPath(%q, %q, %q) = %q, want %q",
					tt.output, tt.outputDir, tt.defaultName, got, tt.want)
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("cannot determine home dir: %v", err)
	}

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "tilde prefix expanded", in: "~/docs", want: filepath.Join(home, "docs")},
		{name: "absolute path untouched", in: "/tmp/docs", want: "/tmp/docs"},
		{name: "relative path untouched", in: "docs", want: "docs"},
		{name: "bare tilde untouched", in: "~", want: "~"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := ExpandPath(tt.in); got != tt.want {
				t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("missing file yields defaults", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", t.TempDir())
		clearEnv(t)

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.OutputDir != "" {
			t.Errorf("OutputDir = %q, want empty", cfg.OutputDir)
		}
		if cfg.Language != DefaultLanguage {
			t.Errorf("Language = %q, want %q", cfg.Language, DefaultLanguage)
		}
		if cfg.ChunkMinutes != DefaultChunkMinutes {
			t.Errorf("ChunkMinutes = %d, want %d", cfg.ChunkMinutes, DefaultChunkMinutes)
		}
	})

	t.Run("file values win over environment", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", dir)
		writeConfigFile(t, dir, "output-dir=/from/file\nlanguage=fr\nchunk-minutes=30\n")
		t.Setenv(EnvOutputDir, "/from/env")
		t.Setenv(EnvLanguage, "de")
		t.Setenv(EnvChunkMinutes, "15")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.OutputDir != "/from/file" {
			t.Errorf("OutputDir = %q, want /from/file", cfg.OutputDir)
		}
		if cfg.Language != "fr" {
			t.Errorf("Language = %q, want fr", cfg.Language)
		}
		if cfg.ChunkMinutes != 30 {
			t.Errorf("ChunkMinutes = %d, want 30", cfg.ChunkMinutes)
		}
	})

	t.Run("environment fallback", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", t.TempDir())
		clearEnv(t)
		t.Setenv(EnvOutputDir, "/from/env")
		t.Setenv(EnvLanguage, "es")
		t.Setenv(EnvChunkMinutes, "20")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.OutputDir != "/from/env" {
			t.Errorf("OutputDir = %q, want /from/env", cfg.OutputDir)
		}
		if cfg.Language != "es" {
			t.Errorf("Language = %q, want es", cfg.Language)
		}
		if cfg.ChunkMinutes != 20 {
			t.Errorf("ChunkMinutes = %d, want 20", cfg.ChunkMinutes)
		}
	})

	t.Run("invalid chunk-minutes rejected", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", dir)
		clearEnv(t)

		for _, bad := range []string{"zero", "0", "-5", "1.5"} {
			writeConfigFile(t, dir, "chunk-minutes="+bad+"\n")
			if _, err := Load(); err == nil {
				t.Errorf("Load() with chunk-minutes=%q: expected error", bad)
			}
		}
	})

	t.Run("malformed file is an error", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", dir)
		writeConfigFile(t, dir, "not a key value line\n")

		if _, err := Load(); err == nil {
			t.Error("Load() with malformed file: expected error")
		}
	})
}

func TestSaveGetList(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	if err := Save(KeyOutputDir, "/my/dir"); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := Save(KeyLanguage, "pt"); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := Get(KeyOutputDir)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "/my/dir" {
		t.Errorf("Get(%q) = %q, want /my/dir", KeyOutputDir, got)
	}

	// Overwrite preserves the other key.
	if err := Save(KeyOutputDir, "/other/dir"); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	all, err := List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if all[KeyOutputDir] != "/other/dir" {
		t.Errorf("List()[%q] = %q, want /other/dir", KeyOutputDir, all[KeyOutputDir])
	}
	if all[KeyLanguage] != "pt" {
		t.Errorf("List()[%q] = %q, want pt", KeyLanguage, all[KeyLanguage])
	}
}

func TestGetMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	got, err := Get(KeyLanguage)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "" {
		t.Errorf("Get() on missing file = %q, want empty", got)
	}

	all, err := List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 0 {
		t.Errorf("List() on missing file = %v, want empty map", all)
	}
}

func TestValidKey(t *testing.T) {
	t.Parallel()

	for _, k := range Keys {
		if !ValidKey(k) {
			t.Errorf("ValidKey(%q) = false, want true", k)
		}
	}
	for _, k := range []string{"", "outputdir", "lang", "chunk_minutes"} {
		if ValidKey(k) {
			t.Errorf("ValidKey(%q) = true, want false", k)
		}
	}
}

func TestParseFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	p := filepath.Join(dir, "config")
	content := strings.Join([]string{
		"# a comment",
		"",
		"output-dir = /spaced/value ",
		"language=en",
	}, "\n")
	if err := os.WriteFile(p, []byte(content), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	data, err := parseFile(p)
	if err != nil {
		t.Fatalf("parseFile() error = %v", err)
	}
	if data[KeyOutputDir] != "/spaced/value" {
		t.Errorf("output-dir = %q, want trimmed /spaced/value", data[KeyOutputDir])
	}
	if data[KeyLanguage] != "en" {
		t.Errorf("language = %q, want en", data[KeyLanguage])
	}
}

func TestValidOutputDir(t *testing.T) {
	t.Run("creates missing directory", func(t *testing.T) {
		d := filepath.Join(t.TempDir(), "new", "nested")
		if err := ValidOutputDir(d); err != nil {
			t.Fatalf("ValidOutputDir() error = %v", err)
		}
		info, err := os.Stat(d)
		if err != nil || !info.IsDir() {
			t.Errorf("directory was not created: %v", err)
		}
	})

	t.Run("rejects empty", func(t *testing.T) {
		if err := ValidOutputDir(""); err == nil {
			t.Error("ValidOutputDir(\"\") = nil, want error")
		}
	})

	t.Run("rejects file path", func(t *testing.T) {
		f := filepath.Join(t.TempDir(), "file")
		if err := os.WriteFile(f, []byte("x"), 0644); err != nil {
			t.Fatalf("write: %v", err)
		}
		if err := ValidOutputDir(f); err == nil {
			t.Error("ValidOutputDir(file) = nil, want error")
		}
	})
}

func TestDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/xdg")

	d, err := Dir()
	if err != nil {
		t.Fatalf("Dir() error = %v", err)
	}
	if d != filepath.Join("/custom/xdg", "hushai") {
		t.Errorf("Dir() = %q, want XDG-based hushai dir", d)
	}
}
