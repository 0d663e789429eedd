package configloader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yaklabco/cssbeautify/pkg/beautify"
	"github.com/yaklabco/cssbeautify/pkg/config"
)

// isolated returns options that only consult dir and skip env, system and user layers.
func isolated(dir string) LoadOptions {
	return LoadOptions{
		WorkingDir:         dir,
		IgnoreSystemConfig: true,
		IgnoreUserConfig:   true,
		IgnoreEnv:          true,
	}
}

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	result, err := Load(context.Background(), isolated(t.TempDir()))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if result.Config == nil {
		t.Fatal("Load() returned nil config")
	}

	settings, err := result.Config.ResolveSettings()
	if err != nil {
		t.Fatalf("ResolveSettings() error = %v", err)
	}
	if settings != beautify.DefaultSettings() {
		t.Errorf("settings = %+v, want defaults", settings)
	}
	if len(result.LoadedFrom) != 0 {
		t.Errorf("LoadedFrom = %v, want none", result.LoadedFrom)
	}
}

func TestLoad_ProjectConfig(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, ".git"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeConfig(t, filepath.Join(root, ".cssbeautify.yml"), `
format:
  indent: 2
  quote: single
backups:
  enabled: false
`)

	nested := filepath.Join(root, "src", "styles")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	result, err := Load(context.Background(), isolated(nested))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	settings, err := result.Config.ResolveSettings()
	if err != nil {
		t.Fatalf("ResolveSettings() error = %v", err)
	}
	if settings.Indent != "  " {
		t.Errorf("Indent = %q, want two spaces", settings.Indent)
	}
	if settings.Quote != beautify.QuoteSingle {
		t.Errorf("Quote = %q, want single", settings.Quote)
	}
	if result.Config.BackupsEnabled() {
		t.Error("expected backups disabled by project config")
	}
	if len(result.LoadedFrom) != 1 {
		t.Errorf("expected 1 loaded file, got %v", result.LoadedFrom)
	}
}

func TestLoad_StopsAtVCSRoot(t *testing.T) {
	t.Parallel()

	outer := t.TempDir()
	writeConfig(t, filepath.Join(outer, ".cssbeautify.yml"), "format:\n  indent: tab\n")

	repo := filepath.Join(outer, "repo")
	if err := os.MkdirAll(filepath.Join(repo, ".git"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	found, err := FindProjectConfig(context.Background(), repo)
	if err != nil {
		t.Fatalf("FindProjectConfig() error = %v", err)
	}
	if found != "" {
		t.Errorf("found %q above the repository root", found)
	}
}

func TestLoad_ExplicitOverridesProject(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeConfig(t, filepath.Join(dir, ".cssbeautify.yml"), "format:\n  indent: 2\n  shorten_hex: false\n")

	custom := filepath.Join(dir, "custom.yml")
	writeConfig(t, custom, "format:\n  indent: tab\n")

	opts := isolated(dir)
	opts.ExplicitPath = custom

	result, err := Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	settings, err := result.Config.ResolveSettings()
	if err != nil {
		t.Fatalf("ResolveSettings() error = %v", err)
	}
	if settings.Indent != "\t" {
		t.Errorf("Indent = %q, want tab from explicit config", settings.Indent)
	}
	if settings.ShortenHex {
		t.Error("expected shorten_hex from project config to survive")
	}
	if len(result.LoadedFrom) != 2 || result.LoadedFrom[1] != custom {
		t.Errorf("LoadedFrom = %v", result.LoadedFrom)
	}
}

func TestLoad_CLIOverrides(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeConfig(t, filepath.Join(dir, ".cssbeautify.yml"), "format:\n  quote: single\n")

	quote := "double"
	opts := isolated(dir)
	opts.CLIConfig = &config.Config{
		Format: config.FormatConfig{Quote: &quote},
		Jobs:   8,
		Write:  true,
	}

	result, err := Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got := *result.Config.Format.Quote; got != "double" {
		t.Errorf("quote = %q, want CLI override", got)
	}
	if result.Config.Jobs != 8 {
		t.Errorf("expected jobs 8 (CLI override), got %d", result.Config.Jobs)
	}
	if !result.Config.Write {
		t.Error("expected write true (CLI override)")
	}
}

func TestLoad_InvalidConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		field   string
	}{
		{name: "quote", content: "format:\n  quote: curly\n", field: "format"},
		{name: "indent", content: "format:\n  indent: wide\n", field: "format"},
		{name: "ignore glob", content: "ignore:\n  - \"[\"\n", field: "ignore[0]"},
		{name: "empty extension", content: "extensions:\n  - \"\"\n", field: "extensions[0]"},
		{name: "suffix", content: "backups:\n  suffix: /tmp/x\n", field: "backups.suffix"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			path := filepath.Join(dir, ".cssbeautify.yml")
			writeConfig(t, path, tt.content)

			_, err := Load(context.Background(), isolated(dir))

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("error = %v, want *ValidationError", err)
			}
			if verr.Field != tt.field {
				t.Errorf("Field = %q, want %q", verr.Field, tt.field)
			}
			if verr.FilePath != path {
				t.Errorf("FilePath = %q, want %q", verr.FilePath, path)
			}
		})
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeConfig(t, filepath.Join(dir, ".cssbeautify.yml"), "format: [unclosed\n")

	_, err := Load(context.Background(), isolated(dir))
	if err == nil || !strings.Contains(err.Error(), "load project config") {
		t.Fatalf("error = %v, want project config parse failure", err)
	}
	if !errors.Is(err, ErrConfigLoad) {
		t.Errorf("error = %v, want ErrConfigLoad", err)
	}
}

func TestLoad_ExtensionWarning(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeConfig(t, filepath.Join(dir, ".cssbeautify.yml"), "extensions:\n  - css\n")

	result, err := Load(context.Background(), isolated(dir))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0], "leading dot") {
		t.Errorf("Warnings = %v", result.Warnings)
	}
}

func TestLoad_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Load(ctx, isolated(t.TempDir())); err == nil {
		t.Fatal("expected context cancellation error")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Parallel()

	env := map[string]string{
		"CSSBEAUTIFY_INDENT":          "tab",
		"CSSBEAUTIFY_QUOTE":           "preserve",
		"CSSBEAUTIFY_JOBS":            "3",
		"CSSBEAUTIFY_IGNORE":          "vendor/**, dist/** ,",
		"CSSBEAUTIFY_BACKUPS_ENABLED": "false",
		"CSSBEAUTIFY_NO_VERIFY":       "1",
		"CSSBEAUTIFY_OUTPUT":          "json",
	}
	lookup := func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}

	cfg := config.NewConfig()
	if err := loadFromLookup(cfg, lookup); err != nil {
		t.Fatalf("loadFromLookup() error = %v", err)
	}

	if *cfg.Format.Indent != "tab" || *cfg.Format.Quote != "preserve" {
		t.Errorf("format = %q/%q", *cfg.Format.Indent, *cfg.Format.Quote)
	}
	if cfg.Jobs != 3 {
		t.Errorf("Jobs = %d, want 3", cfg.Jobs)
	}
	if len(cfg.Ignore) != 2 || cfg.Ignore[1] != "dist/**" {
		t.Errorf("Ignore = %v", cfg.Ignore)
	}
	if cfg.BackupsEnabled() {
		t.Error("expected backups disabled")
	}
	if cfg.VerifyEnabled() {
		t.Error("expected verify disabled")
	}
	if cfg.Output != config.FormatJSON {
		t.Errorf("Output = %q, want json", cfg.Output)
	}
}

func TestLoadFromEnv_InvalidValues(t *testing.T) {
	t.Parallel()

	for _, kv := range [][2]string{
		{"CSSBEAUTIFY_JOBS", "many"},
		{"CSSBEAUTIFY_VERIFY", "maybe"},
	} {
		lookup := func(key string) (string, bool) {
			if key == kv[0] {
				return kv[1], true
			}
			return "", false
		}
		if err := loadFromLookup(config.NewConfig(), lookup); err == nil || !strings.Contains(err.Error(), kv[0]) {
			t.Errorf("%s=%s: error = %v", kv[0], kv[1], err)
		}
	}
}

func TestGetEnvVarName(t *testing.T) {
	t.Parallel()

	if got := GetEnvVarName("format.indent"); got != "CSSBEAUTIFY_INDENT" {
		t.Errorf("GetEnvVarName() = %q", got)
	}
	if got := GetEnvVarName("nope"); got != "" {
		t.Errorf("GetEnvVarName(unknown) = %q", got)
	}
	if len(ListEnvVars()) != len(envMappings) {
		t.Error("ListEnvVars() does not cover every mapping")
	}
}

func TestMerge(t *testing.T) {
	t.Parallel()

	off := false
	two := "2"

	base := config.NewConfig()
	base.Ignore = []string{"a/**"}

	override := &config.Config{
		Format:  config.FormatConfig{Indent: &two, ShortenHex: &off},
		Backups: config.BackupsConfig{Enabled: &off},
	}

	got := MergeAll(base, override, nil)

	if *got.Format.Indent != "2" || *got.Format.ShortenHex {
		t.Errorf("format not merged: %+v", got.Format)
	}
	if got.BackupsEnabled() {
		t.Error("an explicit false must override an enabled default")
	}
	if len(got.Ignore) != 1 {
		t.Errorf("Ignore = %v, want base kept", got.Ignore)
	}
	if !got.VerifyEnabled() {
		t.Error("unset verify must keep the default")
	}

	*got.Format.Indent = "8"
	if two != "2" {
		t.Error("merge result aliases the override")
	}
	if MergeAll() != nil {
		t.Error("MergeAll() of nothing should be nil")
	}
}

func TestValidate_WriteAndCheck(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Write = true
	cfg.Check = true
	cfg.Jobs = -1

	result := Validate(cfg)
	if result.Valid() {
		t.Fatal("expected errors")
	}
	if len(result.Errors) != 2 {
		t.Errorf("Errors = %v", result.AllMessages())
	}
}
