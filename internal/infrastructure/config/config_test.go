package config

import "testing"

func TestLoadMissingConfig(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg != nil {
		t.Errorf("expected nil config for missing file, got %+v", cfg)
	}
}

func TestSaveAndLoadConfig(t *testing.T) {
	root := t.TempDir()

	in := &Config{
		Actor: "release-bot",
		Notifier: &NotifierConfig{
			Plugin:   "./notifier-slack",
			Settings: map[string]string{"channel": "#releases"},
		},
	}
	if err := Save(root, in); err != nil {
		t.Fatalf("save: %v", err)
	}

	out, err := Load(root)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if out == nil {
		t.Fatal("expected config")
	}
	if out.Actor != "release-bot" {
		t.Errorf("actor = %q", out.Actor)
	}
	if out.Notifier == nil || out.Notifier.Plugin != "./notifier-slack" {
		t.Errorf("notifier = %+v", out.Notifier)
	}
	if out.Notifier.Settings["channel"] != "#releases" {
		t.Errorf("settings = %v", out.Notifier.Settings)
	}
}

func TestSaveNilConfig(t *testing.T) {
	if err := Save(t.TempDir(), nil); err == nil {
		t.Fatal("expected error for nil config")
	}
}
