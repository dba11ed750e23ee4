package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIURL != DefaultAPIURL || cfg.WSURL != DefaultWSURL {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	data := "api_url: https://api.blastline.app\nws_url: wss://api.blastline.app/ws\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIURL != "https://api.blastline.app" {
		t.Errorf("api url = %q", cfg.APIURL)
	}
	if cfg.WSURL != "wss://api.blastline.app/ws" {
		t.Errorf("ws url = %q", cfg.WSURL)
	}
}

func TestLoadPartialFileFillsDefaults(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("api_url: http://10.0.0.5/api\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIURL != "http://10.0.0.5/api" {
		t.Errorf("api url = %q", cfg.APIURL)
	}
	if cfg.WSURL != DefaultWSURL {
		t.Errorf("ws url = %q, want default", cfg.WSURL)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("{not yaml"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(dir); err == nil {
		t.Fatal("malformed file must error")
	}
}
