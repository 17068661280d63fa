package boorusnap

import (
	"os"
	"testing"
)

func TestLoadConfigurationDefaults(t *testing.T) {
	config, err := LoadConfiguration()
	if err != nil {
		t.Fatal(err)
	}
	if config.ListenOn != "127.0.0.1:8080" {
		t.Errorf("unexpected default ListenOn: %q", config.ListenOn)
	}
	if config.LogLevel != "INFO" {
		t.Errorf("unexpected default LogLevel: %q", config.LogLevel)
	}
}

func TestLoadConfigurationFromEnvironment(t *testing.T) {
	t.Setenv("LISTEN_ON", "0.0.0.0:9090")
	t.Setenv("TWITTER_USE_V2", "true")
	t.Setenv("CAMO_HOST", "camo.example.com")

	config, err := LoadConfiguration()
	if err != nil {
		t.Fatal(err)
	}
	if config.ListenOn != "0.0.0.0:9090" {
		t.Errorf("ListenOn: got %q", config.ListenOn)
	}
	if !config.TwitterUseV2 {
		t.Error("expected TwitterUseV2 to be true")
	}
	if config.CamoHost != "camo.example.com" {
		t.Errorf("CamoHost: got %q", config.CamoHost)
	}
	os.Unsetenv("LISTEN_ON")
}

func TestIsAllowedOrigin(t *testing.T) {
	config := DefaultConfiguration()
	localhost := "localhost"
	if !config.IsAllowedOrigin(&localhost) {
		t.Error("expected localhost to be allowed by default")
	}
	other := "evil.example.com"
	if config.IsAllowedOrigin(&other) {
		t.Error("did not expect arbitrary origin to be allowed")
	}
	if config.IsAllowedOrigin(nil) {
		t.Error("expected missing origin to be rejected when AllowEmptyOrigin is false")
	}

	config.AllowEmptyOrigin = true
	if !config.IsAllowedOrigin(nil) {
		t.Error("expected missing origin to be allowed when AllowEmptyOrigin is true")
	}
}
