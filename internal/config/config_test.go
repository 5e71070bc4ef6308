package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func resetGlobalConfig() {
	globalConfig = &Config{
		DatabasePath:     ".greenmatch",
		BindAddr:         "0.0.0.0",
		ApiListenAddress: ":8080",
		MetricsPort:      12798,
		BlobPlugin:       DefaultBlobPlugin,
		MetadataPlugin:   DefaultMetadataPlugin,
		ShutdownTimeout:  DefaultShutdownTimeout,
	}
}

func TestLoad_CompareFullStruct(t *testing.T) {
	resetGlobalConfig()
	yamlContent := `
databasePath: ".greenmatch-test"
bindAddr: "127.0.0.1"
apiListenAddress: ":9080"
metricsPort: 8088
initialAdmin: "admin@example"
quorumPercent: 66
proposalDuration: 720
collaborators:
  flightSource: "http://flights.local"
  projectSource: "http://projects.local"
  creditLedger: "http://credits.local"
  proofIssuer: "http://proofs.local"
`

	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "test-greenmatch.yaml")

	err := os.WriteFile(tmpFile, []byte(yamlContent), 0644)
	if err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	defer os.Remove(tmpFile)

	expected := &Config{
		DatabasePath:     ".greenmatch-test",
		BindAddr:         "127.0.0.1",
		ApiListenAddress: ":9080",
		MetricsPort:      8088,
		InitialAdmin:     "admin@example",
		QuorumPercent:    66,
		ProposalDuration: 720,
		BlobPlugin:       DefaultBlobPlugin,
		MetadataPlugin:   DefaultMetadataPlugin,
		ShutdownTimeout:  DefaultShutdownTimeout,
		Collaborators: CollaboratorsConfig{
			FlightSource:  "http://flights.local",
			ProjectSource: "http://projects.local",
			CreditLedger:  "http://credits.local",
			ProofIssuer:   "http://proofs.local",
		},
	}

	actual, err := LoadConfig(tmpFile)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if !reflect.DeepEqual(actual, expected) {
		t.Errorf(
			"Loaded config does not match expected.\nActual: %+v\nExpected: %+v",
			actual,
			expected,
		)
	}
}

func TestLoad_WithoutConfigFile_UsesDefaults(t *testing.T) {
	resetGlobalConfig()

	// Without Config file
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	// Expected is the original default values from globalConfig
	expected := &Config{
		DatabasePath:     ".greenmatch",
		BindAddr:         "0.0.0.0",
		ApiListenAddress: ":8080",
		MetricsPort:      12798,
		BlobPlugin:       DefaultBlobPlugin,
		MetadataPlugin:   DefaultMetadataPlugin,
		ShutdownTimeout:  DefaultShutdownTimeout,
	}

	if !reflect.DeepEqual(cfg, expected) {
		t.Errorf(
			"config mismatch without file:\nExpected: %+v\nGot:      %+v",
			expected,
			cfg,
		)
	}
}

func TestLoad_WithConfigSection(t *testing.T) {
	resetGlobalConfig()

	// Top-level config section alongside a database plugin section
	yamlContent := `
config:
  initialAdmin: "root@example"
  tracing: true
database:
  metadata:
    plugin: sqlite
`

	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "test-config-section.yaml")

	err := os.WriteFile(tmpFile, []byte(yamlContent), 0644)
	if err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadConfig(tmpFile)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if cfg.InitialAdmin != "root@example" {
		t.Errorf(
			"expected InitialAdmin to be root@example, got: %s",
			cfg.InitialAdmin,
		)
	}
	if !cfg.Tracing {
		t.Errorf("expected Tracing to be true, got: %v", cfg.Tracing)
	}
	if cfg.MetadataPlugin != "sqlite" {
		t.Errorf(
			"expected MetadataPlugin to be sqlite, got: %s",
			cfg.MetadataPlugin,
		)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	resetGlobalConfig()

	t.Setenv("GREENMATCH_FLIGHT_SOURCE_URL", "http://flights.env")
	t.Setenv("GREENMATCH_DATABASE_PATH", "/var/lib/greenmatch")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if cfg.Collaborators.FlightSource != "http://flights.env" {
		t.Errorf(
			"expected FlightSource to be http://flights.env, got: %s",
			cfg.Collaborators.FlightSource,
		)
	}
	if cfg.DatabasePath != "/var/lib/greenmatch" {
		t.Errorf(
			"expected DatabasePath to be /var/lib/greenmatch, got: %s",
			cfg.DatabasePath,
		)
	}
}

func TestMaybeDecrypt_PassthroughPlaintext(t *testing.T) {
	in := []byte("databasePath: .greenmatch\n")
	out, err := maybeDecrypt(in)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Errorf("expected plaintext passthrough, got: %s", out)
	}
}

func TestMaybeDecrypt_RejectsUndecryptable(t *testing.T) {
	// Carries SOPS metadata but no usable key material
	in := []byte("databasePath: ENC[AES256_GCM,data:xxxx]\nsops:\n  version: 3.11.0\n")
	_, err := maybeDecrypt(in)
	if err == nil {
		t.Error("expected decryption error, got nil")
	}
}
