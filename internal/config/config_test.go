// Package config provides configuration management for the Jimmy AI application.
package config

import (
	"os"
	"testing"
	"time"
)

const (
	validConfigPath            = "testdata/valid_config.yaml"
	expansionConfigPath        = "testdata/expansion_config.yaml"
	expansionConfigMissingPath = "testdata/expansion_config_missing.yaml"
	nonexistentConfigPath      = "testdata/nonexistent_config.yaml"
	expectedNoErrorLoadingMsg  = "expected no error loading config, got %v"
	expectedNoErrorMsg         = "expected no error, got %v"
	expectedNonNilConfig       = "expected non-nil config"
	jimmyAppName               = "jimmy-ai-nba"
	developmentEnv             = "development"
	invalidEnv                 = "invalid"
	localhostHost              = "localhost"
	postgresPort               = 5432
	postgresPrefix             = "postgres://"
	testAppName                = "test-app"
	testDBPassword             = "TEST_DB_PASSWORD"
	testMissingVar             = "TEST_MISSING_VAR"
	expandedSecretValue        = "expanded_secret_value"
	marketsValidationError     = "markets"
	marketsValidationErrorCaps = "Markets"
)

// TestLoadConfigSuccess tests loading a valid configuration file
func TestLoadConfigSuccess(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	if cfg == nil {
		t.Fatal(expectedNonNilConfig)
	}

	if cfg.App.Name != jimmyAppName {
		t.Errorf("expected app name '%s', got '%s'", jimmyAppName, cfg.App.Name)
	}

	if cfg.App.Environment != developmentEnv {
		t.Errorf("expected environment '%s', got '%s'", developmentEnv, cfg.App.Environment)
	}

	if cfg.Database.Host != localhostHost {
		t.Errorf("expected database host '%s', got '%s'", localhostHost, cfg.Database.Host)
	}

	if cfg.Database.Port != postgresPort {
		t.Errorf("expected database port %d, got %d", postgresPort, cfg.Database.Port)
	}

	if len(cfg.OddsAPI.APIKeys) != 2 {
		t.Errorf("expected 2 odds API keys, got %d", len(cfg.OddsAPI.APIKeys))
	}
}

// TestLoadConfigFileNotFound tests handling of missing configuration file
func TestLoadConfigFileNotFound(t *testing.T) {
	_, err := Load(nonexistentConfigPath)
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}

// TestLoadConfigEnvironmentVariables tests environment variable override
func TestLoadConfigEnvironmentVariables(t *testing.T) {
	os.Setenv("JIMMY_APP_NAME", testAppName)
	defer os.Unsetenv("JIMMY_APP_NAME")

	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	if cfg.App.Name != testAppName {
		t.Errorf("expected app name '%s' from environment, got '%s'", testAppName, cfg.App.Name)
	}
}

// TestValidateSuccess tests validation of a valid configuration
func TestValidateSuccess(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingMsg, err)
	}

	err = Validate(cfg)
	if err != nil {
		t.Fatalf("expected no validation error, got %v", err)
	}
}

// TestValidateInvalidEnvironment tests validation of invalid environment
func TestValidateInvalidEnvironment(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingMsg, err)
	}

	cfg.App.Environment = invalidEnv
	err = Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error for invalid environment")
	}
}

// TestValidateInvalidMarkets tests validation of invalid market names
func TestValidateInvalidMarkets(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingMsg, err)
	}

	cfg.Scan.Markets = []string{"FOO", "BAR"}
	err = Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error for invalid markets")
	}

	if !containsSubstring(err.Error(), marketsValidationError) && !containsSubstring(err.Error(), marketsValidationErrorCaps) {
		t.Errorf("expected markets validation error, got: %v", err)
	}
}

// TestValidateEmptyMarkets tests validation of empty markets array
func TestValidateEmptyMarkets(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingMsg, err)
	}

	cfg.Scan.Markets = []string{}
	err = Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error for empty markets")
	}
}

// TestValidateValidMarkets tests validation of valid market combinations
func TestValidateValidMarkets(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingMsg, err)
	}

	cfg.Scan.Markets = []string{"points"}
	err = Validate(cfg)
	if err != nil {
		t.Fatalf("expected no error for single valid market, got %v", err)
	}

	cfg.Scan.Markets = []string{"points", "rebounds", "assists", "three_points_made", "steals", "blocks"}
	err = Validate(cfg)
	if err != nil {
		t.Fatalf("expected no error for multiple valid markets, got %v", err)
	}
}

// TestValidateInvalidScanMode tests validation of the scan mode
func TestValidateInvalidScanMode(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingMsg, err)
	}

	cfg.Scan.Mode = "yolo"
	err = Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error for invalid scan mode")
	}
}

// TestValidateEVModeRequiresProbabilityFloor tests EV mode cross-field validation
func TestValidateEVModeRequiresProbabilityFloor(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingMsg, err)
	}

	cfg.Scan.Mode = "ev"
	cfg.Scan.MinProbability = 0
	err = Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error for ev mode without probability floor")
	}

	cfg.Scan.MinProbability = 0.55
	err = Validate(cfg)
	if err != nil {
		t.Fatalf("expected no error with probability floor set, got %v", err)
	}
}

// TestGetDatabaseDSN tests DSN generation
func TestGetDatabaseDSN(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingMsg, err)
	}

	dsn := cfg.GetDatabaseDSN()
	if dsn == "" {
		t.Fatal("expected non-empty DSN")
	}

	if !containsSubstring(dsn, postgresPrefix) {
		t.Errorf("expected DSN to start with '%s', got '%s'", postgresPrefix, dsn)
	}
}

// TestIsDevelopment tests environment check function
func TestIsDevelopment(t *testing.T) {
	cfg := &Config{
		App: AppConfig{Environment: developmentEnv},
	}

	if !cfg.IsDevelopment() {
		t.Error("expected IsDevelopment() to return true")
	}

	if cfg.IsProduction() {
		t.Error("expected IsProduction() to return false")
	}
}

// TestIsProduction tests production environment check
func TestIsProduction(t *testing.T) {
	cfg := &Config{
		App: AppConfig{Environment: "production"},
	}

	if !cfg.IsProduction() {
		t.Error("expected IsProduction() to return true")
	}

	if cfg.IsDevelopment() {
		t.Error("expected IsDevelopment() to return false")
	}
}

// TestIsStaging tests staging environment check
func TestIsStaging(t *testing.T) {
	cfg := &Config{
		App: AppConfig{Environment: "staging"},
	}

	if !cfg.IsStaging() {
		t.Error("expected IsStaging() to return true")
	}

	if cfg.IsDevelopment() {
		t.Error("expected IsDevelopment() to return false")
	}
}

// TestTTLHelpers tests duration conversion helpers
func TestTTLHelpers(t *testing.T) {
	oddsCfg := OddsAPIConfig{LineTTLMinutes: 30, EventCacheTTLMinutes: 10}
	if oddsCfg.LineTTL() != 30*time.Minute {
		t.Errorf("expected 30m line TTL, got %v", oddsCfg.LineTTL())
	}
	if oddsCfg.EventCacheTTL() != 10*time.Minute {
		t.Errorf("expected 10m event cache TTL, got %v", oddsCfg.EventCacheTTL())
	}

	scanCfg := ScanConfig{SameDayCacheTTLMinutes: 360}
	if scanCfg.SameDayCacheTTL() != 6*time.Hour {
		t.Errorf("expected 6h same-day cache TTL, got %v", scanCfg.SameDayCacheTTL())
	}
}

// TestOverlaySecrets tests applying a secrets overlay onto the configuration
func TestOverlaySecrets(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingMsg, err)
	}

	secrets := &SecretsOverlay{
		DatabasePassword: "vault-password",
		OddsAPIKeys:      "key-a, key-b ,key-c",
		NarrativeAPIKey:  "narrative-key",
		NBAStatsAPIKey:   "stats-key",
	}
	overlaySecretsOnConfig(cfg, secrets)

	if cfg.Database.Password != "vault-password" {
		t.Errorf("expected overlaid database password, got '%s'", cfg.Database.Password)
	}
	if len(cfg.OddsAPI.APIKeys) != 3 || cfg.OddsAPI.APIKeys[1] != "key-b" {
		t.Errorf("expected 3 trimmed odds API keys, got %v", cfg.OddsAPI.APIKeys)
	}
	if cfg.Narrative.APIKey != "narrative-key" {
		t.Errorf("expected overlaid narrative key, got '%s'", cfg.Narrative.APIKey)
	}
	if cfg.Ingestion.Sources[0].APIKey != "stats-key" {
		t.Errorf("expected overlaid nba_stats key, got '%s'", cfg.Ingestion.Sources[0].APIKey)
	}
}

// TestLoadConfigEnvironmentVariableExpansion tests environment variable expansion in config file
func TestLoadConfigEnvironmentVariableExpansion(t *testing.T) {
	os.Setenv(testDBPassword, expandedSecretValue)
	defer os.Unsetenv(testDBPassword)

	cfg, err := Load(expansionConfigPath)
	if err != nil {
		t.Fatalf("expected no error loading config with expansion, got %v", err)
	}

	if cfg.Database.Password != expandedSecretValue {
		t.Errorf("expected password '%s' from environment expansion, got '%s'", expandedSecretValue, cfg.Database.Password)
	}
}

// TestLoadConfigMissingEnvironmentVariable tests handling of missing environment variables
func TestLoadConfigMissingEnvironmentVariable(t *testing.T) {
	os.Unsetenv(testMissingVar)

	cfg, err := Load(expansionConfigMissingPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingMsg, err)
	}

	// os.ExpandEnv replaces unset ${VAR} with the empty string
	if cfg.Database.Password != "" {
		t.Logf("note: missing env var became: %q (expected empty)", cfg.Database.Password)
	}
}

// Helper function
func containsSubstring(str, substr string) bool {
	for i := 0; i <= len(str)-len(substr); i++ {
		if str[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
