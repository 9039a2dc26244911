package config

import "testing"

func TestCanonicalizeEnvKey_UsesExistingCamelCaseKeys(t *testing.T) {
	existing := map[string]any{
		"postgres": map[string]any{
			"sslMode": "disable",
			"dbName":  "intake",
		},
		"import": map[string]any{
			"batchSize": 500,
		},
		"elevenlabs": map[string]any{
			"modelId": "",
		},
	}

	tests := []struct {
		envKey string
		want   string
	}{
		{envKey: "POSTGRES_SSLMODE", want: "postgres.sslMode"},
		{envKey: "POSTGRES_DBNAME", want: "postgres.dbName"},
		{envKey: "IMPORT_BATCHSIZE", want: "import.batchSize"},
		{envKey: "ELEVENLABS_MODELID", want: "elevenlabs.modelId"},
		{envKey: "NEW_FEATURE_FLAG", want: "new.feature.flag"},
	}

	for _, tt := range tests {
		t.Run(tt.envKey, func(t *testing.T) {
			if got := canonicalizeEnvKey(tt.envKey, existing); got != tt.want {
				t.Fatalf("canonicalizeEnvKey(%q) = %q, want %q", tt.envKey, got, tt.want)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()

	if cfg.Import.BatchSize != 500 {
		t.Fatalf("BatchSize = %d, want 500", cfg.Import.BatchSize)
	}
	if cfg.Import.CountryCode != "880" {
		t.Fatalf("CountryCode = %q, want 880", cfg.Import.CountryCode)
	}
	if cfg.Import.MinLocalDigits != 8 || cfg.Import.MaxLocalDigits != 11 {
		t.Fatalf("local digit range = %d..%d, want 8..11", cfg.Import.MinLocalDigits, cfg.Import.MaxLocalDigits)
	}
	if cfg.Import.MinRecordingSeconds != 10 {
		t.Fatalf("MinRecordingSeconds = %d, want 10", cfg.Import.MinRecordingSeconds)
	}
}
