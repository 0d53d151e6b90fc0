package config

import "testing"

func TestLoadAppliesDefaults(t *testing.T) {
	t.Setenv("CRM_JWT_SECRET", "test-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.App.Port != 8000 {
		t.Fatalf("unexpected default port: %d", cfg.App.Port)
	}
	if cfg.Password.MinLength != 8 {
		t.Fatalf("unexpected default min length: %d", cfg.Password.MinLength)
	}

	argon := cfg.Argon2
	if argon.Memory != 65536 || argon.Iterations != 3 || argon.Parallelism != 4 {
		t.Fatalf("unexpected argon2 cost defaults: %+v", argon)
	}
	if argon.SaltLength != 16 || argon.KeyLength != 32 {
		t.Fatalf("unexpected argon2 length defaults: %+v", argon)
	}
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("CRM_JWT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when jwt secret is missing")
	}
}

func TestLoadHonorsEnvOverrides(t *testing.T) {
	t.Setenv("CRM_JWT_SECRET", "test-secret")
	t.Setenv("CRM_ARGON2_MEMORY", "32768")
	t.Setenv("CRM_POSTGRES_DATABASE", "crm_test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Argon2.Memory != 32768 {
		t.Fatalf("expected argon2 memory override, got %d", cfg.Argon2.Memory)
	}
	if cfg.Postgres.Database != "crm_test" {
		t.Fatalf("expected database override, got %q", cfg.Postgres.Database)
	}
}
