package config

import "testing"

func TestShouldMigrate(t *testing.T) {
	cases := []struct {
		name  string
		mode  string
		force bool
		only  bool
		want  bool
	}{
		{"debug auto-migrates", "debug", false, false, true},
		{"release without flags skips", "release", false, false, false},
		{"release with force flag migrates", "release", true, false, true},
		{"release migrate-only migrates", "release", false, true, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &Config{
				Server:       ServerConfig{Mode: tc.mode},
				ForceMigrate: tc.force,
				MigrateOnly:  tc.only,
			}
			if got := cfg.ShouldMigrate(); got != tc.want {
				t.Fatalf("ShouldMigrate() = %v, want %v", got, tc.want)
			}
		})
	}
}
