package database

import (
	"testing"

	"adultna_backend/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestShouldMigrate(t *testing.T) {
	cases := []struct {
		name  string
		mode  string
		force bool
		want  bool
	}{
		{"debug mode migrates", "debug", false, true},
		{"release mode skips by default", "release", false, false},
		{"release mode migrates when forced", "release", true, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &config.Config{ForceMigrate: tc.force}
			cfg.Server.Mode = tc.mode
			assert.Equal(t, tc.want, shouldMigrate(cfg))
		})
	}
}
