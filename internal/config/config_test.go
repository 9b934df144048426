package config

import (
	"testing"
	"time"

	"samplemeta/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/samplemeta")
	t.Setenv("PORT", "9090")
	t.Setenv("SPELL_DEPTH", "1")
	t.Setenv("TECH_TERMS", "HCD, nLC ,,")
	t.Setenv("SCRATCH_TTL", "15m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost/samplemeta", cfg.Database.URL)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 1, cfg.Spelling.Depth)
	assert.Equal(t, []string{"HCD", "nLC"}, cfg.Spelling.TechTerms)
	assert.Equal(t, 15*time.Minute, cfg.Import.ScratchTTL)
	assert.Equal(t, "group", cfg.Import.RosterGroupColumn)
}

func TestLoadRejectsBadSpellDepth(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/samplemeta")
	t.Setenv("SPELL_DEPTH", "7")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadLocalDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("SPELL_DEPTH", "not-a-number")

	cfg := LoadLocal()
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 2, cfg.Spelling.Depth)
	assert.Equal(t, 2*time.Hour, cfg.Import.ScratchTTL)
	assert.Empty(t, cfg.Database.URL)
}
