package container

import (
	"context"
	"testing"
	"time"

	"samplemeta/internal/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBuildsImportPipeline(t *testing.T) {
	cfg := config.LoadLocal()
	c, err := New(cfg)
	require.NoError(t, err)

	assert.Equal(t, "DataEntry", c.Template.SheetName)
	assert.NotNil(t, c.Suggester)
	assert.NotNil(t, c.Importer)
	assert.NotNil(t, c.Writer)
	assert.NotNil(t, c.Roster)
	assert.NotNil(t, c.Scratch)
	assert.Nil(t, c.Imports, "services need a database")
}

func TestNewRejectsNilConfig(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)
}

func TestNewBadTemplatePath(t *testing.T) {
	cfg := config.LoadLocal()
	cfg.Import.TemplatePath = "/does/not/exist.yaml"
	_, err := New(cfg)
	assert.Error(t, err)
}

func TestInitWithDatabase(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	mock.ExpectPing()
	mock.ExpectClose()

	cfg := config.LoadLocal()
	cfg.Import.ScratchTTL = time.Minute
	c, err := New(cfg)
	require.NoError(t, err)

	require.NoError(t, c.InitWithDatabase(sqlx.NewDb(db, "postgres")))
	assert.NotNil(t, c.ExperimentRepo)
	assert.NotNil(t, c.SubjectRepo)
	assert.NotNil(t, c.Experiments)
	assert.NotNil(t, c.Templates)
	assert.NotNil(t, c.Imports)
	assert.NotNil(t, c.Rosters)

	c.StartJanitor(context.Background())
	require.NoError(t, c.Shutdown(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInitWithDatabaseNil(t *testing.T) {
	c, err := New(config.LoadLocal())
	require.NoError(t, err)
	assert.Error(t, c.InitWithDatabase(nil))
}
