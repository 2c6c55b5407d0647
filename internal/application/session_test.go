package application_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/dbsession/internal/application"
	"github.com/ericfisherdev/dbsession/internal/domain/model"
	"github.com/ericfisherdev/dbsession/internal/domain/port/driven"
)

func TestBootstrap_OpensWithLoadedConfig(t *testing.T) {
	enc, err := legacyCipher().Encrypt("hunter2")
	require.NoError(t, err)
	path := writeFile(t, "dbconfig.json", `{"host":"db","port":3306,"user":"luna","password":"`+enc+`","database":"world"}`)
	db := &mockConnectionManager{}
	loader := application.NewConfigLoader(legacyCipher(), discardLogger())

	sess, err := application.Bootstrap(t.Context(), loader, db, path)

	require.NoError(t, err)
	require.NotNil(t, db.opened)
	assert.Equal(t, "hunter2", db.opened.Password)
	assert.Same(t, db.opened, sess.Config)
	assert.Equal(t, model.ConnStateOpen, sess.DB.State())

	require.NoError(t, sess.Close())
	assert.Equal(t, 1, db.closes)
}

func TestBootstrap_MissingConfigLeavesDatabaseClosed(t *testing.T) {
	db := &mockConnectionManager{}
	loader := application.NewConfigLoader(legacyCipher(), discardLogger())

	sess, err := application.Bootstrap(t.Context(), loader, db, filepath.Join(t.TempDir(), "missing.json"))

	assert.Nil(t, sess)
	assert.ErrorIs(t, err, driven.ErrConfigAbsent)
	assert.Zero(t, db.openCalls)
	assert.Equal(t, model.ConnStateClosed, db.State())
}

func TestBootstrap_MalformedConfig(t *testing.T) {
	path := writeFile(t, "dbconfig.json", `{not json`)
	db := &mockConnectionManager{}
	loader := application.NewConfigLoader(legacyCipher(), discardLogger())

	sess, err := application.Bootstrap(t.Context(), loader, db, path)

	assert.Nil(t, sess)
	assert.ErrorIs(t, err, driven.ErrConfigMalformed)
	assert.Zero(t, db.openCalls)
}

func TestBootstrap_OpenFailure(t *testing.T) {
	path := writeFile(t, "dbconfig.json", `{"host":"db","port":3306,"user":"luna","database":"world"}`)
	db := &mockConnectionManager{openErr: errors.New("connection refused")}
	loader := application.NewConfigLoader(legacyCipher(), discardLogger())

	sess, err := application.Bootstrap(t.Context(), loader, db, path)

	assert.Nil(t, sess)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open database")
	assert.Contains(t, err.Error(), "connection refused")
}
