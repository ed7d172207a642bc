package settingsstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AvivElectis/electisSpace-sub002/internal/aims"
	"github.com/AvivElectis/electisSpace-sub002/internal/crypto"
	"github.com/AvivElectis/electisSpace-sub002/internal/database"
	"github.com/AvivElectis/electisSpace-sub002/internal/database/settings"
	"github.com/AvivElectis/electisSpace-sub002/internal/entities"
)

func setupTestRepo(t *testing.T) *settings.Repository {
	t.Helper()
	db, err := database.NewDatabase(database.DriverSQLite, filepath.Join(t.TempDir(), "settings.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return settings.NewRepository(db.DB)
}

func newTestSealer(t *testing.T) *crypto.Sealer {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	sealer, err := crypto.NewSealer(key)
	require.NoError(t, err)
	return sealer
}

func strPtr(s string) *string { return &s }

var envCreds = aims.Credentials{
	BaseURL:  "https://env.aims.example",
	Company:  "ENVCO",
	Username: "env-user",
	Password: "env-pass",
}

func TestAIMSCredentials_Precedence(t *testing.T) {
	t.Run("environment when database is empty", func(t *testing.T) {
		store := New(setupTestRepo(t), envCreds, nil)

		creds, err := store.AIMSCredentials(context.Background())
		require.NoError(t, err)
		assert.Equal(t, envCreds, creds)
	})

	t.Run("database overrides environment", func(t *testing.T) {
		repo := setupTestRepo(t)
		require.NoError(t, repo.SetSetting(entities.SettingKeyAIMSCompany, "DBCO"))
		store := New(repo, envCreds, nil)

		creds, err := store.AIMSCredentials(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "DBCO", creds.Company)
		assert.Equal(t, "env-user", creds.Username)
	})

	t.Run("default is empty", func(t *testing.T) {
		store := New(setupTestRepo(t), aims.Credentials{}, nil)

		creds, err := store.AIMSCredentials(context.Background())
		require.NoError(t, err)
		assert.False(t, creds.Complete())

		info := store.GetAIMSSettingsInfo()
		assert.Equal(t, SourceDefault, info.BaseURLSource)
		assert.False(t, info.Configured)
	})
}

func TestUpdateAIMSSettings_EncryptsPassword(t *testing.T) {
	repo := setupTestRepo(t)
	store := New(repo, aims.Credentials{}, newTestSealer(t))

	require.NoError(t, store.UpdateAIMSSettings(AIMSSettingsUpdate{
		BaseURL:  strPtr("https://aims.example/ "),
		Company:  strPtr("ACME"),
		Username: strPtr("api"),
		Password: strPtr("s3cret"),
	}))

	raw, err := repo.GetSetting(entities.SettingKeyAIMSPassword)
	require.NoError(t, err)
	assert.True(t, crypto.IsSealed(raw.Value))
	assert.NotContains(t, raw.Value, "s3cret")

	creds, err := store.AIMSCredentials(context.Background())
	require.NoError(t, err)
	assert.Equal(t, aims.Credentials{
		BaseURL:  "https://aims.example",
		Company:  "ACME",
		Username: "api",
		Password: "s3cret",
	}, creds)

	info := store.GetAIMSSettingsInfo()
	assert.Equal(t, "********", info.Password)
	assert.Equal(t, SourceDatabase, info.PasswordSource)
	assert.True(t, info.Configured)
	assert.True(t, info.Encrypted)
}

func TestUpdateAIMSSettings_PasswordNeedsKey(t *testing.T) {
	store := New(setupTestRepo(t), aims.Credentials{}, nil)

	err := store.UpdateAIMSSettings(AIMSSettingsUpdate{Password: strPtr("s3cret")})
	assert.ErrorIs(t, err, ErrEncryptionKeyRequired)
}

func TestUpdateAIMSSettings_RejectedPasswordWritesNothing(t *testing.T) {
	store := New(setupTestRepo(t), envCreds, nil)

	err := store.UpdateAIMSSettings(AIMSSettingsUpdate{
		BaseURL:  strPtr("https://db.example.com"),
		Company:  strPtr("DBCO"),
		Username: strPtr("db-user"),
		Password: strPtr("s3cret"),
	})
	require.ErrorIs(t, err, ErrEncryptionKeyRequired)

	info := store.GetAIMSSettingsInfo()
	assert.Equal(t, envCreds.BaseURL, info.BaseURL)
	assert.Equal(t, SourceEnvironment, info.BaseURLSource)
	assert.Equal(t, SourceEnvironment, info.CompanySource)
	assert.Equal(t, SourceEnvironment, info.UsernameSource)
}

func TestUpdateAIMSSettings_EmptyRevertsToEnvironment(t *testing.T) {
	repo := setupTestRepo(t)
	store := New(repo, envCreds, nil)

	require.NoError(t, store.UpdateAIMSSettings(AIMSSettingsUpdate{Username: strPtr("db-user")}))
	assert.Equal(t, SourceDatabase, store.GetAIMSSettingsInfo().UsernameSource)

	require.NoError(t, store.UpdateAIMSSettings(AIMSSettingsUpdate{Username: strPtr("")}))
	info := store.GetAIMSSettingsInfo()
	assert.Equal(t, "env-user", info.Username)
	assert.Equal(t, SourceEnvironment, info.UsernameSource)
}

func TestAIMSCredentials_SealedPasswordWithoutKey(t *testing.T) {
	repo := setupTestRepo(t)
	sealed, err := newTestSealer(t).Seal("s3cret")
	require.NoError(t, err)
	require.NoError(t, repo.SetSetting(entities.SettingKeyAIMSPassword, sealed))

	_, err = New(repo, envCreds, nil).AIMSCredentials(context.Background())
	assert.ErrorIs(t, err, ErrEncryptionKeyRequired)
}

func TestClearAIMSSettings(t *testing.T) {
	repo := setupTestRepo(t)
	store := New(repo, envCreds, newTestSealer(t))
	require.NoError(t, store.UpdateAIMSSettings(AIMSSettingsUpdate{
		Company:  strPtr("DBCO"),
		Password: strPtr("db-pass"),
	}))

	require.NoError(t, store.ClearAIMSSettings())

	creds, err := store.AIMSCredentials(context.Background())
	require.NoError(t, err)
	assert.Equal(t, envCreds, creds)
}
