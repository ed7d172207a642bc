// Package settingsstore resolves runtime AIMS connection settings.
//
// Priority: database > environment > default.
package settingsstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/AvivElectis/electisSpace-sub002/internal/aims"
	"github.com/AvivElectis/electisSpace-sub002/internal/crypto"
	"github.com/AvivElectis/electisSpace-sub002/internal/entities"
)

const (
	SourceDatabase    = "database"
	SourceEnvironment = "environment"
	SourceDefault     = "default"

	passwordMask = "********"
)

// ErrEncryptionKeyRequired is returned when a password is saved without an
// encryption key configured.
var ErrEncryptionKeyRequired = errors.New("AIMS_ENCRYPTION_KEY must be set to store the AIMS password")

type Repository interface {
	GetSetting(key string) (*entities.Setting, error)
	SetSetting(key, value string) error
	DeleteSetting(key string) error
}

type SettingsStore struct {
	repo   Repository
	env    aims.Credentials
	sealer *crypto.Sealer
}

// New creates a settings store. env holds the values configured through the
// environment; sealer may be nil when no encryption key is configured.
func New(repo Repository, env aims.Credentials, sealer *crypto.Sealer) *SettingsStore {
	return &SettingsStore{repo: repo, env: env, sealer: sealer}
}

type resolved struct {
	value  string
	source string
}

func (s *SettingsStore) resolve(key, envValue string) resolved {
	setting, err := s.repo.GetSetting(key)
	if err == nil && setting.Value != "" {
		return resolved{value: setting.Value, source: SourceDatabase}
	}
	if envValue != "" {
		return resolved{value: envValue, source: SourceEnvironment}
	}
	return resolved{source: SourceDefault}
}

func (s *SettingsStore) password() (resolved, error) {
	r := s.resolve(entities.SettingKeyAIMSPassword, s.env.Password)
	if r.source != SourceDatabase || !crypto.IsSealed(r.value) {
		return r, nil
	}
	if s.sealer == nil {
		return r, fmt.Errorf("stored AIMS password is encrypted: %w", ErrEncryptionKeyRequired)
	}
	plain, err := s.sealer.Open(r.value)
	if err != nil {
		return r, fmt.Errorf("decrypt AIMS password: %w", err)
	}
	r.value = plain
	return r, nil
}

// AIMSCredentials returns the effective AIMS credentials. It satisfies
// aims.CredentialsProvider so edits apply on the next request.
func (s *SettingsStore) AIMSCredentials(_ context.Context) (aims.Credentials, error) {
	password, err := s.password()
	if err != nil {
		return aims.Credentials{}, err
	}
	return aims.Credentials{
		BaseURL:  s.resolve(entities.SettingKeyAIMSBaseURL, s.env.BaseURL).value,
		Company:  s.resolve(entities.SettingKeyAIMSCompany, s.env.Company).value,
		Username: s.resolve(entities.SettingKeyAIMSUsername, s.env.Username).value,
		Password: password.value,
	}, nil
}

// AIMSSettingsInfo describes the effective settings and where each came from.
// The password is never included.
type AIMSSettingsInfo struct {
	BaseURL        string `json:"base_url"`
	BaseURLSource  string `json:"base_url_source"`
	Company        string `json:"company"`
	CompanySource  string `json:"company_source"`
	Username       string `json:"username"`
	UsernameSource string `json:"username_source"`
	Password       string `json:"password"` // masked
	PasswordSource string `json:"password_source"`
	HasPassword    bool   `json:"has_password"`
	Configured     bool   `json:"configured"`
	Encrypted      bool   `json:"encrypted"`
}

func (s *SettingsStore) GetAIMSSettingsInfo() AIMSSettingsInfo {
	baseURL := s.resolve(entities.SettingKeyAIMSBaseURL, s.env.BaseURL)
	company := s.resolve(entities.SettingKeyAIMSCompany, s.env.Company)
	username := s.resolve(entities.SettingKeyAIMSUsername, s.env.Username)
	password := s.resolve(entities.SettingKeyAIMSPassword, s.env.Password)

	info := AIMSSettingsInfo{
		BaseURL:        baseURL.value,
		BaseURLSource:  baseURL.source,
		Company:        company.value,
		CompanySource:  company.source,
		Username:       username.value,
		UsernameSource: username.source,
		PasswordSource: password.source,
		HasPassword:    password.value != "",
		Encrypted:      s.sealer != nil,
	}
	if info.HasPassword {
		info.Password = passwordMask
	}
	info.Configured = info.BaseURL != "" && info.Company != "" && info.Username != "" && info.HasPassword
	return info
}

// AIMSSettingsUpdate is a partial update. Nil fields are left alone; an
// empty string removes the database override.
type AIMSSettingsUpdate struct {
	BaseURL  *string `json:"base_url"`
	Company  *string `json:"company"`
	Username *string `json:"username"`
	Password *string `json:"password"`
}

// UpdateAIMSSettings seals the password before writing anything, so a
// rejected password leaves every field unchanged.
func (s *SettingsStore) UpdateAIMSSettings(update AIMSSettingsUpdate) error {
	var password string
	if update.Password != nil && *update.Password != "" {
		if s.sealer == nil {
			return ErrEncryptionKeyRequired
		}
		sealed, err := s.sealer.Seal(*update.Password)
		if err != nil {
			return fmt.Errorf("encrypt AIMS password: %w", err)
		}
		password = sealed
	}

	if update.BaseURL != nil {
		if err := s.set(entities.SettingKeyAIMSBaseURL, strings.TrimRight(strings.TrimSpace(*update.BaseURL), "/")); err != nil {
			return err
		}
	}
	if update.Company != nil {
		if err := s.set(entities.SettingKeyAIMSCompany, strings.TrimSpace(*update.Company)); err != nil {
			return err
		}
	}
	if update.Username != nil {
		if err := s.set(entities.SettingKeyAIMSUsername, strings.TrimSpace(*update.Username)); err != nil {
			return err
		}
	}
	if update.Password != nil {
		if err := s.set(entities.SettingKeyAIMSPassword, password); err != nil {
			return err
		}
	}
	return nil
}

// ClearAIMSSettings removes every database override, reverting to env/default.
func (s *SettingsStore) ClearAIMSSettings() error {
	keys := []string{
		entities.SettingKeyAIMSBaseURL,
		entities.SettingKeyAIMSCompany,
		entities.SettingKeyAIMSUsername,
		entities.SettingKeyAIMSPassword,
	}
	for _, key := range keys {
		if err := s.repo.DeleteSetting(key); err != nil && !errors.Is(err, entities.ErrNotFound) {
			return fmt.Errorf("clear %s: %w", key, err)
		}
	}
	return nil
}

func (s *SettingsStore) set(key, value string) error {
	if value == "" {
		if err := s.repo.DeleteSetting(key); err != nil && !errors.Is(err, entities.ErrNotFound) {
			return fmt.Errorf("clear %s: %w", key, err)
		}
		return nil
	}
	if err := s.repo.SetSetting(key, value); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}
