package http

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AvivElectis/electisSpace-sub002/internal/aims"
	"github.com/AvivElectis/electisSpace-sub002/internal/settingsstore"
)

// AIMSSettingsController manages the runtime AIMS connection settings.
type AIMSSettingsController struct {
	settings  AIMSSettings
	validator CredentialsValidator
	audit     AuditLog
}

func NewAIMSSettingsController(settings AIMSSettings, validator CredentialsValidator, audit AuditLog) *AIMSSettingsController {
	return &AIMSSettingsController{
		settings:  settings,
		validator: validator,
		audit:     audit,
	}
}

// GetSettings handles GET /api/settings/aims
func (ac *AIMSSettingsController) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, ac.settings.GetAIMSSettingsInfo())
}

// UpdateSettings handles PUT /api/settings/aims
// With ?validate=true the merged credentials are checked against AIMS
// before anything is saved.
func (ac *AIMSSettingsController) UpdateSettings(c *gin.Context) {
	var update settingsstore.AIMSSettingsUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	if update.BaseURL != nil && strings.TrimSpace(*update.BaseURL) != "" {
		if err := validateBaseURL(strings.TrimSpace(*update.BaseURL)); err != nil {
			respondBadRequest(c, err.Error())
			return
		}
	}

	if c.Query("validate") == "true" && ac.validator != nil {
		creds, err := ac.settings.AIMSCredentials(c.Request.Context())
		if err != nil {
			respondInternalError(c, err, "load AIMS credentials")
			return
		}
		creds = mergeCredentials(creds, update)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
		defer cancel()

		if err := ac.validator.ValidateCredentials(ctx, creds); err != nil {
			switch {
			case errors.Is(err, aims.ErrNotConfigured):
				respondError(c, http.StatusBadRequest, "incomplete_credentials", err.Error())
			case errors.Is(err, aims.ErrUnauthorized):
				respondError(c, http.StatusUnprocessableEntity, "invalid_credentials", err.Error())
			default:
				respondError(c, http.StatusBadGateway, "aims_unreachable", err.Error())
			}
			return
		}
	}

	if err := ac.settings.UpdateAIMSSettings(update); err != nil {
		if errors.Is(err, settingsstore.ErrEncryptionKeyRequired) {
			respondError(c, http.StatusBadRequest, "encryption_key_required", err.Error())
			return
		}
		respondInternalError(c, err, "update AIMS settings")
		return
	}

	if ac.audit != nil {
		ac.audit.LogSettings("aims_settings_update", "Updated AIMS settings: "+strings.Join(changedFields(update), ", "))
	}

	c.JSON(http.StatusOK, ac.settings.GetAIMSSettingsInfo())
}

// ClearSettings handles DELETE /api/settings/aims
// Removes database overrides so environment values apply again.
func (ac *AIMSSettingsController) ClearSettings(c *gin.Context) {
	if err := ac.settings.ClearAIMSSettings(); err != nil {
		respondInternalError(c, err, "clear AIMS settings")
		return
	}

	if ac.audit != nil {
		ac.audit.LogSettings("aims_settings_clear", "Cleared AIMS settings overrides")
	}

	c.JSON(http.StatusOK, ac.settings.GetAIMSSettingsInfo())
}

func validateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return errors.New("base_url must be an absolute http(s) URL")
	}
	return nil
}

func mergeCredentials(creds aims.Credentials, update settingsstore.AIMSSettingsUpdate) aims.Credentials {
	if update.BaseURL != nil && *update.BaseURL != "" {
		creds.BaseURL = strings.TrimRight(strings.TrimSpace(*update.BaseURL), "/")
	}
	if update.Company != nil && *update.Company != "" {
		creds.Company = strings.TrimSpace(*update.Company)
	}
	if update.Username != nil && *update.Username != "" {
		creds.Username = strings.TrimSpace(*update.Username)
	}
	if update.Password != nil && *update.Password != "" {
		creds.Password = *update.Password
	}
	return creds
}

func changedFields(update settingsstore.AIMSSettingsUpdate) []string {
	var fields []string
	if update.BaseURL != nil {
		fields = append(fields, "base_url")
	}
	if update.Company != nil {
		fields = append(fields, "company")
	}
	if update.Username != nil {
		fields = append(fields, "username")
	}
	if update.Password != nil {
		fields = append(fields, "password")
	}
	if len(fields) == 0 {
		fields = append(fields, "none")
	}
	return fields
}
