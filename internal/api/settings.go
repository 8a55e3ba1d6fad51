package api

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/lucidwell/lucidwell-client/internal/types"
)

// GetSettings retrieves the user's settings. This read degrades gracefully:
// if the endpoint fails for any reason the built-in defaults are returned so
// the settings surface never hard-fails.
func GetSettings(ctx context.Context, hc HTTPClient, baseURL string) *types.UserSettings {
	var s types.UserSettings
	if err := send(ctx, hc, http.MethodGet, baseURL+"/settings", nil, &s, "get settings"); err != nil {
		log.Warn().Err(err).Msg("get settings failed, using defaults")
		return types.DefaultSettings()
	}
	return &s
}

// UpdateSettings applies a partial settings update and returns the canonical
// settings object.
func UpdateSettings(ctx context.Context, hc HTTPClient, baseURL string, req types.UpdateSettingsRequest) (*types.UserSettings, error) {
	var s types.UserSettings
	if err := send(ctx, hc, http.MethodPut, baseURL+"/settings", req, &s, "update settings"); err != nil {
		return nil, err
	}
	return &s, nil
}

// SyncSettings asks the backend to push settings to the user's other devices
// and returns the new sync timestamp.
func SyncSettings(ctx context.Context, hc HTTPClient, baseURL string) (*types.SyncSettingsResponse, error) {
	var r types.SyncSettingsResponse
	if err := send(ctx, hc, http.MethodPost, baseURL+"/settings/sync", nil, &r, "sync settings"); err != nil {
		return nil, err
	}
	return &r, nil
}
