package config

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")
	ErrMissingSecret = errors.New("sheets_url and sheets_token are required")
)

// MissingSecretMessage is shown to the operator when the endpoint secrets are absent.
const MissingSecretMessage = "Defina PAINEL_SHEETS_URL e PAINEL_SHEETS_TOKEN"
