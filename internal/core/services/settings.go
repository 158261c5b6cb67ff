package services

import (
	"fmt"

	"github.com/trust-chain-organization/sagebase-sub000/internal/core/domain"
	"github.com/trust-chain-organization/sagebase-sub000/internal/core/ports/driven"
	"github.com/trust-chain-organization/sagebase-sub000/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyCompletionProvider = "completion.provider"
	keyCompletionModel    = "completion.model"
	keyCompletionBaseURL  = "completion.base_url"
	keyCompletionAPIKey   = "completion.api_key"
	keyCompletionTimeout  = "completion.timeout_seconds"

	keySpeakerThreshold    = "resolution.speaker.threshold"
	keyPoliticianThreshold = "resolution.politician.threshold"
	keyMaxCandidates       = "resolution.max_candidates"
	keyFastPathConfidence  = "resolution.fast_path_confidence"

	keyHonorifics      = "normalise.honorifics"
	keyBoundaryMarkers = "segmentation.boundary_markers"
	keyMinPartialLen   = "segmentation.min_partial_keyword_len"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	settings := domain.DefaultAppSettings()

	settings.Completion = domain.CompletionSettings{
		Provider:       s.getProvider(keyCompletionProvider, settings.Completion.Provider),
		Model:          s.getString(keyCompletionModel, settings.Completion.Model),
		BaseURL:        s.configStore.GetString(keyCompletionBaseURL), // No default - empty is valid for cloud providers
		APIKey:         s.configStore.GetString(keyCompletionAPIKey),
		TimeoutSeconds: s.configStore.GetInt(keyCompletionTimeout),
	}

	speaker := settings.Policies[domain.KindSpeaker]
	speaker.Threshold = s.getFloat(keySpeakerThreshold, speaker.Threshold)
	speaker.MaxCandidates = s.getInt(keyMaxCandidates, speaker.MaxCandidates)
	speaker.FastPathConfidence = s.getFloat(keyFastPathConfidence, speaker.FastPathConfidence)
	settings.Policies[domain.KindSpeaker] = speaker

	politician := settings.Policies[domain.KindPolitician]
	politician.Threshold = s.getFloat(keyPoliticianThreshold, politician.Threshold)
	politician.MaxCandidates = s.getInt(keyMaxCandidates, politician.MaxCandidates)
	politician.FastPathConfidence = s.getFloat(keyFastPathConfidence, politician.FastPathConfidence)
	settings.Policies[domain.KindPolitician] = politician

	if hs := s.configStore.GetStringSlice(keyHonorifics); len(hs) > 0 {
		settings.Honorifics = hs
	}
	if ms := s.configStore.GetStringSlice(keyBoundaryMarkers); len(ms) > 0 {
		settings.BoundaryMarkers = ms
	}
	settings.MinPartialKeywordLen = s.getInt(keyMinPartialLen, settings.MinPartialKeywordLen)

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := s.configStore.Set(keyCompletionProvider, settings.Completion.Provider.String()); err != nil {
		return fmt.Errorf("save completion provider: %w", err)
	}
	if err := s.configStore.Set(keyCompletionModel, settings.Completion.Model); err != nil {
		return fmt.Errorf("save completion model: %w", err)
	}
	if err := s.configStore.Set(keyCompletionBaseURL, settings.Completion.BaseURL); err != nil {
		return fmt.Errorf("save completion base_url: %w", err)
	}
	if settings.Completion.APIKey != "" {
		if err := s.configStore.Set(keyCompletionAPIKey, settings.Completion.APIKey); err != nil {
			return fmt.Errorf("save completion api_key: %w", err)
		}
	}
	if settings.Completion.TimeoutSeconds > 0 {
		if err := s.configStore.Set(keyCompletionTimeout, settings.Completion.TimeoutSeconds); err != nil {
			return fmt.Errorf("save completion timeout: %w", err)
		}
	}

	speaker := domain.PolicyFor(settings.Policies, domain.KindSpeaker)
	politician := domain.PolicyFor(settings.Policies, domain.KindPolitician)

	if err := s.configStore.Set(keySpeakerThreshold, speaker.Threshold); err != nil {
		return fmt.Errorf("save speaker threshold: %w", err)
	}
	if err := s.configStore.Set(keyPoliticianThreshold, politician.Threshold); err != nil {
		return fmt.Errorf("save politician threshold: %w", err)
	}
	if err := s.configStore.Set(keyMaxCandidates, speaker.MaxCandidates); err != nil {
		return fmt.Errorf("save max candidates: %w", err)
	}
	if err := s.configStore.Set(keyFastPathConfidence, speaker.FastPathConfidence); err != nil {
		return fmt.Errorf("save fast-path confidence: %w", err)
	}

	if err := s.configStore.Set(keyHonorifics, settings.Honorifics); err != nil {
		return fmt.Errorf("save honorifics: %w", err)
	}
	if err := s.configStore.Set(keyBoundaryMarkers, settings.BoundaryMarkers); err != nil {
		return fmt.Errorf("save boundary markers: %w", err)
	}
	if err := s.configStore.Set(keyMinPartialLen, settings.MinPartialKeywordLen); err != nil {
		return fmt.Errorf("save min partial keyword len: %w", err)
	}

	return nil
}

// SetCompletionProvider configures the completion provider.
func (s *SettingsService) SetCompletionProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid completion provider: %s", provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("provider %s requires an API key", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Completion.Provider = provider
	settings.Completion.Model = model
	settings.Completion.APIKey = apiKey

	return s.Save(settings)
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return *domain.DefaultAppSettings()
}

// getProvider reads a provider from config, falling back to the default if unset or invalid.
func (s *SettingsService) getProvider(key string, fallback domain.AIProvider) domain.AIProvider {
	raw := s.configStore.GetString(key)
	if raw == "" {
		return fallback
	}
	provider := domain.AIProvider(raw)
	if !provider.IsValid() {
		return fallback
	}
	return provider
}

// getString reads a string from config, falling back to the default if unset.
func (s *SettingsService) getString(key, fallback string) string {
	if val := s.configStore.GetString(key); val != "" {
		return val
	}
	return fallback
}

// getInt reads an int from config, falling back to the default if unset or zero.
func (s *SettingsService) getInt(key string, fallback int) int {
	if val := s.configStore.GetInt(key); val > 0 {
		return val
	}
	return fallback
}

// getFloat reads a float from config, falling back to the default if unset or zero.
func (s *SettingsService) getFloat(key string, fallback float64) float64 {
	if val := s.configStore.GetFloat(key); val > 0 {
		return val
	}
	return fallback
}
