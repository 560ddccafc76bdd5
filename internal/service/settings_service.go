package service

import (
	"context"
	"fmt"

	"github.com/fernet/fernet-go"

	"github.com/portfoliodesk/Portfolio-Tracker-Backend/internal/apperrors"
	"github.com/portfoliodesk/Portfolio-Tracker-Backend/internal/repository"
)

// SettingsService stores application settings, encrypting sensitive values
// (provider API keys) with fernet when an encryption key is configured.
// Values written plaintext stay readable if a key is added later; encrypted
// values require the original key to read back.
type SettingsService struct {
	settingRepo *repository.SettingRepository
	key         *fernet.Key
}

// NewSettingsService creates a new SettingsService. fernetKey may be empty,
// in which case encrypted storage is unavailable and Set with encrypt=true
// returns apperrors.ErrEncryptionKeyMissing.
func NewSettingsService(settingRepo *repository.SettingRepository, fernetKey string) (*SettingsService, error) {
	s := &SettingsService{settingRepo: settingRepo}

	if fernetKey != "" {
		key, err := fernet.DecodeKey(fernetKey)
		if err != nil {
			return nil, fmt.Errorf("failed to decode fernet key: %w", err)
		}
		s.key = key
	}

	return s, nil
}

// Get retrieves a setting value, transparently decrypting values stored
// encrypted. Returns apperrors.ErrSettingNotFound for unknown keys and
// apperrors.ErrEncryptionKeyMissing when an encrypted value is read without
// a configured key.
func (s *SettingsService) Get(key string) (string, error) {
	value, encrypted, err := s.settingRepo.GetSetting(key)
	if err != nil {
		return "", err
	}
	if !encrypted {
		return value, nil
	}

	if s.key == nil {
		return "", apperrors.ErrEncryptionKeyMissing
	}

	// TTL 0 disables token expiry; settings do not age out.
	plaintext := fernet.VerifyAndDecrypt([]byte(value), 0, []*fernet.Key{s.key})
	if plaintext == nil {
		return "", fmt.Errorf("failed to decrypt setting %q", key)
	}

	return string(plaintext), nil
}

// Set stores a setting value, encrypting it when requested.
func (s *SettingsService) Set(ctx context.Context, key, value string, encrypt bool) error {
	if key == "" {
		return apperrors.ErrMissingRequiredField
	}

	if encrypt {
		if s.key == nil {
			return apperrors.ErrEncryptionKeyMissing
		}
		token, err := fernet.EncryptAndSign([]byte(value), s.key)
		if err != nil {
			return fmt.Errorf("failed to encrypt setting %q: %w", key, err)
		}
		value = string(token)
	}

	return s.settingRepo.SetSetting(ctx, key, value, encrypt)
}
