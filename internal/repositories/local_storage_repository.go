package repositories

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/viper"
)

// LocalStorageRepository is the client's persistent key/value storage, kept as
// a YAML file. The bearer token lives under a fixed key.
type LocalStorageRepository struct {
	mu       sync.Mutex
	path     string
	tokenKey string
}

func NewLocalStorageRepository(path, tokenKey string) *LocalStorageRepository {
	if tokenKey == "" {
		tokenKey = "token"
	}
	return &LocalStorageRepository{
		path:     path,
		tokenKey: tokenKey,
	}
}

func (lsr *LocalStorageRepository) Path() string {
	return lsr.path
}

// Token implements interfaces.CredentialProvider. The file is re-read on every
// call so a token written by another process is picked up.
func (lsr *LocalStorageRepository) Token(_ context.Context) (string, error) {
	return lsr.Get(lsr.tokenKey)
}

func (lsr *LocalStorageRepository) SetToken(token string) error {
	return lsr.Set(lsr.tokenKey, token)
}

func (lsr *LocalStorageRepository) ClearToken() error {
	return lsr.Delete(lsr.tokenKey)
}

func (lsr *LocalStorageRepository) Get(key string) (string, error) {
	lsr.mu.Lock()
	defer lsr.mu.Unlock()

	v, err := lsr.read()
	if err != nil {
		return "", err
	}
	return v.GetString(key), nil
}

func (lsr *LocalStorageRepository) Set(key, value string) error {
	lsr.mu.Lock()
	defer lsr.mu.Unlock()

	v, err := lsr.read()
	if err != nil {
		return err
	}
	v.Set(key, value)
	return lsr.write(v)
}

func (lsr *LocalStorageRepository) Delete(key string) error {
	lsr.mu.Lock()
	defer lsr.mu.Unlock()

	current, err := lsr.read()
	if err != nil {
		return err
	}
	settings := current.AllSettings()
	if _, ok := settings[key]; !ok {
		return nil
	}
	delete(settings, key)

	next := lsr.newViper()
	for k, value := range settings {
		next.Set(k, value)
	}
	return lsr.write(next)
}

func (lsr *LocalStorageRepository) newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigFile(lsr.path)
	v.SetConfigType("yaml")
	v.SetConfigPermissions(0o600)
	return v
}

func (lsr *LocalStorageRepository) read() (*viper.Viper, error) {
	v := lsr.newViper()
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.Is(err, fs.ErrNotExist) || errors.As(err, &notFound) {
			return v, nil
		}
		return nil, err
	}
	return v, nil
}

func (lsr *LocalStorageRepository) write(v *viper.Viper) error {
	if err := os.MkdirAll(filepath.Dir(lsr.path), 0o700); err != nil {
		return err
	}
	return v.WriteConfigAs(lsr.path)
}
