package services

import "context"

// StaticCredentialProvider always returns the same token.
type StaticCredentialProvider struct {
	token string
}

func NewStaticCredentialProvider(token string) *StaticCredentialProvider {
	return &StaticCredentialProvider{token: token}
}

func (sc *StaticCredentialProvider) Token(ctx context.Context) (string, error) {
	return sc.token, nil
}
