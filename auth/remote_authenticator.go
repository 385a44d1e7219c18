package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// RemoteAuthenticator delegates credential verification to the external
// identity service. The credential is forwarded verbatim; this process never
// parses or stores secrets itself.
type RemoteAuthenticator struct {
	client   *http.Client
	endpoint string
	logger   *zap.Logger
}

// verifyEnvelope mirrors the identity service's response envelope.
type verifyEnvelope struct {
	Status  int               `json:"status"`
	Message string            `json:"message"`
	Data    *verifiedIdentity `json:"data"`
}

type verifiedIdentity struct {
	UUID string `json:"uuid"`
	Role struct {
		Name string `json:"name"`
	} `json:"role"`
}

// NewRemoteAuthenticator creates an authenticator that calls the identity
// service at endpoint. The timeout bounds the whole verification round trip.
func NewRemoteAuthenticator(endpoint string, timeout time.Duration, logger *zap.Logger) *RemoteAuthenticator {
	transport := &http.Transport{
		MaxIdleConnsPerHost: 100,
		IdleConnTimeout:     90 * time.Second,
	}

	return &RemoteAuthenticator{
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		endpoint: strings.TrimRight(endpoint, "/"),
		logger:   logger,
	}
}

// Authenticate verifies a bearer credential against the identity service.
// Any failure mode collapses to ErrAuthenticationFailed; the underlying cause
// is logged but never surfaced to the caller.
func (a *RemoteAuthenticator) Authenticate(ctx context.Context, token string) (*Principal, error) {
	token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
	if token == "" {
		return nil, ErrAuthenticationFailed
	}

	principal, err := a.verify(ctx, token)
	if err != nil {
		a.logger.Warn("Credential verification failed", zap.Error(err))
		return nil, ErrAuthenticationFailed
	}

	return principal, nil
}

func (a *RemoteAuthenticator) verify(ctx context.Context, token string) (*Principal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint+"/verify/token", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create verification request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity service unreachable: %w", err)
	}
	defer resp.Body.Close()

	var envelope verifyEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("malformed identity response: %w", err)
	}

	if envelope.Status != http.StatusOK {
		return nil, fmt.Errorf("identity service rejected credential: %s", envelope.Message)
	}

	return principalFromEnvelope(envelope.Data)
}

// principalFromEnvelope validates the delegate's payload. A successfully
// returned but schema-invalid principal is treated the same as a rejection.
func principalFromEnvelope(entity *verifiedIdentity) (*Principal, error) {
	if entity == nil || entity.UUID == "" {
		return nil, fmt.Errorf("identity response carries no principal")
	}

	role := Role(entity.Role.Name)
	if role != RoleUser && role != RoleAdmin {
		return nil, fmt.Errorf("identity response carries unknown role %q", entity.Role.Name)
	}

	return &Principal{ID: entity.UUID, Role: role}, nil
}
