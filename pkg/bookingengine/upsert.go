package bookingengine

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	pkgerrors "github.com/rentable/rentable-backend/pkg/errors"
)

// upsertByExternalID implements the idempotent projection primitive:
// a known remote ID is patched directly; otherwise the resource is located by
// external key and patched, and only when no remote record exists is one
// created. A stale known ID falls through to the lookup path instead of
// failing.
func upsertByExternalID[T any](ctx context.Context, c *Client, path, knownRemoteID, externalID string, payload T) (*T, error) {
	if knownRemoteID != "" {
		var updated T
		err := c.do(ctx, http.MethodPatch, path+"/"+knownRemoteID, nil, payload, &updated)
		if err == nil {
			return &updated, nil
		}
		if !isNotFound(err) {
			return nil, err
		}
	}

	existing, err := findByExternalID[T](ctx, c, path, externalID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		remoteID := remoteIDOf(existing)
		var updated T
		if err := c.do(ctx, http.MethodPatch, path+"/"+remoteID, nil, payload, &updated); err != nil {
			return nil, err
		}
		return &updated, nil
	}

	var created T
	if err := c.do(ctx, http.MethodPost, path, nil, payload, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func findByExternalID[T any](ctx context.Context, c *Client, path, externalID string) (*T, error) {
	query := url.Values{}
	query.Set("where[externalId][equals]", externalID)
	query.Set("limit", "1")

	var envelope listEnvelope[T]
	if err := c.do(ctx, http.MethodGet, path, query, nil, &envelope); err != nil {
		return nil, err
	}
	if len(envelope.Docs) == 0 {
		return nil, nil
	}
	return &envelope.Docs[0], nil
}

func remoteIDOf(doc any) string {
	switch v := doc.(type) {
	case *Service:
		return v.ID
	case *Blackout:
		return v.ID
	default:
		return ""
	}
}

func isNotFound(err error) bool {
	var typed *pkgerrors.Error
	if errors.As(err, &typed) {
		return typed.Code() == pkgerrors.CodeNotFound
	}
	return false
}
