package bookingengine

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

const servicesPath = "/api/services"

// UpsertService creates or updates the remote service keyed by ExternalID.
// The returned service carries the remote ID.
func (c *Client) UpsertService(ctx context.Context, knownRemoteID string, svc Service) (*Service, error) {
	if err := c.guardEnabled(ctx); err != nil {
		return nil, err
	}
	return upsertByExternalID(ctx, c, servicesPath, knownRemoteID, svc.ExternalID, svc)
}

// FindServiceByExternalID looks up a remote service by its external key.
// Returns nil when nothing matches.
func (c *Client) FindServiceByExternalID(ctx context.Context, externalID string) (*Service, error) {
	if err := c.guardEnabled(ctx); err != nil {
		return nil, err
	}
	return findByExternalID[Service](ctx, c, servicesPath, externalID)
}

// DeleteService removes the remote service. A missing remote record is
// treated as already deleted.
func (c *Client) DeleteService(ctx context.Context, remoteID string) error {
	if err := c.guardEnabled(ctx); err != nil {
		return err
	}
	err := c.do(ctx, http.MethodDelete, servicesPath+"/"+remoteID, nil, nil, nil)
	if err != nil && isNotFound(err) {
		return nil
	}
	return err
}

const listPageSize = 1000

// ListServices fetches every remote service for reconciliation, paging until
// the envelope's totalDocs is exhausted.
func (c *Client) ListServices(ctx context.Context) ([]Service, error) {
	if err := c.guardEnabled(ctx); err != nil {
		return nil, err
	}

	var services []Service
	for page := 1; ; page++ {
		query := url.Values{}
		query.Set("limit", strconv.Itoa(listPageSize))
		query.Set("page", strconv.Itoa(page))
		var envelope listEnvelope[Service]
		if err := c.do(ctx, http.MethodGet, servicesPath, query, nil, &envelope); err != nil {
			return nil, err
		}
		services = append(services, envelope.Docs...)
		if len(envelope.Docs) == 0 || len(services) >= envelope.TotalDocs {
			return services, nil
		}
	}
}
