package bookingengine

import (
	"context"
	"net/http"
)

const tenantsPath = "/api/tenants"

// UpdateTenantSettings patches the remote tenant scheduling configuration.
func (c *Client) UpdateTenantSettings(ctx context.Context, remoteTenantID string, settings TenantSettings) error {
	if err := c.guardEnabled(ctx); err != nil {
		return err
	}
	return c.do(ctx, http.MethodPatch, tenantsPath+"/"+remoteTenantID, nil, settings, nil)
}
