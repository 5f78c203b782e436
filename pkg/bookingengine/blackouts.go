package bookingengine

import (
	"context"
	"net/http"
)

const blackoutsPath = "/api/blackout-dates"

// UpsertBlackout creates or updates the remote blackout keyed by ExternalID.
func (c *Client) UpsertBlackout(ctx context.Context, knownRemoteID string, window Blackout) (*Blackout, error) {
	if err := c.guardEnabled(ctx); err != nil {
		return nil, err
	}
	return upsertByExternalID(ctx, c, blackoutsPath, knownRemoteID, window.ExternalID, window)
}

// DeleteBlackout removes the remote blackout. A missing remote record is
// treated as already deleted.
func (c *Client) DeleteBlackout(ctx context.Context, remoteID string) error {
	if err := c.guardEnabled(ctx); err != nil {
		return err
	}
	err := c.do(ctx, http.MethodDelete, blackoutsPath+"/"+remoteID, nil, nil, nil)
	if err != nil && isNotFound(err) {
		return nil
	}
	return err
}
