package provider

import (
	"context"
	"errors"

	"github.com/vietdv277/ec2hosts/pkg/types"
)

// Common errors
var (
	ErrNotConfigured    = errors.New("provider not configured")
	ErrAuthFailed       = errors.New("authentication failed")
	ErrPermissionDenied = errors.New("permission denied")
	ErrRegionTimeout    = errors.New("region query timed out")
)

// InventoryProvider defines the discovery operations a cloud provider must implement
type InventoryProvider interface {
	// ListRegions returns every region known to the account
	ListRegions(ctx context.Context) ([]string, error)

	// ListInstances returns all instances in a region, unfiltered
	ListInstances(ctx context.Context, region string) ([]types.RawInstance, error)
}

// IdentityProvider resolves who is running the tool
type IdentityProvider interface {
	// CallerIdentity returns the account, ARN and user ID of the caller
	CallerIdentity(ctx context.Context) (*types.CallerIdentity, error)
}
