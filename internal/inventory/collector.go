// Package inventory collects instances from every region and filters them
// down to the set that can be turned into SSH targets.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vietdv277/ec2hosts/pkg/provider"
	"github.com/vietdv277/ec2hosts/pkg/types"
)

// DefaultRegionTimeout bounds a single region's listing
const DefaultRegionTimeout = 30 * time.Second

// Collector lists and normalizes the instances of one region
type Collector struct {
	Provider provider.InventoryProvider
	Observer Observer
	Timeout  time.Duration
}

// NewCollector creates a Collector with the default timeout and no observer
func NewCollector(p provider.InventoryProvider, o Observer) *Collector {
	if o == nil {
		o = NopObserver{}
	}
	return &Collector{
		Provider: p,
		Observer: o,
		Timeout:  DefaultRegionTimeout,
	}
}

// Collect returns every instance in region, normalized. Instances without
// a usable address are included; filtering happens in the Aggregator.
func (c *Collector) Collect(ctx context.Context, region string) ([]types.InstanceRecord, error) {
	observer := c.observer()

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	observer.RegionQueried(region)

	raw, err := c.Provider.ListInstances(ctx, region)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("%w after %s: %w", provider.ErrRegionTimeout, c.Timeout, err)
		}
		observer.RegionFailed(region, err)
		return nil, err
	}

	records := make([]types.InstanceRecord, 0, len(raw))
	for _, r := range raw {
		if r.Region == "" {
			r.Region = region
		}
		rec := Normalize(r)
		observer.InstanceDiscovered(rec)
		records = append(records, rec)
	}

	return records, nil
}

func (c *Collector) observer() Observer {
	if c.Observer == nil {
		return NopObserver{}
	}
	return c.Observer
}

// Normalize converts a raw instance into an InstanceRecord, applying the
// name default and the public-then-private address priority.
func Normalize(r types.RawInstance) types.InstanceRecord {
	name := r.NameTag()
	if name == "" {
		name = types.DefaultInstanceName
	}

	rec := types.InstanceRecord{
		ID:           r.ID,
		Name:         name,
		Region:       r.Region,
		Status:       types.InstanceStatus(r.State),
		Address:      types.SelectAddress(firstNonEmpty(r.PublicDNS, r.PublicIP), firstNonEmpty(r.PrivateDNS, r.PrivateIP)),
		InstanceType: r.InstanceType,
		LaunchTime:   r.LaunchTime,
	}

	rec.EligibilityStatus = rec.Status
	if rec.Address.Kind == types.AddressPrivate {
		rec.EligibilityStatus = types.StatusNoPublicDNS
	}

	return rec
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
