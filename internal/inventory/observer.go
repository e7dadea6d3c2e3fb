package inventory

import "github.com/vietdv277/ec2hosts/pkg/types"

// Observer receives discovery events. Implementations must be safe for
// concurrent use: regions are collected in parallel.
type Observer interface {
	RegionQueried(region string)
	InstanceDiscovered(rec types.InstanceRecord)
	RegionFailed(region string, err error)
}

// NopObserver discards every event
type NopObserver struct{}

func (NopObserver) RegionQueried(string)                   {}
func (NopObserver) InstanceDiscovered(types.InstanceRecord) {}
func (NopObserver) RegionFailed(string, error)             {}

// MultiObserver fans events out to several observers in order
type MultiObserver []Observer

func (m MultiObserver) RegionQueried(region string) {
	for _, o := range m {
		o.RegionQueried(region)
	}
}

func (m MultiObserver) InstanceDiscovered(rec types.InstanceRecord) {
	for _, o := range m {
		o.InstanceDiscovered(rec)
	}
}

func (m MultiObserver) RegionFailed(region string, err error) {
	for _, o := range m {
		o.RegionFailed(region, err)
	}
}
