package types

import "time"

// DefaultInstanceName is used when an instance carries no Name tag
const DefaultInstanceName = "Unnamed"

// InstanceStatus represents the provider state of an instance
type InstanceStatus string

const (
	StatusRunning      InstanceStatus = "running"
	StatusStopped      InstanceStatus = "stopped"
	StatusPending      InstanceStatus = "pending"
	StatusStopping     InstanceStatus = "stopping"
	StatusShuttingDown InstanceStatus = "shutting-down"
	StatusTerminated   InstanceStatus = "terminated"

	// StatusNoPublicDNS marks an instance only reachable on its private address
	StatusNoPublicDNS InstanceStatus = "NoPublicDns"
)

// Tag is a key/value pair attached to an instance
type Tag struct {
	Key   string
	Value string
}

// RawInstance is an instance as returned by the provider, before normalization
type RawInstance struct {
	ID           string
	Region       string
	State        string
	Tags         []Tag
	PublicDNS    string
	PublicIP     string
	PrivateDNS   string
	PrivateIP    string
	InstanceType string
	LaunchTime   time.Time
}

// NameTag returns the value of the first tag keyed "Name", or "" when absent
func (r RawInstance) NameTag() string {
	for _, tag := range r.Tags {
		if tag.Key == "Name" {
			return tag.Value
		}
	}
	return ""
}

// InstanceRecord is a normalized instance
type InstanceRecord struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Region       string         `json:"region"`
	Status       InstanceStatus `json:"status"` // true provider state
	Address      Address        `json:"address"`
	InstanceType string         `json:"type"`
	LaunchTime   time.Time      `json:"launch_time"`

	// EligibilityStatus is StatusNoPublicDNS for private-only instances and
	// Status otherwise. It is logged next to Status and never filters.
	EligibilityStatus InstanceStatus `json:"eligibility_status"`
}

// IsRunning returns true if the instance is running
func (r *InstanceRecord) IsRunning() bool {
	return r.Status == StatusRunning
}

// Eligible reports whether the record can produce an SSH target
func (r *InstanceRecord) Eligible() bool {
	return r.IsRunning() && r.Address.Usable()
}
