// Package artifact renders the host inventory, connection helper and SSH
// config fragment from a set of eligible instances, and writes them out.
package artifact

import (
	"fmt"
	"strings"

	"github.com/vietdv277/ec2hosts/pkg/types"
)

const (
	// DefaultKeyPath is the SSH key used when none is configured
	DefaultKeyPath = ".ssh/aws.pem"

	// DefaultUser is the login user written into every artifact
	DefaultUser = "ec2-user"
)

// Kind identifies one of the generated artifacts
type Kind string

const (
	KindInventory        Kind = "inventory"
	KindConnectionHelper Kind = "connection_helper"
	KindSSHConfig        Kind = "ssh_config"
)

// kinds lists the artifacts in write order
var kinds = []Kind{KindInventory, KindConnectionHelper, KindSSHConfig}

// Set holds the three rendered artifacts
type Set struct {
	Inventory        string
	ConnectionHelper string
	SSHConfig        string
}

// Content returns the rendered text for an artifact kind
func (s Set) Content(k Kind) string {
	switch k {
	case KindInventory:
		return s.Inventory
	case KindConnectionHelper:
		return s.ConnectionHelper
	case KindSSHConfig:
		return s.SSHConfig
	default:
		return ""
	}
}

// Generate renders the artifacts for records, in input order.
//
// The inventory and helper lines always use the public address slot, so a
// private-only instance gets an empty ansible_host and user@ target. Only
// the SSH config falls back to the private address.
func Generate(records []types.InstanceRecord, keyPath, user string) Set {
	if user == "" {
		user = DefaultUser
	}

	var inventory, helper, sshConfig strings.Builder

	for _, rec := range records {
		public := rec.Address.PublicSlot()

		fmt.Fprintf(&inventory, "%s ansible_host=%s ansible_ssh_private_key_file=%s\n", rec.Name, public, keyPath)
		fmt.Fprintf(&helper, "ssh -i \"%s\" %s@%s\n", keyPath, user, public)

		if rec.Address.Usable() {
			fmt.Fprintf(&sshConfig, "\nHost %s\n", rec.Name)
			fmt.Fprintf(&sshConfig, "  HostName %s\n", rec.Address.Host())
			fmt.Fprintf(&sshConfig, "  User %s\n", user)
			fmt.Fprintf(&sshConfig, "  IdentityFile %s\n", keyPath)
		}
	}

	return Set{
		Inventory:        inventory.String(),
		ConnectionHelper: helper.String(),
		SSHConfig:        sshConfig.String(),
	}
}
