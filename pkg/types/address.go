package types

import "fmt"

// AddressKind tags which network address an instance can be reached on
type AddressKind int

const (
	AddressNone AddressKind = iota
	AddressPublic
	AddressPrivate
)

func (k AddressKind) String() string {
	switch k {
	case AddressPublic:
		return "public"
	case AddressPrivate:
		return "private"
	default:
		return "none"
	}
}

// Address holds exactly one of a public address, a private address or nothing
type Address struct {
	Kind  AddressKind `json:"kind"`
	Value string      `json:"value,omitempty"`
}

// PublicAddress returns a public address
func PublicAddress(v string) Address {
	return Address{Kind: AddressPublic, Value: v}
}

// PrivateAddress returns a private address
func PrivateAddress(v string) Address {
	return Address{Kind: AddressPrivate, Value: v}
}

// NoAddress returns the empty address
func NoAddress() Address {
	return Address{Kind: AddressNone}
}

// SelectAddress picks the public address if set, else the private one
func SelectAddress(public, private string) Address {
	switch {
	case public != "":
		return PublicAddress(public)
	case private != "":
		return PrivateAddress(private)
	default:
		return NoAddress()
	}
}

// PublicSlot returns the public address, or "" for any other kind
func (a Address) PublicSlot() string {
	if a.Kind == AddressPublic {
		return a.Value
	}
	return ""
}

// Host returns whichever address is present
func (a Address) Host() string {
	if a.Kind == AddressNone {
		return ""
	}
	return a.Value
}

// Usable returns true if the address can be used as an SSH target
func (a Address) Usable() bool {
	return a.Kind != AddressNone && a.Value != ""
}

func (a Address) String() string {
	if a.Kind == AddressNone {
		return "-"
	}
	return fmt.Sprintf("%s (%s)", a.Value, a.Kind)
}
