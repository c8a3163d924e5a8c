package application

import (
	"encoding/json"
	"fmt"
)

// DataBundle is the role-shaped projection a dashboard renders from. It is
// implemented only by *ManagerBundle, *TenantBundle and *ProviderBundle, so a
// type switch over those three cases is exhaustive.
type DataBundle interface {
	Role() Role
	// OwnerID is the id of the user the bundle was resolved for.
	OwnerID() string
	isDataBundle()
}

// ManagerBundle is the portfolio-wide view of a property manager.
type ManagerBundle struct {
	Manager         User             `json:"manager"`
	Properties      []Property       `json:"properties"`
	ServiceRequests []ServiceRequest `json:"serviceRequests"`
	Tenants         []User           `json:"tenants"`
	Providers       []User           `json:"serviceProviders"`
	Invoices        []Invoice        `json:"invoices"`
	Messages        []Message        `json:"messages"`
	Analytics       Analytics        `json:"analytics"`
}

// TenantBundle holds one tenant's own property, requests and paperwork.
type TenantBundle struct {
	Tenant          User             `json:"tenant"`
	Property        *Property        `json:"property"`
	ServiceRequests []ServiceRequest `json:"serviceRequests"`
	Documents       []Document       `json:"documents"`
	Invoices        []Invoice        `json:"invoices"`
	Messages        []Message        `json:"messages"`
}

// ProviderBundle holds the work orders assigned to one service provider.
type ProviderBundle struct {
	Provider      User             `json:"provider"`
	WorkOrders    []ServiceRequest `json:"workOrders"`
	CompletedJobs []ServiceRequest `json:"completedJobs"`
	Invoices      []Invoice        `json:"invoices"`
	Messages      []Message        `json:"messages"`
}

func (*ManagerBundle) Role() Role  { return RolePropertyManager }
func (*TenantBundle) Role() Role   { return RoleTenant }
func (*ProviderBundle) Role() Role { return RoleServiceProvider }

func (b *ManagerBundle) OwnerID() string  { return b.Manager.ID }
func (b *TenantBundle) OwnerID() string   { return b.Tenant.ID }
func (b *ProviderBundle) OwnerID() string { return b.Provider.ID }

func (*ManagerBundle) isDataBundle()  {}
func (*TenantBundle) isDataBundle()   {}
func (*ProviderBundle) isDataBundle() {}

type bundleEnvelope struct {
	Role     Role            `json:"role"`
	Manager  *ManagerBundle  `json:"manager,omitempty"`
	Tenant   *TenantBundle   `json:"tenant,omitempty"`
	Provider *ProviderBundle `json:"provider,omitempty"`
}

// EncodeBundle serializes a bundle as a role-tagged envelope. A nil bundle
// encodes as JSON null.
func EncodeBundle(bundle DataBundle) ([]byte, error) {
	if bundle == nil {
		return []byte("null"), nil
	}
	envelope := bundleEnvelope{Role: bundle.Role()}
	switch b := bundle.(type) {
	case *ManagerBundle:
		if b == nil {
			return []byte("null"), nil
		}
		envelope.Manager = b
	case *TenantBundle:
		if b == nil {
			return []byte("null"), nil
		}
		envelope.Tenant = b
	case *ProviderBundle:
		if b == nil {
			return []byte("null"), nil
		}
		envelope.Provider = b
	default:
		return nil, fmt.Errorf("encode bundle: unsupported type %T", bundle)
	}
	return json.Marshal(envelope)
}

// DecodeBundle parses an envelope written by EncodeBundle. JSON null decodes
// to a nil bundle. Malformed input, unknown roles and envelopes whose payload
// does not match their role tag are reported as ErrCorruptSnapshot.
func DecodeBundle(data []byte) (DataBundle, error) {
	var envelope *bundleEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("%w: decode bundle: %v", ErrCorruptSnapshot, err)
	}
	if envelope == nil {
		return nil, nil
	}

	switch envelope.Role {
	case RolePropertyManager:
		if envelope.Manager == nil || envelope.Tenant != nil || envelope.Provider != nil {
			return nil, fmt.Errorf("%w: manager envelope without manager payload", ErrCorruptSnapshot)
		}
		return envelope.Manager, nil
	case RoleTenant:
		if envelope.Tenant == nil || envelope.Manager != nil || envelope.Provider != nil {
			return nil, fmt.Errorf("%w: tenant envelope without tenant payload", ErrCorruptSnapshot)
		}
		return envelope.Tenant, nil
	case RoleServiceProvider:
		if envelope.Provider == nil || envelope.Manager != nil || envelope.Tenant != nil {
			return nil, fmt.Errorf("%w: provider envelope without provider payload", ErrCorruptSnapshot)
		}
		return envelope.Provider, nil
	}
	return nil, fmt.Errorf("%w: unknown bundle role %q", ErrCorruptSnapshot, envelope.Role)
}

// EncodeUser serializes a user snapshot.
func EncodeUser(user User) ([]byte, error) {
	return json.Marshal(user)
}

// DecodeUser parses a user snapshot, rejecting records without an id or with an unknown role.
func DecodeUser(data []byte) (User, error) {
	var user *User
	if err := json.Unmarshal(data, &user); err != nil {
		return User{}, fmt.Errorf("%w: decode user: %v", ErrCorruptSnapshot, err)
	}
	if user == nil {
		return User{}, fmt.Errorf("%w: empty user snapshot", ErrCorruptSnapshot)
	}
	if user.ID == "" {
		return User{}, fmt.Errorf("%w: user snapshot without id", ErrCorruptSnapshot)
	}
	role, err := ParseRole(string(user.Role))
	if err != nil {
		return User{}, fmt.Errorf("%w: user snapshot: %w", ErrCorruptSnapshot, err)
	}
	user.Role = role
	return *user, nil
}
