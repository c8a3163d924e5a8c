package application

// ResolverOption configures a DataResolver.
type ResolverOption func(*DataResolver)

// WithDemoFallback makes unknown ids of a known role resolve to the dataset's
// default fixture for that role instead of nil.
func WithDemoFallback(enabled bool) ResolverOption {
	return func(r *DataResolver) {
		r.demoFallback = enabled
	}
}

// DataResolver projects role-shaped bundles out of a static dataset. It never
// mutates the dataset and every bundle it returns is an independent copy.
type DataResolver struct {
	dataset      Dataset
	demoFallback bool
}

// NewDataResolver constructs a resolver over the provided dataset.
func NewDataResolver(dataset Dataset, opts ...ResolverOption) *DataResolver {
	r := &DataResolver{dataset: dataset}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// GetDataForUser returns the bundle for userID under role, or nil when the
// role is unknown or no fixture of that role matches.
func (r *DataResolver) GetDataForUser(userID string, role Role) DataBundle {
	if r == nil {
		return nil
	}
	switch role {
	case RolePropertyManager:
		if user, ok := r.lookup(userID, role, r.dataset.DefaultManagerID); ok {
			return r.managerBundle(user)
		}
	case RoleTenant:
		if user, ok := r.lookup(userID, role, r.dataset.DefaultTenantID); ok {
			return r.tenantBundle(user)
		}
	case RoleServiceProvider:
		if user, ok := r.lookup(userID, role, r.dataset.DefaultProviderID); ok {
			return r.providerBundle(user)
		}
	}
	return nil
}

func (r *DataResolver) lookup(userID string, role Role, fallbackID string) (User, bool) {
	if user, ok := r.dataset.userWithRole(userID, role); ok {
		return user, true
	}
	if !r.demoFallback || fallbackID == "" {
		return User{}, false
	}
	return r.dataset.userWithRole(fallbackID, role)
}

func (r *DataResolver) managerBundle(manager User) *ManagerBundle {
	properties := make([]Property, 0, len(r.dataset.Properties))
	for _, property := range r.dataset.Properties {
		properties = append(properties, cloneProperty(property))
	}
	return &ManagerBundle{
		Manager:         manager,
		Properties:      properties,
		ServiceRequests: r.requests(func(ServiceRequest) bool { return true }),
		Tenants:         r.dataset.usersWithRole(RoleTenant),
		Providers:       r.dataset.usersWithRole(RoleServiceProvider),
		Invoices:        r.invoices(func(Invoice) bool { return true }),
		Messages:        r.messagesFor(manager.ID),
		Analytics:       cloneAnalytics(r.dataset.Analytics),
	}
}

func (r *DataResolver) tenantBundle(tenant User) *TenantBundle {
	bundle := &TenantBundle{
		Tenant:          tenant,
		ServiceRequests: r.requests(func(sr ServiceRequest) bool { return sr.TenantID == tenant.ID }),
		Documents:       make([]Document, 0),
		Invoices:        r.invoices(func(inv Invoice) bool { return inv.TenantID == tenant.ID }),
		Messages:        r.messagesFor(tenant.ID),
	}
	for _, property := range r.dataset.Properties {
		if property.TenantID == tenant.ID {
			clone := cloneProperty(property)
			bundle.Property = &clone
			break
		}
	}
	for _, document := range r.dataset.Documents {
		if document.TenantID == tenant.ID {
			bundle.Documents = append(bundle.Documents, document)
		}
	}
	return bundle
}

func (r *DataResolver) providerBundle(provider User) *ProviderBundle {
	workOrders := r.requests(func(sr ServiceRequest) bool { return sr.AssignedProviderID == provider.ID })
	completed := make([]ServiceRequest, 0, len(workOrders))
	for _, order := range workOrders {
		if order.Status == RequestCompleted {
			completed = append(completed, cloneRequest(order))
		}
	}
	return &ProviderBundle{
		Provider:      provider,
		WorkOrders:    workOrders,
		CompletedJobs: completed,
		Invoices:      r.invoices(func(inv Invoice) bool { return inv.ProviderID == provider.ID }),
		Messages:      r.messagesFor(provider.ID),
	}
}

func (r *DataResolver) requests(keep func(ServiceRequest) bool) []ServiceRequest {
	out := make([]ServiceRequest, 0)
	for _, request := range r.dataset.ServiceRequests {
		if keep(request) {
			out = append(out, cloneRequest(request))
		}
	}
	return out
}

func (r *DataResolver) invoices(keep func(Invoice) bool) []Invoice {
	out := make([]Invoice, 0)
	for _, invoice := range r.dataset.Invoices {
		if keep(invoice) {
			out = append(out, invoice)
		}
	}
	return out
}

func (r *DataResolver) messagesFor(userID string) []Message {
	out := make([]Message, 0)
	for _, message := range r.dataset.Messages {
		if message.FromID == userID || message.ToID == userID {
			out = append(out, message)
		}
	}
	return out
}
