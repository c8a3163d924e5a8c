package application

import "time"

func cloneUser(user User) User {
	clone := user
	if user.Tenant != nil {
		tenant := *user.Tenant
		clone.Tenant = &tenant
	}
	if user.Provider != nil {
		provider := *user.Provider
		provider.Services = cloneStrings(provider.Services)
		provider.Specialties = cloneStrings(provider.Specialties)
		clone.Provider = &provider
	}
	if user.Manager != nil {
		manager := *user.Manager
		manager.ManagedPropertyIDs = cloneStrings(manager.ManagedPropertyIDs)
		clone.Manager = &manager
	}
	return clone
}

func cloneBundle(bundle DataBundle) DataBundle {
	switch b := bundle.(type) {
	case *ManagerBundle:
		if b == nil {
			return nil
		}
		return &ManagerBundle{
			Manager:         cloneUser(b.Manager),
			Properties:      cloneProperties(b.Properties),
			ServiceRequests: cloneRequests(b.ServiceRequests),
			Tenants:         cloneUsers(b.Tenants),
			Providers:       cloneUsers(b.Providers),
			Invoices:        cloneSlice(b.Invoices),
			Messages:        cloneSlice(b.Messages),
			Analytics:       cloneAnalytics(b.Analytics),
		}
	case *TenantBundle:
		if b == nil {
			return nil
		}
		clone := &TenantBundle{
			Tenant:          cloneUser(b.Tenant),
			ServiceRequests: cloneRequests(b.ServiceRequests),
			Documents:       cloneSlice(b.Documents),
			Invoices:        cloneSlice(b.Invoices),
			Messages:        cloneSlice(b.Messages),
		}
		if b.Property != nil {
			property := cloneProperty(*b.Property)
			clone.Property = &property
		}
		return clone
	case *ProviderBundle:
		if b == nil {
			return nil
		}
		return &ProviderBundle{
			Provider:      cloneUser(b.Provider),
			WorkOrders:    cloneRequests(b.WorkOrders),
			CompletedJobs: cloneRequests(b.CompletedJobs),
			Invoices:      cloneSlice(b.Invoices),
			Messages:      cloneSlice(b.Messages),
		}
	}
	return nil
}

func cloneUsers(users []User) []User {
	if users == nil {
		return nil
	}
	out := make([]User, len(users))
	for i, user := range users {
		out[i] = cloneUser(user)
	}
	return out
}

func cloneProperties(properties []Property) []Property {
	if properties == nil {
		return nil
	}
	out := make([]Property, len(properties))
	for i, property := range properties {
		out[i] = cloneProperty(property)
	}
	return out
}

func cloneRequests(requests []ServiceRequest) []ServiceRequest {
	if requests == nil {
		return nil
	}
	out := make([]ServiceRequest, len(requests))
	for i, request := range requests {
		out[i] = cloneRequest(request)
	}
	return out
}

// cloneSlice copies slices of pointer-free records.
func cloneSlice[T any](values []T) []T {
	if values == nil {
		return nil
	}
	return append([]T(nil), values...)
}

func cloneProperty(property Property) Property {
	clone := property
	clone.Amenities = cloneStrings(property.Amenities)
	return clone
}

func cloneRequest(request ServiceRequest) ServiceRequest {
	clone := request
	clone.CompletedAt = cloneTime(request.CompletedAt)
	return clone
}

func cloneAnalytics(analytics Analytics) Analytics {
	clone := analytics
	clone.RevenueHistory = cloneSlice(analytics.RevenueHistory)
	if analytics.RequestsByCategory != nil {
		clone.RequestsByCategory = make(map[string]int, len(analytics.RequestsByCategory))
		for category, count := range analytics.RequestsByCategory {
			clone.RequestsByCategory[category] = count
		}
	}
	return clone
}

func cloneStrings(values []string) []string {
	if values == nil {
		return nil
	}
	return append([]string(nil), values...)
}

func cloneTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	clone := *value
	return &clone
}
