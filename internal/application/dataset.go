package application

import (
	"context"
	"math"
	"strings"
)

// Dataset is the static fixture data a resolver projects bundles from. The
// Default*ID fields name the demo fixture used when demo fallback is enabled.
type Dataset struct {
	Users           []User
	Properties      []Property
	ServiceRequests []ServiceRequest
	Documents       []Document
	Invoices        []Invoice
	Messages        []Message
	Analytics       Analytics

	DefaultManagerID  string
	DefaultTenantID   string
	DefaultProviderID string
}

// GetUser returns the user with the given id or ErrNotFound.
func (d *Dataset) GetUser(_ context.Context, id string) (User, error) {
	if d == nil {
		return User{}, ErrNotFound
	}
	for _, user := range d.Users {
		if user.ID == id {
			return cloneUser(user), nil
		}
	}
	return User{}, ErrNotFound
}

// FindUserByEmail performs a case-insensitive email lookup.
func (d *Dataset) FindUserByEmail(_ context.Context, email string) (User, error) {
	if d == nil {
		return User{}, ErrNotFound
	}
	normalized := strings.TrimSpace(strings.ToLower(email))
	if normalized == "" {
		return User{}, ErrNotFound
	}
	for _, user := range d.Users {
		if strings.ToLower(user.Email) == normalized {
			return cloneUser(user), nil
		}
	}
	return User{}, ErrNotFound
}

// ListUsers returns every demo account in fixture order.
func (d *Dataset) ListUsers(_ context.Context) ([]User, error) {
	if d == nil {
		return nil, nil
	}
	return d.usersWithRole(""), nil
}

func (d *Dataset) usersWithRole(role Role) []User {
	users := make([]User, 0, len(d.Users))
	for _, user := range d.Users {
		if role == "" || user.Role == role {
			users = append(users, cloneUser(user))
		}
	}
	return users
}

func (d *Dataset) userWithRole(id string, role Role) (User, bool) {
	for _, user := range d.Users {
		if user.ID == id && user.Role == role {
			return cloneUser(user), true
		}
	}
	return User{}, false
}

// ComputeAnalytics summarizes occupancy, rent and service request figures.
// The revenue history is carried over from the caller since it has no
// per-record source in the dataset.
func ComputeAnalytics(properties []Property, requests []ServiceRequest, tenants int, history []MonthlyRevenue) Analytics {
	analytics := Analytics{
		TotalProperties:    len(properties),
		TotalTenants:       tenants,
		RevenueHistory:     append([]MonthlyRevenue(nil), history...),
		RequestsByCategory: make(map[string]int),
	}

	for _, property := range properties {
		analytics.TotalUnits += property.Units
		analytics.OccupiedUnits += property.OccupiedUnits
		analytics.MonthlyRevenue += property.MonthlyRent * float64(property.OccupiedUnits)
	}
	if analytics.TotalUnits > 0 {
		analytics.OccupancyRate = round1(float64(analytics.OccupiedUnits) / float64(analytics.TotalUnits) * 100)
	}

	var resolutionDays float64
	for _, request := range requests {
		analytics.RequestsByCategory[request.Category]++
		switch request.Status {
		case RequestPending, RequestAssigned, RequestInProgress:
			analytics.PendingRequests++
		case RequestCompleted:
			analytics.CompletedRequests++
			if request.CompletedAt != nil {
				resolutionDays += request.CompletedAt.Sub(request.CreatedAt).Hours() / 24
			}
		}
	}
	if analytics.CompletedRequests > 0 {
		analytics.AverageResolutionDays = round1(resolutionDays / float64(analytics.CompletedRequests))
	}
	return analytics
}

func round1(value float64) float64 {
	return math.Round(value*10) / 10
}
