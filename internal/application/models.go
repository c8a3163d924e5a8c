package application

import (
	"fmt"
	"strings"
	"time"
)

// Role identifies which dashboard a user sees.
type Role string

const (
	// RolePropertyManager manages the portfolio and sees every record.
	RolePropertyManager Role = "property_manager"
	// RoleTenant rents a single property and sees only their own records.
	RoleTenant Role = "tenant"
	// RoleServiceProvider works on service requests assigned to them.
	RoleServiceProvider Role = "service_provider"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RolePropertyManager, RoleTenant, RoleServiceProvider:
		return true
	}
	return false
}

// ParseRole converts a raw role value, rejecting unknown roles with ErrInvalidRole.
func ParseRole(value string) (Role, error) {
	role := Role(strings.TrimSpace(value))
	if !role.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, value)
	}
	return role, nil
}

// User is a demo account. Only the profile matching Role is populated.
type User struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Email     string           `json:"email"`
	Role      Role             `json:"role"`
	Avatar    string           `json:"avatar,omitempty"`
	Phone     string           `json:"phone,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
	Tenant    *TenantProfile   `json:"tenant,omitempty"`
	Provider  *ProviderProfile `json:"provider,omitempty"`
	Manager   *ManagerProfile  `json:"manager,omitempty"`
}

// TenantProfile holds lease details for tenant accounts.
type TenantProfile struct {
	PropertyID  string    `json:"propertyId"`
	Unit        string    `json:"unit"`
	LeaseStart  time.Time `json:"leaseStart"`
	LeaseEnd    time.Time `json:"leaseEnd"`
	MonthlyRent float64   `json:"monthlyRent"`
}

// ProviderProfile holds company details for service provider accounts.
type ProviderProfile struct {
	Company     string   `json:"company"`
	Rating      float64  `json:"rating"`
	Services    []string `json:"services"`
	Specialties []string `json:"specialties,omitempty"`
	HourlyRate  float64  `json:"hourlyRate"`
}

// ManagerProfile lists the properties a manager is responsible for.
type ManagerProfile struct {
	ManagedPropertyIDs []string `json:"managedPropertyIds"`
}

// Property is a rentable building or unit in the portfolio.
type Property struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Address       string   `json:"address"`
	Type          string   `json:"type"`
	Units         int      `json:"units"`
	OccupiedUnits int      `json:"occupiedUnits"`
	MonthlyRent   float64  `json:"monthlyRent"`
	Status        string   `json:"status"`
	ManagerID     string   `json:"managerId"`
	TenantID      string   `json:"tenantId,omitempty"`
	Amenities     []string `json:"amenities,omitempty"`
	YearBuilt     int      `json:"yearBuilt"`
}

// Priority ranks the urgency of a service request.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// RequestStatus tracks a service request through its lifecycle.
type RequestStatus string

const (
	RequestPending    RequestStatus = "pending"
	RequestAssigned   RequestStatus = "assigned"
	RequestInProgress RequestStatus = "in_progress"
	RequestCompleted  RequestStatus = "completed"
	RequestCancelled  RequestStatus = "cancelled"
)

// ServiceRequest is a maintenance ticket. Once assigned it doubles as a provider work order.
type ServiceRequest struct {
	ID                 string        `json:"id"`
	PropertyID         string        `json:"propertyId"`
	TenantID           string        `json:"tenantId"`
	Title              string        `json:"title"`
	Description        string        `json:"description"`
	Category           string        `json:"category"`
	Priority           Priority      `json:"priority"`
	Status             RequestStatus `json:"status"`
	AssignedProviderID string        `json:"assignedProviderId,omitempty"`
	EstimatedCost      float64       `json:"estimatedCost,omitempty"`
	ActualCost         float64       `json:"actualCost,omitempty"`
	CreatedAt          time.Time     `json:"createdAt"`
	UpdatedAt          time.Time     `json:"updatedAt"`
	CompletedAt        *time.Time    `json:"completedAt,omitempty"`
}

// Document is a file attached to a property and, for tenant paperwork, a tenant.
type Document struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Type       string    `json:"type"`
	PropertyID string    `json:"propertyId"`
	TenantID   string    `json:"tenantId,omitempty"`
	UploadedAt time.Time `json:"uploadedAt"`
	SizeBytes  int64     `json:"sizeBytes"`
}

// InvoiceStatus tracks billing progress.
type InvoiceStatus string

const (
	InvoiceDraft   InvoiceStatus = "draft"
	InvoiceSent    InvoiceStatus = "sent"
	InvoicePaid    InvoiceStatus = "paid"
	InvoiceOverdue InvoiceStatus = "overdue"
)

// Invoice bills either a tenant (rent, damages) or the manager (provider work).
type Invoice struct {
	ID               string        `json:"id"`
	Description      string        `json:"description"`
	PropertyID       string        `json:"propertyId"`
	TenantID         string        `json:"tenantId,omitempty"`
	ProviderID       string        `json:"providerId,omitempty"`
	ServiceRequestID string        `json:"serviceRequestId,omitempty"`
	Amount           float64       `json:"amount"`
	Status           InvoiceStatus `json:"status"`
	IssuedAt         time.Time     `json:"issuedAt"`
	DueAt            time.Time     `json:"dueAt"`
}

// Message is a direct message between two demo accounts.
type Message struct {
	ID      string    `json:"id"`
	FromID  string    `json:"fromId"`
	ToID    string    `json:"toId"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	SentAt  time.Time `json:"sentAt"`
	Read    bool      `json:"read"`
}

// MonthlyRevenue is one point of the revenue chart.
type MonthlyRevenue struct {
	Month   string  `json:"month"`
	Revenue float64 `json:"revenue"`
	Expense float64 `json:"expenses"`
}

// Analytics is the portfolio summary shown on the manager dashboard.
type Analytics struct {
	TotalProperties       int              `json:"totalProperties"`
	TotalUnits            int              `json:"totalUnits"`
	OccupiedUnits         int              `json:"occupiedUnits"`
	TotalTenants          int              `json:"totalTenants"`
	OccupancyRate         float64          `json:"occupancyRate"`
	MonthlyRevenue        float64          `json:"monthlyRevenue"`
	PendingRequests       int              `json:"pendingRequests"`
	CompletedRequests     int              `json:"completedRequests"`
	AverageResolutionDays float64          `json:"averageResolutionDays"`
	RevenueHistory        []MonthlyRevenue `json:"revenueHistory"`
	RequestsByCategory    map[string]int   `json:"requestsByCategory"`
}

// Session is the authenticated user of one client together with their resolved bundle.
type Session struct {
	ID        string
	User      User
	Data      DataBundle
	StartedAt time.Time
}
