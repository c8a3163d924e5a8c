// Package fixtures holds the seeded demo dataset served by the dashboard.
//
// Every accessor builds a fresh copy, so callers may modify what they receive
// without affecting other sessions.
package fixtures

import (
	"fmt"
	"time"

	"github.com/example/propdash/internal/application"
)

// DemoPassword unlocks every demo account when strict password checking is enabled.
const DemoPassword = "demo123"

// Demo account ids.
const (
	ManagerSarahID     = "1"
	TenantMichaelID    = "2"
	ProviderABCID      = "3"
	TenantEmilyID      = "4"
	ProviderEliteID    = "5"
	TenantDavidID      = "6"
	ManagerSarahEmail  = "sarah@propertymanagement.com"
	TenantMichaelEmail = "michael.chen@email.com"
	ProviderABCEmail   = "contact@abcplumbing.com"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 9, 0, 0, 0, time.UTC)
}

func ptr(t time.Time) *time.Time {
	return &t
}

// Dataset returns the complete demo dataset.
func Dataset() application.Dataset {
	properties := Properties()
	requests := ServiceRequests()
	return application.Dataset{
		Users:             Users(),
		Properties:        properties,
		ServiceRequests:   requests,
		Documents:         Documents(),
		Invoices:          Invoices(),
		Messages:          Messages(),
		Analytics:         application.ComputeAnalytics(properties, requests, countTenants(), revenueHistory()),
		DefaultManagerID:  ManagerSarahID,
		DefaultTenantID:   TenantMichaelID,
		DefaultProviderID: ProviderABCID,
	}
}

// DemoCredentials hashes DemoPassword for every demo account, keyed by user id.
func DemoCredentials(params application.Argon2idParams) (map[string]string, error) {
	users := Users()
	hashes := make(map[string]string, len(users))
	for _, user := range users {
		hash, err := application.CreatePasswordHash(DemoPassword, params)
		if err != nil {
			return nil, fmt.Errorf("hash password for user %s: %w", user.ID, err)
		}
		hashes[user.ID] = hash
	}
	return hashes, nil
}

// Users returns the demo accounts.
func Users() []application.User {
	return []application.User{
		{
			ID:        ManagerSarahID,
			Name:      "Sarah Johnson",
			Email:     ManagerSarahEmail,
			Role:      application.RolePropertyManager,
			Avatar:    "/avatars/sarah.jpg",
			Phone:     "(555) 123-4567",
			CreatedAt: day(2023, time.January, 15),
			Manager: &application.ManagerProfile{
				ManagedPropertyIDs: []string{"1", "2", "3", "4", "5"},
			},
		},
		{
			ID:        TenantMichaelID,
			Name:      "Michael Chen",
			Email:     TenantMichaelEmail,
			Role:      application.RoleTenant,
			Avatar:    "/avatars/michael.jpg",
			Phone:     "(555) 234-5678",
			CreatedAt: day(2023, time.December, 1),
			Tenant: &application.TenantProfile{
				PropertyID:  "1",
				Unit:        "4B",
				LeaseStart:  day(2024, time.January, 1),
				LeaseEnd:    day(2024, time.December, 31),
				MonthlyRent: 2500,
			},
		},
		{
			ID:        ProviderABCID,
			Name:      "ABC Plumbing Services",
			Email:     ProviderABCEmail,
			Role:      application.RoleServiceProvider,
			Phone:     "(555) 345-6789",
			CreatedAt: day(2023, time.March, 10),
			Provider: &application.ProviderProfile{
				Company:     "ABC Plumbing Services",
				Rating:      4.8,
				Services:    []string{"plumbing", "water heaters", "emergency repairs"},
				Specialties: []string{"leak detection", "drain cleaning"},
				HourlyRate:  95,
			},
		},
		{
			ID:        TenantEmilyID,
			Name:      "Emily Rodriguez",
			Email:     "emily.rodriguez@email.com",
			Role:      application.RoleTenant,
			Phone:     "(555) 456-7890",
			CreatedAt: day(2024, time.February, 20),
			Tenant: &application.TenantProfile{
				PropertyID:  "2",
				Unit:        "A",
				LeaseStart:  day(2024, time.March, 1),
				LeaseEnd:    day(2025, time.February, 28),
				MonthlyRent: 3200,
			},
		},
		{
			ID:        ProviderEliteID,
			Name:      "Elite Electrical Solutions",
			Email:     "info@eliteelectrical.com",
			Role:      application.RoleServiceProvider,
			Phone:     "(555) 567-8901",
			CreatedAt: day(2023, time.May, 5),
			Provider: &application.ProviderProfile{
				Company:    "Elite Electrical Solutions",
				Rating:     4.6,
				Services:   []string{"electrical", "lighting", "panel upgrades"},
				HourlyRate: 110,
			},
		},
		{
			ID:        TenantDavidID,
			Name:      "David Park",
			Email:     "david.park@email.com",
			Role:      application.RoleTenant,
			Phone:     "(555) 678-9012",
			CreatedAt: day(2024, time.April, 12),
			Tenant: &application.TenantProfile{
				PropertyID:  "4",
				Unit:        "12C",
				LeaseStart:  day(2024, time.May, 1),
				LeaseEnd:    day(2025, time.April, 30),
				MonthlyRent: 2800,
			},
		},
	}
}

func countTenants() int {
	count := 0
	for _, user := range Users() {
		if user.Role == application.RoleTenant {
			count++
		}
	}
	return count
}

// Properties returns the five demo properties.
func Properties() []application.Property {
	return []application.Property{
		{
			ID:            "1",
			Name:          "Sunset Apartments",
			Address:       "123 Sunset Blvd, Los Angeles, CA 90028",
			Type:          "apartment",
			Units:         24,
			OccupiedUnits: 22,
			MonthlyRent:   2500,
			Status:        "occupied",
			ManagerID:     ManagerSarahID,
			TenantID:      TenantMichaelID,
			Amenities:     []string{"pool", "gym", "parking"},
			YearBuilt:     2015,
		},
		{
			ID:            "2",
			Name:          "Oak Street Townhouse",
			Address:       "456 Oak St, Pasadena, CA 91101",
			Type:          "townhouse",
			Units:         4,
			OccupiedUnits: 4,
			MonthlyRent:   3200,
			Status:        "occupied",
			ManagerID:     ManagerSarahID,
			TenantID:      TenantEmilyID,
			Amenities:     []string{"garage", "backyard"},
			YearBuilt:     2008,
		},
		{
			ID:            "3",
			Name:          "Downtown Loft",
			Address:       "789 Main St, Los Angeles, CA 90012",
			Type:          "loft",
			Units:         12,
			OccupiedUnits: 9,
			MonthlyRent:   2900,
			Status:        "maintenance",
			ManagerID:     ManagerSarahID,
			Amenities:     []string{"rooftop deck", "concierge"},
			YearBuilt:     1998,
		},
		{
			ID:            "4",
			Name:          "Riverside Condos",
			Address:       "321 River Rd, Burbank, CA 91502",
			Type:          "condo",
			Units:         18,
			OccupiedUnits: 17,
			MonthlyRent:   2800,
			Status:        "occupied",
			ManagerID:     ManagerSarahID,
			TenantID:      TenantDavidID,
			Amenities:     []string{"parking", "storage"},
			YearBuilt:     2012,
		},
		{
			ID:            "5",
			Name:          "Maple Grove House",
			Address:       "654 Maple Ave, Glendale, CA 91205",
			Type:          "house",
			Units:         1,
			OccupiedUnits: 0,
			MonthlyRent:   4100,
			Status:        "available",
			ManagerID:     ManagerSarahID,
			Amenities:     []string{"garden", "fireplace"},
			YearBuilt:     1987,
		},
	}
}

// ServiceRequests returns the demo service requests.
func ServiceRequests() []application.ServiceRequest {
	return []application.ServiceRequest{
		{
			ID:                 "sr-1",
			PropertyID:         "1",
			TenantID:           TenantMichaelID,
			Title:              "Leaking kitchen faucet",
			Description:        "Kitchen faucet drips constantly even when fully closed.",
			Category:           "plumbing",
			Priority:           application.PriorityHigh,
			Status:             application.RequestInProgress,
			AssignedProviderID: ProviderABCID,
			EstimatedCost:      150,
			CreatedAt:          day(2024, time.June, 3),
			UpdatedAt:          day(2024, time.June, 4),
		},
		{
			ID:                 "sr-2",
			PropertyID:         "1",
			TenantID:           TenantMichaelID,
			Title:              "Bathroom drain clogged",
			Description:        "Shower drain backs up after a few minutes.",
			Category:           "plumbing",
			Priority:           application.PriorityMedium,
			Status:             application.RequestCompleted,
			AssignedProviderID: ProviderABCID,
			EstimatedCost:      120,
			ActualCost:         110,
			CreatedAt:          day(2024, time.May, 10),
			UpdatedAt:          day(2024, time.May, 12),
			CompletedAt:        ptr(day(2024, time.May, 12)),
		},
		{
			ID:                 "sr-3",
			PropertyID:         "2",
			TenantID:           TenantEmilyID,
			Title:              "Flickering living room lights",
			Description:        "Ceiling lights flicker when the dishwasher runs.",
			Category:           "electrical",
			Priority:           application.PriorityMedium,
			Status:             application.RequestAssigned,
			AssignedProviderID: ProviderEliteID,
			EstimatedCost:      200,
			CreatedAt:          day(2024, time.June, 1),
			UpdatedAt:          day(2024, time.June, 2),
		},
		{
			ID:                 "sr-4",
			PropertyID:         "4",
			TenantID:           TenantDavidID,
			Title:              "No hot water",
			Description:        "Water heater stopped producing hot water overnight.",
			Category:           "plumbing",
			Priority:           application.PriorityUrgent,
			Status:             application.RequestCompleted,
			AssignedProviderID: ProviderABCID,
			EstimatedCost:      900,
			ActualCost:         1050,
			CreatedAt:          day(2024, time.April, 20),
			UpdatedAt:          day(2024, time.April, 21),
			CompletedAt:        ptr(day(2024, time.April, 21)),
		},
		{
			ID:          "sr-5",
			PropertyID:  "2",
			TenantID:    TenantEmilyID,
			Title:       "AC not cooling",
			Description: "Air conditioning runs but only blows warm air.",
			Category:    "hvac",
			Priority:    application.PriorityHigh,
			Status:      application.RequestPending,
			CreatedAt:   day(2024, time.June, 5),
			UpdatedAt:   day(2024, time.June, 5),
		},
		{
			ID:                 "sr-6",
			PropertyID:         "4",
			TenantID:           TenantDavidID,
			Title:              "Sparking bedroom outlet",
			Description:        "Outlet sparks when plugging in a lamp.",
			Category:           "electrical",
			Priority:           application.PriorityUrgent,
			Status:             application.RequestCompleted,
			AssignedProviderID: ProviderEliteID,
			EstimatedCost:      180,
			ActualCost:         165,
			CreatedAt:          day(2024, time.March, 2),
			UpdatedAt:          day(2024, time.March, 5),
			CompletedAt:        ptr(day(2024, time.March, 5)),
		},
		{
			ID:          "sr-7",
			PropertyID:  "1",
			TenantID:    TenantMichaelID,
			Title:       "Broken window latch",
			Description: "Bedroom window latch no longer locks.",
			Category:    "general",
			Priority:    application.PriorityLow,
			Status:      application.RequestPending,
			CreatedAt:   day(2024, time.June, 6),
			UpdatedAt:   day(2024, time.June, 6),
		},
	}
}

// Documents returns the demo documents.
func Documents() []application.Document {
	return []application.Document{
		{ID: "doc-1", Name: "Lease Agreement 2024.pdf", Type: "lease", PropertyID: "1", TenantID: TenantMichaelID, UploadedAt: day(2023, time.December, 15), SizeBytes: 245_760},
		{ID: "doc-2", Name: "Security Deposit Receipt.pdf", Type: "receipt", PropertyID: "1", TenantID: TenantMichaelID, UploadedAt: day(2024, time.January, 2), SizeBytes: 51_200},
		{ID: "doc-3", Name: "Lease Agreement Oak Street.pdf", Type: "lease", PropertyID: "2", TenantID: TenantEmilyID, UploadedAt: day(2024, time.February, 25), SizeBytes: 238_592},
		{ID: "doc-4", Name: "Annual Inspection Report.pdf", Type: "inspection", PropertyID: "3", UploadedAt: day(2024, time.May, 30), SizeBytes: 1_048_576},
		{ID: "doc-5", Name: "Lease Agreement Riverside.pdf", Type: "lease", PropertyID: "4", TenantID: TenantDavidID, UploadedAt: day(2024, time.April, 20), SizeBytes: 251_904},
		{ID: "doc-6", Name: "Pool Maintenance Notice.pdf", Type: "notice", PropertyID: "1", TenantID: TenantMichaelID, UploadedAt: day(2024, time.June, 1), SizeBytes: 20_480},
	}
}

// Invoices returns the demo invoices.
func Invoices() []application.Invoice {
	return []application.Invoice{
		{ID: "inv-1", Description: "June rent", PropertyID: "1", TenantID: TenantMichaelID, Amount: 2500, Status: application.InvoicePaid, IssuedAt: day(2024, time.May, 25), DueAt: day(2024, time.June, 1)},
		{ID: "inv-2", Description: "June rent", PropertyID: "2", TenantID: TenantEmilyID, Amount: 3200, Status: application.InvoiceOverdue, IssuedAt: day(2024, time.May, 25), DueAt: day(2024, time.June, 1)},
		{ID: "inv-3", Description: "Drain cleaning", PropertyID: "1", ProviderID: ProviderABCID, ServiceRequestID: "sr-2", Amount: 110, Status: application.InvoicePaid, IssuedAt: day(2024, time.May, 13), DueAt: day(2024, time.June, 12)},
		{ID: "inv-4", Description: "Water heater replacement", PropertyID: "4", ProviderID: ProviderABCID, ServiceRequestID: "sr-4", Amount: 1050, Status: application.InvoiceSent, IssuedAt: day(2024, time.April, 22), DueAt: day(2024, time.May, 22)},
		{ID: "inv-5", Description: "Outlet replacement", PropertyID: "4", ProviderID: ProviderEliteID, ServiceRequestID: "sr-6", Amount: 165, Status: application.InvoiceDraft, IssuedAt: day(2024, time.March, 6), DueAt: day(2024, time.April, 5)},
		{ID: "inv-6", Description: "June rent", PropertyID: "4", TenantID: TenantDavidID, Amount: 2800, Status: application.InvoiceSent, IssuedAt: day(2024, time.May, 25), DueAt: day(2024, time.June, 1)},
	}
}

// Messages returns the demo direct messages.
func Messages() []application.Message {
	return []application.Message{
		{ID: "msg-1", FromID: TenantMichaelID, ToID: ManagerSarahID, Subject: "Faucet repair", Body: "The plumber fixed the leak, thanks!", SentAt: day(2024, time.June, 4), Read: true},
		{ID: "msg-2", FromID: ManagerSarahID, ToID: TenantMichaelID, Subject: "Pool maintenance", Body: "The pool will be closed on Friday for cleaning.", SentAt: day(2024, time.June, 1), Read: false},
		{ID: "msg-3", FromID: ManagerSarahID, ToID: ProviderABCID, Subject: "New work order", Body: "Please take a look at the faucet in unit 4B.", SentAt: day(2024, time.June, 3), Read: true},
		{ID: "msg-4", FromID: ProviderABCID, ToID: ManagerSarahID, Subject: "Re: New work order", Body: "We will be on site tomorrow morning.", SentAt: day(2024, time.June, 3), Read: true},
		{ID: "msg-5", FromID: TenantEmilyID, ToID: ManagerSarahID, Subject: "AC issue", Body: "The AC has stopped cooling, can someone come by?", SentAt: day(2024, time.June, 5), Read: false},
		{ID: "msg-6", FromID: ProviderEliteID, ToID: ManagerSarahID, Subject: "Invoice draft", Body: "Draft invoice for the outlet replacement is ready.", SentAt: day(2024, time.March, 6), Read: true},
		{ID: "msg-7", FromID: ManagerSarahID, ToID: TenantDavidID, Subject: "Lease renewal", Body: "Your lease renewal window opens next month.", SentAt: day(2024, time.June, 2), Read: false},
	}
}

func revenueHistory() []application.MonthlyRevenue {
	return []application.MonthlyRevenue{
		{Month: "2024-01", Revenue: 138_400, Expense: 21_300},
		{Month: "2024-02", Revenue: 138_400, Expense: 18_900},
		{Month: "2024-03", Revenue: 141_600, Expense: 19_750},
		{Month: "2024-04", Revenue: 144_400, Expense: 24_100},
		{Month: "2024-05", Revenue: 144_400, Expense: 20_200},
		{Month: "2024-06", Revenue: 147_200, Expense: 22_800},
	}
}
