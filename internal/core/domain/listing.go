package domain

import "time"

// Default values seeded into a provider's first listing.
const (
	DefaultListingPrice    = "1000"
	DefaultListingStatus   = "Active"
	DefaultListingCategory = "General"
	DefaultListingLocation = "Remote"
	DefaultListingImage    = "/images/default-service.png"
)

// Listing is a marketplace service entry. Only the default listing created at
// provider registration is written by this service.
type Listing struct {
	ID        string    `json:"id"        bson:"_id"`
	Name      string    `json:"name"      bson:"name"`
	Provider  string    `json:"provider"  bson:"provider"`
	Price     string    `json:"price"     bson:"price"`
	Status    string    `json:"status"    bson:"status"`
	Category  string    `json:"category"  bson:"category"`
	Location  string    `json:"location"  bson:"location"`
	Rating    float64   `json:"rating"    bson:"rating"`
	Image     string    `json:"image"     bson:"image"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
}

// NewDefaultListing builds the listing auto-provisioned for a new provider.
func NewDefaultListing(id, providerName string, now time.Time) *Listing {
	return &Listing{
		ID:        id,
		Name:      providerName + "'s Service",
		Provider:  providerName,
		Price:     DefaultListingPrice,
		Status:    DefaultListingStatus,
		Category:  DefaultListingCategory,
		Location:  DefaultListingLocation,
		Rating:    0,
		Image:     DefaultListingImage,
		CreatedAt: now,
	}
}
