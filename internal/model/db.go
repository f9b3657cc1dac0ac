package model

import "time"

type Seller struct {
	ID        string    `gorm:"primaryKey;size:64;not null" json:"id" firestore:"id"`
	Name      string    `gorm:"size:255;not null" json:"name" firestore:"name"`
	Email     string    `gorm:"size:255;index" json:"email" firestore:"email"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

// ConnectedAccount maps a seller to their Stripe Connect sub-account.
type ConnectedAccount struct {
	SellerID         string    `gorm:"primaryKey;size:64;not null" json:"seller_id" firestore:"sellerId"`
	AccountID        string    `gorm:"size:64;uniqueIndex;not null" json:"account_id" firestore:"stripeAccountId"`
	ChargesEnabled   bool      `gorm:"not null;default:false" json:"charges_enabled" firestore:"chargesEnabled"`
	PayoutsEnabled   bool      `gorm:"not null;default:false" json:"payouts_enabled" firestore:"payoutsEnabled"`
	DetailsSubmitted bool      `gorm:"not null;default:false" json:"details_submitted" firestore:"detailsSubmitted"`
	Email            string    `gorm:"size:255" json:"email" firestore:"email"`
	CreatedAt        time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt        time.Time `json:"updated_at" firestore:"updatedAt"`
}

type WebhookEvent struct {
	EventID     string    `gorm:"primaryKey;size:128;not null" firestore:"eventId"`
	EventType   string    `gorm:"size:64;index" firestore:"eventType"`
	Account     string    `gorm:"size:64;index" firestore:"account"` // connected account the event was sent for
	ProcessedAt time.Time `firestore:"processedAt"`
	CreatedAt   time.Time `firestore:"createdAt"`
}
