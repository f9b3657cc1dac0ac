package model

import (
	"time"

	"gorm.io/datatypes"
)

// Purchase is keyed by the Stripe checkout session id; one row per session.
// Bundle fields are copied at purchase time and never refreshed.
type Purchase struct {
	SessionID         string                             `gorm:"primaryKey;size:128;not null" json:"session_id" firestore:"sessionId"`
	PaymentIntentID   string                             `gorm:"size:128;index" json:"payment_intent_id" firestore:"paymentIntentId"`
	SellerID          string                             `gorm:"size:64;index;not null" json:"seller_id" firestore:"sellerId"`
	SellerAccountID   string                             `gorm:"size:64;not null" json:"seller_account_id" firestore:"sellerStripeAccountId"`
	BundleID          string                             `gorm:"size:64;index;not null" json:"bundle_id" firestore:"bundleId"`
	BuyerID           string                             `gorm:"size:64;index" json:"buyer_id" firestore:"buyerId"`
	BuyerEmail        string                             `gorm:"size:255" json:"buyer_email" firestore:"buyerEmail"`
	BundleTitle       string                             `gorm:"size:255" json:"bundle_title" firestore:"bundleTitle"`
	BundleDescription string                             `gorm:"type:text" json:"bundle_description" firestore:"bundleDescription"`
	BundlePrice       int64                              `json:"bundle_price" firestore:"bundlePrice"`
	BundleCurrency    string                             `gorm:"size:8" json:"bundle_currency" firestore:"bundleCurrency"`
	Items             datatypes.JSONSlice[PurchasedItem] `json:"items" firestore:"items"`
	ItemCount         int                                `gorm:"not null" json:"item_count" firestore:"itemCount"`
	Amount            int64                              `gorm:"not null" json:"amount" firestore:"amount"`
	Currency          string                             `gorm:"size:8;not null" json:"currency" firestore:"currency"`
	PaymentStatus     string                             `gorm:"size:32;not null" json:"payment_status" firestore:"paymentStatus"`
	ProcessedAt       time.Time                          `json:"processed_at" firestore:"processedAt"`
	CreatedAt         time.Time                          `json:"created_at" firestore:"createdAt"`
}

// PurchasedItem is the normalized, self-contained form of a ContentEntry.
type PurchasedItem struct {
	ID           string   `json:"id" firestore:"id"`
	Title        string   `json:"title" firestore:"title"`
	URL          string   `json:"url" firestore:"url"`
	Size         int64    `json:"size" firestore:"size"`
	SizeLabel    string   `json:"file_size" firestore:"fileSize"`
	Duration     float64  `json:"duration" firestore:"duration"`
	Format       string   `json:"format" firestore:"format"`
	MimeType     string   `json:"mime_type" firestore:"mimeType"`
	ThumbnailURL string   `json:"thumbnail_url" firestore:"thumbnailUrl"`
	Tags         []string `json:"tags" firestore:"tags"`
	Quality      string   `json:"quality" firestore:"quality"`
}
