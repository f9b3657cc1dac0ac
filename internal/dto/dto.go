package dto

type PurchaseStatus string

const (
	PurchaseProcessed        PurchaseStatus = "processed"
	PurchaseAlreadyProcessed PurchaseStatus = "already_processed"
)

// PurchaseResult summarizes one completed checkout for logs and callers.
type PurchaseResult struct {
	Status          PurchaseStatus `json:"status"`
	SessionID       string         `json:"session_id"`
	BundleID        string         `json:"bundle_id,omitempty"`
	BundleTitle     string         `json:"bundle_title,omitempty"`
	BundlePrice     int64          `json:"bundle_price,omitempty"`
	ContentItems    int            `json:"content_items"`
	Amount          int64          `json:"amount,omitempty"`
	AmountDisplay   string         `json:"amount_display,omitempty"`
	Currency        string         `json:"currency,omitempty"`
	SellerAccountID string         `json:"seller_account_id,omitempty"`
}

type CreateSellerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type SellerResponse struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	AccountID        string `json:"account_id,omitempty"`
	ChargesEnabled   bool   `json:"charges_enabled"`
	PayoutsEnabled   bool   `json:"payouts_enabled"`
	DetailsSubmitted bool   `json:"details_submitted"`
}

type ConnectResponse struct {
	AccountID     string `json:"account_id"`
	OnboardingURL string `json:"onboarding_url"`
}
