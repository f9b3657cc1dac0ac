package model

import (
	"time"

	"gorm.io/datatypes"
)

type Bundle struct {
	ID          string                            `gorm:"primaryKey;size:64;not null" json:"id" firestore:"id"`
	SellerID    string                            `gorm:"size:64;index;not null" json:"seller_id" firestore:"sellerId"`
	Title       string                            `gorm:"size:255;not null" json:"title" firestore:"title"`
	Description string                            `gorm:"type:text" json:"description" firestore:"description"`
	Price       int64                             `gorm:"not null" json:"price" firestore:"price"` // minor units
	Currency    string                            `gorm:"size:8;not null" json:"currency" firestore:"currency"`
	Contents    datatypes.JSONSlice[ContentEntry] `json:"contents" firestore:"contents"`
	CreatedAt   time.Time                         `json:"created_at" firestore:"createdAt"`
	UpdatedAt   time.Time                         `json:"updated_at" firestore:"updatedAt"`
}

// ContentEntry is a bundle item as written by the upload flows. Several URL
// and thumbnail fields coexist because older uploads used different names.
type ContentEntry struct {
	ID           string   `json:"id" firestore:"id"`
	Title        string   `json:"title" firestore:"title"`
	DownloadURL  string   `json:"downloadUrl,omitempty" firestore:"downloadUrl"`
	PublicURL    string   `json:"publicUrl,omitempty" firestore:"publicUrl"`
	FileURL      string   `json:"fileUrl,omitempty" firestore:"fileUrl"`
	Size         int64    `json:"size,omitempty" firestore:"size"`
	SizeLabel    string   `json:"fileSize,omitempty" firestore:"fileSize"`
	Duration     float64  `json:"duration,omitempty" firestore:"duration"`
	Format       string   `json:"format,omitempty" firestore:"format"`
	MimeType     string   `json:"mimeType,omitempty" firestore:"mimeType"`
	ThumbnailURL string   `json:"thumbnailUrl,omitempty" firestore:"thumbnailUrl"`
	Thumbnail    string   `json:"thumbnail,omitempty" firestore:"thumbnail"`
	Tags         []string `json:"tags,omitempty" firestore:"tags"`
	Quality      string   `json:"quality,omitempty" firestore:"quality"`
}
