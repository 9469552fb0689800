// models/nft.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NFT represents a marketplace listing
type NFT struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name          string             `json:"name" bson:"name"`
	Description   string             `json:"description,omitempty" bson:"description,omitempty"`
	MediaURL      string             `json:"mediaUrl" bson:"mediaUrl"`
	MediaType     string             `json:"mediaType" bson:"mediaType"`
	ThumbnailURL  string             `json:"thumbnailUrl,omitempty" bson:"thumbnailUrl,omitempty"`
	PriceEth      *float64           `json:"priceEth,omitempty" bson:"priceEth,omitempty"`
	Chain         string             `json:"chain" bson:"chain"`
	OwnerID       primitive.ObjectID `json:"ownerId" bson:"ownerId"`
	OwnerUsername string             `json:"ownerUsername,omitempty" bson:"ownerUsername,omitempty"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type CreateNFTRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	MediaURL    string   `json:"mediaUrl"`
	MediaType   string   `json:"mediaType"`
	PriceEth    *float64 `json:"priceEth,omitempty"`
	Chain       string   `json:"chain"`
}

type UpdateNFTRequest struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	PriceEth    *float64 `json:"priceEth,omitempty"`
}
