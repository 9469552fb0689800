package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NewsletterSubscriber represents a newsletter signup
type NewsletterSubscriber struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Email        string             `json:"email" bson:"email"`
	SubscribedAt time.Time          `json:"subscribedAt" bson:"subscribedAt"`
}

type SubscribeRequest struct {
	Email string `json:"email"`
}
