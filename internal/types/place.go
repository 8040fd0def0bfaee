package types

import (
	"time"

	"github.com/google/uuid"
)

// Place matches the places table: community-submitted POIs with bilingual
// names and descriptions.
type Place struct {
	ID            uuid.UUID `json:"id"`
	NameEn        string    `json:"nameEn"`
	NameVi        string    `json:"nameVi,omitempty"`
	Category      string    `json:"category,omitempty"`
	DescriptionEn string    `json:"descriptionEn,omitempty"`
	DescriptionVi string    `json:"descriptionVi,omitempty"`
	Latitude      float64   `json:"latitude"`
	Longitude     float64   `json:"longitude"`
	UserCreated   bool      `json:"userCreated"`
	CreatedBy     string    `json:"createdBy,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// CreatePlaceRequest is the payload for submitting a new place.
type CreatePlaceRequest struct {
	NameEn        string   `json:"nameEn"`
	NameVi        string   `json:"nameVi"`
	Category      string   `json:"category"`
	DescriptionEn string   `json:"descriptionEn"`
	DescriptionVi string   `json:"descriptionVi"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	CreatedBy     string   `json:"createdBy"`
}

// Comment is a user comment on a place.
type Comment struct {
	ID        uuid.UUID `json:"id"`
	PlaceID   uuid.UUID `json:"placeId"`
	UserName  string    `json:"userName"`
	Comment   string    `json:"comment"`
	Rating    *float64  `json:"rating,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type CreateCommentRequest struct {
	PlaceID  uuid.UUID `json:"placeId"`
	UserName string    `json:"userName"`
	Comment  string    `json:"comment"`
	Rating   *float64  `json:"rating"`
}

// WaitTimeSubmission is a crowd-sourced wait-time report for a place.
type WaitTimeSubmission struct {
	PlaceID     string `json:"placeId"`
	WaitMinutes int    `json:"waitMinutes"`
}
