package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Listing event types recorded on admin mutations.
const (
	EventCreated = "CREATED"
	EventUpdated = "UPDATED"
	EventSold    = "SOLD"
	EventUnsold  = "UNSOLD"
	EventDeleted = "DELETED"
)

// ListingEvent is an audit trail row for a listing mutation. ListingID is a
// plain reference, not a foreign key: DELETED events outlive the listing.
type ListingEvent struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	ListingID uint           `gorm:"column:listing_id;not null;index" json:"listing_id"`
	EventType string         `gorm:"column:event_type;not null" json:"event_type"`
	EventData datatypes.JSON `gorm:"column:event_data" json:"event_data"`
	CreatedAt time.Time      `json:"created_at"`
}

func (ListingEvent) TableName() string {
	return "listing_events"
}
