package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type EventType string

const (
	EventSubmitted     EventType = "submitted"
	EventStatusChanged EventType = "status_changed"
)

// ApplicationEvent is one entry of an application's timeline.
type ApplicationEvent struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ApplicationID string             `bson:"application_id" json:"application_id"`
	JobID         string             `bson:"job_id" json:"job_id"`
	ActorID       string             `bson:"actor_id" json:"actor_id"`
	Type          EventType          `bson:"type" json:"type"`
	FromStatus    ApplicationStatus  `bson:"from_status,omitempty" json:"from_status,omitempty"`
	ToStatus      ApplicationStatus  `bson:"to_status" json:"to_status"`
	Timestamp     time.Time          `bson:"timestamp" json:"timestamp"`
}
