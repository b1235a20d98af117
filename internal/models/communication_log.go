package models

import (
	"time"

	"github.com/google/uuid"
)

type Channel string

const (
	ChannelEmail    Channel = "email"
	ChannelWhatsApp Channel = "whatsapp"
)

func (c Channel) Valid() bool {
	return c == ChannelEmail || c == ChannelWhatsApp
}

type DeliveryStatus string

const (
	DeliveryPending DeliveryStatus = "pending"
	DeliverySending DeliveryStatus = "sending"
	DeliverySent    DeliveryStatus = "sent"
	DeliveryFailed  DeliveryStatus = "failed"
)

type CommunicationLog struct {
	ID                uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	EvaluationID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"evaluation_id"`
	Channel           Channel        `gorm:"type:text;not null" json:"channel"`
	Recipient         string         `gorm:"type:text;not null" json:"recipient"`
	Subject           *string        `gorm:"type:text" json:"subject,omitempty"`
	Message           string         `gorm:"type:text" json:"message"`
	Status            DeliveryStatus `gorm:"type:text;not null;default:'pending'" json:"status"`
	ErrorMessage      *string        `gorm:"type:text" json:"error_message,omitempty"`
	ProviderMessageID *string        `gorm:"type:text" json:"provider_message_id,omitempty"`
	SentAt            *time.Time     `gorm:"type:timestamptz" json:"sent_at,omitempty"`
	CreatedAt         time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (CommunicationLog) TableName() string {
	return "communication_logs"
}
