package models

import "time"

// NotificationChannel identifies a dispatch channel.
type NotificationChannel string

const (
	ChannelEmail    NotificationChannel = "EMAIL"
	ChannelSMS      NotificationChannel = "SMS"
	ChannelWhatsApp NotificationChannel = "WHATSAPP"
	ChannelPush     NotificationChannel = "PUSH"
)

// NotificationLog is an append-only billing record written by the dispatch
// collaborator. Only SENT logs count toward channel cost.
type NotificationLog struct {
	ID             string              `db:"id" json:"id"`
	OrganizationID string              `db:"organization_id" json:"organization_id"`
	Channel        NotificationChannel `db:"channel" json:"channel"`
	Units          int                 `db:"units" json:"units"`
	Cost           float64             `db:"cost" json:"cost"`
	Status         string              `db:"status" json:"status"`
	CreatedAt      time.Time           `db:"created_at" json:"created_at"`
}

// ChannelCost aggregates dispatch volume and spend for one channel.
type ChannelCost struct {
	Channel NotificationChannel `json:"channel"`
	Units   int                 `json:"units"`
	Cost    float64             `json:"cost"`
}

// ChannelCostSummary is the per-channel breakdown plus grand total.
type ChannelCostSummary struct {
	Channels  []ChannelCost `json:"channels"`
	TotalCost float64       `json:"total_cost"`
}

// StoredFile is any uploaded object whose size counts toward storage usage.
type StoredFile struct {
	ID       string `db:"id" json:"id"`
	FileSize int64  `db:"file_size" json:"file_size"`
}
