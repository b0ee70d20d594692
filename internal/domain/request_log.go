package domain

import "time"

// RequestLog is an append-only record of one meme request. Written
// best-effort off the response path; rows are advisory, not part of the
// correctness contract.
type RequestLog struct {
	ID         string    `gorm:"type:text;primaryKey" json:"id"`
	Query      string    `gorm:"type:text;not null" json:"query"`
	OutputType string    `gorm:"type:text;index:idx_request_logs_type" json:"output_type"`
	Output     string    `gorm:"type:text" json:"output"`
	ClientIP   string    `gorm:"type:text;index:idx_request_logs_ip" json:"client_ip"`
	Referrer   string    `gorm:"type:text" json:"referrer"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName returns the database table name for RequestLog.
func (RequestLog) TableName() string {
	return "request_logs"
}

// RequestCounter is the single-row global request counter. Approximate
// under concurrent increments; no per-user identity.
type RequestCounter struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Count     int64     `gorm:"not null;default:0" json:"count"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for RequestCounter.
func (RequestCounter) TableName() string {
	return "request_counter"
}
