package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one side of a chat turn. ID only breaks ties between equal
// timestamps; ordering is by Timestamp.
type Message struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index:idx_messages_user_ts,priority:1"`
	User      User      `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
	Role      string    `json:"role" gorm:"type:varchar(16);not null"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	Timestamp time.Time `json:"timestamp" gorm:"not null;index:idx_messages_user_ts,priority:2"`
}

func (Message) TableName() string {
	return "messages"
}

func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAssistant
}
