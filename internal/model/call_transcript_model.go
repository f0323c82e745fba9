package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// CallTranscript archives one finished phone call. Written off the hot path
// by the archiver consumer after hangup or eviction.
type CallTranscript struct {
	Id            uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CallId        string         `gorm:"type:varchar(128);not null;index"`
	Turns         datatypes.JSON `gorm:"type:jsonb"` // []store.Turn, tool calls included
	FarmerContext datatypes.JSON `gorm:"type:jsonb"` // store.FarmerContext slots
	TurnCount     int            `gorm:"not null"`
	StartedAt     time.Time      `gorm:"not null"`
	EndedAt       time.Time      `gorm:"not null"`
	CreatedAt     time.Time      `gorm:"autoCreateTime"`
}

func (CallTranscript) TableName() string {
	return "call_transcripts"
}
