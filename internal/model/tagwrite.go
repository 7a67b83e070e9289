package model

import "time"

// TagWrite is a payload written to a tag by the stand-in's simulated writer.
type TagWrite struct {
	ID        int64     `json:"id"`
	Payload   string    `json:"payload"`
	WrittenAt time.Time `json:"written_at"`
}
