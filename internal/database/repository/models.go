package repository

import (
	"time"

	"github.com/google/uuid"
)

// SavestateInfo describes a stored sim snapshot without its payload.
type SavestateInfo struct {
	ID        string
	MapName   string
	RunName   string
	Tick      uint32
	Size      int
	CreatedAt time.Time
}

// recordID derives a stable id so re-saving a record under the same name
// updates it in place.
func recordID(kind, mapName, name string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(kind+":"+mapName+"/"+name)).String()
}
