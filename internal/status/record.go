package status

import "time"

// Record is one stored status observation. Records are append-only.
type Record struct {
	ID        int64     `db:"id" json:"id"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
