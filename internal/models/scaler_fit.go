package models

import (
	"time"

	"github.com/lib/pq"
)

// ScalerFit is one persisted standardization fit over the modality feature
// columns, so a restart can reuse the last fit before any refit runs.
type ScalerFit struct {
	ID        int             `gorm:"primaryKey"`
	Means     pq.Float64Array `gorm:"type:double precision[]"`
	Stds      pq.Float64Array `gorm:"type:double precision[]"`
	CreatedAt time.Time
}
