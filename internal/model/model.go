package model

import (
	"time"

	"github.com/thep200/github-gsa-feed/cfg"
	"github.com/thep200/github-gsa-feed/pkg/db"
	"github.com/thep200/github-gsa-feed/pkg/log"
)

// Model is the base of the persisted models. Entities of the harvest are never persisted.
type Model struct {
	Config    *cfg.Config `gorm:"-"`
	Logger    log.Logger  `gorm:"-"`
	Mysql     *db.Mysql   `gorm:"-"`
	ID        uint        `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}
