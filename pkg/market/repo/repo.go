package repo

import (
	"gorm.io/gorm"
)

type IRepo interface {
	FillEvent() IFillEvent
}

type Repo struct {
	fillDB *gorm.DB
}

func NewRepo(fillDB *gorm.DB) IRepo {
	return &Repo{
		fillDB: fillDB,
	}
}

func (r *Repo) FillEvent() IFillEvent {
	return NewFillEventSQLRepo(r.fillDB)
}
