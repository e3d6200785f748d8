package data

import (
	"database/sql"
	"errors"
)

var ErrRecordNotFound = errors.New("record not found")

type Models struct {
	Records RecordModel
}

func NewModels(initDb *sql.DB) Models {
	return Models{
		Records: RecordModel{db: initDb},
	}
}
