// exposes a Store interface that is passed to API calls and the tracker
package db

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Nixie-Tech-LLC/athan/internal/model"
)

type Store interface {
	// timetable functions
	SaveMonthTable(ctx context.Context, city string, month time.Month, table model.MonthTable) error
	GetMonthTable(ctx context.Context, city string, month time.Month) (model.MonthTable, error)
	ListMonths(ctx context.Context, city string) ([]time.Month, error)
}

type pgStore struct {
	db *sqlx.DB
}

// compile-time check that pgStore implements Store
var _ Store = (*pgStore)(nil)

func NewStore(db *sqlx.DB) Store {
	return &pgStore{db: db}
}
