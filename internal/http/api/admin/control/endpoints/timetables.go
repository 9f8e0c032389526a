package endpoints

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/athan/internal/athan"
	"github.com/Nixie-Tech-LLC/athan/internal/db"
	"github.com/Nixie-Tech-LLC/athan/internal/http/api"
	"github.com/Nixie-Tech-LLC/athan/internal/http/api/admin/control/packets"
	"github.com/Nixie-Tech-LLC/athan/internal/metrics"
	"github.com/Nixie-Tech-LLC/athan/internal/model"
	"github.com/Nixie-Tech-LLC/athan/internal/storage"
	"github.com/Nixie-Tech-LLC/athan/internal/timetable"
)

// Refresher is told when the stored timetable changed and reloads today from it.
type Refresher interface {
	Invalidate()
	Refresh(ctx context.Context, now time.Time) (model.Snapshot, error)
}

type TimetableController struct {
	city    string
	store   db.Store
	files   storage.Storage
	tracker Refresher
	metrics *metrics.Metrics
}

func NewTimetableController(city string, store db.Store, files storage.Storage, tracker Refresher, m *metrics.Metrics) *TimetableController {
	return &TimetableController{city: city, store: store, files: files, tracker: tracker, metrics: m}
}

func TimetableModule(city string, store db.Store, files storage.Storage, tracker Refresher, m *metrics.Metrics) api.Module {
	ctl := NewTimetableController(city, store, files, tracker, m)
	return api.ModuleFunc(func(c *api.Controller) {
		c.POST("/timetables", ctl.importTimetable)
		c.GET("/timetables", ctl.listMonths)
		c.GET("/timetables/:month", ctl.getMonth)
		c.GET("/timetables/:month/days/:day", ctl.getDay)
	})
}

// POST /api/admin/timetables
func (t *TimetableController) importTimetable(ctx *gin.Context, admin *model.Admin) (any, *api.Error) {
	var request packets.ImportTimetableRequest
	if err := ctx.ShouldBind(&request); err != nil {
		return nil, &api.Error{Code: http.StatusBadRequest, Message: err.Error()}
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return nil, &api.Error{Code: http.StatusBadRequest, Message: "file is required"}
	}
	format, err := timetable.FormatFromFilename(fileHeader.Filename)
	if err != nil {
		return nil, &api.Error{Code: http.StatusBadRequest, Message: "file must be .xls, .xlsx or .csv"}
	}

	key, err := t.files.SaveFile(fileHeader, fileHeader.Filename)
	if err != nil {
		t.metrics.ObserveImport(false)
		return nil, &api.Error{Code: http.StatusInternalServerError, Message: "could not store file"}
	}
	data, err := storage.ReadAll(t.files, key)
	if err != nil {
		t.metrics.ObserveImport(false)
		return nil, &api.Error{Code: http.StatusInternalServerError, Message: "could not read stored file"}
	}

	months, err := timetable.Import(ctx.Request.Context(), t.store, t.city, data, format, time.Month(request.Month))
	if err != nil {
		t.metrics.ObserveImport(false)
		log.Error().Err(err).Str("key", key).Str("admin", admin.Subject).Msg("timetable import failed")
		switch {
		case errors.Is(err, timetable.ErrMonthRequired), errors.Is(err, timetable.ErrUnreadable):
			return nil, &api.Error{Code: http.StatusUnprocessableEntity, Message: err.Error()}
		default:
			return nil, &api.Error{Code: http.StatusInternalServerError, Message: "could not save timetable"}
		}
	}
	t.metrics.ObserveImport(true)
	t.tracker.Invalidate()
	if _, err := t.tracker.Refresh(ctx.Request.Context(), time.Now()); err != nil {
		log.Warn().Err(err).Msg("refresh after import failed")
	}

	log.Info().Str("key", key).Str("admin", admin.Subject).Int("months", len(months)).Msg("timetable imported")
	return packets.ImportTimetableResponse{Key: key, City: t.city, Months: monthNumbers(months)}, nil
}

// GET /api/admin/timetables
func (t *TimetableController) listMonths(ctx *gin.Context, _ *model.Admin) (any, *api.Error) {
	months, err := t.store.ListMonths(ctx.Request.Context(), t.city)
	if err != nil {
		return nil, &api.Error{Code: http.StatusInternalServerError, Message: "failed to list timetables"}
	}
	return packets.MonthListResponse{City: t.city, Months: monthNumbers(months)}, nil
}

// GET /api/admin/timetables/:month
func (t *TimetableController) getMonth(ctx *gin.Context, _ *model.Admin) (any, *api.Error) {
	month, apiErr := monthParam(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	table, apiErr := t.loadMonth(ctx, month)
	if apiErr != nil {
		return nil, apiErr
	}

	rows := make([][]string, 0, len(table))
	for _, row := range table {
		fields := []string(row)
		if fields == nil {
			fields = []string{}
		}
		rows = append(rows, fields)
	}
	return packets.MonthTableResponse{City: t.city, Month: int(month), Rows: rows}, nil
}

// GET /api/admin/timetables/:month/days/:day
func (t *TimetableController) getDay(ctx *gin.Context, _ *model.Admin) (any, *api.Error) {
	month, apiErr := monthParam(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	day, err := strconv.Atoi(ctx.Param("day"))
	if err != nil || day < 1 || day > 31 {
		return nil, &api.Error{Code: http.StatusBadRequest, Message: "invalid day"}
	}
	table, apiErr := t.loadMonth(ctx, month)
	if apiErr != nil {
		return nil, apiErr
	}

	schedule := athan.ExtractDay(table, day)
	return packets.DayResponse{
		City:     t.city,
		Month:    int(month),
		Day:      day,
		Found:    !schedule.IsEmpty(),
		Schedule: schedule,
	}, nil
}

func (t *TimetableController) loadMonth(ctx *gin.Context, month time.Month) (model.MonthTable, *api.Error) {
	table, err := t.store.GetMonthTable(ctx.Request.Context(), t.city, month)
	if errors.Is(err, db.ErrNoTimetable) {
		return nil, &api.Error{Code: http.StatusNotFound, Message: "no timetable for this month"}
	}
	if err != nil {
		return nil, &api.Error{Code: http.StatusInternalServerError, Message: "failed to load timetable"}
	}
	return table, nil
}

func monthParam(ctx *gin.Context) (time.Month, *api.Error) {
	m, err := strconv.Atoi(ctx.Param("month"))
	if err != nil || m < 1 || m > 12 {
		return 0, &api.Error{Code: http.StatusBadRequest, Message: "invalid month"}
	}
	return time.Month(m), nil
}

func monthNumbers(months []time.Month) []int {
	out := make([]int, 0, len(months))
	for _, m := range months {
		out = append(out, int(m))
	}
	return out
}
