package packets

// form fields of POST /api/admin/timetables; the workbook itself is the "file" part
type ImportTimetableRequest struct {
	// 1..12; required for csv files, optional for yearly workbooks
	Month int `form:"month" binding:"omitempty,min=1,max=12"`
}
