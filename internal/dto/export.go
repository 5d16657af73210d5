package dto

// CalendarExport is a serialized calendar artifact ready to be offered as a
// file download.
type CalendarExport struct {
	Filename string
	Content  []byte
}
