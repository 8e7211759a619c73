// Package spreadsheet читает и пишет книгу Excel с заявками. Чтение никогда
// не изменяет исходный файл; запись используется только командой export.
package spreadsheet

import (
	"fmt"
	"strings"

	"github.com/AngelP17/ticketing/internal/errs"
	"github.com/xuri/excelize/v2"
)

// DefaultSheet — имя листа в исходной книге.
const DefaultSheet = "IT Service Tickets"

// Row — сырая строка листа. Number — номер строки в книге (1-based, шапка =
// строка 1), нужен для отчёта о забракованных строках. Все значения уже
// обрезаны от пробелов.
type Row struct {
	Number          int
	TicketID        string
	Title           string
	Status          string
	Priority        string
	RequestType     string
	StaffAssigned   string
	Requester       string
	DateOpened      string
	Location        string
	Description     string
	ResolutionNotes string
}

func (r Row) empty() bool {
	return r.TicketID == "" && r.Title == "" && r.Status == "" && r.Priority == "" &&
		r.RequestType == "" && r.StaffAssigned == "" && r.Requester == "" &&
		r.DateOpened == "" && r.Location == "" && r.Description == "" && r.ResolutionNotes == ""
}

// column headers as they appear in the workbook, case-insensitive
var headerSetters = map[string]func(*Row, string){
	"ticket id":        func(r *Row, v string) { r.TicketID = v },
	"title":            func(r *Row, v string) { r.Title = v },
	"status":           func(r *Row, v string) { r.Status = v },
	"priority":         func(r *Row, v string) { r.Priority = v },
	"request type":     func(r *Row, v string) { r.RequestType = v },
	"staff assigned":   func(r *Row, v string) { r.StaffAssigned = v },
	"requester":        func(r *Row, v string) { r.Requester = v },
	"date opened":      func(r *Row, v string) { r.DateOpened = v },
	"location":         func(r *Row, v string) { r.Location = v },
	"description":      func(r *Row, v string) { r.Description = v },
	"resolution notes": func(r *Row, v string) { r.ResolutionNotes = v },
}

// FileSource читает все строки одного листа .xlsx. Реализует etl.Source.
type FileSource struct {
	Path  string
	Sheet string
}

func NewFileSource(path, sheet string) *FileSource {
	if sheet == "" {
		sheet = DefaultSheet
	}
	return &FileSource{Path: path, Sheet: sheet}
}

// Read возвращает строки листа с их номерами. Отсутствующий или нечитаемый
// файл — ошибка ErrSourceUnavailable: вызывающий должен узнать, что ничего
// не синхронизировано, а не получить тихий no-op.
func (s *FileSource) Read() ([]Row, error) {
	f, err := excelize.OpenFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", errs.ErrSourceUnavailable, s.Path, err)
	}
	defer f.Close()

	cells, err := f.GetRows(s.Sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: sheet %q: %v", errs.ErrSourceUnavailable, s.Sheet, err)
	}
	if len(cells) == 0 {
		return nil, nil
	}

	// map header row to field setters by column position; unknown columns
	// are ignored, missing ones read as empty
	setters := make([]func(*Row, string), len(cells[0]))
	for i, h := range cells[0] {
		setters[i] = headerSetters[strings.ToLower(strings.TrimSpace(h))]
	}

	var rows []Row
	for i, line := range cells[1:] {
		r := Row{Number: i + 2}
		for c, v := range line {
			if c < len(setters) && setters[c] != nil {
				setters[c](&r, strings.TrimSpace(v))
			}
		}
		if r.empty() {
			continue // blank padding rows at the bottom of the sheet
		}
		rows = append(rows, r)
	}
	return rows, nil
}
