package etl

import (
	"fmt"
	"time"

	"github.com/AngelP17/ticketing/internal/model"
	"github.com/AngelP17/ticketing/internal/spreadsheet"
)

// accepted calendar layouts for Date Opened; excelize returns the formatted
// cell value, so both ISO and the workbook's US-style formats show up
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"01/02/2006",
	"1/2/2006",
	"1/2/06",
	"1/2/06 15:04",
	"01-02-06",
}

func parseDate(v string) (string, error) {
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, v); err == nil {
			return d.Format("2006-01-02"), nil
		}
	}
	return "", fmt.Errorf("unrecognized date %q", v)
}

// transformRow валидирует и нормализует одну строку листа. Возвращает либо
// заявку, либо причину отбраковки; warnings не бракуют строку.
func transformRow(row spreadsheet.Row) (t model.Ticket, rej *Rejection, warnings []string) {
	if row.TicketID == "" {
		return t, &Rejection{Row: row.Number, Reason: "missing ticket_id"}, nil
	}
	if row.Title == "" {
		return t, &Rejection{Row: row.Number, TicketID: row.TicketID, Reason: "missing title"}, nil
	}

	t = model.Ticket{
		TicketID:        row.TicketID,
		Title:           row.Title,
		Status:          row.Status,
		Priority:        row.Priority,
		RequestType:     row.RequestType,
		StaffAssigned:   row.StaffAssigned,
		Requester:       row.Requester,
		Location:        row.Location,
		Description:     row.Description,
		ResolutionNotes: row.ResolutionNotes,
	}

	if t.Status == "" {
		t.Status = model.StatusOpen
	} else if !model.KnownStatus(t.Status) {
		warnings = append(warnings,
			fmt.Sprintf("row %d (%s): status %q outside the known set, stored as-is", row.Number, t.TicketID, t.Status))
	}
	if t.Priority == "" {
		t.Priority = model.PriorityLow
	} else if !model.KnownPriority(t.Priority) {
		warnings = append(warnings,
			fmt.Sprintf("row %d (%s): priority %q outside the known set, stored as-is", row.Number, t.TicketID, t.Priority))
	}

	if row.DateOpened != "" {
		iso, err := parseDate(row.DateOpened)
		if err != nil {
			return model.Ticket{}, &Rejection{
				Row:      row.Number,
				TicketID: row.TicketID,
				Reason:   "unparsable date_opened",
				Cell:     row.DateOpened,
			}, warnings
		}
		t.DateOpened = iso
	}
	return t, nil, warnings
}
