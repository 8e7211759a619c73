package spreadsheet

import (
	"fmt"

	"github.com/AngelP17/ticketing/internal/model"
	"github.com/xuri/excelize/v2"
)

var exportHeader = []interface{}{
	"Ticket ID", "Title", "Status", "Priority", "Request Type",
	"Staff Assigned", "Requester", "Date Opened", "Location",
	"Description", "Resolution Notes",
}

// WriteFile выгружает заявки в новую книгу .xlsx с той же шапкой, что у
// исходного листа. Существующий файл перезаписывается.
func WriteFile(path, sheet string, tickets []model.Ticket) error {
	if sheet == "" {
		sheet = DefaultSheet
	}
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(sheet, "A1", &exportHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, t := range tickets {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			t.TicketID, t.Title, t.Status, t.Priority, t.RequestType,
			t.StaffAssigned, t.Requester, t.DateOpened, t.Location,
			t.Description, t.ResolutionNotes,
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
