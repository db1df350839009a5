package services

import (
	"bytes"
	"fmt"
	"log"

	"hotel-reservation/models"

	"github.com/xuri/excelize/v2"
)

const reservationsSheet = "Reservations"

var reservationColumns = []string{
	"ID", "User", "Room", "Room Type", "Check-in", "Check-out", "Nights", "Price / Night", "Cost",
}

// ReservationsWorkbook renders reservations as an xlsx document with a totals row.
func ReservationsWorkbook(list []models.Reservation) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("warning: failed to close workbook: %v", err)
		}
	}()

	if err := f.SetSheetName("Sheet1", reservationsSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	for i, header := range reservationColumns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(reservationsSheet, cell, header); err != nil {
			return nil, err
		}
	}

	var total uint
	for i, r := range list {
		row := i + 2
		user := ""
		if r.UserID != nil {
			user = fmt.Sprint(*r.UserID)
		}
		values := []interface{}{
			r.ID,
			user,
			r.AssignedRoom.Number,
			r.AssignedRoom.RoomType.Name,
			r.CheckIn().Format(DateLayout),
			r.CheckOut().Format(DateLayout),
			r.Nights(),
			r.AssignedRoom.RoomType.PricePerNight,
			r.Cost(),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(reservationsSheet, cell, v); err != nil {
				return nil, err
			}
		}
		total += r.Cost()
	}

	summaryRow := len(list) + 3
	if err := f.SetCellValue(reservationsSheet, fmt.Sprintf("A%d", summaryRow), "Total"); err != nil {
		return nil, err
	}
	if err := f.SetCellValue(reservationsSheet, fmt.Sprintf("I%d", summaryRow), total); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf, nil
}
