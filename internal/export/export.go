// internal/export/export.go
package export

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"auctionbackend/internal/data"
	"auctionbackend/internal/logger"
)

// Workbook writes the full auction transcript to an .xlsx workbook for
// backup and review: bidders (without password hashes), rosters, the bid
// audit trail, and the sale log. Returns the written file path.
func Workbook(dir string, bidders *data.BidderRepo, auctions *data.AuctionRepo) (string, error) {
	wb := excelize.NewFile()
	defer wb.Close()

	allBidders, err := bidders.All()
	if err != nil {
		return "", fmt.Errorf("failed to load bidders: %w", err)
	}

	sheet := "Bidders"
	wb.SetSheetName("Sheet1", sheet)
	writeRow(wb, sheet, 1, "ID", "Username", "Email", "Team", "Purse", "Admin")
	for i, b := range allBidders {
		writeRow(wb, sheet, i+2, b.ID, b.Username, b.Email, b.TeamName, b.Purse, b.IsAdmin)
	}

	sheet = "Rosters"
	if _, err := wb.NewSheet(sheet); err != nil {
		return "", fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}
	writeRow(wb, sheet, 1, "Bidder", "Player", "Category", "Price", "Position", "Captain")
	row := 2
	for _, b := range allBidders {
		roster, err := auctions.RosterFor(b.ID)
		if err != nil {
			return "", fmt.Errorf("failed to load roster for %s: %w", b.Username, err)
		}
		for _, e := range roster {
			position := interface{}(nil)
			if e.Position != nil {
				position = *e.Position
			}
			writeRow(wb, sheet, row, b.Username, e.Item, e.Category, e.Price, position, e.IsCaptain)
			row++
		}
	}

	sheet = "Bids"
	if _, err := wb.NewSheet(sheet); err != nil {
		return "", fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}
	writeRow(wb, sheet, 1, "BidderID", "Player", "Amount", "Timestamp")
	allBids, err := auctions.AllBids()
	if err != nil {
		return "", fmt.Errorf("failed to load bid audit: %w", err)
	}
	for i, b := range allBids {
		writeRow(wb, sheet, i+2, b.BidderID, b.Item, b.Amount, b.Timestamp.Format(time.RFC3339))
	}

	sheet = "Auction_Log"
	if _, err := wb.NewSheet(sheet); err != nil {
		return "", fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}
	writeRow(wb, sheet, 1, "Player", "Category", "BasePrice", "WinnerID", "FinalPrice", "Timestamp")
	sales, err := auctions.AllSales()
	if err != nil {
		return "", fmt.Errorf("failed to load sale log: %w", err)
	}
	for i, s := range sales {
		writeRow(wb, sheet, i+2, s.Item, s.Category, s.BasePrice, s.WinnerID, s.FinalPrice, s.Timestamp.Format(time.RFC3339))
	}

	path := filepath.Join(dir, fmt.Sprintf("auction_export_%s.xlsx", time.Now().Format("2006-01-02_150405")))
	if err := wb.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save export workbook: %w", err)
	}

	logger.LogInfo("Exported auction data to %s (%d bidders, %d bids, %d sales)",
		path, len(allBidders), len(allBids), len(sales))
	return path, nil
}

func writeRow(wb *excelize.File, sheet string, row int, values ...interface{}) {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return
	}
	if err := wb.SetSheetRow(sheet, cell, &values); err != nil {
		logger.LogWarn("Failed to write row %d on %s: %v", row, sheet, err)
	}
}
