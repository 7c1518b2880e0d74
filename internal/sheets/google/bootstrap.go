package google

import (
	"context"
	"fmt"
	"log/slog"

	gsheet "google.golang.org/api/sheets/v4"
)

// headerRows is the column contract in spreadsheet form. Readers and
// writers in this package assume exactly this order.
func (c *Client) headerRows() map[string][]interface{} {
	return map[string][]interface{}{
		c.cfg.IncomeSheet:   {"Source", "Amount", "Month", "Year", "Account"},
		c.cfg.BudgetSheet:   {"Name", "Type", "Color", "Allocation", "Spent", "Month", "Year", "Account"},
		c.cfg.SpendingSheet: {"Date", "Description", "Amount", "Category", "Account", "Month", "Year"},
		c.cfg.AssetsSheet:   {"Name", "Type", "Category", "Symbol", "Shares", "Price", "Current Value", "Target Value", "Last Updated"},
		c.cfg.AccountsSheet: {"Name", "Type", "Balance", "Currency"},
		c.cfg.SettingsSheet: {"Key", "Value"},
	}
}

// Bootstrap creates any missing tabs and writes the header row into each.
// Existing tabs keep their data; only row 1 is overwritten.
func (c *Client) Bootstrap(ctx context.Context) error {
	existing, err := c.existingSheetTitles(ctx)
	if err != nil {
		return err
	}

	headers := c.headerRows()

	var requests []*gsheet.Request
	for title := range headers {
		if existing[title] {
			continue
		}
		requests = append(requests, &gsheet.Request{
			AddSheet: &gsheet.AddSheetRequest{
				Properties: &gsheet.SheetProperties{Title: title},
			},
		})
		slog.InfoContext(ctx, "Creating sheet tab", "title", title)
	}

	if len(requests) > 0 {
		_, err := c.svc.Spreadsheets.BatchUpdate(c.cfg.SpreadsheetID, &gsheet.BatchUpdateSpreadsheetRequest{
			Requests: requests,
		}).Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("create tabs: %w", err)
		}
	}

	for title, header := range headers {
		rng := title + "!A1"
		vr := &gsheet.ValueRange{Values: [][]interface{}{header}}
		_, err := c.svc.Spreadsheets.Values.Update(c.cfg.SpreadsheetID, rng, vr).
			ValueInputOption("RAW").Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("write header for %s: %w", title, err)
		}
	}
	return nil
}

func (c *Client) existingSheetTitles(ctx context.Context) (map[string]bool, error) {
	meta, err := c.svc.Spreadsheets.Get(c.cfg.SpreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get spreadsheet metadata: %w", err)
	}
	titles := make(map[string]bool, len(meta.Sheets))
	for _, sh := range meta.Sheets {
		if sh.Properties != nil {
			titles[sh.Properties.Title] = true
		}
	}
	return titles, nil
}
