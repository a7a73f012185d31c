// Package export translates the ledger to and from delimited text.
package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"swing-journal/internal/logging"
	"swing-journal/internal/models"
)

const dateLayout = "2006-01-02"

// csvRow is the fixed 12-column CSV layout. All fields are strings so a
// malformed value fails per row during conversion, not per file during
// decoding.
type csvRow struct {
	ID         string `csv:"id"`
	Ticker     string `csv:"ticker"`
	Status     string `csv:"status"`
	EntryDate  string `csv:"entryDate"`
	EntryPrice string `csv:"entryPrice"`
	ExitDate   string `csv:"exitDate"`
	ExitPrice  string `csv:"exitPrice"`
	Shares     string `csv:"shares"`
	Strategy   string `csv:"strategy"`
	Notes      string `csv:"notes"`
	PnL        string `csv:"pnl"`
	IsWin      string `csv:"isWin"`
}

// Filename returns the export filename for the given day.
func Filename(now time.Time) string {
	return fmt.Sprintf("swing-journal-%s.csv", now.Format(dateLayout))
}

// WriteCSV serializes every trade to w in the fixed column order, one row
// per trade regardless of status. Omitted optional fields render as empty
// strings; quoting of embedded delimiters and newlines is handled by the
// CSV encoder.
func WriteCSV(w io.Writer, trades []models.Trade) error {
	rows := make([]csvRow, 0, len(trades))
	for _, t := range trades {
		rows = append(rows, toRow(t))
	}
	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

// ImportResult reports the outcome of a bulk parse.
type ImportResult struct {
	Trades  []models.Trade
	Skipped int
}

// ReadCSV parses trades from r with row-level fault tolerance: rows
// missing a ticker or entry date, or with unparseable numbers, are
// dropped with a logged warning. Zero parseable rows from readable input
// is a successful empty import.
func ReadCSV(r io.Reader, logger zerolog.Logger) (ImportResult, error) {
	var rows []csvRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return ImportResult{}, fmt.Errorf("failed to read csv: %w", err)
	}

	var result ImportResult
	for i, row := range rows {
		trade, err := fromRow(row)
		if err != nil {
			result.Skipped++
			logging.LogSkippedRow(logger, "csv", i+1, err.Error())
			continue
		}
		result.Trades = append(result.Trades, trade)
	}

	logging.LogImport(logger, "csv", len(result.Trades), result.Skipped)
	return result, nil
}

func toRow(t models.Trade) csvRow {
	row := csvRow{
		ID:         t.ID,
		Ticker:     t.Ticker,
		Status:     string(t.Status),
		EntryDate:  t.EntryDate.Format(dateLayout),
		EntryPrice: formatFloat(t.EntryPrice),
		Shares:     formatFloat(t.Shares),
		Strategy:   t.Strategy,
		Notes:      t.Notes,
	}
	if t.ExitDate != nil {
		row.ExitDate = t.ExitDate.Format(dateLayout)
	}
	if t.ExitPrice != nil {
		row.ExitPrice = formatFloat(*t.ExitPrice)
	}
	if t.PnL != nil {
		row.PnL = formatFloat(*t.PnL)
	}
	if t.IsWin != nil {
		row.IsWin = strconv.FormatBool(*t.IsWin)
	}
	return row
}

// fromRow reconstructs a trade from one CSV row. The row is closed only
// if its status says so and both exit price and pnl are present;
// otherwise it comes back open with the exit fields dropped.
func fromRow(row csvRow) (models.Trade, error) {
	if strings.TrimSpace(row.Ticker) == "" {
		return models.Trade{}, fmt.Errorf("missing ticker")
	}
	entryDate, err := time.Parse(dateLayout, strings.TrimSpace(row.EntryDate))
	if err != nil {
		return models.Trade{}, fmt.Errorf("bad entry date %q", row.EntryDate)
	}
	entryPrice, err := parseFloat(row.EntryPrice)
	if err != nil {
		return models.Trade{}, fmt.Errorf("bad entry price %q", row.EntryPrice)
	}
	shares, err := parseFloat(row.Shares)
	if err != nil {
		return models.Trade{}, fmt.Errorf("bad shares %q", row.Shares)
	}

	id := strings.TrimSpace(row.ID)
	if id == "" {
		id = uuid.NewString()
	}

	trade := models.Trade{
		ID:         id,
		Ticker:     strings.TrimSpace(row.Ticker),
		EntryDate:  entryDate,
		EntryPrice: entryPrice,
		Shares:     shares,
		Strategy:   row.Strategy,
		Notes:      row.Notes,
		Status:     models.StatusOpen,
	}

	if strings.EqualFold(strings.TrimSpace(row.Status), string(models.StatusClosed)) &&
		strings.TrimSpace(row.ExitPrice) != "" && strings.TrimSpace(row.PnL) != "" {
		exitPrice, err := parseFloat(row.ExitPrice)
		if err != nil {
			return models.Trade{}, fmt.Errorf("bad exit price %q", row.ExitPrice)
		}
		pnl, err := parseFloat(row.PnL)
		if err != nil {
			return models.Trade{}, fmt.Errorf("bad pnl %q", row.PnL)
		}

		exitDate := entryDate
		if strings.TrimSpace(row.ExitDate) != "" {
			exitDate, err = time.Parse(dateLayout, strings.TrimSpace(row.ExitDate))
			if err != nil {
				return models.Trade{}, fmt.Errorf("bad exit date %q", row.ExitDate)
			}
		}

		win := pnl > 0
		if strings.TrimSpace(row.IsWin) != "" {
			win, err = strconv.ParseBool(strings.TrimSpace(row.IsWin))
			if err != nil {
				return models.Trade{}, fmt.Errorf("bad win flag %q", row.IsWin)
			}
		}

		trade.Status = models.StatusClosed
		trade.ExitDate = &exitDate
		trade.ExitPrice = &exitPrice
		trade.PnL = &pnl
		trade.IsWin = &win
	}

	return trade, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func parseFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}
