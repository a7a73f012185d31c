package sheets

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	apperrors "swing-journal/internal/errors"
	"swing-journal/internal/logging"
	"swing-journal/internal/models"
)

// Push overwrites both remote sheets with the current ledger contents.
func Push(ctx context.Context, svc Service, trades []models.Trade) error {
	if err := svc.Clear(ctx, TradesSheet); err != nil {
		return apperrors.NewSheetsError("clear", TradesSheet, err)
	}
	if err := svc.Update(ctx, TradesSheet, tradesValues(trades)); err != nil {
		return apperrors.NewSheetsError("update", TradesSheet, err)
	}
	if err := svc.Clear(ctx, AnalysisSheet); err != nil {
		return apperrors.NewSheetsError("clear", AnalysisSheet, err)
	}
	if err := svc.Update(ctx, AnalysisSheet, analysisValues()); err != nil {
		return apperrors.NewSheetsError("update", AnalysisSheet, err)
	}
	return nil
}

// PullResult reports the outcome of an inbound sync.
type PullResult struct {
	Trades  []models.Trade
	Skipped int
}

// Pull reads the Trades sheet and parses it back into trade records.
// Rows missing a ticker or entry date are dropped with a logged warning;
// a readable sheet with zero valid rows is a successful empty import.
func Pull(ctx context.Context, svc Service, logger zerolog.Logger) (PullResult, error) {
	values, err := svc.Read(ctx, TradesSheet)
	if err != nil {
		return PullResult{}, apperrors.NewSheetsError("read", TradesSheet, err)
	}

	var result PullResult
	for i, row := range values {
		if i == 0 && looksLikeHeader(row) {
			continue
		}
		trade, err := parseRow(row)
		if err != nil {
			result.Skipped++
			logging.LogSkippedRow(logger, "sheets", i+1, err.Error())
			continue
		}
		result.Trades = append(result.Trades, trade)
	}

	logging.LogImport(logger, "sheets", len(result.Trades), result.Skipped)
	return result, nil
}

func looksLikeHeader(row []string) bool {
	return len(row) > 0 && strings.EqualFold(strings.TrimSpace(row[0]), "id")
}

// parseRow reconstructs a trade from one Trades-sheet row. The row is
// closed only when the status cell says so and both exit price and P/L
// are present; anything else comes back open.
func parseRow(row []string) (models.Trade, error) {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	ticker := cell(1)
	if ticker == "" {
		return models.Trade{}, apperrors.NewRowError("sheets", 0, "missing ticker")
	}
	entryDate, err := time.Parse("2006-01-02", cell(2))
	if err != nil {
		return models.Trade{}, apperrors.NewRowError("sheets", 0, "bad entry date "+cell(2))
	}
	entryPrice, err := parseFloatCell(cell(3))
	if err != nil {
		return models.Trade{}, apperrors.NewRowError("sheets", 0, "bad entry price "+cell(3))
	}
	shares, err := parseFloatCell(cell(4))
	if err != nil {
		return models.Trade{}, apperrors.NewRowError("sheets", 0, "bad shares "+cell(4))
	}

	id := cell(0)
	if id == "" {
		id = uuid.NewString()
	}

	trade := models.Trade{
		ID:         id,
		Ticker:     ticker,
		EntryDate:  entryDate,
		EntryPrice: entryPrice,
		Shares:     shares,
		Strategy:   cell(5),
		Notes:      cell(6),
		Status:     models.StatusOpen,
	}

	if strings.EqualFold(cell(7), string(models.StatusClosed)) && cell(9) != "" && cell(10) != "" {
		exitPrice, err := parseFloatCell(cell(9))
		if err != nil {
			return models.Trade{}, apperrors.NewRowError("sheets", 0, "bad exit price "+cell(9))
		}
		pnl, err := parseFloatCell(cell(10))
		if err != nil {
			return models.Trade{}, apperrors.NewRowError("sheets", 0, "bad pnl "+cell(10))
		}

		exitDate := entryDate
		if cell(8) != "" {
			exitDate, err = time.Parse("2006-01-02", cell(8))
			if err != nil {
				return models.Trade{}, apperrors.NewRowError("sheets", 0, "bad exit date "+cell(8))
			}
		}

		win := pnl > 0
		if cell(11) != "" {
			win = strings.EqualFold(cell(11), "Win")
		}

		trade.Status = models.StatusClosed
		trade.ExitDate = &exitDate
		trade.ExitPrice = &exitPrice
		trade.PnL = &pnl
		trade.IsWin = &win
	}

	return trade, nil
}

func parseFloatCell(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}
