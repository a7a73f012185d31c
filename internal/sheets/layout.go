// Package sheets syncs the ledger with a remote spreadsheet.
//
// The sync is a destructive overwrite of two fixed-layout sheets on every
// push; there is no merge with prior remote edits. The pull direction
// parses the Trades sheet back into trade records with row-level fault
// tolerance.
package sheets

import (
	"strconv"

	"swing-journal/internal/models"
)

// Sheet names.
const (
	TradesSheet   = "Trades"
	AnalysisSheet = "Analysis"
)

// TradesHeader is the fixed 12-column layout of the Trades sheet
// (columns A through L).
var TradesHeader = []string{
	"ID", "Ticker", "Entry Date", "Entry Price", "Shares", "Strategy",
	"Notes", "Status", "Exit Date", "Exit Price", "P/L", "Result",
}

// tradesValues renders the ledger into the Trades sheet layout.
func tradesValues(trades []models.Trade) [][]string {
	values := make([][]string, 0, len(trades)+1)
	values = append(values, TradesHeader)

	for _, t := range trades {
		row := []string{
			t.ID,
			t.Ticker,
			t.EntryDate.Format("2006-01-02"),
			strconv.FormatFloat(t.EntryPrice, 'f', -1, 64),
			strconv.FormatFloat(t.Shares, 'f', -1, 64),
			t.Strategy,
			t.Notes,
			string(t.Status),
			"", "", "", "",
		}
		if t.ExitDate != nil {
			row[8] = t.ExitDate.Format("2006-01-02")
		}
		if t.ExitPrice != nil {
			row[9] = strconv.FormatFloat(*t.ExitPrice, 'f', -1, 64)
		}
		if t.PnL != nil {
			row[10] = strconv.FormatFloat(*t.PnL, 'f', -1, 64)
		}
		if t.IsWin != nil {
			if *t.IsWin {
				row[11] = "Win"
			} else {
				row[11] = "Loss"
			}
		}
		values = append(values, row)
	}
	return values
}

// analysisValues renders the Analysis sheet: named metric rows whose
// formulas reference the Trades columns by letter (K = P/L, H = Status,
// L = Result).
func analysisValues() [][]string {
	return [][]string{
		{"Metric", "Value"},
		{"Total P/L", `=SUM(Trades!K2:K)`},
		{"Closed Trades", `=COUNTIF(Trades!H2:H,"closed")`},
		{"Open Trades", `=COUNTIF(Trades!H2:H,"open")`},
		{"Wins", `=COUNTIF(Trades!L2:L,"Win")`},
		{"Losses", `=COUNTIF(Trades!L2:L,"Loss")`},
		{"Win Rate %", `=IF(COUNTIF(Trades!H2:H,"closed")=0,0,COUNTIF(Trades!L2:L,"Win")/COUNTIF(Trades!H2:H,"closed")*100)`},
		{"Average Win", `=IFERROR(AVERAGEIF(Trades!L2:L,"Win",Trades!K2:K),0)`},
		{"Average Loss", `=IFERROR(AVERAGEIF(Trades!L2:L,"Loss",Trades!K2:K),0)`},
		{"Gross Profit", `=SUMIF(Trades!K2:K,">0")`},
		{"Gross Loss", `=SUMIF(Trades!K2:K,"<0")`},
		{"Profit Factor", `=IF(SUMIF(Trades!K2:K,"<0")=0,0,SUMIF(Trades!K2:K,">0")/ABS(SUMIF(Trades!K2:K,"<0")))`},
	}
}
