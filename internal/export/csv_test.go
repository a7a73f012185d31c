package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"swing-journal/internal/models"
)

const csvHeader = "id,ticker,status,entryDate,entryPrice,exitDate,exitPrice,shares,strategy,notes,pnl,isWin"

func sampleOpen() models.Trade {
	return models.Trade{
		ID:         "open-1",
		Ticker:     "AAPL",
		EntryDate:  time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		EntryPrice: 187.5,
		Shares:     10,
		Strategy:   "Breakout",
		Notes:      "clean base, tight stop",
		Status:     models.StatusOpen,
	}
}

func sampleClosed() models.Trade {
	t := models.Trade{
		ID:         "closed-1",
		Ticker:     "TSLA",
		EntryDate:  time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		EntryPrice: 240,
		Shares:     5,
		Status:     models.StatusOpen,
	}
	t.Close(time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC), 250)
	return t
}

func TestFilename(t *testing.T) {
	now := time.Date(2026, 8, 25, 14, 30, 0, 0, time.UTC)
	if got := Filename(now); got != "swing-journal-2026-08-25.csv" {
		t.Errorf("Filename = %q", got)
	}
}

func TestWriteCSVHeader(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	first := strings.SplitN(strings.TrimSpace(buf.String()), "\n", 2)[0]
	if strings.TrimSpace(first) != csvHeader {
		t.Errorf("header = %q, want %q", first, csvHeader)
	}
}

func TestRoundTrip(t *testing.T) {
	trades := []models.Trade{sampleOpen(), sampleClosed()}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, trades); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	result, err := ReadCSV(&buf, zerolog.Nop())
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if result.Skipped != 0 {
		t.Fatalf("skipped %d rows on clean input", result.Skipped)
	}
	if len(result.Trades) != 2 {
		t.Fatalf("got %d trades, want 2", len(result.Trades))
	}

	open := result.Trades[0]
	if open.ID != "open-1" || open.Ticker != "AAPL" || open.Status != models.StatusOpen {
		t.Errorf("open trade mangled: %+v", open)
	}
	if open.EntryPrice != 187.5 || open.Shares != 10 {
		t.Errorf("open numbers mangled: %v, %v", open.EntryPrice, open.Shares)
	}
	if open.PnL != nil || open.ExitPrice != nil {
		t.Errorf("open trade grew exit fields")
	}

	closed := result.Trades[1]
	if closed.Status != models.StatusClosed {
		t.Fatalf("closed trade came back %q", closed.Status)
	}
	if closed.PnL == nil || *closed.PnL != 50 {
		t.Errorf("pnl = %v, want 50", closed.PnL)
	}
	if closed.IsWin == nil || !*closed.IsWin {
		t.Errorf("win flag lost")
	}
	if closed.ExitDate == nil || !closed.ExitDate.Equal(time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("exit date mangled: %v", closed.ExitDate)
	}
}

func TestNotesWithDelimitersSurvive(t *testing.T) {
	trade := sampleOpen()
	trade.Notes = "first leg, then \"added\" on dip\nsecond line"

	var buf bytes.Buffer
	if err := WriteCSV(&buf, []models.Trade{trade}); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	result, err := ReadCSV(&buf, zerolog.Nop())
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(result.Trades) != 1 {
		t.Fatalf("got %d trades, want 1", len(result.Trades))
	}
	if result.Trades[0].Notes != trade.Notes {
		t.Errorf("notes = %q, want %q", result.Trades[0].Notes, trade.Notes)
	}
}

func TestBadRowsAreSkippedNotFatal(t *testing.T) {
	input := csvHeader + "\n" +
		"a,AAPL,open,2026-03-10,187.5,,,10,,,,\n" +
		"b,,open,2026-03-11,50,,,5,,,,\n" + // missing ticker
		"c,TSLA,open,not-a-date,240,,,5,,,,\n" + // bad date
		"d,NVDA,open,2026-03-12,oops,,,2,,,,\n" + // bad number
		"e,MSFT,open,2026-03-13,400,,,3,,,,\n"

	result, err := ReadCSV(strings.NewReader(input), zerolog.Nop())
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(result.Trades) != 2 {
		t.Fatalf("got %d trades, want 2", len(result.Trades))
	}
	if result.Skipped != 3 {
		t.Errorf("skipped = %d, want 3", result.Skipped)
	}
	if result.Trades[0].ID != "a" || result.Trades[1].ID != "e" {
		t.Errorf("wrong surviving rows: %s, %s", result.Trades[0].ID, result.Trades[1].ID)
	}
}

func TestAllRowsBadIsSuccessfulEmptyImport(t *testing.T) {
	input := csvHeader + "\n" +
		",,open,,,,,,,,,\n" +
		"x,,open,2026-01-01,,,,1,,,,\n"

	result, err := ReadCSV(strings.NewReader(input), zerolog.Nop())
	if err != nil {
		t.Fatalf("ReadCSV should tolerate all-bad rows: %v", err)
	}
	if len(result.Trades) != 0 || result.Skipped != 2 {
		t.Errorf("got %d trades / %d skipped, want 0/2", len(result.Trades), result.Skipped)
	}
}

func TestClosedRowMissingPnLComesBackOpen(t *testing.T) {
	input := csvHeader + "\n" +
		"a,AAPL,closed,2026-03-10,100,2026-03-20,110,10,,,,\n" // no pnl cell

	result, err := ReadCSV(strings.NewReader(input), zerolog.Nop())
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(result.Trades) != 1 {
		t.Fatalf("got %d trades, want 1", len(result.Trades))
	}
	got := result.Trades[0]
	if got.Status != models.StatusOpen {
		t.Errorf("status = %q, want open when pnl is absent", got.Status)
	}
	if got.PnL != nil || got.ExitPrice != nil {
		t.Errorf("partial exit fields survived: %+v", got)
	}
}

func TestBlankIDGetsGenerated(t *testing.T) {
	input := csvHeader + "\n" +
		",AAPL,open,2026-03-10,100,,,10,,,,\n"

	result, err := ReadCSV(strings.NewReader(input), zerolog.Nop())
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(result.Trades) != 1 || result.Trades[0].ID == "" {
		t.Errorf("blank id not filled in")
	}
}

func TestWinFlagDerivedFromPnLWhenBlank(t *testing.T) {
	input := csvHeader + "\n" +
		"a,AAPL,closed,2026-03-10,100,2026-03-20,110,10,,,100,\n" +
		"b,TSLA,closed,2026-03-10,200,2026-03-20,150,2,,,-100,\n"

	result, err := ReadCSV(strings.NewReader(input), zerolog.Nop())
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(result.Trades) != 2 {
		t.Fatalf("got %d trades, want 2", len(result.Trades))
	}
	if result.Trades[0].IsWin == nil || !*result.Trades[0].IsWin {
		t.Errorf("positive pnl not derived as win")
	}
	if result.Trades[1].IsWin == nil || *result.Trades[1].IsWin {
		t.Errorf("negative pnl not derived as loss")
	}
}
