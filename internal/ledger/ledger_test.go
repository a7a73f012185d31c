package ledger

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	apperrors "swing-journal/internal/errors"
	"swing-journal/internal/models"
)

// fakePort records every saved sequence and can be made to fail.
type fakePort struct {
	trades  []models.Trade
	saves   int
	saveErr error
	loadErr error
}

func (p *fakePort) LoadTrades() ([]models.Trade, error) {
	if p.loadErr != nil {
		return nil, p.loadErr
	}
	out := make([]models.Trade, len(p.trades))
	copy(out, p.trades)
	return out, nil
}

func (p *fakePort) SaveTrades(trades []models.Trade) error {
	if p.saveErr != nil {
		return p.saveErr
	}
	p.saves++
	p.trades = make([]models.Trade, len(trades))
	copy(p.trades, trades)
	return nil
}

func newTestLedger(t *testing.T) (*Ledger, *fakePort) {
	t.Helper()
	port := &fakePort{}
	l, err := New(port, zerolog.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return l, port
}

func openTrade(id, ticker string) models.Trade {
	return models.Trade{
		ID:         id,
		Ticker:     ticker,
		EntryDate:  time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		EntryPrice: 100,
		Shares:     10,
		Status:     models.StatusOpen,
	}
}

func TestAddInsertsAtHead(t *testing.T) {
	l, _ := newTestLedger(t)

	if err := l.Add(openTrade("a", "AAPL")); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := l.Add(openTrade("b", "TSLA")); err != nil {
		t.Fatalf("Add: %v", err)
	}

	trades := l.Trades()
	if len(trades) != 2 {
		t.Fatalf("got %d trades, want 2", len(trades))
	}
	if trades[0].ID != "b" || trades[1].ID != "a" {
		t.Errorf("order = [%s %s], want [b a]", trades[0].ID, trades[1].ID)
	}
}

func TestAddValidation(t *testing.T) {
	l, _ := newTestLedger(t)

	cases := []struct {
		name  string
		mod   func(*models.Trade)
		field string
	}{
		{"missing id", func(tr *models.Trade) { tr.ID = "" }, "id"},
		{"missing ticker", func(tr *models.Trade) { tr.Ticker = "  " }, "ticker"},
		{"zero entry date", func(tr *models.Trade) { tr.EntryDate = time.Time{} }, "entryDate"},
		{"negative entry price", func(tr *models.Trade) { tr.EntryPrice = -1 }, "entryPrice"},
		{"unknown mindset", func(tr *models.Trade) { tr.Mindset = "zen" }, "mindset"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			trade := openTrade("x", "AAPL")
			tc.mod(&trade)
			err := l.Add(trade)
			var verr *apperrors.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("got %v, want ValidationError", err)
			}
			if verr.Field != tc.field {
				t.Errorf("field = %s, want %s", verr.Field, tc.field)
			}
		})
	}
	if l.Len() != 0 {
		t.Errorf("invalid adds changed the ledger: len = %d", l.Len())
	}
}

func TestClosedInvariant(t *testing.T) {
	l, _ := newTestLedger(t)

	closedWithoutExit := openTrade("a", "AAPL")
	closedWithoutExit.Status = models.StatusClosed
	if err := l.Add(closedWithoutExit); err == nil {
		t.Error("closed trade without exit fields was accepted")
	}

	pnl := 50.0
	openWithPnL := openTrade("b", "AAPL")
	openWithPnL.PnL = &pnl
	if err := l.Add(openWithPnL); err == nil {
		t.Error("open trade carrying pnl was accepted")
	}
}

func TestEmptyStatusNormalizesToOpen(t *testing.T) {
	l, _ := newTestLedger(t)

	trade := openTrade("a", "AAPL")
	trade.Status = ""
	if err := l.Add(trade); err != nil {
		t.Fatalf("Add: %v", err)
	}

	got, err := l.Get("a")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != models.StatusOpen {
		t.Errorf("status = %q, want open", got.Status)
	}
}

func TestGetAndRemoveNotFound(t *testing.T) {
	l, _ := newTestLedger(t)

	if _, err := l.Get("nope"); !errors.Is(err, apperrors.ErrTradeNotFound) {
		t.Errorf("Get: got %v, want ErrTradeNotFound", err)
	}
	if err := l.Remove("nope"); !errors.Is(err, apperrors.ErrTradeNotFound) {
		t.Errorf("Remove: got %v, want ErrTradeNotFound", err)
	}
}

func TestRemove(t *testing.T) {
	l, port := newTestLedger(t)

	l.Add(openTrade("a", "AAPL"))
	l.Add(openTrade("b", "TSLA"))

	if err := l.Remove("a"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if l.Len() != 1 {
		t.Fatalf("len = %d, want 1", l.Len())
	}
	if len(port.trades) != 1 || port.trades[0].ID != "b" {
		t.Errorf("persisted sequence does not mirror memory")
	}
}

func TestCloseTradeFreezesPnL(t *testing.T) {
	l, _ := newTestLedger(t)
	l.Add(openTrade("a", "AAPL"))

	exitDate := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)
	closed, err := l.CloseTrade("a", exitDate, 110)
	if err != nil {
		t.Fatalf("CloseTrade: %v", err)
	}

	want := models.ComputePnL(100, 110, 10)
	if closed.PnL == nil || *closed.PnL != want {
		t.Fatalf("pnl = %v, want %v", closed.PnL, want)
	}
	if closed.IsWin == nil || !*closed.IsWin {
		t.Error("winning close not flagged as win")
	}
	if closed.Status != models.StatusClosed {
		t.Errorf("status = %q, want closed", closed.Status)
	}

	if _, err := l.CloseTrade("a", exitDate, 120); !errors.Is(err, apperrors.ErrAlreadyClosed) {
		t.Errorf("second close: got %v, want ErrAlreadyClosed", err)
	}
}

func TestCloseTradeRejectsBadArguments(t *testing.T) {
	l, _ := newTestLedger(t)
	l.Add(openTrade("a", "AAPL"))

	exitDate := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)

	if _, err := l.CloseTrade("a", exitDate, -5); err == nil {
		t.Error("negative exit price was accepted")
	}
	if _, err := l.CloseTrade("a", time.Time{}, 110); err == nil {
		t.Error("zero exit date was accepted")
	}
	if _, err := l.CloseTrade("missing", exitDate, 110); !errors.Is(err, apperrors.ErrTradeNotFound) {
		t.Errorf("got %v, want ErrTradeNotFound", err)
	}

	// The failed attempts must not have closed the trade.
	got, _ := l.Get("a")
	if got.Status != models.StatusOpen {
		t.Errorf("trade closed by a rejected attempt")
	}
}

func TestNotesEditDoesNotTouchStoredPnL(t *testing.T) {
	l, _ := newTestLedger(t)
	l.Add(openTrade("a", "AAPL"))

	exitDate := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)
	closed, err := l.CloseTrade("a", exitDate, 110)
	if err != nil {
		t.Fatalf("CloseTrade: %v", err)
	}
	frozen := *closed.PnL

	closed.Notes = "chased the breakout, sized too big"
	closed.Strategy = "Breakout"
	if err := l.Update(closed); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, _ := l.Get("a")
	if got.PnL == nil || *got.PnL != frozen {
		t.Errorf("pnl changed on notes edit: %v, want %v", got.PnL, frozen)
	}
	if got.Notes != closed.Notes {
		t.Errorf("notes not updated")
	}
}

func TestUpdatePreservesPosition(t *testing.T) {
	l, _ := newTestLedger(t)
	l.Add(openTrade("a", "AAPL"))
	l.Add(openTrade("b", "TSLA"))

	trade, _ := l.Get("a")
	trade.Notes = "edited"
	if err := l.Update(trade); err != nil {
		t.Fatalf("Update: %v", err)
	}

	trades := l.Trades()
	if trades[1].ID != "a" {
		t.Errorf("update moved the trade: order = [%s %s]", trades[0].ID, trades[1].ID)
	}
}

func TestReplaceAll(t *testing.T) {
	l, port := newTestLedger(t)
	l.Add(openTrade("a", "AAPL"))

	next := []models.Trade{openTrade("x", "NVDA"), openTrade("y", "MSFT")}
	if err := l.ReplaceAll(next); err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}

	trades := l.Trades()
	if len(trades) != 2 || trades[0].ID != "x" || trades[1].ID != "y" {
		t.Fatalf("replace produced wrong sequence")
	}
	if len(port.trades) != 2 {
		t.Errorf("persisted %d trades, want 2", len(port.trades))
	}

	if err := l.ReplaceAll(nil); err != nil {
		t.Fatalf("ReplaceAll(nil): %v", err)
	}
	if l.Len() != 0 {
		t.Errorf("empty replace left %d trades", l.Len())
	}
}

func TestFailedSaveLeavesLedgerUntouched(t *testing.T) {
	l, port := newTestLedger(t)
	l.Add(openTrade("a", "AAPL"))

	port.saveErr = fmt.Errorf("disk full")

	if err := l.Add(openTrade("b", "TSLA")); err == nil {
		t.Fatal("Add succeeded despite save failure")
	}
	if l.Len() != 1 {
		t.Errorf("failed add changed memory: len = %d", l.Len())
	}

	if err := l.ReplaceAll([]models.Trade{openTrade("x", "NVDA")}); err == nil {
		t.Fatal("ReplaceAll succeeded despite save failure")
	}
	trades := l.Trades()
	if len(trades) != 1 || trades[0].ID != "a" {
		t.Errorf("failed replace changed memory")
	}
}

func TestEveryMutationPersists(t *testing.T) {
	l, port := newTestLedger(t)

	l.Add(openTrade("a", "AAPL"))
	l.Add(openTrade("b", "TSLA"))
	trade, _ := l.Get("a")
	trade.Notes = "n"
	l.Update(trade)
	l.CloseTrade("b", time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), 90)
	l.Remove("a")

	if port.saves != 5 {
		t.Errorf("saves = %d, want 5", port.saves)
	}

	mem := l.Trades()
	if len(port.trades) != len(mem) {
		t.Fatalf("persisted %d, memory %d", len(port.trades), len(mem))
	}
	for i := range mem {
		if port.trades[i].ID != mem[i].ID {
			t.Errorf("persisted sequence diverges at %d", i)
		}
	}
}

func TestNewFailsOnLoadError(t *testing.T) {
	port := &fakePort{loadErr: fmt.Errorf("corrupt")}
	if _, err := New(port, zerolog.Nop()); err == nil {
		t.Fatal("New succeeded with failing port")
	}
}
