// Package storage provides the SQLite-backed persistence for the journal.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"swing-journal/internal/models"
)

// SQLiteStore persists the four independent journal entries: the trade
// sequence, the user profile, the watchlist and the broker credentials.
// The trade table is rewritten wholesale on every save, mirroring the
// in-memory ledger exactly.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the journal database.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Trade sequence; position preserves ledger order (0 = head)
	CREATE TABLE IF NOT EXISTS trades (
		id TEXT PRIMARY KEY,
		position INTEGER NOT NULL,
		ticker TEXT NOT NULL,
		entry_date DATE NOT NULL,
		entry_price REAL NOT NULL,
		shares REAL NOT NULL,
		strategy TEXT,
		notes TEXT,
		stop_loss REAL,
		take_profit REAL,
		mindset TEXT,
		exit_date DATE,
		exit_price REAL,
		pnl REAL,
		is_win INTEGER,
		chart_image BLOB,
		chart_analysis TEXT,
		status TEXT NOT NULL
	);

	-- Single-row user profile
	CREATE TABLE IF NOT EXISTS profile (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		display_name TEXT NOT NULL,
		avatar TEXT
	);

	-- Watchlist; rowid preserves insertion order
	CREATE TABLE IF NOT EXISTS watchlist (
		ticker TEXT NOT NULL UNIQUE,
		added_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- Broker credential pair, stored as plaintext.
	-- Acceptable for a local single-user tool, not for production.
	CREATE TABLE IF NOT EXISTS broker_credentials (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		api_key TEXT NOT NULL,
		api_secret TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_trades_position ON trades(position);
	CREATE INDEX IF NOT EXISTS idx_trades_ticker ON trades(ticker);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveTrades replaces the persisted trade sequence with the given one
// inside a single transaction.
func (s *SQLiteStore) SaveTrades(trades []models.Trade) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM trades`); err != nil {
		return fmt.Errorf("failed to clear trades: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO trades (id, position, ticker, entry_date, entry_price, shares, strategy, notes,
			stop_loss, take_profit, mindset, exit_date, exit_price, pnl, is_win,
			chart_image, chart_analysis, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for i, t := range trades {
		var isWin interface{}
		if t.IsWin != nil {
			if *t.IsWin {
				isWin = 1
			} else {
				isWin = 0
			}
		}
		_, err := stmt.Exec(
			t.ID, i, t.Ticker, t.EntryDate, t.EntryPrice, t.Shares, t.Strategy, t.Notes,
			t.StopLoss, t.TakeProfit, nullString(string(t.Mindset)), t.ExitDate, t.ExitPrice, t.PnL, isWin,
			t.ChartImage, t.ChartAnalysis, string(t.Status),
		)
		if err != nil {
			return fmt.Errorf("failed to insert trade %s: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// LoadTrades reads the persisted trade sequence in ledger order.
func (s *SQLiteStore) LoadTrades() ([]models.Trade, error) {
	rows, err := s.db.Query(`
		SELECT id, ticker, entry_date, entry_price, shares, strategy, notes,
			stop_loss, take_profit, mindset, exit_date, exit_price, pnl, is_win,
			chart_image, chart_analysis, status
		FROM trades ORDER BY position ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query trades: %w", err)
	}
	defer rows.Close()

	var trades []models.Trade
	for rows.Next() {
		var (
			t                    models.Trade
			strategy, notes      sql.NullString
			stopLoss, takeProfit sql.NullFloat64
			mindset              sql.NullString
			exitDate             sql.NullTime
			exitPrice, pnl       sql.NullFloat64
			isWin                sql.NullInt64
			chartAnalysis        sql.NullString
			status               string
		)
		err := rows.Scan(&t.ID, &t.Ticker, &t.EntryDate, &t.EntryPrice, &t.Shares, &strategy, &notes,
			&stopLoss, &takeProfit, &mindset, &exitDate, &exitPrice, &pnl, &isWin,
			&t.ChartImage, &chartAnalysis, &status)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade: %w", err)
		}

		t.Strategy = strategy.String
		t.Notes = notes.String
		t.Mindset = models.Mindset(mindset.String)
		t.ChartAnalysis = chartAnalysis.String
		t.Status = models.TradeStatus(status)
		if stopLoss.Valid {
			v := stopLoss.Float64
			t.StopLoss = &v
		}
		if takeProfit.Valid {
			v := takeProfit.Float64
			t.TakeProfit = &v
		}
		if exitDate.Valid {
			v := exitDate.Time
			t.ExitDate = &v
		}
		if exitPrice.Valid {
			v := exitPrice.Float64
			t.ExitPrice = &v
		}
		if pnl.Valid {
			v := pnl.Float64
			t.PnL = &v
		}
		if isWin.Valid {
			v := isWin.Int64 == 1
			t.IsWin = &v
		}
		trades = append(trades, t)
	}
	return trades, rows.Err()
}

// SaveProfile rewrites the user profile entry.
func (s *SQLiteStore) SaveProfile(ctx context.Context, profile models.UserProfile) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO profile (id, display_name, avatar) VALUES (1, ?, ?)
	`, profile.DisplayName, profile.Avatar)
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

// LoadProfile reads the user profile. A missing profile returns the zero
// value, not an error.
func (s *SQLiteStore) LoadProfile(ctx context.Context) (models.UserProfile, error) {
	var p models.UserProfile
	var avatar sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT display_name, avatar FROM profile WHERE id = 1
	`).Scan(&p.DisplayName, &avatar)
	if err == sql.ErrNoRows {
		return models.UserProfile{}, nil
	}
	if err != nil {
		return models.UserProfile{}, fmt.Errorf("failed to load profile: %w", err)
	}
	p.Avatar = avatar.String
	return p, nil
}

// AddToWatchlist adds a ticker; re-adding an existing ticker is a no-op.
func (s *SQLiteStore) AddToWatchlist(ctx context.Context, ticker string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO watchlist (ticker) VALUES (?)
	`, ticker)
	if err != nil {
		return fmt.Errorf("failed to add to watchlist: %w", err)
	}
	return nil
}

// RemoveFromWatchlist removes a ticker from the watchlist.
func (s *SQLiteStore) RemoveFromWatchlist(ctx context.Context, ticker string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM watchlist WHERE ticker = ?
	`, ticker)
	if err != nil {
		return fmt.Errorf("failed to remove from watchlist: %w", err)
	}
	return nil
}

// GetWatchlist returns watchlist items in insertion order.
func (s *SQLiteStore) GetWatchlist(ctx context.Context) ([]models.WatchlistItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ticker, added_at FROM watchlist ORDER BY rowid ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query watchlist: %w", err)
	}
	defer rows.Close()

	var items []models.WatchlistItem
	for rows.Next() {
		var item models.WatchlistItem
		if err := rows.Scan(&item.Ticker, &item.AddedAt); err != nil {
			return nil, fmt.Errorf("failed to scan watchlist item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// SaveBrokerCredentials stores the broker credential pair.
func (s *SQLiteStore) SaveBrokerCredentials(ctx context.Context, apiKey, apiSecret string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO broker_credentials (id, api_key, api_secret, updated_at)
		VALUES (1, ?, ?, ?)
	`, apiKey, apiSecret, time.Now())
	if err != nil {
		return fmt.Errorf("failed to save broker credentials: %w", err)
	}
	return nil
}

// LoadBrokerCredentials reads the stored credential pair. Missing
// credentials return empty strings.
func (s *SQLiteStore) LoadBrokerCredentials(ctx context.Context) (apiKey, apiSecret string, err error) {
	err = s.db.QueryRowContext(ctx, `
		SELECT api_key, api_secret FROM broker_credentials WHERE id = 1
	`).Scan(&apiKey, &apiSecret)
	if err == sql.ErrNoRows {
		return "", "", nil
	}
	if err != nil {
		return "", "", fmt.Errorf("failed to load broker credentials: %w", err)
	}
	return apiKey, apiSecret, nil
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
