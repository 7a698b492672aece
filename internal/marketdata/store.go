package marketdata

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"stock-forecast-engine/internal/model"
)

// SQLiteStore 日线K线的本地落地存储
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore 打开（或创建）本地行情库
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: 打开行情库失败: %v", model.ErrStoreFailure, err)
	}
	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	const schema = `
CREATE TABLE IF NOT EXISTS daily_bars (
    symbol         TEXT NOT NULL,
    date           TEXT NOT NULL,
    open           REAL NOT NULL,
    high           REAL NOT NULL,
    low            REAL NOT NULL,
    close          REAL NOT NULL,
    volume         INTEGER NOT NULL,
    amount         REAL NOT NULL DEFAULT 0,
    change_percent REAL NOT NULL DEFAULT 0,
    PRIMARY KEY (symbol, date)
);`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("%w: 建表失败: %v", model.ErrStoreFailure, err)
	}
	return nil
}

// SaveBars 写入或覆盖K线
func (s *SQLiteStore) SaveBars(symbol string, bars []model.Bar) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrStoreFailure, err)
	}
	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO daily_bars
		(symbol, date, open, high, low, close, volume, amount, change_percent)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("%w: %v", model.ErrStoreFailure, err)
	}
	defer stmt.Close()

	for _, b := range bars {
		if _, err := stmt.Exec(symbol, b.Date, b.Open, b.High, b.Low, b.Close,
			b.Volume, b.Amount, b.ChangePercent); err != nil {
			tx.Rollback()
			return fmt.Errorf("%w: 写入K线失败: %v", model.ErrStoreFailure, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", model.ErrStoreFailure, err)
	}
	return nil
}

// LoadBars 按日期升序读取最近limit根K线，limit<=0读取全部
func (s *SQLiteStore) LoadBars(symbol string, limit int) ([]model.Bar, error) {
	query := `SELECT date, open, high, low, close, volume, amount, change_percent
		FROM daily_bars WHERE symbol = ? ORDER BY date DESC`
	args := []any{symbol}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: 查询K线失败: %v", model.ErrStoreFailure, err)
	}
	defer rows.Close()

	var bars []model.Bar
	for rows.Next() {
		var b model.Bar
		if err := rows.Scan(&b.Date, &b.Open, &b.High, &b.Low, &b.Close,
			&b.Volume, &b.Amount, &b.ChangePercent); err != nil {
			return nil, fmt.Errorf("%w: %v", model.ErrStoreFailure, err)
		}
		bars = append(bars, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrStoreFailure, err)
	}

	// 查询按日期倒序取最近limit根，这里翻回升序
	for i, j := 0, len(bars)-1; i < j; i, j = i+1, j-1 {
		bars[i], bars[j] = bars[j], bars[i]
	}
	return bars, nil
}

// Close 关闭行情库
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
