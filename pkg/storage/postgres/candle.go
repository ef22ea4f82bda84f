package postgres

import (
	"context"
	"fmt"
	"time"

	"geminirest/pkg/gemini"
	"geminirest/pkg/storage"

	"gorm.io/gorm/clause"
)

func (p *PostgresClient) SaveCandle(ctx context.Context, c gemini.Candle) error {
	record := ToCandleRecord(c)
	tx := p.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "symbol"},
			{Name: "timeframe"},
			{Name: "start"},
		},
		DoNothing: true,
	}).Create(record)

	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return fmt.Errorf("%w: symbol=%s timeframe=%s start=%s",
			storage.ErrDuplicate, c.Symbol, c.Timeframe, record.Start.Format(time.RFC3339))
	}
	return nil
}

func (p *PostgresClient) GetCandle(ctx context.Context, symbol, timeframe string, start time.Time) (*CandleRecord, error) {
	var record CandleRecord
	err := p.DB.WithContext(ctx).
		Where("symbol = ? AND timeframe = ? AND start = ?", symbol, timeframe, start).
		First(&record).Error

	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (p *PostgresClient) DeleteOldCandles(ctx context.Context, before time.Time) (int64, error) {
	tx := p.DB.WithContext(ctx).
		Where("start < ?", before).
		Delete(&CandleRecord{})
	return tx.RowsAffected, tx.Error
}

// ToCandleRecord converts a parsed candle for insertion. Start and End are
// stored in UTC.
func ToCandleRecord(c gemini.Candle) *CandleRecord {
	return &CandleRecord{
		Symbol:    c.Symbol,
		Timeframe: c.Timeframe,
		Start:     time.UnixMilli(c.Start).UTC(),
		End:       time.UnixMilli(c.End()).UTC(),
		Open:      c.Open,
		High:      c.High,
		Low:       c.Low,
		Close:     c.Close,
		Volume:    c.Volume,
	}
}
