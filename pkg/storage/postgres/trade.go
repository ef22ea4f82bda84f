package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"geminirest/pkg/storage"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SaveTrade inserts t, returning storage.ErrDuplicate when (symbol, tid)
// is already archived.
func (p *PostgresClient) SaveTrade(ctx context.Context, t storage.Trade) error {
	record := ToTradeRecord(t)
	tx := p.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "symbol"},
			{Name: "tid"},
		},
		DoNothing: true,
	}).Create(record)

	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return fmt.Errorf("%w: symbol=%s tid=%d", storage.ErrDuplicate, t.Symbol, t.TradeID)
	}
	return nil
}

func (p *PostgresClient) LatestTradeTime(ctx context.Context, symbol string) (time.Time, bool, error) {
	var record TradeRecord
	err := p.DB.WithContext(ctx).
		Where("symbol = ?", symbol).
		Order("executed_at DESC").
		First(&record).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	return record.Time, true, nil
}

func (p *PostgresClient) GetTrade(ctx context.Context, symbol string, tid int64) (*TradeRecord, error) {
	var record TradeRecord
	err := p.DB.WithContext(ctx).
		Where("symbol = ? AND tid = ?", symbol, tid).
		First(&record).Error

	if err != nil {
		return nil, err
	}
	return &record, nil
}

// DeleteOldTrades removes trades executed before the cutoff.
func (p *PostgresClient) DeleteOldTrades(ctx context.Context, before time.Time) (int64, error) {
	tx := p.DB.WithContext(ctx).
		Where("executed_at < ?", before).
		Delete(&TradeRecord{})
	return tx.RowsAffected, tx.Error
}

func ToTradeRecord(t storage.Trade) *TradeRecord {
	return &TradeRecord{
		Symbol:      t.Symbol,
		TradeID:     t.TradeID,
		OrderID:     t.OrderID,
		Type:        t.Type,
		Price:       t.Price,
		Amount:      t.Amount,
		FeeCurrency: t.FeeCurrency,
		FeeAmount:   t.FeeAmount,
		Aggressor:   t.Aggressor,
		Exchange:    t.Exchange,
		Time:        t.Time.UTC(),
	}
}

func (r TradeRecord) Trade() storage.Trade {
	return storage.Trade{
		Symbol:      r.Symbol,
		TradeID:     r.TradeID,
		OrderID:     r.OrderID,
		Type:        r.Type,
		Price:       r.Price,
		Amount:      r.Amount,
		FeeCurrency: r.FeeCurrency,
		FeeAmount:   r.FeeAmount,
		Aggressor:   r.Aggressor,
		Exchange:    r.Exchange,
		Time:        r.Time,
	}
}
