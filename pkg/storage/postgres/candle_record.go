package postgres

import (
	"time"

	"github.com/shopspring/decimal"
)

// CandleRecord is a closed candle taken from the market data stream.
type CandleRecord struct {
	ID uint `gorm:"primaryKey"`

	// unique index
	Symbol    string    `gorm:"type:varchar(20);not null;index:idx_candle_symbol_tf_start,unique"`
	Timeframe string    `gorm:"type:varchar(10);not null;index:idx_candle_symbol_tf_start,unique"`
	Start     time.Time `gorm:"not null;index:idx_candle_symbol_tf_start,unique"`

	End time.Time `gorm:"not null"`

	Open   decimal.Decimal `gorm:"type:numeric;not null"`
	High   decimal.Decimal `gorm:"type:numeric;not null"`
	Low    decimal.Decimal `gorm:"type:numeric;not null"`
	Close  decimal.Decimal `gorm:"type:numeric;not null"`
	Volume decimal.Decimal `gorm:"type:numeric;not null"`

	RecordedAt time.Time `gorm:"autoCreateTime"`
}

func (CandleRecord) TableName() string {
	return "candle_record"
}
