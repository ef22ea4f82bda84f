package postgres

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradeRecord is one archived execution of the account.
type TradeRecord struct {
	ID uint `gorm:"primaryKey"`

	// unique index
	Symbol  string `gorm:"type:varchar(20);not null;index:idx_trade_symbol_tid,unique;index:idx_trade_symbol_time,priority:1"`
	TradeID int64  `gorm:"column:tid;not null;index:idx_trade_symbol_tid,unique"`

	OrderID string `gorm:"type:text;not null"`
	Type    string `gorm:"type:varchar(8);not null"`

	Price       decimal.Decimal `gorm:"type:numeric;not null"`
	Amount      decimal.Decimal `gorm:"type:numeric;not null"`
	FeeCurrency string          `gorm:"type:varchar(10)"`
	FeeAmount   decimal.Decimal `gorm:"type:numeric;not null"`

	Aggressor bool   `gorm:"not null"`
	Exchange  string `gorm:"type:varchar(20)"`

	Time time.Time `gorm:"column:executed_at;not null;index:idx_trade_symbol_time,priority:2"`

	RecordedAt time.Time `gorm:"autoCreateTime"`
}

func (TradeRecord) TableName() string {
	return "trade_record"
}
