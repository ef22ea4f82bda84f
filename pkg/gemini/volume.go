package gemini

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
)

// NotionalVolume returns 30-day notional volume and the fee tier of the account.
func (c *Client) NotionalVolume(ctx context.Context) (FeeVolume, error) {
	rec, err := c.record(ctx, FeeVolumeSchema, NotionalVolumeEndpoint, NewPayload())
	return FeeVolume{rec}, err
}

// TradeVolume returns per-symbol trade volume. The exchange nests the list
// once per account; only the first account's list is projected. A flat
// array of objects is projected whole.
func (c *Client) TradeVolume(ctx context.Context) ([]FeeVolume, error) {
	raw, err := c.send(ctx, TradeVolumeEndpoint, NewPayload())
	if err != nil {
		return nil, err
	}

	body := raw
	if raw.IsArray() {
		outer := raw.Array()
		if len(outer) == 0 {
			return []FeeVolume{}, nil
		}
		if outer[0].IsArray() {
			body = outer[0]
		}
	}

	p, err := Project(FeeVolumeSchema, body)
	if err != nil {
		return nil, errors.Wrapf(err, "project %s", TradeVolumeEndpoint)
	}
	records := p.Records()
	if !p.IsList() {
		c.logEnvelope(TradeVolumeEndpoint, records[0])
	}

	out := make([]FeeVolume, len(records))
	for i, r := range records {
		out[i] = FeeVolume{r}
	}
	return out, nil
}

// FXRate returns the reference rate of an fx pair such as "gbpusd" at the
// update closest to the YYYYMMDD date.
func (c *Client) FXRate(ctx context.Context, symbol, since string) (FXRate, error) {
	if symbol == "" {
		return FXRate{}, errors.New("fx rate: symbol is required")
	}
	ts, err := DateToUnix(since)
	if err != nil {
		return FXRate{}, errors.Wrap(err, "fx rate")
	}
	rec, err := c.record(ctx, FXRateSchema, fmt.Sprintf(FXRateEndpoint, symbol, ts), NewPayload())
	return FXRate{rec}, err
}
