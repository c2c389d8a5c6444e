package bitstamp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coinmesh/bitstamp/entity"
)

// listTransactionsBody mixes market trades (type 2), a deposit and
// withdrawal pair, and an ignored type-3 entry.
const listTransactionsBody = `[
  {"usd": "-124.37", "btc": "0.04906037", "btc_usd": "2535.01", "order_id": 24870681, "fee": "0.14000000", "type": 2, "id": 16180467, "datetime": "2017-06-14 20:28:33"},
  {"usd": "-249.26", "btc": "0.09790521", "btc_usd": "2545.96", "order_id": 24882718, "fee": "0.28000000", "type": 2, "id": 16181386, "datetime": "2016-06-14 20:46:46"},
  {"usd": "-0.00", "btc": "0.10000000", "btc_usd": "0.00", "order_id": null, "fee": "0.00", "type": 0, "id": 10609931, "datetime": "2016-02-15 12:25:49"},
  {"usd": "0.00", "btc": "-13.00000000", "btc_usd": "0.00", "order_id": null, "fee": "0.00", "type": 1, "id": 9214142, "datetime": "2015-09-03 11:40:46"},
  {"usd": "-137.00", "btc": "0.00000000", "btc_usd": "0.00", "order_id": null, "fee": "0.00", "type": 0, "id": 9214109, "datetime": "2015-09-03 11:30:40"},
  {"usd": "0.00", "btc": "-20.00000000", "btc_usd": "0.00", "order_id": null, "fee": "0.00", "type": 3, "id": 9099290, "datetime": "2015-08-18 14:05:53"}
]`

func TestClassifyTransaction(t *testing.T) {
	tests := []struct {
		name         string
		raw          entity.RawTransaction
		wantCurrency string
		wantAmount   int64
		wantType     string
	}{
		{
			name:         "BTC deposit",
			raw:          entity.RawTransaction{ID: 10609931, Type: "0", DateTime: "2016-02-15 12:25:49", USD: "-0.00", BTC: "0.10000000"},
			wantCurrency: "BTC",
			wantAmount:   10000000,
			wantType:     "deposit",
		},
		{
			name:         "BTC withdrawal keeps sign",
			raw:          entity.RawTransaction{ID: 9214142, Type: "1", DateTime: "2015-09-03 11:40:46", USD: "0.00", BTC: "-13.00000000"},
			wantCurrency: "BTC",
			wantAmount:   -1300000000,
			wantType:     "withdrawal",
		},
		{
			name:         "USD wins over BTC by priority",
			raw:          entity.RawTransaction{ID: 1, Type: "0", DateTime: "2015-09-03 11:30:40", USD: "-137.00", BTC: "1.00000000"},
			wantCurrency: "USD",
			wantAmount:   -13700,
			wantType:     "deposit",
		},
		{
			name:         "EUR deposit",
			raw:          entity.RawTransaction{ID: 2, Type: "0", DateTime: "2015-09-03 11:30:40", EUR: "20.00"},
			wantCurrency: "EUR",
			wantAmount:   2000,
			wantType:     "deposit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx, err := classifyTransaction(tt.raw)
			require.NoError(t, err)

			assert.Equal(t, tt.wantCurrency, tx.Currency)
			assert.Equal(t, tt.wantAmount, tx.Amount)
			assert.Equal(t, tt.wantType, tx.Type)
			assert.Equal(t, entity.StateCompleted, tx.State)
			assert.Equal(t, tt.raw, tx.Raw)
		})
	}
}

func TestClassifyTransactionAllZeroFields(t *testing.T) {
	raw := entity.RawTransaction{ID: 3, Type: "0", DateTime: "2015-09-03 11:30:40", USD: "0.00", BTC: "0.00000000"}

	_, err := classifyTransaction(raw)

	var ambiguous *AmbiguousCurrencyError
	require.ErrorAs(t, err, &ambiguous)
	assert.Equal(t, int64(3), ambiguous.Raw.ID)
}

func TestClassifyTransactionTimestampForcedUTC(t *testing.T) {
	raw := entity.RawTransaction{ID: 4, Type: "0", DateTime: "2016-02-15 12:25:49", BTC: "0.5"}

	tx, err := classifyTransaction(raw)
	require.NoError(t, err)
	assert.Equal(t, "2016-02-15T12:25:49Z", tx.Timestamp)
}

func TestListTransactionsFiltersAndNormalizes(t *testing.T) {
	rt := &stubRequester{handler: respondWith(listTransactionsBody)}
	c := newTestClient(rt)

	transactions, err := c.ListTransactions(context.Background(), time.Time{})
	require.NoError(t, err)

	require.Len(t, rt.calls, 1)
	assert.Equal(t, "v2/user_transactions", rt.calls[0].action)
	assert.Equal(t, "100", rt.calls[0].form.Get("limit"))
	assert.Equal(t, "0", rt.calls[0].form.Get("offset"))
	assert.Equal(t, "desc", rt.calls[0].form.Get("sort"))

	// Market trades and type-3 entries are excluded.
	require.Len(t, transactions, 3)

	assert.Equal(t, "10609931", transactions[0].ExternalID)
	assert.Equal(t, "BTC", transactions[0].Currency)
	assert.Equal(t, int64(10000000), transactions[0].Amount)
	assert.Equal(t, "deposit", transactions[0].Type)

	assert.Equal(t, "9214142", transactions[1].ExternalID)
	assert.Equal(t, int64(-1300000000), transactions[1].Amount)
	assert.Equal(t, "withdrawal", transactions[1].Type)

	assert.Equal(t, "9214109", transactions[2].ExternalID)
	assert.Equal(t, "USD", transactions[2].Currency)
	assert.Equal(t, int64(-13700), transactions[2].Amount)
}

// txPage builds n raw BTC deposits with timestamps decreasing by one
// minute per entry, starting at firstID/firstTime.
func txPage(firstID int64, firstTime time.Time, n int) []map[string]any {
	page := make([]map[string]any, 0, n)
	for i := 0; i < n; i++ {
		ts := firstTime.Add(-time.Duration(i) * time.Minute)
		page = append(page, map[string]any{
			"id":       firstID + int64(i),
			"type":     0,
			"datetime": ts.Format("2006-01-02 15:04:05"),
			"fee":      "0.00",
			"usd":      "0.00",
			"btc":      "0.10000000",
		})
	}
	return page
}

func marshalPage(t *testing.T, page []map[string]any) []byte {
	t.Helper()
	body, err := json.Marshal(page)
	require.NoError(t, err)
	return body
}

func TestListTransactionsPaginatesUntilWatermark(t *testing.T) {
	start := time.Date(2020, 1, 1, 12, 0, 0, 0, time.UTC)
	pages := map[string][]byte{}

	c := newTestClient(nil)
	rt := &stubRequester{handler: func(_, _ string, form url.Values) ([]byte, error) {
		body, ok := pages[form.Get("offset")]
		if !ok {
			return nil, fmt.Errorf("unexpected offset %s", form.Get("offset"))
		}
		return body, nil
	}}
	c.rt = rt

	// Page 0 holds entries 0..99, page 1 entries 100..199, timestamps
	// strictly decreasing. The watermark sits at entry 129, so entry
	// 130 ends the scan mid-page.
	pages["0"] = marshalPage(t, txPage(1000, start, txPageSize))
	pages["100"] = marshalPage(t, txPage(1100, start.Add(-100*time.Minute), txPageSize))
	watermark := start.Add(-129 * time.Minute)

	transactions, err := c.ListTransactions(context.Background(), watermark)
	require.NoError(t, err)

	require.Len(t, rt.calls, 2)
	assert.Equal(t, "0", rt.calls[0].form.Get("offset"))
	assert.Equal(t, "100", rt.calls[1].form.Get("offset"))

	require.Len(t, transactions, 130)
	// Entries arrive newest first and stay in supplied order.
	assert.Equal(t, "1000", transactions[0].ExternalID)
	assert.Equal(t, "1129", transactions[129].ExternalID)
}

func TestListTransactionsShortPageEndsIteration(t *testing.T) {
	start := time.Date(2020, 1, 1, 12, 0, 0, 0, time.UTC)
	rt := &stubRequester{}
	rt.handler = func(string, string, url.Values) ([]byte, error) {
		return marshalPage(t, txPage(1, start, 5)), nil
	}
	c := newTestClient(rt)

	transactions, err := c.ListTransactions(context.Background(), time.Time{})
	require.NoError(t, err)

	assert.Len(t, rt.calls, 1)
	assert.Len(t, transactions, 5)
}

func TestListTransactionsPageCap(t *testing.T) {
	start := time.Date(2020, 1, 1, 12, 0, 0, 0, time.UTC)
	rt := &stubRequester{}
	page := 0
	rt.handler = func(_, _ string, _ url.Values) ([]byte, error) {
		// Full pages forever; only the cap can stop the loop.
		body := marshalPage(t, txPage(int64(page*txPageSize), start.Add(-time.Duration(page*txPageSize)*time.Minute), txPageSize))
		page++
		return body, nil
	}
	c := newTestClient(rt)
	c.maxPages = 3

	_, err := c.ListTransactions(context.Background(), time.Time{})

	require.ErrorIs(t, err, ErrPageCapExceeded)
	assert.Len(t, rt.calls, 3, "engine must not loop past the cap")
}

func TestListTransactionsCancelledContext(t *testing.T) {
	rt := &stubRequester{handler: respondWith(`[]`)}
	c := newTestClient(rt)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.ListTransactions(ctx, time.Time{})

	require.Error(t, err)
	assert.Empty(t, rt.calls)
}

func TestListTransactionsPageFailureAbortsAll(t *testing.T) {
	start := time.Date(2020, 1, 1, 12, 0, 0, 0, time.UTC)
	rt := &stubRequester{}
	rt.handler = func(_, _ string, form url.Values) ([]byte, error) {
		if form.Get("offset") == "100" {
			return nil, &TransportError{Cause: errors.New("connection reset")}
		}
		return marshalPage(t, txPage(1, start, txPageSize)), nil
	}
	c := newTestClient(rt)

	transactions, err := c.ListTransactions(context.Background(), time.Time{})

	var transport *TransportError
	require.ErrorAs(t, err, &transport)
	assert.Nil(t, transactions, "no partial results on failure")
}

func TestListTransactionsAmbiguousEntryFails(t *testing.T) {
	body := `[{"usd": "0.00", "btc": "0.00000000", "fee": "0.00", "type": 0, "id": 7, "datetime": "2015-09-03 11:30:40"}]`
	rt := &stubRequester{handler: respondWith(body)}
	c := newTestClient(rt)

	_, err := c.ListTransactions(context.Background(), time.Time{})

	var ambiguous *AmbiguousCurrencyError
	require.ErrorAs(t, err, &ambiguous)
}
