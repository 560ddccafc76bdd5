package engine

import (
	"time"

	"github.com/portfoliodesk/Portfolio-Tracker-Backend/internal/model"
)

// EventType classifies a transaction for timeline display.
type EventType string

const (
	EventBuy      EventType = "buy"
	EventSell     EventType = "sell"
	EventDividend EventType = "dividend"
	EventSplit    EventType = "split"
)

// TransactionEvent is one classified transaction annotated with the share
// count held after it was applied.
type TransactionEvent struct {
	Date        time.Time `json:"date"`
	Type        EventType `json:"type"`
	Quantity    float64   `json:"quantity"`
	Price       float64   `json:"price"`
	Fees        float64   `json:"fees"`
	SplitRatio  float64   `json:"splitRatio,omitempty"`
	SharesAfter float64   `json:"sharesAfter"`
}

// ExtractEvents walks the sorted transaction log once, classifying each
// transaction and maintaining a running share count. Unrecognized types are
// skipped entirely rather than emitted as events.
func ExtractEvents(txs []model.Transaction) []TransactionEvent {
	sorted := SortTransactions(txs)

	events := make([]TransactionEvent, 0, len(sorted))
	var shares float64

	for _, tx := range sorted {
		txType := normalizeType(tx.Type)

		var eventType EventType
		switch {
		case isBuy(txType):
			eventType = EventBuy
			shares += tx.Quantity
		case isSell(txType):
			eventType = EventSell
			shares = max(0, shares-tx.Quantity)
		case isDividendLoose(txType):
			eventType = EventDividend
		case historyOptions.matchesSplit(txType):
			eventType = EventSplit
			if tx.SplitRatio > 0 && shares > 0 {
				shares *= tx.SplitRatio
			}
		default:
			continue
		}

		events = append(events, TransactionEvent{
			Date:        tx.Date,
			Type:        eventType,
			Quantity:    tx.Quantity,
			Price:       tx.Price,
			Fees:        tx.Fees,
			SplitRatio:  tx.SplitRatio,
			SharesAfter: shares,
		})
	}

	return events
}
