package checkout

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/vinhngx/backend-foodee/internal/cart"
	"github.com/vinhngx/backend-foodee/internal/events"
	"github.com/vinhngx/backend-foodee/internal/geo"
	"github.com/vinhngx/backend-foodee/internal/order"
	"github.com/vinhngx/backend-foodee/internal/pricing"
	"github.com/vinhngx/backend-foodee/internal/voucher"
)

type fakeCart struct {
	lines []cart.Line
	err   error
}

func (f *fakeCart) List(context.Context, string) ([]cart.Line, error) {
	return f.lines, f.err
}

type fakeVouchers struct {
	byCode map[string]voucher.Voucher
}

func (f *fakeVouchers) FindByCode(_ context.Context, code string) (voucher.Voucher, error) {
	v, ok := f.byCode[voucher.NormalizeCode(code)]
	if !ok {
		return voucher.Voucher{}, voucher.ErrNotFound
	}
	return v, nil
}

type fakeGeo struct {
	quote geo.Quote
	err   error
}

func (f *fakeGeo) QuoteDistance(context.Context, string) (geo.Quote, error) {
	return f.quote, f.err
}

type fakeOrders struct {
	created []order.Order
	err     error
}

func (f *fakeOrders) CreateOrder(_ context.Context, o order.Order) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, o)
	return nil
}

func newService(c *fakeCart, v *fakeVouchers, g *fakeGeo, o *fakeOrders) *Service {
	if v == nil {
		v = &fakeVouchers{}
	}
	return &Service{
		Cart:     c,
		Vouchers: v,
		Geo:      g,
		Guard:    &geo.Latest{},
		Orders:   o,
		Timeout:  time.Second,
		Log:      zerolog.Nop(),
	}
}

const goodAddress = "12 Nguyen Hue, District 1"

func selectedLine(id string, price int64, qty int) cart.Line {
	return cart.Line{ProductID: id, Name: "item " + id, UnitPrice: price, Qty: qty, Selected: true, Available: true}
}

func TestQuoteComputesFullSummary(t *testing.T) {
	c := &fakeCart{lines: []cart.Line{selectedLine("p1", 43000, 2)}}
	g := &fakeGeo{quote: geo.Quote{DistanceKm: 3.5, DurationLabel: "14 mins"}}
	svc := newService(c, nil, g, &fakeOrders{})

	res, err := svc.Quote(context.Background(), "u1", QuoteInput{Address: goodAddress})
	require.NoError(t, err)
	require.Equal(t, pricing.Money(86000), res.Summary.Subtotal)
	require.Equal(t, pricing.Money(14000), res.Summary.Shipping)
	require.Equal(t, pricing.Money(100000), res.Summary.Total)
	require.False(t, res.ShippingPending)
	require.NotNil(t, res.DistanceKm)
	require.Equal(t, "14 mins", res.DurationLabel)
}

func TestQuoteShortAddressLeavesShippingPending(t *testing.T) {
	c := &fakeCart{lines: []cart.Line{selectedLine("p1", 50000, 1)}}
	g := &fakeGeo{quote: geo.Quote{DistanceKm: 3.5}}
	svc := newService(c, nil, g, &fakeOrders{})

	res, err := svc.Quote(context.Background(), "u1", QuoteInput{Address: "short"})
	require.NoError(t, err)
	require.True(t, res.ShippingPending)
	require.Zero(t, res.Summary.Shipping)
	require.Equal(t, pricing.Money(50000), res.Summary.Total)
}

func TestQuoteOutOfServiceArea(t *testing.T) {
	c := &fakeCart{lines: []cart.Line{selectedLine("p1", 50000, 1)}}
	g := &fakeGeo{quote: geo.Quote{DistanceKm: 12.0}}
	svc := newService(c, nil, g, &fakeOrders{})

	res, err := svc.Quote(context.Background(), "u1", QuoteInput{Address: goodAddress})
	require.NoError(t, err)
	require.True(t, res.OutOfService)
	require.Zero(t, res.Summary.Shipping)
	require.Equal(t, pricing.Money(50000), res.Summary.Subtotal)
}

func TestQuoteProviderFailureKeepsSubtotal(t *testing.T) {
	c := &fakeCart{lines: []cart.Line{selectedLine("p1", 50000, 1)}}
	g := &fakeGeo{err: pricing.ErrQuoteUnavailable}
	svc := newService(c, nil, g, &fakeOrders{})

	res, err := svc.Quote(context.Background(), "u1", QuoteInput{Address: goodAddress})
	require.NoError(t, err)
	require.True(t, res.ShippingPending)
	require.Equal(t, pricing.Money(50000), res.Summary.Subtotal)
	require.Zero(t, res.Summary.Shipping)
}

func TestQuoteUnknownVoucherReportedNotFatal(t *testing.T) {
	c := &fakeCart{lines: []cart.Line{selectedLine("p1", 50000, 1)}}
	g := &fakeGeo{quote: geo.Quote{DistanceKm: 1.0}}
	svc := newService(c, nil, g, &fakeOrders{})

	res, err := svc.Quote(context.Background(), "u1", QuoteInput{Address: goodAddress, VoucherCode: "NOPE"})
	require.NoError(t, err)
	require.Equal(t, "voucher not found", res.VoucherError)
	require.Zero(t, res.Summary.Discount)
	require.Equal(t, pricing.Money(50000), res.Summary.Total)
}

func TestQuoteIneligibleVoucherKeepsTotals(t *testing.T) {
	c := &fakeCart{lines: []cart.Line{selectedLine("p1", 50000, 1)}}
	g := &fakeGeo{quote: geo.Quote{DistanceKm: 1.0}}
	vs := &fakeVouchers{byCode: map[string]voucher.Voucher{
		"BIGSPEND": {Code: "BIGSPEND", Kind: pricing.KindFixed, Value: 20000, MinOrderValue: 150000},
	}}
	svc := newService(c, vs, g, &fakeOrders{})

	res, err := svc.Quote(context.Background(), "u1", QuoteInput{Address: goodAddress, VoucherCode: "bigspend"})
	require.NoError(t, err)
	require.NotEmpty(t, res.VoucherError)
	require.Zero(t, res.Summary.Discount)
	require.Equal(t, pricing.Money(50000), res.Summary.Total)
}

func TestPlaceOrderHappyPath(t *testing.T) {
	c := &fakeCart{lines: []cart.Line{
		selectedLine("p1", 100000, 2),
		{ProductID: "p2", Name: "unselected", UnitPrice: 99999, Qty: 1, Selected: false, Available: true},
	}}
	g := &fakeGeo{quote: geo.Quote{DistanceKm: 1.0, DurationLabel: "5 mins"}}
	maxDiscount := int64(15000)
	vs := &fakeVouchers{byCode: map[string]voucher.Voucher{
		"SAVE10": {Code: "SAVE10", Kind: pricing.KindPercentage, Value: 10, MaxDiscount: &maxDiscount},
	}}
	orders := &fakeOrders{}
	svc := newService(c, vs, g, orders)

	o, err := svc.PlaceOrder(context.Background(), "u1", PlaceInput{Address: goodAddress, VoucherCode: "save10"})
	require.NoError(t, err)
	require.Equal(t, int64(200000), o.Subtotal)
	require.Zero(t, o.ShippingFee)
	require.Equal(t, int64(15000), o.Discount)
	require.Equal(t, int64(185000), o.Total)
	require.Equal(t, order.StatusPending, o.Status)
	require.Len(t, o.Items, 1)
	require.Equal(t, "p1", o.Items[0].ProductID)
	require.Len(t, orders.created, 1)
}

func TestPlaceOrderRejectsShortAddress(t *testing.T) {
	svc := newService(&fakeCart{}, nil, &fakeGeo{}, &fakeOrders{})
	_, err := svc.PlaceOrder(context.Background(), "u1", PlaceInput{Address: "short"})
	require.ErrorIs(t, err, ErrAddressTooShort)
}

func TestPlaceOrderRejectsEmptySelection(t *testing.T) {
	c := &fakeCart{lines: []cart.Line{
		{ProductID: "p1", UnitPrice: 1000, Qty: 1, Selected: false, Available: true},
	}}
	svc := newService(c, nil, &fakeGeo{quote: geo.Quote{DistanceKm: 1}}, &fakeOrders{})
	_, err := svc.PlaceOrder(context.Background(), "u1", PlaceInput{Address: goodAddress})
	require.ErrorIs(t, err, ErrEmptySelection)
}

func TestPlaceOrderRejectsOutOfServiceArea(t *testing.T) {
	c := &fakeCart{lines: []cart.Line{selectedLine("p1", 1000, 1)}}
	svc := newService(c, nil, &fakeGeo{quote: geo.Quote{DistanceKm: 10.5}}, &fakeOrders{})
	_, err := svc.PlaceOrder(context.Background(), "u1", PlaceInput{Address: goodAddress})
	require.ErrorIs(t, err, pricing.ErrOutOfServiceArea)
}

func TestPlaceOrderRejectsUnavailableProduct(t *testing.T) {
	c := &fakeCart{lines: []cart.Line{
		{ProductID: "p1", Name: "gone", UnitPrice: 1000, Qty: 1, Selected: true, Available: false},
	}}
	svc := newService(c, nil, &fakeGeo{quote: geo.Quote{DistanceKm: 1}}, &fakeOrders{})
	_, err := svc.PlaceOrder(context.Background(), "u1", PlaceInput{Address: goodAddress})
	require.ErrorIs(t, err, cart.ErrProductUnavailable)
}

func TestPlaceOrderEmitsCreatedEvent(t *testing.T) {
	c := &fakeCart{lines: []cart.Line{selectedLine("p1", 1000, 1)}}
	store := &memEventStore{}
	svc := newService(c, nil, &fakeGeo{quote: geo.Quote{DistanceKm: 1}}, &fakeOrders{})
	svc.Events = &events.Bus{Store: store}

	_, err := svc.PlaceOrder(context.Background(), "u1", PlaceInput{Address: goodAddress})
	require.NoError(t, err)
	require.Len(t, store.topics, 1)
	require.Equal(t, events.TopicOrderCreated, store.topics[0])
}

type memEventStore struct {
	topics []string
}

func (m *memEventStore) InsertEvent(_ context.Context, topic, aggregateID string, payload []byte) (events.Event, error) {
	m.topics = append(m.topics, topic)
	return events.Event{ID: "ev", Topic: topic, AggregateID: aggregateID, Payload: payload, OccurredAt: time.Now()}, nil
}
