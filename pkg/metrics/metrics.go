package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// StoreMetrics records counters for the transactional store.
type StoreMetrics struct {
	salesFinalized     prometheus.Counter
	purchasesFinalized prometheus.Counter
	outOfStock         prometheus.Counter
	barcodeRetries     prometheus.Counter
}

// NewStoreMetrics registers the store metrics on the provided registerer.
// A nil registerer yields a no-op instance, which keeps tests quiet.
func NewStoreMetrics(reg prometheus.Registerer) *StoreMetrics {
	if reg == nil {
		return &StoreMetrics{}
	}
	salesFinalized := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pos_sales_finalized_total",
		Help: "Sales finalized successfully.",
	})
	purchasesFinalized := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pos_purchases_finalized_total",
		Help: "Purchases finalized successfully.",
	})
	outOfStock := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pos_sales_out_of_stock_total",
		Help: "Sales rejected because requested quantity exceeded stock.",
	})
	barcodeRetries := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pos_barcode_collision_retries_total",
		Help: "Barcode generations retried after a uniqueness collision.",
	})
	reg.MustRegister(salesFinalized, purchasesFinalized, outOfStock, barcodeRetries)
	return &StoreMetrics{
		salesFinalized:     salesFinalized,
		purchasesFinalized: purchasesFinalized,
		outOfStock:         outOfStock,
		barcodeRetries:     barcodeRetries,
	}
}

// IncSaleFinalized counts one finalized sale.
func (m *StoreMetrics) IncSaleFinalized() {
	if m == nil || m.salesFinalized == nil {
		return
	}
	m.salesFinalized.Inc()
}

// IncPurchaseFinalized counts one finalized purchase.
func (m *StoreMetrics) IncPurchaseFinalized() {
	if m == nil || m.purchasesFinalized == nil {
		return
	}
	m.purchasesFinalized.Inc()
}

// IncOutOfStock counts one oversell rejection.
func (m *StoreMetrics) IncOutOfStock() {
	if m == nil || m.outOfStock == nil {
		return
	}
	m.outOfStock.Inc()
}

// IncBarcodeRetry counts one barcode collision retry.
func (m *StoreMetrics) IncBarcodeRetry() {
	if m == nil || m.barcodeRetries == nil {
		return
	}
	m.barcodeRetries.Inc()
}
