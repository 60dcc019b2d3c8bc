package metrics

import "time"

// Event counter names
const (
	EventInitialized          = "initialized"
	EventInitializationFailed = "initialization_failure"
	EventWalletConnected      = "wallet_connected"
	EventWalletDisconnected   = "wallet_disconnected"
	EventBalanceLookupFailed  = "balance_lookup_failure"
	EventPaymentRejected      = "payment_rejected"
	EventTransactionSent      = "transaction_sent"
	EventTransactionFailed    = "transaction_failure"
)

// Timed operation names
const (
	OpBalanceLookup   = "balance_lookup"
	OpSendTransaction = "send_transaction"
)

// Recorder receives tonpay operation counters and latencies.
// Labels carry at least "network".
type Recorder interface {
	IncCounter(name string, labels map[string]string)
	ObserveLatency(name string, duration time.Duration, labels map[string]string)
}

// NetworkLabels builds the label set shared by all tonpay metrics
func NetworkLabels(network string) map[string]string {
	return map[string]string{"network": network}
}
