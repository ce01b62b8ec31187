package types

import "github.com/shopspring/decimal"

// PaymentType distinguishes a regular monthly payment from an arrears
// settlement covering one or more missed months.
type PaymentType string

const (
	PaymentTypeMonthly PaymentType = "monthly"
	PaymentTypeArrears PaymentType = "arrears"
)

// PayoutRoute records how a payment was routed by the payout router.
// A payment is wholly immediate or wholly escrowed, never split.
type PayoutRoute string

const (
	PayoutRouteImmediate PayoutRoute = "immediate"
	PayoutRouteEscrow    PayoutRoute = "escrow"
)

// AmountTolerance is the permitted difference between a submitted payment
// and the contract's monthly amount on the regular payment path.
var AmountTolerance = decimal.NewFromFloat(0.01)

// EarlyPaymentWindowDays is how many days before the due date a payment is
// accepted. There is no upper bound on lateness.
const EarlyPaymentWindowDays = 30

// CriticallyOverdueDays is the overdue threshold after which the scheduler
// flags a contract as critically overdue. Log-level signal only.
const CriticallyOverdueDays = 30
