/*
Package wallet implements the wallet ledger.

The ledger tracks a balance and escrow holds on each profile; the spendable
amount is always derived as balance minus holds. Every mutation is a single
conditional UPDATE at the repository, so concurrent debits cannot overdraw
and concurrent webhook deliveries cannot double-credit.

Deposits flow through the payment gateway: a hosted session is initiated
with a unique reference, the gateway calls back over a signed webhook, and
the credit lands against the webhook ledger whose unique reference column is
the idempotency key.

Group escrow payments prefer the wallet when the available balance covers
the share and fall back to a hosted payment session otherwise.
*/
package wallet
