package posting

import (
	"context"

	"fjacquet/finledger/internal/logging"
	"fjacquet/finledger/internal/store"
)

// VerifyBalanced checks every posted transaction and returns those whose
// debits and credits do not both equal the absolute amount.
func (g *Generator) VerifyBalanced(ctx context.Context) ([]store.UnbalancedTransaction, error) {
	unbalanced, err := g.store.UnbalancedTransactions(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range unbalanced {
		g.logger.Warn("Unbalanced transaction",
			logging.F(logging.FieldTransactionID, u.TransactionID),
			logging.F("amount", u.Amount.StringFixed(2)),
			logging.F("debits", u.Debits.StringFixed(2)),
			logging.F("credits", u.Credits.StringFixed(2)))
	}
	return unbalanced, nil
}
