package payments

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/shoploop/shoploop-backend/pkg/config"
)

// HandoffFor builds the post-checkout hand-off for the given method and order.
func HandoffFor(method Method, orderID uuid.UUID, cfg config.PaymentsConfig) (Handoff, error) {
	switch method {
	case MethodCard:
		return Handoff{Method: MethodCard}, nil
	case MethodHostedRedirect:
		return Handoff{
			Method:      MethodHostedRedirect,
			RedirectURL: hostedRedirectURL(cfg.HostedRedirectBase, orderID),
		}, nil
	case MethodBankTransfer:
		return Handoff{
			Method:      MethodBankTransfer,
			Reference:   BankTransferReference(orderID),
			Beneficiary: cfg.BankBeneficiary,
		}, nil
	default:
		return Handoff{}, fmt.Errorf("unsupported payment method %q", method)
	}
}

func hostedRedirectURL(base string, orderID uuid.UUID) string {
	return fmt.Sprintf("%s/%s", strings.TrimRight(base, "/"), orderID)
}

// BankTransferReference derives the wire reference buyers must quote.
// The first UUID block is enough to disambiguate while staying typeable.
func BankTransferReference(orderID uuid.UUID) string {
	short := strings.SplitN(orderID.String(), "-", 2)[0]
	return fmt.Sprintf("SL-%s", strings.ToUpper(short))
}
