package offer

import (
	"fmt"

	"github.com/denisok6893-rgb/wholesale-deal-engine/internal/domain"
	"github.com/denisok6893-rgb/wholesale-deal-engine/internal/money"
)

// Viability classifies an asking price against the MAO.
func (c *Calculator) Viability(mao, askingPrice float64) domain.Viability {
	if askingPrice <= 0 {
		return domain.Viability{
			Status:  domain.InsufficientData,
			Message: "insufficient data: asking price unknown",
		}
	}
	if mao > askingPrice {
		surplus := money.Dollars(mao - askingPrice)
		return domain.Viability{
			Status:  domain.PursueImmediately,
			Surplus: surplus,
			Message: fmt.Sprintf("pursue immediately: MAO exceeds asking by $%.0f", surplus),
		}
	}
	gap := money.Dollars(askingPrice - mao)
	if mao >= askingPrice*c.policy.NegotiableFraction {
		return domain.Viability{
			Status:  domain.Negotiable,
			Gap:     gap,
			Message: fmt.Sprintf("negotiable: try to close a $%.0f gap", gap),
		}
	}
	return domain.Viability{
		Status:  domain.PassGapTooLarge,
		Gap:     gap,
		Message: fmt.Sprintf("pass: $%.0f gap is too large", gap),
	}
}
