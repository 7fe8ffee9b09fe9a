package service

import "job-commerce-api/internal/common"

// Settle splits a job's total cost into the platform fee and the pro's payout.
// Rounding happens once per output value, so fee + payout always equals the rounded total.
func Settle(totalCost float64, feePercent float64) (platformFee float64, proPayout float64) {
	total := common.RoundMoney(totalCost)
	platformFee = common.RoundMoney(total * feePercent / 100)
	proPayout = common.RoundMoney(total - platformFee)

	return platformFee, proPayout
}
