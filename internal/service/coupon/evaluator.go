package coupon

import (
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vortexcart/api/internal/domain/apperr"
	"github.com/vortexcart/api/internal/domain/models"
)

// Evaluate runs the validation chain for an already-looked-up coupon against
// the supplied cart and returns the discount amount, rounded to two decimals
// and clamped so it never exceeds the applicable amount.
//
// products must contain every cart item's product when the coupon carries
// allow-lists; unrestricted coupons never consult it.
func Evaluate(c *models.Coupon, items []models.CartItem, products map[primitive.ObjectID]models.Product, cartTotal float64, now time.Time) (float64, error) {
	if now.After(c.ExpiryDate) {
		return 0, apperr.CouponExpired("coupon has expired")
	}

	if c.UsageLimit > 0 && c.UsedCount >= c.UsageLimit {
		return 0, apperr.CouponLimitReached("coupon usage limit reached")
	}

	if cartTotal < c.MinimumPurchase {
		return 0, apperr.CouponMinimumNotMet("minimum purchase of $%.2f required for this coupon", c.MinimumPurchase)
	}

	applicable := applicableAmount(c, items, products, cartTotal)
	if applicable <= 0 {
		return 0, apperr.CouponNotApplicable("coupon not applicable to items in cart")
	}

	applicableDec := decimal.NewFromFloat(applicable)

	var discount decimal.Decimal
	if c.DiscountType == models.DiscountPercentage {
		discount = applicableDec.Mul(decimal.NewFromFloat(c.DiscountAmount)).Div(decimal.NewFromInt(100))
	} else {
		discount = decimal.NewFromFloat(c.DiscountAmount)
	}

	if discount.GreaterThan(applicableDec) {
		discount = applicableDec
	}

	return discount.Round(2).InexactFloat64(), nil
}

// applicableAmount sums the cart value eligible for the discount. Without
// allow-lists the whole cart qualifies; otherwise only lines whose product or
// product category appears on a list count.
func applicableAmount(c *models.Coupon, items []models.CartItem, products map[primitive.ObjectID]models.Product, cartTotal float64) float64 {
	if !c.IsRestricted() {
		return cartTotal
	}

	allowedProducts := make(map[primitive.ObjectID]struct{}, len(c.ApplicableProducts))
	for _, id := range c.ApplicableProducts {
		allowedProducts[id] = struct{}{}
	}
	allowedCategories := make(map[primitive.ObjectID]struct{}, len(c.ApplicableCategories))
	for _, id := range c.ApplicableCategories {
		allowedCategories[id] = struct{}{}
	}

	var sum float64
	for _, item := range items {
		product, ok := products[item.Product]
		if !ok {
			continue
		}

		if _, ok := allowedProducts[product.ID]; ok {
			sum += item.Price * float64(item.Qty)
			continue
		}
		if _, ok := allowedCategories[product.Category]; ok {
			sum += item.Price * float64(item.Qty)
		}
	}
	return sum
}
