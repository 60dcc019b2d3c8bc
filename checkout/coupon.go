package checkout

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
)

var (
	ErrCouponExpired          = errors.New("coupon expired")
	ErrCouponAlreadyUsed      = errors.New("coupon already used with this trace id")
	ErrCouponInvalidChallenge = errors.New("coupon does not apply to this challenge")
	ErrCouponNoUsesRemaining  = errors.New("coupon has no uses remaining")
)

// Coupon grants access to challenges without payment
type Coupon struct {
	ID             uuid.UUID `json:"id"`
	Code           string    `json:"code"`
	ChallengeIDs   []string  `json:"challengeIds"`
	MaxUses        uint32    `json:"maxUses"`
	UsesRemaining  uint32    `json:"usesRemaining"`
	ExpirationDate time.Time `json:"expirationDate"`
	// trace ids of the requests that redeemed the coupon
	UsedBy []string `json:"usedBy"`
}

func NewCoupon(code string, challengeIDs []string, maxUses uint32, expires time.Time) *Coupon {
	return &Coupon{
		ID:             uuid.New(),
		Code:           code,
		ChallengeIDs:   challengeIDs,
		MaxUses:        maxUses,
		UsesRemaining:  maxUses,
		ExpirationDate: expires,
	}
}

// IsValid reports whether traceID could redeem the coupon for challengeID at now
func (c *Coupon) IsValid(challengeID, traceID string, now time.Time) bool {
	return c.check(challengeID, traceID, now) == nil
}

// Redeem consumes one use for traceID
func (c *Coupon) Redeem(challengeID, traceID string, now time.Time) error {
	if err := c.check(challengeID, traceID, now); err != nil {
		return err
	}
	c.UsesRemaining--
	c.UsedBy = append(c.UsedBy, traceID)
	return nil
}

func (c *Coupon) check(challengeID, traceID string, now time.Time) error {
	if c.ExpirationDate.Before(now) {
		return fmt.Errorf("%w on %s", ErrCouponExpired, c.ExpirationDate.UTC().Format(time.RFC3339))
	}
	if c.UsesRemaining == 0 {
		return ErrCouponNoUsesRemaining
	}
	if !slices.Contains(c.ChallengeIDs, challengeID) {
		return ErrCouponInvalidChallenge
	}
	if slices.Contains(c.UsedBy, traceID) {
		return ErrCouponAlreadyUsed
	}
	return nil
}
