package aiquota

import "errors"

// ErrQuotaExceeded is returned when a user has no AI requests left for the current month.
var ErrQuotaExceeded = errors.New("monthly ai quota exceeded")

// DefaultMonthlyQuota is the number of AI requests granted per month.
const DefaultMonthlyQuota = 100

const periodLayout = "2006-01"
