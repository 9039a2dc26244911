package service

import (
	"fmt"
	"time"
)

// FormatReceiptID derives the composite receipt key from a POS receipt
// number and its sale date: "<receipt no>_<dd_mm_yyyy>". The verifier builds
// the exact same key from loyalty transactions, so the formatting here and
// there must never diverge or matches silently fail.
func FormatReceiptID(receiptNo string, date time.Time) string {
	return fmt.Sprintf("%s_%s", receiptNo, date.Format("02_01_2006"))
}
