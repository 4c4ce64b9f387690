// Package format renders node values for display.
package format

import (
	"fmt"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/dustin/go-humanize"
)

// Number renders an integer with thousands separators.
func Number(n uint64) string {
	return humanize.Comma(int64(n))
}

// Bytes renders a byte count in binary units.
func Bytes(n uint64) string {
	return humanize.IBytes(n)
}

// HashRate renders hashes per second with an SI prefix.
func HashRate(v float64) string {
	return humanize.SIWithDigits(v, 2, "H/s")
}

// Amount renders a BTC-denominated RPC amount.
func Amount(btc float64) string {
	amt, err := btcutil.NewAmount(btc)
	if err != nil {
		return fmt.Sprintf("%.8f BTC", btc)
	}
	return amt.String()
}

// FeeRate converts a BTC/kvB fee rate, as RPC fee fields report it, to the
// conventional sat/vB form.
func FeeRate(btcPerKvB float64) string {
	amt, err := btcutil.NewAmount(btcPerKvB)
	if err != nil {
		return "?"
	}
	return fmt.Sprintf("%.1f sat/vB", float64(amt)/1000)
}

// Age renders a unix timestamp relative to now, like "12 minutes ago".
func Age(unix int64) string {
	if unix <= 0 {
		return "-"
	}
	return humanize.Time(time.Unix(unix, 0))
}

// Uptime renders a connection duration in its two most significant units.
func Uptime(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	d := time.Duration(seconds) * time.Second
	days := d / (24 * time.Hour)
	d -= days * 24 * time.Hour
	hours := d / time.Hour
	d -= hours * time.Hour
	minutes := d / time.Minute
	d -= minutes * time.Minute

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh", days, hours)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, d/time.Second)
	default:
		return fmt.Sprintf("%ds", d/time.Second)
	}
}

// PingMillis renders a getpeerinfo ping time, reported in seconds. A nil
// ping means no sample yet.
func PingMillis(seconds *float64) string {
	if seconds == nil {
		return "-"
	}
	return fmt.Sprintf("%.0f ms", *seconds*1000)
}
