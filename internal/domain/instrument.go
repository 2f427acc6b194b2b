package domain

import "strings"

// AssetClass selects the valuation convention for an instrument. FX pairs
// are priced in pips; everything else in raw price-difference terms.
type AssetClass string

const (
	AssetFX      AssetClass = "fx"
	AssetMetal   AssetClass = "metal"
	AssetCrypto  AssetClass = "crypto"
	AssetGeneric AssetClass = "generic"
)

var currencyCodes = map[string]bool{
	"USD": true, "EUR": true, "GBP": true, "JPY": true, "CHF": true,
	"AUD": true, "NZD": true, "CAD": true, "SEK": true, "NOK": true,
	"SGD": true, "HKD": true, "MXN": true, "ZAR": true, "TRY": true,
	"PLN": true, "CNH": true,
}

var cryptoCodes = map[string]bool{
	"BTC": true, "ETH": true, "SOL": true, "XRP": true, "ADA": true,
	"DOGE": true, "BNB": true, "DOT": true, "LTC": true, "AVAX": true,
}

// ClassifyInstrument maps a symbol to its asset class. Gold is special-cased:
// it is quoted like an FX pair but valued like a metal, so any symbol
// containing GOLD (or exactly XAUUSD) wins over the generic FX split.
// Unrecognized symbols fall back to generic unit-based valuation.
func ClassifyInstrument(symbol string) AssetClass {
	s := normalizeSymbol(symbol)

	if strings.Contains(s, "GOLD") || s == "XAUUSD" {
		return AssetMetal
	}
	if isCrypto(s) {
		return AssetCrypto
	}
	if len(s) == 6 && currencyCodes[s[:3]] && currencyCodes[s[3:]] {
		return AssetFX
	}
	return AssetGeneric
}

// IsJPYQuoted reports whether the pip convention for the pair is 0.01
// rather than 0.0001.
func IsJPYQuoted(symbol string) bool {
	return strings.Contains(normalizeSymbol(symbol), "JPY")
}

func normalizeSymbol(symbol string) string {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	s = strings.ReplaceAll(s, "/", "")
	s = strings.ReplaceAll(s, "-", "")
	return s
}

func isCrypto(s string) bool {
	for code := range cryptoCodes {
		if strings.HasPrefix(s, code) {
			return true
		}
	}
	return strings.HasSuffix(s, "USDT") || strings.HasSuffix(s, "USDC")
}
