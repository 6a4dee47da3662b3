package fees

// DefaultExchanges returns the built-in fee schedule. BitMEX and Phemex pay
// a maker rebate.
func DefaultExchanges() []ExchangeFee {
	return []ExchangeFee{
		{ID: "binance", Name: "Binance", MakerFee: 0.1, TakerFee: 0.1},
		{ID: "coinbase", Name: "Coinbase Pro", MakerFee: 0.5, TakerFee: 0.5},
		{ID: "kraken", Name: "Kraken", MakerFee: 0.16, TakerFee: 0.26},
		{ID: "bybit", Name: "Bybit", MakerFee: 0.1, TakerFee: 0.1},
		{ID: "okx", Name: "OKX", MakerFee: 0.08, TakerFee: 0.1},
		{ID: "kucoin", Name: "KuCoin", MakerFee: 0.1, TakerFee: 0.1},
		{ID: "mexc", Name: "MEXC", MakerFee: 0.2, TakerFee: 0.2},
		{ID: "gate", Name: "Gate.io", MakerFee: 0.2, TakerFee: 0.2},
		{ID: "huobi", Name: "HTX (Huobi)", MakerFee: 0.2, TakerFee: 0.2},
		{ID: "bitget", Name: "Bitget", MakerFee: 0.1, TakerFee: 0.1},
		{ID: "bitfinex", Name: "Bitfinex", MakerFee: 0.1, TakerFee: 0.2},
		{ID: "gemini", Name: "Gemini", MakerFee: 0.25, TakerFee: 0.35},
		{ID: "bitstamp", Name: "Bitstamp", MakerFee: 0.5, TakerFee: 0.5},
		{ID: "ftx", Name: "FTX", MakerFee: 0.02, TakerFee: 0.07},
		{ID: "bitmex", Name: "BitMEX", MakerFee: -0.025, TakerFee: 0.075},
		{ID: "dydx", Name: "dYdX", MakerFee: 0.05, TakerFee: 0.1},
		{ID: "crypto.com", Name: "Crypto.com", MakerFee: 0.4, TakerFee: 0.4},
		{ID: "upbit", Name: "Upbit", MakerFee: 0.25, TakerFee: 0.25},
		{ID: "bithumb", Name: "Bithumb", MakerFee: 0.25, TakerFee: 0.25},
		{ID: "phemex", Name: "Phemex", MakerFee: -0.025, TakerFee: 0.075},
	}
}
