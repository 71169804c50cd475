package types

type OrderSide string

type OrderType string

type OrderStatus string

type TimeInForce string

const (
	OrderSideBuy  OrderSide = "BUY"
	OrderSideSell OrderSide = "SELL"
)

const (
	OrderTypeLimit  OrderType = "LMT"
	OrderTypeMarket OrderType = "MKT"
)

const (
	OrderStatusFilled  OrderStatus = "Filled"
	OrderStatusRelayed OrderStatus = "Submitted"
	OrderStatusFailed  OrderStatus = "Failed"
)

const (
	TimeInForceDay TimeInForce = "DAY"
	TimeInForceGTC TimeInForce = "GTC"
	TimeInForceIOC TimeInForce = "IOC"
)

const SecTypeStock = "STK"
