package order

// Item 是订单内的一行菜品，下单后不可变。
type Item struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// Order 是后端返回的订单快照。除 OrderStatus 外全部字段不可变，
// 且状态只通过四个流转端点改变。
type Order struct {
	OrderID        int64          `json:"orderId"`
	CreatedAt      string         `json:"createdAt"`
	FulfilmentType FulfilmentType `json:"fulfilmentType"`
	CustomerPhone  string         `json:"customerPhone"`
	CustomerName   string         `json:"customerName"`
	Instructions   string         `json:"instructions"`
	TotalAmount    float64        `json:"totalAmount"`
	PaymentStatus  PaymentStatus  `json:"paymentStatus"`
	OrderStatus    Status         `json:"orderStatus"`
	Items          []Item         `json:"items"`
}

// IsVisible 判断订单是否出现在操作员视图：已支付且未过期。
func (o Order) IsVisible() bool {
	return o.PaymentStatus == PaymentPaid && o.OrderStatus != StatusExpired
}

// Visible 过滤出操作员可见的订单。纯函数，幂等。
func Visible(orders []Order) []Order {
	out := make([]Order, 0, len(orders))
	for _, o := range orders {
		if o.IsVisible() {
			out = append(out, o)
		}
	}
	return out
}

// FilterByStatus 返回可见订单里处于指定状态的子集。
func FilterByStatus(orders []Order, status Status) []Order {
	out := make([]Order, 0)
	for _, o := range Visible(orders) {
		if o.OrderStatus == status {
			out = append(out, o)
		}
	}
	return out
}

// CountByStatus 统计可见订单里处于指定状态的数量，用于标签角标。
func CountByStatus(orders []Order, status Status) int {
	n := 0
	for _, o := range Visible(orders) {
		if o.OrderStatus == status {
			n++
		}
	}
	return n
}

// PendingCount 统计等待接单的可见订单数，供提醒逻辑使用。
func PendingCount(orders []Order) int {
	return CountByStatus(orders, StatusPlaced)
}
