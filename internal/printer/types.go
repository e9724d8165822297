package printer

// PrintOrderItem 是小票上的一行菜品，带单价与行小计。
type PrintOrderItem struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	LineTotal float64 `json:"lineTotal"`
}

// PrintOrder 是后端为打印队列生成的去范式化小票投影。
// 它不是订单实体：只在待打印队列里短暂存在，
// 打印确认后即从队列消失。
type PrintOrder struct {
	OrderID         int64            `json:"orderId"`
	TokenNumber     int              `json:"tokenNumber"`
	Date            string           `json:"date"`
	Time            string           `json:"time"`
	VendorName      string           `json:"vendorName"`
	VendorAddress   string           `json:"vendorAddress"`
	CustomerName    string           `json:"customerName"`
	CustomerPhone   string           `json:"customerPhone"`
	CustomerAddress string           `json:"customerAddress"`
	FulfilmentType  string           `json:"fulfilmentType"`
	Instructions    string           `json:"instructions"`
	Items           []PrintOrderItem `json:"items"`
	ItemTotal       float64          `json:"itemTotal"`
	PackingFee      float64          `json:"packingFee"`
	DeliveryFee     float64          `json:"deliveryFee"`
	GrandTotal      float64          `json:"grandTotal"`
}

// OrderIDs 提取一批小票的订单号。
func OrderIDs(batch []PrintOrder) []int64 {
	ids := make([]int64, len(batch))
	for i, p := range batch {
		ids[i] = p.OrderID
	}
	return ids
}
