package printer

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReceipt() PrintOrder {
	return PrintOrder{
		OrderID:        2101,
		TokenNumber:    37,
		Date:           "2026-08-30",
		Time:           "12:45",
		VendorName:     "Annapurna Canteen",
		CustomerName:   "Ravi",
		CustomerPhone:  "9876543210",
		FulfilmentType: "PICKUP",
		Items: []PrintOrderItem{
			{Name: "Masala Dosa", Quantity: 2, UnitPrice: 60, LineTotal: 120},
			{Name: "Filter Coffee", Quantity: 1, UnitPrice: 25, LineTotal: 25},
		},
		ItemTotal:  145,
		PackingFee: 10,
		GrandTotal: 1155,
	}
}

func TestRenderReceiptLayout(t *testing.T) {
	out := RenderReceipt(sampleReceipt())

	assert.Contains(t, out, "ANNAPURNA CANTEEN")
	assert.Contains(t, out, "TOKEN NO")
	assert.Contains(t, out, "** 37 **")
	assert.Contains(t, out, "#2101")
	assert.Contains(t, out, "PICKUP")
	assert.Contains(t, out, "Masala Dosa")
	assert.Contains(t, out, "Packing Fee:")
	assert.NotContains(t, out, "Delivery Fee:", "zero fee lines are omitted")

	// 印度千分位。
	assert.Contains(t, out, "Rs. 1,155.00")

	for _, line := range strings.Split(out, "\n") {
		assert.LessOrEqual(t, len(line), receiptWidth+1, "line exceeds paper width: %q", line)
	}
}

func TestRenderReceiptFallbacks(t *testing.T) {
	p := sampleReceipt()
	p.CustomerName = ""
	p.Instructions = "less spicy"

	out := RenderReceipt(p)
	assert.Contains(t, out, "Guest")
	assert.Contains(t, out, "NOTE: less spicy")
}

func TestRenderBatchSeparatesWithFormFeed(t *testing.T) {
	batch := []PrintOrder{sampleReceipt(), sampleReceipt()}
	out := RenderBatch(batch)
	assert.Equal(t, 1, strings.Count(out, "\f"))
}

func TestItemRowTruncatesLongNames(t *testing.T) {
	row := itemRow("2", strings.Repeat("x", 40), "120.00")
	require.True(t, strings.HasSuffix(strings.TrimRight(row, "\n"), "120.00"))
	assert.Contains(t, row, "…")
}

func TestItemRowKeepsMultibyteNamesIntact(t *testing.T) {
	// 裁剪落在多字节字符中间也不能产生残缺序列。
	row := itemRow("1", strings.Repeat("पनीर टिक्का मसाला ", 4), "250.00")
	assert.True(t, utf8.ValidString(row))
	assert.Contains(t, row, "…")
	assert.LessOrEqual(t, runewidth.StringWidth(strings.TrimRight(row, "\n")), receiptWidth)

	row = itemRow("3", "兰州牛肉拉面加辣加宽双份特制", "180.00")
	assert.True(t, utf8.ValidString(row))
	assert.LessOrEqual(t, runewidth.StringWidth(strings.TrimRight(row, "\n")), receiptWidth)
}

func TestCenterUsesDisplayWidth(t *testing.T) {
	var b strings.Builder
	center(&b, "दाल भात घर")
	line := strings.TrimRight(b.String(), "\n")
	assert.True(t, utf8.ValidString(line))
	assert.LessOrEqual(t, runewidth.StringWidth(line), receiptWidth)

	// 宽字符店名按两列计宽，不会被居中填充推出纸宽。
	b.Reset()
	center(&b, "兰州拉面")
	line = strings.TrimRight(b.String(), "\n")
	pad := len(line) - len(strings.TrimLeft(line, " "))
	assert.Equal(t, (receiptWidth-8)/2, pad)
}

func TestOrderIDs(t *testing.T) {
	ids := OrderIDs(receipts(3, 1, 2))
	assert.Equal(t, []int64{3, 1, 2}, ids)
}
