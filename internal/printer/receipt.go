package printer

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// receiptWidth 对应 80mm 热敏纸的等宽字符列数。
const receiptWidth = 42

var inr = message.NewPrinter(language.English)

// amount 以印度习惯的千分位渲染金额，如 1,240.50。
func amount(v float64) string {
	return inr.Sprintf("%.2f", v)
}

// RenderReceipt 把一张小票投影渲染为等宽文本。
// 布局对齐收银小票：店名抬头、取餐号大字区、订单元信息、
// 菜品表格、费用合计。
func RenderReceipt(p PrintOrder) string {
	var b strings.Builder

	center(&b, strings.ToUpper(p.VendorName))
	if p.VendorAddress != "" {
		center(&b, p.VendorAddress)
	}
	divider(&b)

	center(&b, "TOKEN NO")
	center(&b, fmt.Sprintf("** %d **", p.TokenNumber))
	divider(&b)

	row(&b, "Order ID:", fmt.Sprintf("#%d", p.OrderID))
	row(&b, "Date:", strings.TrimSpace(p.Date+" "+p.Time))
	row(&b, "Type:", strings.ToUpper(p.FulfilmentType))

	b.WriteString("CUSTOMER:\n")
	name := p.CustomerName
	if name == "" {
		name = "Guest"
	}
	b.WriteString(name + "\n")
	b.WriteString(p.CustomerPhone + "\n")
	if p.CustomerAddress != "" {
		b.WriteString("Loc: " + p.CustomerAddress + "\n")
	}
	divider(&b)

	b.WriteString(itemRow("Qt", "Item", "Amt"))
	for _, item := range p.Items {
		b.WriteString(itemRow(
			fmt.Sprintf("%d", item.Quantity),
			item.Name,
			amount(item.LineTotal),
		))
	}
	divider(&b)

	row(&b, "Item Total:", amount(p.ItemTotal))
	if p.PackingFee > 0 {
		row(&b, "Packing Fee:", amount(p.PackingFee))
	}
	if p.DeliveryFee > 0 {
		row(&b, "Delivery Fee:", amount(p.DeliveryFee))
	}
	row(&b, "GRAND TOTAL:", "Rs. "+amount(p.GrandTotal))

	if p.Instructions != "" {
		divider(&b)
		b.WriteString("NOTE: " + p.Instructions + "\n")
	}
	divider(&b)
	center(&b, "Thank you!")

	return b.String()
}

// RenderBatch 渲染一批小票，单张之间以换页符分隔，
// 便于驱动连续出纸的打印机。
func RenderBatch(batch []PrintOrder) string {
	parts := make([]string, len(batch))
	for i, p := range batch {
		parts[i] = RenderReceipt(p)
	}
	return strings.Join(parts, "\f\n")
}

// 宽度计算一律按显示列数而非字节数，菜名里混中文、
// 天城文时对齐才不会散架。
func center(b *strings.Builder, s string) {
	w := runewidth.StringWidth(s)
	if w >= receiptWidth {
		b.WriteString(s + "\n")
		return
	}
	pad := (receiptWidth - w) / 2
	b.WriteString(strings.Repeat(" ", pad) + s + "\n")
}

func divider(b *strings.Builder) {
	b.WriteString(strings.Repeat("-", receiptWidth) + "\n")
}

func row(b *strings.Builder, left, right string) {
	gap := receiptWidth - runewidth.StringWidth(left) - runewidth.StringWidth(right)
	if gap < 1 {
		gap = 1
	}
	b.WriteString(left + strings.Repeat(" ", gap) + right + "\n")
}

// itemRow 按 10%/60%/30% 的列宽排布数量、品名与金额。
func itemRow(qty, name, amt string) string {
	const qtyW, nameW = 4, 26
	name = runewidth.Truncate(name, nameW-1, "…")
	amtW := receiptWidth - qtyW - nameW
	return runewidth.FillRight(qty, qtyW) + runewidth.FillRight(name, nameW) + runewidth.FillLeft(amt, amtW) + "\n"
}
