package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/rebalance"
	md "github.com/nao1215/markdown"
)

// DistributionMarkdown renders the distribution of holdings by value.
func DistributionMarkdown(holdings []rebalance.Holding, prices rebalance.Prices, dist *rebalance.Allocation, currency string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Portfolio Distribution")

	total, err := rebalance.TotalValue(holdings, prices)
	if err != nil {
		doc.PlainText(err.Error())
		return doc.String()
	}

	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight},
		Header:    []string{"Ticker", "Quantity", "Value", "Share"},
	}
	for _, h := range holdings {
		price, _ := prices.Of(h.Ticker)
		table.Rows = append(table.Rows, []string{
			h.Ticker,
			h.Quantity.Format(h.WholeUnitsOnly),
			rebalance.M(h.Quantity.Float()*price, currency).String(),
			share(dist, h.Ticker).String(),
		})
	}
	table.Rows = append(table.Rows, []string{md.Bold("Total"), "", md.Bold(rebalance.M(total, currency).String()), ""})
	doc.Table(table)

	if total <= 0 {
		doc.PlainText(fmt.Sprintf("The portfolio has no value, every share is %s.", rebalance.Percent(0)))
	}
	return doc.String()
}

// NormalizationMarkdown renders a target allocation next to its normalized
// version.
func NormalizationMarkdown(target, normalized *rebalance.Allocation, adjusted bool) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Target Allocation")
	if adjusted {
		doc.PlainText(fmt.Sprintf("The target allocation summed to %s%% and was scaled to 100%%.", target.Sum().StringFixed(2)))
	} else {
		doc.PlainText("The target allocation sums to 100%.")
	}

	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight},
		Header:    []string{"Ticker", "Requested", "Normalized"},
	}
	for t, p := range target.All() {
		table.Rows = append(table.Rows, []string{t, p.String(), share(normalized, t).String()})
	}
	table.Rows = append(table.Rows, []string{
		md.Bold("Total"),
		target.Sum().StringFixed(2) + "%",
		normalized.Sum().StringFixed(2) + "%",
	})
	doc.Table(table)
	return doc.String()
}
