package renderer

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/etnz/rebalance"
	md "github.com/nao1215/markdown"
)

// PlanMarkdown renders a full rebalancing report: the orders, the leftover
// advisory, the projected allocation and the flow of funds.
func PlanMarkdown(r *rebalance.Report) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	m := func(v float64) string { return rebalance.M(v, r.Currency).String() }
	cash := rebalance.M(r.Plan.Funds, r.Currency).
		Add(rebalance.M(r.Plan.SellTotal(), r.Currency)).
		Sub(rebalance.M(r.Plan.BuyTotal(), r.Currency))

	doc.H1("Rebalancing Plan")
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{md.Bold("Future Value"), md.Bold(m(r.Plan.FutureTotal))},
		Rows: [][]string{
			{"Current Value", m(r.Plan.CurrentTotal)},
			{"Available Funds", m(r.Plan.Funds)},
			{"Cash After Orders", cash.String()},
			{"Leftover", rebalance.M(r.Plan.Leftover, r.Currency).SignedString()},
			{"Deviation Before", fmt.Sprintf("%.2f", r.CurrentDeviation())},
			{"Deviation After", fmt.Sprintf("%.2f", r.ProjectedDeviation())},
		},
	})

	if r.Adjusted {
		doc.PlainText(fmt.Sprintf("Note: the target allocation did not sum to 100%% and was normalized (%s).", formatTarget(r.Target)))
	}

	doc.H2("Orders")
	if len(r.Plan.Orders) == 0 {
		doc.PlainText("The portfolio is already balanced, no order is needed.")
	} else {
		table := md.TableSet{
			Alignment: []md.TableAlignment{md.AlignRight, md.AlignLeft, md.AlignLeft, md.AlignRight, md.AlignRight},
			Header:    []string{"#", "Action", "Ticker", "Quantity", "Value"},
		}
		for i, o := range r.Plan.Orders {
			table.Rows = append(table.Rows, []string{
				strconv.Itoa(i + 1),
				o.Action.String(),
				o.Ticker,
				o.Quantity.Format(o.WholeUnitsOnly),
				m(o.Value),
			})
		}
		doc.Table(table)
		doc.PlainText(fmt.Sprintf("Total bought: %s, total sold: %s.", m(r.Plan.BuyTotal()), m(r.Plan.SellTotal())))
	}
	if advisory := r.Plan.Advisory(r.Currency); advisory != "" {
		doc.PlainText(md.Bold(advisory))
	}

	doc.H2("Projected Allocation")
	doc.Table(projectionTable(r))

	if r.Flows != nil {
		doc.H2("Flow of Funds")
		doc.PlainText(FlowsMarkdown(r.Flows, r.Currency))
	}
	return doc.String()
}

func formatTarget(a *rebalance.Allocation) string {
	var buf bytes.Buffer
	for t, p := range a.All() {
		if buf.Len() > 0 {
			buf.WriteString(", ")
		}
		fmt.Fprintf(&buf, "%s %s", t, p)
	}
	return buf.String()
}

// projectionTable lists every ticker of the target, then the held tickers
// out of the target.
func projectionTable(r *rebalance.Report) md.TableSet {
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight, md.AlignRight},
		Header:    []string{"Ticker", "Target", "Current", "Projected", "Gap"},
	}
	row := func(t string) []string {
		target := share(r.Target, t)
		projected := share(r.Projection, t)
		gap := "-"
		if !projected.Equal(target) {
			gap = (projected - target).SignedString()
		}
		return []string{t, target.String(), share(r.Current, t).String(), projected.String(), gap}
	}
	seen := make(map[string]bool)
	for t := range r.Target.All() {
		seen[t] = true
		table.Rows = append(table.Rows, row(t))
	}
	for _, t := range rebalance.Tickers(r.Holdings, r.Projection) {
		if !seen[t] {
			seen[t] = true
			table.Rows = append(table.Rows, row(t))
		}
	}
	return table
}
