package rebalance

const (
	// FundsNode is the source of every buy and the sink of every sell.
	FundsNode = "Available Funds"
	// RemainingNode receives the funds the buys do not use.
	RemainingNode = "Remaining Funds"
)

// FlowKind tells what a flow stands for.
type FlowKind int

const (
	BuyFlow FlowKind = iota + 1
	SellFlow
	RemainingFlow
)

func (k FlowKind) String() string {
	switch k {
	case BuyFlow:
		return "buy"
	case SellFlow:
		return "sell"
	case RemainingFlow:
		return "remaining"
	}
	return "unknown"
}

// Flow is an edge of a FlowGraph, between node indexes.
type Flow struct {
	Source int
	Target int
	Value  float64
	Kind   FlowKind
}

// FlowGraph describes how funds move through a plan, as a source/sink graph
// suitable for sankey-like diagrams.
type FlowGraph struct {
	Nodes []string // Nodes[0] is always FundsNode
	Flows []Flow
}

// SummarizeFlows builds the flow graph of orders given the available funds.
//
// Buys flow from FundsNode to their ticker, sells flow from their ticker back
// to FundsNode. When buys use strictly less than funds, the difference flows
// to RemainingNode. It returns nil when there are no orders.
func SummarizeFlows(orders []Order, funds float64) *FlowGraph {
	if len(orders) == 0 {
		return nil
	}
	g := &FlowGraph{Nodes: []string{FundsNode}}
	index := make(map[string]int)
	node := func(name string) int {
		if i, ok := index[name]; ok {
			return i
		}
		g.Nodes = append(g.Nodes, name)
		index[name] = len(g.Nodes) - 1
		return index[name]
	}

	var buys float64
	for _, o := range orders {
		i := node(o.Ticker)
		switch o.Action {
		case Buy:
			g.Flows = append(g.Flows, Flow{Source: 0, Target: i, Value: o.Value, Kind: BuyFlow})
			buys += o.Value
		case Sell:
			g.Flows = append(g.Flows, Flow{Source: i, Target: 0, Value: o.Value, Kind: SellFlow})
		}
	}

	if buys < funds {
		g.Nodes = append(g.Nodes, RemainingNode)
		g.Flows = append(g.Flows, Flow{Source: 0, Target: len(g.Nodes) - 1, Value: funds - buys, Kind: RemainingFlow})
	}
	return g
}

// Label returns the name of node i.
func (g *FlowGraph) Label(i int) string { return g.Nodes[i] }

func (f Flow) MarshalJSON() ([]byte, error) {
	var o jsonObject
	return o.Field("source", f.Source).
		Field("target", f.Target).
		Cents("value", f.Value).
		Field("kind", f.Kind.String()).
		Bytes()
}

func (g *FlowGraph) MarshalJSON() ([]byte, error) {
	var o jsonObject
	return o.Field("nodes", g.Nodes).Field("flows", g.Flows).Bytes()
}
