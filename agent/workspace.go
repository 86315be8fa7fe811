package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/etnz/rebalance"
	"github.com/etnz/rebalance/docs"
	"github.com/etnz/rebalance/renderer"
	"google.golang.org/genai"
)

// Workspace is the portfolio and trade plan the assistant works on.
type Workspace struct {
	Holdings []rebalance.Holding
	Prices   rebalance.Prices
	Plan     *rebalance.TradePlan // may be nil
	Currency string
}

// Functions returns the tools exposing the workspace.
func (ws *Workspace) Functions() []Function {
	return []Function{ws.distribution(), ws.normalize(), ws.plan(), topic()}
}

func (ws *Workspace) distribution() *Func {
	const name = "Distribution"
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        name,
			Description: "Distribution lists the holdings of the portfolio, their value and their share of the total value.",
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown table of the holdings.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			dist, err := rebalance.ComputeDistribution(ws.Holdings, ws.Prices)
			if err != nil {
				return errorResponse(id, name, err)
			}
			return output(id, name, renderer.DistributionMarkdown(ws.Holdings, ws.Prices, dist, ws.Currency))
		},
	}
}

func (ws *Workspace) normalize() *Func {
	const name = "Normalize"
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        name,
			Description: "Normalize checks a target allocation and scales it to exactly 100% when it is within half a percentage point of it.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"target": targetSchema,
				},
				Required: []string{"target"},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown table of the requested and normalized percentages.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			target, err := parseTarget(args)
			if err != nil {
				return errorResponse(id, name, err)
			}
			normalized, adjusted, err := rebalance.Normalize(target)
			if err != nil {
				return errorResponse(id, name, err)
			}
			return output(id, name, renderer.NormalizationMarkdown(target, normalized, adjusted))
		},
	}
}

func (ws *Workspace) plan() *Func {
	const name = "Plan"
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: name,
			Description: `Plan computes the buy and sell orders that move the portfolio toward a target allocation
			once new funds are invested, and the projected portfolio. Defaults come from the user's trade plan.`,
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"funds": {
						Type:        genai.TypeNumber,
						Description: "New funds to invest, not negative. Defaults to the trade plan's available funds.",
					},
					"target": targetSchema,
				},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown report with the orders, the leftover funds and the projected allocation.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			var target *rebalance.Allocation
			var funds float64
			if ws.Plan != nil {
				target, funds = ws.Plan.TargetAllocation, ws.Plan.AvailableFunds
			}
			if _, ok := args["target"]; ok {
				var err error
				if target, err = parseTarget(args); err != nil {
					return errorResponse(id, name, err)
				}
			}
			if v, ok := args["funds"]; ok {
				f, ok := v.(float64)
				if !ok {
					return errorResponse(id, name, fmt.Errorf("argument 'funds' is not a number but %T", v))
				}
				funds = f
			}
			if target == nil {
				return errorResponse(id, name, fmt.Errorf("no target allocation, give one in argument 'target'"))
			}

			r, err := rebalance.NewReport(ws.Holdings, ws.Prices, target, funds, ws.Currency)
			if err != nil {
				return errorResponse(id, name, err)
			}
			return output(id, name, renderer.PlanMarkdown(r))
		},
	}
}

func topic() *Func {
	const name = "Topic"
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        name,
			Description: "Topic returns the user manual about a topic. Call it with 'readme' to list the topics.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"topic": {Type: genai.TypeString, Description: "The topic name."},
				},
				Required: []string{"topic"},
			},
			Response: &genai.Schema{Type: genai.TypeString, Description: "The markdown documentation."},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			t, ok := args["topic"].(string)
			if !ok {
				return errorResponse(id, name, fmt.Errorf("argument 'topic' is not a string but %T", args["topic"]))
			}
			doc, err := docs.GetTopic(t)
			if err != nil {
				return errorResponse(id, name, err)
			}
			return output(id, name, doc)
		},
	}
}

var targetSchema = &genai.Schema{
	Type:        genai.TypeString,
	Description: `Target allocation as comma separated <ticker>=<percent> pairs, in order, e.g. "AAPL=60,VWCE=40".`,
}

func parseTarget(args map[string]any) (*rebalance.Allocation, error) {
	s, ok := args["target"].(string)
	if !ok {
		return nil, fmt.Errorf("argument 'target' is not a string but %T", args["target"])
	}
	return rebalance.ParseAllocation(strings.Split(s, ","))
}
