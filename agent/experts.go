package agent

import (
	"google.golang.org/genai"
)

const model = "gemini-2.5-pro"

// creates the facilitator
func newFacilitator(experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			As a facilitator you are in charge of the conversation and solving the user's request.

			Learn about the expert's skill that you can get from the Tools to ask them questions.
			They are at your service and 100% dedicated to you, they keep context of your previous questions.

			The user is here to rebalance their portfolio: invest new funds, move toward a
			target allocation, understand the orders they are about to pass.
			Never pass an order yourself, only explain them.

			Devise a plan of questions to ask to each experts and come up with the best response to the user's request.

			The user will assume that you know about their tickers, ask the Analyst about the portfolio first.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewTrader returns an expert grounded on Google Search, for news about the
// tickers.
func NewTrader() *Expert {
	return &Expert{
		Name: "Trader",
		Description: `This is an expert trader,
		Very well aware of all the financial products and institutions,
		about the latest news about the different funds or companies.
		Ask the Trader whenever you need recent or grounding information.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are a expert in Trading, you can search and find about anything related to
			financial institutions, companies, markets, funds etc. You Leverage Google Search to
			ground your assertions in a solid truth.
			You can get the latests news too, and you know how to relate them to the user's request.
				`}}},
		},
	}
}

// NewAnalyst returns the expert that computes distributions and rebalancing
// plans of the workspace.
func NewAnalyst(ws *Workspace) *Expert {
	lib := ws.Functions()
	return &Expert{
		Name: "Analyst",
		Description: `This is the Analyst. They know the user's portfolio, its prices, and the trade plan.
		They compute the current distribution, normalize target allocations and compute the orders
		that rebalance the portfolio for a given amount of new funds.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
				You are a portfolio analyst in charge of the user's rebalancing.
				Use the available tools to get information about the user's portfolio:
				  - the current distribution of the holdings
				  - the normalization of a target allocation
				  - the orders of a rebalancing plan, and the projected portfolio
				Report figures exactly as the tools return them, they are computed with the right rounding.
			`}}},
		},
		Library: NewLibrary(lib),
	}
}
