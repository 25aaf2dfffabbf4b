package agent

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/etnz/srri"
	"github.com/etnz/srri/renderer"
)

const model = "gemini-2.5-pro"

// newFacilitator creates the expert in charge of the conversation, with
// every other expert available as a tool.
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

			The user is a fund compliance officer reviewing this week's SRRI reconciliation:
			the risk scores published in KIID documents compared against the scores observed
			in the internal monitoring history.

			Learn about the experts' skills from the Tools and ask them questions. They are
			at your service and keep context of your previous questions.

			Devise a plan of questions to ask each expert and come up with the best response
			to the user's request. Assume the user refers to funds by share-class name or
			ISIN; ask the Analyst to resolve them.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewAnalyst creates the expert that reads the reconciliation results.
func NewAnalyst(records []srri.MismatchRecord, diags *srri.Diagnostics) *Expert {
	lib := analystFunctions(records, diags)

	return &Expert{
		Name: "Analyst",
		Description: `This is the reconciliation Analyst. He has the full mismatch report and
		the diagnostics of the run that produced it. Ask him which share classes disagree,
		what the published and observed scores are, and why rows were excluded.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
				You are an analyst in charge of this week's SRRI reconciliation report.
				Use the available tools to read the mismatch set and the run diagnostics.
				A mismatch means the KIID document publishes a risk score different from
				the one observed over a stable 16-week monitoring window.
			`}}},
		},
		Library: NewLibrary(lib),
	}
}

func analystFunctions(records []srri.MismatchRecord, diags *srri.Diagnostics) []Function {
	listMismatches := &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        "list_mismatches",
			Description: "Return the full mismatch report as markdown.",
			Parameters:  &genai.Schema{Type: genai.TypeObject},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			return &genai.FunctionResponse{
				ID: id, Name: "list_mismatches",
				Response: map[string]any{"output": renderer.MismatchMarkdown(records)},
			}
		},
	}

	getMismatch := &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        "get_mismatch",
			Description: "Return one mismatch record by share-class identifier or ISIN.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"key": {
						Type:        genai.TypeString,
						Description: "The identifier or ISIN of the share class.",
					},
				},
				Required: []string{"key"},
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			fresp := &genai.FunctionResponse{ID: id, Name: "get_mismatch"}
			key, _ := args["key"].(string)
			for _, rec := range records {
				if string(rec.Identifier) == key || rec.ISIN == key {
					fresp.Response = map[string]any{"output": fmt.Sprintf("%+v", rec)}
					return fresp
				}
			}
			fresp.Response = map[string]any{"error": fmt.Sprintf("no mismatch for %q", key)}
			return fresp
		},
	}

	getDiagnostics := &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        "get_diagnostics",
			Description: "Return the diagnostics of the run: processed and excluded counts, and every row-level issue.",
			Parameters:  &genai.Schema{Type: genai.TypeObject},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			fresp := &genai.FunctionResponse{ID: id, Name: "get_diagnostics"}
			if diags == nil {
				fresp.Response = map[string]any{"output": "no diagnostics recorded"}
				return fresp
			}
			fresp.Response = map[string]any{"output": diags.String()}
			return fresp
		},
	}

	return []Function{listMismatches, getMismatch, getDiagnostics}
}
