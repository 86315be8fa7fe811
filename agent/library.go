package agent

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

// Library runs the function calls requested by a model.
type Library func(context.Context, *genai.FunctionCall) *genai.FunctionResponse

// Function is a tool a model can call.
type Function interface {
	Declaration() *genai.FunctionDeclaration
	Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse
}

// NewLibrary indexes functions by declared name. Unknown names, and tools
// that panic, are answered with an error response so that the model can
// recover.
func NewLibrary[T Function](functions []T) Library {
	byName := make(map[string]Function, len(functions))
	for _, f := range functions {
		byName[f.Declaration().Name] = f
	}
	return func(ctx context.Context, call *genai.FunctionCall) (resp *genai.FunctionResponse) {
		f, ok := byName[call.Name]
		if !ok {
			return errorResponse(call.ID, call.Name, fmt.Errorf("unknown function %s", call.Name))
		}
		defer func() {
			if r := recover(); r != nil {
				log.Error().Str("function", call.Name).Interface("panic", r).Msg("function call failed")
				resp = errorResponse(call.ID, call.Name, fmt.Errorf("function %s failed: %v", call.Name, r))
			}
		}()
		log.Debug().Str("function", call.Name).Interface("args", call.Args).Msg("function call")
		return f.Call(ctx, call.ID, call.Args)
	}
}

// NewDeclaration returns the declarations of functions, in order.
func NewDeclaration[T Function](functions []T) []*genai.FunctionDeclaration {
	decls := make([]*genai.FunctionDeclaration, len(functions))
	for i, f := range functions {
		decls[i] = f.Declaration()
	}
	return decls
}

// Func is a Function made of a declaration and a plain func.
type Func struct {
	Decl *genai.FunctionDeclaration
	Func func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse
}

func (f *Func) Declaration() *genai.FunctionDeclaration { return f.Decl }
func (f *Func) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	return f.Func(ctx, id, args)
}

func output(id, name, out string) *genai.FunctionResponse {
	return &genai.FunctionResponse{ID: id, Name: name, Response: map[string]any{"output": out}}
}

func errorResponse(id, name string, err error) *genai.FunctionResponse {
	return &genai.FunctionResponse{ID: id, Name: name, Response: map[string]any{"error": err.Error()}}
}
