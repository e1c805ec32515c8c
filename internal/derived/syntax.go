package derived

import (
	"fmt"
	"math"
	"strings"

	"github.com/Knetic/govaluate"
)

// expressionFunctions are the functions a derived column expression may call.
var expressionFunctions = map[string]govaluate.ExpressionFunction{
	"abs": func(args ...interface{}) (interface{}, error) {
		x, err := floatArgs("abs", 1, args)
		if err != nil {
			return nil, err
		}
		return math.Abs(x[0]), nil
	},
	"min": func(args ...interface{}) (interface{}, error) {
		x, err := floatArgs("min", 2, args)
		if err != nil {
			return nil, err
		}
		return math.Min(x[0], x[1]), nil
	},
	"max": func(args ...interface{}) (interface{}, error) {
		x, err := floatArgs("max", 2, args)
		if err != nil {
			return nil, err
		}
		return math.Max(x[0], x[1]), nil
	},
	"round": func(args ...interface{}) (interface{}, error) {
		x, err := floatArgs("round", 1, args)
		if err != nil {
			return nil, err
		}
		return math.Round(x[0]), nil
	},
}

func floatArgs(fn string, n int, args []interface{}) ([]float64, error) {
	if len(args) != n {
		return nil, fmt.Errorf("%s expects %d argument(s), got %d", fn, n, len(args))
	}
	out := make([]float64, n)
	for i, a := range args {
		f, ok := a.(float64)
		if !ok {
			return nil, fmt.Errorf("%s: argument %d is not a number", fn, i+1)
		}
		out[i] = f
	}
	return out, nil
}

// arithmeticOperators are the binary operators an expression may use.
var arithmeticOperators = map[string]bool{
	"+": true, "-": true, "*": true, "/": true, "%": true, "**": true,
}

// CheckSyntax parses expr with every $name reference bound as a variable and
// checks that it is plain arithmetic over those references, numbers and the
// whitelisted functions. It does not evaluate anything.
func CheckSyntax(expr string) (err error) {
	if strings.TrimSpace(expr) == "" {
		return nil
	}
	if i := strings.IndexAny(expr, "[]"); i >= 0 {
		return fmt.Errorf("invalid expression: unexpected %q at position %d", expr[i], i)
	}

	refs := make(map[string]bool)
	bound := rewrite(expr, func(name string) string {
		refs[name] = true
		return "[" + name + "]"
	})

	// govaluate's lexer indexes past the end of some malformed input.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("invalid expression: %v", r)
		}
	}()

	parsed, err := govaluate.NewEvaluableExpressionWithFunctions(bound, expressionFunctions)
	if err != nil {
		return fmt.Errorf("invalid expression: %w", err)
	}
	return checkTokens(parsed.Tokens(), refs)
}

// checkTokens rejects every token kind outside arithmetic, variables that did
// not come from a $reference and empty parentheses.
func checkTokens(tokens []govaluate.ExpressionToken, refs map[string]bool) error {
	for i, tok := range tokens {
		switch tok.Kind {
		case govaluate.NUMERIC, govaluate.FUNCTION, govaluate.SEPARATOR, govaluate.CLAUSE_CLOSE:
		case govaluate.CLAUSE:
			if i+1 < len(tokens) && tokens[i+1].Kind == govaluate.CLAUSE_CLOSE {
				return fmt.Errorf("invalid expression: empty parentheses")
			}
		case govaluate.VARIABLE:
			name, _ := tok.Value.(string)
			if !refs[name] {
				return fmt.Errorf("invalid expression: %q is not a $parameter reference", name)
			}
		case govaluate.MODIFIER:
			if op, _ := tok.Value.(string); !arithmeticOperators[op] {
				return fmt.Errorf("invalid expression: operator %q is not arithmetic", op)
			}
		case govaluate.PREFIX:
			if op, _ := tok.Value.(string); op != "-" {
				return fmt.Errorf("invalid expression: operator %q is not arithmetic", op)
			}
		default:
			return fmt.Errorf("invalid expression: %s %v is not allowed", strings.ToLower(tok.Kind.String()), tok.Value)
		}
	}
	return nil
}
