package commands

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/expr-lang/expr"

	"github.com/hupe1980/chainmesh/tool"
)

// demoTools returns the tools the agent command exposes.
func demoTools() ([]tool.Tool, error) {
	calc, err := tool.NewFunctionTool(calculator, func(o *tool.Options) {
		o.Description = "Evaluates an arithmetic expression such as 12 * (3 + 4) or 2 ** 10."
	})
	if err != nil {
		return nil, err
	}
	clk, err := tool.NewFunctionTool(clock, func(o *tool.Options) {
		o.Description = "Returns the current time. Input is an optional IANA time zone such as Europe/Paris."
	})
	if err != nil {
		return nil, err
	}
	wc, err := tool.NewFunctionTool(wordCount, func(o *tool.Options) {
		o.Description = "Counts the words in the input text."
	})
	if err != nil {
		return nil, err
	}
	ec, err := tool.NewFunctionTool(echo, func(o *tool.Options) {
		o.Description = "Returns its input verbatim."
	})
	if err != nil {
		return nil, err
	}
	conv, err := tool.NewJSONTool(convertTemperature, func(o *tool.Options) {
		o.Name = "convert_temperature"
		o.Description = `Converts a temperature. Input is JSON: {"value": 20, "to": "F"} where "to" is C or F.`
	})
	if err != nil {
		return nil, err
	}
	return []tool.Tool{calc, clk, wc, ec, conv}, nil
}

// now is replaced in tests.
var now = time.Now

func clock(_ context.Context, input string) (string, error) {
	zone := strings.TrimSpace(input)
	t := now()
	if zone != "" {
		loc, err := time.LoadLocation(zone)
		if err != nil {
			return "", fmt.Errorf("unknown time zone %q", zone)
		}
		t = t.In(loc)
	}
	return t.Format(time.RFC3339), nil
}

func wordCount(_ context.Context, input string) (string, error) {
	return strconv.Itoa(len(strings.Fields(input))), nil
}

func echo(_ context.Context, input string) (string, error) { return input, nil }

type temperatureArgs struct {
	Value float64 `json:"value"`
	To    string  `json:"to"`
}

func convertTemperature(_ context.Context, args temperatureArgs) (string, error) {
	switch strings.ToUpper(args.To) {
	case "F":
		return strconv.FormatFloat(args.Value*9/5+32, 'f', -1, 64) + " F", nil
	case "C":
		return strconv.FormatFloat((args.Value-32)*5/9, 'f', -1, 64) + " C", nil
	default:
		return "", fmt.Errorf("unknown unit %q, use C or F", args.To)
	}
}

var errExpression = errors.New("invalid expression")

func calculator(_ context.Context, input string) (string, error) {
	src := strings.TrimSpace(input)
	if src == "" {
		return "", fmt.Errorf("%w: empty input", errExpression)
	}
	out, err := expr.Eval(src, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errExpression, err)
	}
	switch v := out.(type) {
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return "", errors.New("division by zero")
		}
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("%w: result %v is not a number", errExpression, out)
	}
}
