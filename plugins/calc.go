package plugins

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/gadling/hob"
	"github.com/gadling/hob/actions"
	"github.com/gadling/hob/config"
	"github.com/gadling/hob/plugin"
)

const (
	// CalcPluginName holds identifying name for the calc plugin
	CalcPluginName = "calc"

	calcBinaryKey  = "binary"  // Calculator binary, string value (overridden by HOB_CALC)
	calcTimeoutKey = "timeout" // Time allowed for an evaluation, duration value

	defaultCalcBinary  = "hpnc"
	defaultCalcTimeout = 5 * time.Second
)

var calcHelp = strings.Join([]string{
	"`!calc EXPR`",
	"  - `EXPR` - RPN-style expression to evaluate",
	"  The expression is evaluated one token at a time.",
	"  The values of all registers are displayed after evaluating each token.",
	"  Calculator backend may be customized using the `$HOB_CALC` env variable.",
	"  Example: `!calc 72 32 - 5 9 / *` => `... 22.22`",
}, "\n")

// Calc holds the plugin data for the calc plugin
type Calc struct {
	*hob.Plugin
	binary  string
	timeout time.Duration
}

// NewCalc creates a new instance of the calc plugin running expressions through the
// configured calculator binary
func NewCalc(c *config.PluginConfig) (calc *Calc, err error) {
	c.SetDefault(calcBinaryKey, defaultCalcBinary)
	c.SetDefault(calcTimeoutKey, defaultCalcTimeout)

	calc = new(Calc)
	calc.binary = c.GetString(calcBinaryKey)
	if calc.timeout, err = c.GetDurationE(calcTimeoutKey); err != nil {
		return nil, err
	}

	calc.Plugin = plugin.New(CalcPluginName).
		WithCommand(actions.NewCommand("calc").
			WithUsage("!calc EXPR").
			WithDescription("Evaluates the RPN-style expression `EXPR` one token at a time, displaying all registers after each token").
			WithExamples("`!calc 72 32 - 5 9 / *` => `... 22.22`").
			WithHandler(calc.evaluate).
			Build()).
		Build()

	return calc, nil
}

func (calc *Calc) evaluate(ctx context.Context, c *hob.BangCommand) (*hob.Answer, error) {
	expr, ok := c.Rest.Get()
	if !ok {
		return &hob.Answer{Text: calcHelp}, nil
	}

	stdout, err := calc.run(ctx, expr)
	if err != nil {
		calc.Logger.Printf("Error evaluating [%s] with [%s]: %v", expr, calc.binary, err)
		return &hob.Answer{Text: fmt.Sprintf("My calculator (`%s`) is borken!", calc.binary)}, nil
	}

	return &hob.Answer{Text: "```" + stdout + "```"}, nil
}

// run runs the calculator binary with expr as its single argument and returns its output
func (calc *Calc) run(ctx context.Context, expr string) (stdout string, err error) {
	ctx, cancel := context.WithTimeout(ctx, calc.timeout)
	defer cancel()

	var out, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, calc.binary, expr)
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err = cmd.Run(); err != nil {
		return "", errors.Wrapf(err, "calculator failed with [%s]", strings.TrimSpace(stderr.String()))
	}

	if stderr.Len() > 0 {
		calc.Logger.Printf("%s stderr: %s", calc.binary, stderr.String())
	}

	return out.String(), nil
}
