package launcher

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"

	"github.com/specialistvlad/segprep/internal/config"
)

// templateFunctions are the functions callable from command templates.
var templateFunctions = map[string]function.Function{
	"join":   stdlib.JoinFunc,
	"format": stdlib.FormatFunc,
	"upper":  stdlib.UpperFunc,
	"lower":  stdlib.LowerFunc,
}

// Template is a parsed argv template. Each argument is an HCL template
// string such as "experiment=${model}.yaml".
type Template struct {
	args []hcl.Expression
}

// ParseTemplate parses every argument of an argv template.
func ParseTemplate(argv []string) (*Template, error) {
	if len(argv) == 0 {
		return nil, fmt.Errorf("command template cannot be empty")
	}
	t := &Template{args: make([]hcl.Expression, 0, len(argv))}
	for i, arg := range argv {
		expr, diags := hclsyntax.ParseTemplate([]byte(arg), fmt.Sprintf("command[%d]", i), hcl.InitialPos)
		if diags.HasErrors() {
			return nil, fmt.Errorf("invalid command template argument %d %q: %w", i, arg, diags)
		}
		t.args = append(t.args, expr)
	}
	return t, nil
}

// Variables returns the values an experiment exposes to the template.
func Variables(e Experiment, p *config.Plan) map[string]cty.Value {
	tags := []cty.Value{
		cty.StringVal(e.Model),
		cty.StringVal(e.Dataset),
		cty.StringVal("finetune"),
		cty.StringVal(e.Prompt),
	}
	for _, tag := range p.Tags {
		tags = append(tags, cty.StringVal(tag))
	}

	return map[string]cty.Value{
		"model":           cty.StringVal(e.Model),
		"dataset":         cty.StringVal(e.Dataset),
		"prompt":          cty.StringVal(e.Prompt),
		"experiment_name": cty.StringVal(e.Name()),
		"batch_size":      cty.NumberIntVal(int64(e.Params.BatchSize)),
		"lr":              cty.StringVal(e.LearningRate()),
		"accelerator":     cty.StringVal(p.Trainer.Accelerator),
		"precision":       cty.StringVal(p.Trainer.Precision),
		"devices":         cty.StringVal(p.Trainer.Devices),
		"logger":          cty.StringVal(p.Trainer.Logger),
		"tags":            cty.ListVal(tags),
		"output_dir":      cty.StringVal(e.OutputDir()),
	}
}

// Render evaluates every argument against vars and returns the argv.
func (t *Template) Render(vars map[string]cty.Value) ([]string, error) {
	evalCtx := &hcl.EvalContext{
		Variables: vars,
		Functions: templateFunctions,
	}

	argv := make([]string, 0, len(t.args))
	for i, expr := range t.args {
		val, diags := expr.Value(evalCtx)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to render command argument %d: %w", i, diags)
		}
		str, err := convert.Convert(val, cty.String)
		if err != nil {
			return nil, fmt.Errorf("command argument %d is not a string: %w", i, err)
		}
		if str.IsNull() || !str.IsKnown() {
			return nil, fmt.Errorf("command argument %d rendered to no value", i)
		}
		argv = append(argv, str.AsString())
	}
	return argv, nil
}
