package cli

import (
	"context"
	"fmt"
	"text/template"
)

var ruleDetailsTmpl = template.Must(template.New("rule").Parse(ruleDetailsTemplate))

func (c *Cli) runRule(ctx context.Context, ruleKey string) error {
	details, err := c.engine.RuleDetails(ctx, ruleKey)
	if err != nil {
		return err
	}
	if err := ruleDetailsTmpl.Execute(c.io, details); err != nil {
		return fmt.Errorf("failed to render rule: %w", err)
	}
	return nil
}
