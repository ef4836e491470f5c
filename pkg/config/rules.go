package config

import (
	"strings"

	"github.com/Sumatoshi-tech/codemend/pkg/refactor"
	"github.com/Sumatoshi-tech/codemend/pkg/rules"
)

// RulesConfig enables or disables each catalog rule. Keys are rule ids with
// dashes replaced by underscores.
type RulesConfig struct {
	SimplifyNestedUsing         bool `mapstructure:"simplify_nested_using"`
	IntroduceLocalFromStatement bool `mapstructure:"introduce_local_from_statement"`
	MarkClassAsStatic           bool `mapstructure:"mark_class_as_static"`
	DuplicateArgument           bool `mapstructure:"duplicate_argument"`
	AddCastExpression           bool `mapstructure:"add_cast_expression"`
	ExpandAssignmentExpression  bool `mapstructure:"expand_assignment_expression"`
}

// RuleKey returns the configuration key of a rule id.
func RuleKey(id string) string {
	return strings.ReplaceAll(id, "-", "_")
}

func defaultRules() map[string]bool {
	out := make(map[string]bool, len(rules.IDs()))
	for _, id := range rules.IDs() {
		out[RuleKey(id)] = true
	}

	return out
}

// Enablement maps each rule id to its switch.
func (r RulesConfig) Enablement() map[string]bool {
	return map[string]bool{
		rules.SimplifyNestedUsingID:         r.SimplifyNestedUsing,
		rules.IntroduceLocalFromStatementID: r.IntroduceLocalFromStatement,
		rules.MarkClassAsStaticID:           r.MarkClassAsStatic,
		rules.DuplicateArgumentID:           r.DuplicateArgument,
		rules.AddCastExpressionID:           r.AddCastExpression,
		rules.ExpandAssignmentExpressionID:  r.ExpandAssignmentExpression,
	}
}

// Settings converts the switches to engine settings.
func (r RulesConfig) Settings() refactor.Settings {
	return refactor.SettingsFromEnablement(r.Enablement())
}
