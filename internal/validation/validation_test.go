package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randel-bjorkquist/pluralsight/internal/result"
)

type widget struct {
	ID   int
	Name string
}

func (w widget) Validate(isCreate bool, messages *result.MessageCollection) *result.MessageCollection {
	return widgetRules.Append(w, isCreate, messages)
}

var widgetRules = NewRules(
	Require("name is required", func(w widget) bool { return strings.TrimSpace(w.Name) != "" }).WithCode("REQUIRED"),
	Require("id must be set on update", func(w widget) bool { return w.ID > 0 }).Only(OnUpdate),
	Require("id must not be set on create", func(w widget) bool { return w.ID == 0 }).Only(OnCreate),
	Advise("name is long", func(w widget) bool { return len(w.Name) <= 10 }),
)

func TestRulesScopes(t *testing.T) {
	tests := []struct {
		name     string
		w        widget
		isCreate bool
		wantOK   bool
		want     []string
	}{
		{"valid create", widget{Name: "a"}, true, true, nil},
		{"valid update", widget{ID: 3, Name: "a"}, false, true, nil},
		{"create with id", widget{ID: 3, Name: "a"}, true, false, []string{"id must not be set on create"}},
		{"update without id", widget{Name: "a"}, false, false, []string{"id must be set on update"}},
		{"missing name", widget{}, true, false, []string{"name is required"}},
		{"warning only", widget{Name: "a very long name"}, true, true, []string{"name is long"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Check(tt.w, tt.isCreate)
			assert.Equal(t, tt.wantOK, r.IsSuccess())
			if tt.want == nil {
				assert.Equal(t, 0, r.Messages().Len())
				return
			}
			assert.Equal(t, tt.want, r.Messages().Texts())
		})
	}
}

func TestRuleCode(t *testing.T) {
	r := widgetRules.Validate(widget{}, true)
	require.True(t, r.IsFailure())
	assert.Equal(t, "REQUIRED", r.Messages().Errors()[0].Code())
}

func TestRuleLiteralDefaultsToError(t *testing.T) {
	rules := NewRules(Rule[widget]{
		Message: "name is required",
		Valid:   func(w widget) bool { return w.Name != "" },
	})

	r := rules.Validate(widget{}, true)
	require.True(t, r.IsFailure())
	assert.Equal(t, result.TypeError, r.Messages().HighestSeverity())
	assert.False(t, r.Messages().HasNotFounds())
}

func TestValidateAppendsToExistingCollection(t *testing.T) {
	msgs := result.NewMessageCollection(result.Information("before"))
	out := widget{}.Validate(true, msgs)

	assert.Same(t, msgs, out)
	assert.Equal(t, []string{"before", "name is required"}, msgs.Texts())
}

func TestCustomCheck(t *testing.T) {
	rules := NewRules[widget]().Custom(func(w widget, isCreate bool, m *result.MessageCollection) {
		if strings.Contains(w.Name, " ") {
			m.AddError("name must be one word", result.WithCode("FORMAT"))
		}
	})

	assert.True(t, rules.Validate(widget{Name: "one"}, true).IsSuccess())
	assert.True(t, rules.Validate(widget{Name: "two words"}, true).IsFailure())
}

func TestFuncValidator(t *testing.T) {
	var v Validator[int] = Func[int](func(n int, _ bool) result.Result {
		if n < 0 {
			return result.Failure(result.NewMessageCollection(result.Error("negative")))
		}
		return result.Success(nil)
	})

	assert.True(t, v.Validate(1, true).IsSuccess())
	assert.True(t, v.Validate(-1, true).IsFailure())
}
