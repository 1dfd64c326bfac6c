package configscan

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/specialistvlad/mlgridgo/internal/transform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noop(ctx context.Context, args transform.Args) (any, error) { return nil, nil }

// fakeSource lets tests hand the scanner entries a transform.Module would reject.
type fakeSource struct {
	name string
	fns  []*transform.Function
}

func (f *fakeSource) Name() string { return f.name }
func (f *fakeSource) Functions() []*transform.Function { return f.fns }

func TestFindConfigurations_NoConditionalFunctions(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	m := transform.NewModule("plain",
		transform.New("dataset", noop, transform.Inputs("data_path")),
		transform.New("accuracy", noop),
	)

	// --- Act ---
	res, err := FindConfigurations(context.Background(), m)

	// --- Assert ---
	require.NoError(t, err)
	assert.Empty(t, res.Configurations)
	assert.Empty(t, res.ConfigValues)
}

func TestFindConfigurations_SinglePredicate(t *testing.T) {
	t.Parallel()

	m := transform.NewModule("training",
		transform.New("trained_model", noop, transform.WhenIn(transform.Bind{"mode": []any{"training"}})),
	)

	res, err := FindConfigurations(context.Background(), m)

	require.NoError(t, err)
	assert.Equal(t, map[string]struct{}{"mode": {}}, res.Configurations)
	assert.Equal(t, map[string][]any{"mode": {[]any{"training"}}}, res.ConfigValues)
}

func TestFindConfigurations_SameKeyKeepsDeclarationOrder(t *testing.T) {
	t.Parallel()

	m := transform.NewModule("predictions",
		transform.New("X__training", noop, transform.WhenIn(transform.Bind{"mode": []any{"training"}})),
		transform.New("X__inference", noop, transform.WhenIn(transform.Bind{"mode": []any{"inference"}})),
	)

	res, err := FindConfigurations(context.Background(), m)

	require.NoError(t, err)
	assert.Equal(t, []string{"mode"}, res.Keys())
	assert.Equal(t, []any{[]any{"training"}, []any{"inference"}}, res.ConfigValues["mode"])
}

func TestFindConfigurations_RepeatedValuesAreKept(t *testing.T) {
	t.Parallel()

	m := transform.NewModule("eval",
		transform.New("a", noop, transform.WhenIn(transform.Bind{"mode": []any{"training"}})),
		transform.New("b", noop, transform.WhenIn(transform.Bind{"mode": []any{"training"}})),
	)

	res, err := FindConfigurations(context.Background(), m)

	require.NoError(t, err)
	assert.Len(t, res.Configurations, 1)
	assert.Equal(t, []any{[]any{"training"}, []any{"training"}}, res.ConfigValues["mode"])
}

func TestFindConfigurations_DistinctKeysDoNotInterfere(t *testing.T) {
	t.Parallel()

	m := transform.NewModule("mixed",
		transform.New("trained_model__v1", noop,
			transform.WhenIn(transform.Bind{"mode": []any{"training"}}),
			transform.When(transform.Bind{"model_type": "v1"}),
		),
		transform.New("trained_model__v2", noop, transform.When(transform.Bind{"model_type": "v2"})),
	)

	res, err := FindConfigurations(context.Background(), m)

	require.NoError(t, err)
	assert.Equal(t, []string{"mode", "model_type"}, res.Keys())
	assert.Equal(t, []any{[]any{"training"}}, res.ConfigValues["mode"])
	assert.Equal(t, []any{"v1", "v2"}, res.ConfigValues["model_type"])
}

func TestFindConfigurations_MultiKeyConditionRecordsEveryBinding(t *testing.T) {
	t.Parallel()

	m := transform.NewModule("m",
		transform.New("f", noop, transform.When(transform.Bind{"model_type": "v1", "mode": "training"})),
	)

	res, err := FindConfigurations(context.Background(), m)

	require.NoError(t, err)
	assert.Equal(t, []string{"mode", "model_type"}, res.Keys())
	assert.Equal(t, []any{"training"}, res.ConfigValues["mode"])
	assert.Equal(t, []any{"v1"}, res.ConfigValues["model_type"])
}

func TestFindConfigurations_Idempotent(t *testing.T) {
	t.Parallel()

	m := transform.NewModule("m",
		transform.New("a", noop, transform.WhenIn(transform.Bind{"mode": []any{"training", "inference"}})),
		transform.New("b", noop, transform.WhenNot(transform.Bind{"mode": "inference"})),
	)
	before := m.Functions()

	first, err := FindConfigurations(context.Background(), m)
	require.NoError(t, err)
	second, err := FindConfigurations(context.Background(), m)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, before, m.Functions(), "the module must not be modified")
	assert.Len(t, second.ConfigValues["mode"], 2)
}

func TestFindConfigurations_ResultDoesNotAliasModule(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	accepted := []any{"training"}
	fn := transform.New("trained_model", noop, transform.WhenIn(transform.Bind{"mode": accepted}))
	m := transform.NewModule("training", fn)

	res, err := FindConfigurations(context.Background(), m)
	require.NoError(t, err)

	// --- Act ---
	res.ConfigValues["mode"][0].([]any)[0] = "inference"
	accepted[0] = "other"

	// --- Assert ---
	assert.True(t, fn.Active(map[string]any{"mode": "training"}))
	assert.False(t, fn.Active(map[string]any{"mode": "inference"}))

	again, err := FindConfigurations(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, map[string][]any{"mode": {[]any{"training"}}}, again.ConfigValues)
}

func TestFindConfigurations_ConcurrentCallsAreIndependent(t *testing.T) {
	t.Parallel()

	m := transform.NewModule("m",
		transform.New("a", noop, transform.WhenIn(transform.Bind{"mode": []any{"training"}})),
	)

	var wg sync.WaitGroup
	results := make([]*Result, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := FindConfigurations(context.Background(), m)
			if err == nil {
				results[i] = res
			}
		}(i)
	}
	wg.Wait()

	for _, res := range results {
		require.NotNil(t, res)
		assert.Equal(t, []any{[]any{"training"}}, res.ConfigValues["mode"])
	}
}

func TestFindConfigurations_CustomPredicateIsMalformed(t *testing.T) {
	t.Parallel()

	m := transform.NewModule("custom",
		transform.New("ok", noop, transform.WhenIn(transform.Bind{"mode": []any{"training"}})),
		transform.New("opaque", noop, transform.WhenFunc([]string{"mode"}, func(map[string]any) bool { return true })),
	)

	res, err := FindConfigurations(context.Background(), m)

	require.Error(t, err)
	assert.Nil(t, res, "no partial result on failure")
	var malformed *MalformedMetadataError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, "custom", malformed.Module)
	assert.Equal(t, "opaque", malformed.Function)
	assert.Equal(t, 0, malformed.Condition)
	assert.Contains(t, err.Error(), "exposes no bound-value scope")
}

func TestFindConfigurations_ZeroValueConditionIsMalformed(t *testing.T) {
	t.Parallel()

	src := &fakeSource{name: "raw", fns: []*transform.Function{
		{Name: "f", Conditions: []*transform.Condition{{}}},
	}}

	_, err := FindConfigurations(context.Background(), src)

	var malformed *MalformedMetadataError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "f", malformed.Function)
}

func TestFindConfigurations_NilConditionIsMalformed(t *testing.T) {
	t.Parallel()

	src := &fakeSource{name: "raw", fns: []*transform.Function{
		{Name: "f", Conditions: []*transform.Condition{nil}},
	}}

	_, err := FindConfigurations(context.Background(), src)

	var malformed *MalformedMetadataError
	require.ErrorAs(t, err, &malformed)
	assert.Contains(t, err.Error(), "condition is nil")
}

func TestFindConfigurations_NotAModule(t *testing.T) {
	t.Parallel()

	var typedNil *transform.Module
	cases := []struct {
		name string
		src  Source
	}{
		{"nil interface", nil},
		{"typed nil module", typedNil},
		{"nil function entry", &fakeSource{name: "m", fns: []*transform.Function{nil}}},
		{"unnamed function", &fakeSource{name: "m", fns: []*transform.Function{{Fn: noop}}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := FindConfigurations(context.Background(), tc.src)
			var notModule *NotAModuleError
			require.ErrorAs(t, err, &notModule)
		})
	}
}

func TestFindAll_MergesInOrder(t *testing.T) {
	t.Parallel()

	a := transform.NewModule("a", transform.New("f", noop, transform.WhenIn(transform.Bind{"mode": []any{"training"}})))
	b := transform.NewModule("b", transform.New("g", noop, transform.WhenIn(transform.Bind{"mode": []any{"inference"}})))

	res, err := FindAll(context.Background(), a, b)

	require.NoError(t, err)
	assert.Equal(t, []any{[]any{"training"}, []any{"inference"}}, res.ConfigValues["mode"])

	_, err = FindAll(context.Background(), a, nil)
	var notModule *NotAModuleError
	assert.ErrorAs(t, err, &notModule)
}

func TestFprint(t *testing.T) {
	t.Parallel()

	res := &Result{
		Configurations: map[string]struct{}{"mode": {}, "model_type": {}},
		ConfigValues: map[string][]any{
			"mode":       {[]any{"training"}, []any{"training", "inference"}},
			"model_type": {"v1"},
		},
	}
	out := &bytes.Buffer{}

	require.NoError(t, Fprint(out, res, false))

	want := "configurations: {mode, model_type}\n" +
		"config_values:\n" +
		"  mode: [[\"training\"], [\"training\", \"inference\"]]\n" +
		"  model_type: [\"v1\"]\n"
	assert.Equal(t, want, out.String())
}
