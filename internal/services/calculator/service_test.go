package calculator_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"calc/internal/domain"
	"calc/internal/expression"
	"calc/internal/services/calculator"
	"calc/internal/services/history"
	"calc/internal/store"
)

// countingEngine records how often it is called and what it was given.
type countingEngine struct {
	calls int
	last  string
	value float64
	err   error
}

func (e *countingEngine) Eval(expr string, _ map[string]float64) (float64, error) {
	e.calls++
	e.last = expr
	return e.value, e.err
}

func newService(t *testing.T, engine domain.Engine) (*calculator.Service, *history.Service) {
	t.Helper()
	log := zaptest.NewLogger(t)
	hist := history.New(store.NewMemoryKV(), log)
	return calculator.New(engine, hist, log), hist
}

func press(ctx context.Context, svc *calculator.Service, keys ...string) domain.Display {
	var d domain.Display
	for _, k := range keys {
		d = svc.Press(ctx, k)
	}
	return d
}

func TestEvaluate_RecordsSuccess(t *testing.T) {
	ctx := context.Background()
	svc, hist := newService(t, expression.NewEngine())

	d := press(ctx, svc, "7", "+", "3", "=")
	assert.Equal(t, domain.Display{Expression: "10", Result: "10"}, d)

	entries := hist.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "7+3", entries[0].Expression)
	assert.Equal(t, "10", entries[0].Result)
}

func TestEvaluate_DivisionByZeroIsInfinity(t *testing.T) {
	ctx := context.Background()
	svc, hist := newService(t, expression.NewEngine())

	d := press(ctx, svc, "5", "÷", "0", "=")
	assert.Equal(t, "Infinity", d.Result)

	entries := hist.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "5/0", entries[0].Expression)
	assert.Equal(t, "Infinity", entries[0].Result)
}

func TestEvaluate_EmptySkipsEngine(t *testing.T) {
	ctx := context.Background()
	engine := &countingEngine{value: 1}
	svc, hist := newService(t, engine)

	d := svc.Evaluate(ctx)
	assert.Equal(t, domain.Display{}, d)
	assert.Zero(t, engine.calls)
	assert.Empty(t, hist.Entries())
}

func TestEvaluate_EmptyClearsPreviousResult(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, expression.NewEngine())

	press(ctx, svc, "7", "+", "3", "=")
	d := press(ctx, svc, "DEL", "DEL", "=")
	assert.Equal(t, domain.Display{}, d)
}

func TestEvaluate_FailureShowsError(t *testing.T) {
	ctx := context.Background()
	svc, hist := newService(t, expression.NewEngine())

	d := press(ctx, svc, "7", "+", "(", "=")
	assert.True(t, d.Failed())
	assert.Equal(t, "7+(", d.Expression, "accumulator is left as typed")
	assert.Empty(t, hist.Entries())
}

func TestEvaluate_NormalizesBeforeEngine(t *testing.T) {
	ctx := context.Background()
	engine := &countingEngine{value: 6}
	svc, _ := newService(t, engine)

	press(ctx, svc, "2", "×", "3", "=")
	assert.Equal(t, 1, engine.calls)
	assert.Equal(t, "2*3", engine.last)
}

func TestEvaluate_EngineErrorIsNotRecorded(t *testing.T) {
	ctx := context.Background()
	engine := &countingEngine{err: errors.New("boom")}
	svc, hist := newService(t, engine)

	d := press(ctx, svc, "1", "=")
	assert.Equal(t, domain.ErrorResult, d.Result)
	assert.Empty(t, hist.Entries())
}

func TestPress_ResultChains(t *testing.T) {
	ctx := context.Background()
	svc, hist := newService(t, expression.NewEngine())

	press(ctx, svc, "7", "+", "3", "=")
	d := press(ctx, svc, "+", "2", "=")
	assert.Equal(t, "12", d.Result)

	entries := hist.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "10+2", entries[0].Expression)
}

func TestPress_RemainderChainsFromFloatResult(t *testing.T) {
	ctx := context.Background()
	svc, hist := newService(t, expression.NewEngine())

	assert.Equal(t, "3.5", press(ctx, svc, "7", "÷", "2", "=").Result)
	d := press(ctx, svc, "%", "2", "=")
	assert.Equal(t, domain.Display{Expression: "1.5", Result: "1.5"}, d)
	assert.Equal(t, "3.5%2", hist.Entries()[0].Expression)

	d = press(ctx, svc, "C", "π", "%", "1", "=")
	assert.False(t, d.Failed())
	assert.Equal(t, "0.14159265358979312", d.Result)
}

func TestPress_Guard(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, expression.NewEngine())

	assert.Equal(t, "", press(ctx, svc, "+").Expression)
	assert.Equal(t, "7+", press(ctx, svc, "7", "+", "×").Expression)
}

func TestPress_ClearAndDelete(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, expression.NewEngine())

	assert.Equal(t, "12", press(ctx, svc, "1", "2", "3", "DEL").Expression)

	press(ctx, svc, "=")
	d := svc.Press(ctx, calculator.KeyClear)
	assert.Equal(t, domain.Display{}, d)
}

func TestPress_PiInsertsLiteral(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, expression.NewEngine())

	d := press(ctx, svc, "π")
	assert.Equal(t, "3.141592653589793", d.Expression)
}

func TestEvaluateString(t *testing.T) {
	ctx := context.Background()
	svc, hist := newService(t, expression.NewEngine())

	got, err := svc.EvaluateString(ctx, " 2 × π ", true)
	require.NoError(t, err)
	assert.Equal(t, "6.283185307179586", got)
	require.Len(t, hist.Entries(), 1)
	assert.Equal(t, "2 × π", hist.Entries()[0].Expression)

	got, err = svc.EvaluateString(ctx, "1+1", false)
	require.NoError(t, err)
	assert.Equal(t, "2", got)
	assert.Len(t, hist.Entries(), 1)

	got, err = svc.EvaluateString(ctx, "1+", true)
	assert.ErrorIs(t, err, expression.ErrEvaluate)
	assert.Equal(t, domain.ErrorResult, got)

	assert.Equal(t, domain.Display{}, svc.Display(), "one-shot evaluation leaves the screen alone")
}

func TestSelectHistory(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, expression.NewEngine())
	press(ctx, svc, "7", "+", "3", "=", "C")

	d, err := svc.SelectHistory(ctx, 0, false)
	require.NoError(t, err)
	assert.Equal(t, domain.Display{Expression: "7+3"}, d)

	d, err = svc.SelectHistory(ctx, 0, true)
	require.NoError(t, err)
	assert.Equal(t, domain.Display{Expression: "7+3", Result: "10"}, d)

	_, err = svc.SelectHistory(ctx, 3, false)
	assert.ErrorIs(t, err, history.ErrIndexOutOfRange)
}
