package plot

import (
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"calc/internal/domain"
	"calc/internal/expression"
)

// Sampling domain: Samples points from Start in steps of Step.
const (
	Samples    = 100
	Start      = -10.0
	Step       = 0.2
	LabelEvery = 20

	DefaultExpression = "sin(x)"
	DefaultVariable   = "x"
)

// Service samples expressions through an engine.
type Service struct {
	engine domain.Engine
	log    *zap.Logger
}

// New returns a Service. A nil logger discards log output.
func New(engine domain.Engine, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{engine: engine, log: log.Named("plot")}
}

// Sample evaluates expression at each point of the domain with variable
// bound to x. A sample the engine rejects, or one that is not finite, is
// plotted as 0 and counted in Series.Failed. Labels run parallel to Points
// and only every LabelEvery-th one is non-empty.
func (s *Service) Sample(expr, variable string) domain.Series {
	if strings.TrimSpace(expr) == "" {
		expr = DefaultExpression
	}
	if variable == "" {
		variable = DefaultVariable
	}

	series := domain.Series{
		Expression: expr,
		Variable:   variable,
		Points:     make([]domain.Point, Samples),
		Labels:     make([]string, Samples),
	}
	normalized := expression.Normalize(expr)
	vars := map[string]float64{}

	var firstErr error
	for i := 0; i < Samples; i++ {
		x := Start + float64(i)*Step
		vars[variable] = x

		y, err := s.engine.Eval(normalized, vars)
		if err == nil && (math.IsNaN(y) || math.IsInf(y, 0)) {
			err = fmt.Errorf("non-finite value %v", y)
		}
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			series.Failed++
			y = 0
		}

		series.Points[i] = domain.Point{X: x, Y: y}
		if i%LabelEvery == 0 {
			series.Labels[i] = fmt.Sprintf("%.1f", x)
		}
	}

	if series.Failed > 0 {
		s.log.Debug("Samples failed",
			zap.String("expression", expr),
			zap.Int("failed", series.Failed),
			zap.Error(firstErr))
	}
	return series
}

// Compile-time assertion that Service implements domain.PlotService.
var _ domain.PlotService = (*Service)(nil)
