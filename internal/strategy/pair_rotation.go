package strategy

import (
	"errors"
	"fmt"

	allocerrors "github.com/ducminhle1904/pair-rotation-allocator/internal/errors"
	"github.com/ducminhle1904/pair-rotation-allocator/internal/indicators"
	"github.com/ducminhle1904/pair-rotation-allocator/internal/indicators/bands"
	"github.com/ducminhle1904/pair-rotation-allocator/pkg/config"
	"github.com/ducminhle1904/pair-rotation-allocator/pkg/types"
	"github.com/rs/zerolog"
)

// PairRotation allocates across a correlated pair, a broad-market base
// instrument and its leveraged twin. It rotates between the pair legs when
// their price ratio leaves its statistical bands and scales risk down when the
// base instrument's fast SMA falls below its slow SMA.
//
// PairRotation holds no state between calls and is safe for concurrent use.
type PairRotation struct {
	cfg   *config.RotationConfig
	table map[RotationOutcome]config.WeightTemplate
	ma    indicators.MovingAverage
	log   zerolog.Logger
}

// Option configures a PairRotation
type Option func(*PairRotation)

// WithLogger sets the logger used for decision traces
func WithLogger(log zerolog.Logger) Option {
	return func(s *PairRotation) {
		s.log = log
	}
}

// WithMovingAverage replaces the default SMA collaborator
func WithMovingAverage(ma indicators.MovingAverage) Option {
	return func(s *PairRotation) {
		s.ma = ma
	}
}

// NewPairRotation validates cfg and builds the strategy. The configuration is
// copied, so later changes to cfg do not affect the strategy.
func NewPairRotation(cfg *config.RotationConfig, opts ...Option) (*PairRotation, error) {
	if err := config.NewRotationValidator().Validate(cfg); err != nil {
		return nil, err
	}

	owned := cfg.Clone()
	s := &PairRotation{
		cfg:   owned,
		table: rotationTable(owned.Templates),
		ma:    indicators.SMASeries,
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.ma == nil {
		return nil, allocerrors.NewConfigurationError("strategy", "NewPairRotation", "moving average collaborator is nil")
	}
	return s, nil
}

// GetName returns the name of the strategy
func (s *PairRotation) GetName() string {
	return fmt.Sprintf("PairRotation[%s/%s %s]", s.cfg.Instruments.PairAsset1, s.cfg.Instruments.PairAsset2, s.cfg.WindowMode())
}

// Assets returns the four instruments in role order
func (s *PairRotation) Assets() []string {
	return s.cfg.Instruments.Symbols()
}

// Interval returns the bar interval
func (s *PairRotation) Interval() string {
	return s.cfg.Interval
}

// Config returns a copy of the active configuration
func (s *PairRotation) Config() *config.RotationConfig {
	return s.cfg.Clone()
}

// Allocate returns target weights for the latest bar of history
func (s *PairRotation) Allocate(history types.PriceHistory) (types.Allocation, error) {
	decision, err := s.Evaluate(history)
	if err != nil {
		return nil, err
	}
	return decision.Allocation, nil
}

// Evaluate runs window selection, ratio statistics, rotation and the trend
// overlay over history and returns the decision with its diagnostics.
func (s *PairRotation) Evaluate(history types.PriceHistory) (*AllocationDecision, error) {
	decision := &AllocationDecision{
		Allocation: types.Allocation{},
		Bars:       len(history),
	}
	if last, ok := history.Last(); ok {
		decision.Timestamp = last.Timestamp
	}

	minimum := MinimumHistory(s.cfg)
	if len(history) < minimum {
		return s.noTrade(decision, NoTradeInsufficientHistory,
			fmt.Sprintf("%d bars available, %d required", len(history), minimum)), nil
	}

	window := SelectRatioWindow(history, s.cfg)
	ratios, err := RatioSeries(window, s.cfg.Instruments)
	if err != nil {
		return nil, err
	}

	ratioBands, err := bands.Calculate(ratios, s.cfg.RatioStdDivisor)
	if errors.Is(err, bands.ErrInsufficientPoints) {
		return s.noTrade(decision, NoTradeDegenerateRatioWindow,
			fmt.Sprintf("ratio window has %d points", len(ratios))), nil
	}
	if err != nil {
		return nil, allocerrors.WrapError(err, allocerrors.ErrorCategoryFatal, "strategy", "Evaluate")
	}
	decision.Bands = ratioBands

	outcome := DecideRotation(ratioBands.Last, ratioBands.Upper, ratioBands.Lower)
	weights := s.table[outcome].Materialize(s.cfg.Instruments)

	base := s.cfg.Instruments.BaseAsset
	fastSeries, err := s.ma(base, history, s.cfg.SMAFastPeriod)
	if err != nil {
		return nil, err
	}
	slowSeries, err := s.ma(base, history, s.cfg.SMASlowPeriod)
	if err != nil {
		return nil, err
	}
	if len(fastSeries) == 0 || len(slowSeries) == 0 {
		return s.noTrade(decision, NoTradeMovingAverageUnavailable,
			fmt.Sprintf("SMA(%d) has %d values, SMA(%d) has %d values",
				s.cfg.SMAFastPeriod, len(fastSeries), s.cfg.SMASlowPeriod, len(slowSeries))), nil
	}
	maFast := fastSeries[len(fastSeries)-1]
	maSlow := slowSeries[len(slowSeries)-1]

	level, levelName := ApplyOverlay(weights, s.cfg.Instruments, s.cfg.Overlay, maFast, maSlow)

	decision.Allocation = types.Allocation(weights)
	decision.Outcome = outcome
	decision.OverlayLevel = level
	decision.OverlayName = levelName
	decision.MAFast = maFast
	decision.MASlow = maSlow
	decision.Reason = describe(outcome, ratioBands, level, levelName)

	s.log.Debug().
		Time("bar", decision.Timestamp).
		Str("outcome", outcome.String()).
		Float64("ratio", ratioBands.Last).
		Float64("upper", ratioBands.Upper).
		Float64("lower", ratioBands.Lower).
		Float64("ma_fast", maFast).
		Float64("ma_slow", maSlow).
		Int("overlay_level", level).
		Msg("allocation decided")

	return decision, nil
}

// EvaluateSeries evaluates every trailing prefix history[:i+1] for i >= from.
// Each evaluation is independent; nothing is carried between days.
func (s *PairRotation) EvaluateSeries(history types.PriceHistory, from int) ([]*AllocationDecision, error) {
	if from < 0 {
		from = 0
	}

	decisions := make([]*AllocationDecision, 0, max(len(history)-from, 0))
	for i := from; i < len(history); i++ {
		decision, err := s.Evaluate(history[:i+1])
		if err != nil {
			return nil, fmt.Errorf("evaluate bar %d: %w", i, err)
		}
		decisions = append(decisions, decision)
	}
	return decisions, nil
}

func (s *PairRotation) noTrade(decision *AllocationDecision, reason NoTradeReason, detail string) *AllocationDecision {
	decision.Allocation = types.Allocation{}
	decision.Outcome = OutcomeNone
	decision.NoTradeReason = reason
	decision.Reason = fmt.Sprintf("no trade: %s (%s)", reason, detail)

	s.log.Info().
		Time("bar", decision.Timestamp).
		Str("reason", string(reason)).
		Msg(detail)

	return decision
}

func describe(outcome RotationOutcome, b *bands.RatioBands, level int, levelName string) string {
	var signal string
	switch outcome {
	case OutcomeRotateToPair2:
		signal = fmt.Sprintf("ratio %.4f above upper band %.4f", b.Last, b.Upper)
	case OutcomeRotateToPair1:
		signal = fmt.Sprintf("ratio %.4f below lower band %.4f", b.Last, b.Lower)
	default:
		signal = fmt.Sprintf("ratio %.4f within [%.4f, %.4f]", b.Last, b.Lower, b.Upper)
	}

	if level == 0 {
		return signal + "; trend overlay inactive"
	}
	return fmt.Sprintf("%s; trend overlay %s (level %d)", signal, levelName, level)
}

var _ AllocationStrategy = (*PairRotation)(nil)
