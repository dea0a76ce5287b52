package model

import "fmt"

// MaxPrecision is the highest number of decimals a float64 percentage can carry
const MaxPrecision = 15

// EvaluationQuery hold the optional overrides accepted by the report endpoints
type EvaluationQuery struct {
	Threshold *float64 `form:"threshold"`
	Precision *int     `form:"precision"`
}

// ReportOptions are the evaluation settings used to build a report
type ReportOptions struct {
	Categories         CategoryConfig
	Precision          int
	RemainderThreshold float64
	RemainderLabel     string
	CompactPrecision   int
}

// Apply return a copy of the options with the query overrides
func (q EvaluationQuery) Apply(opts ReportOptions) ReportOptions {
	if q.Threshold != nil {
		opts.Categories.ThresholdPercent = *q.Threshold
	}

	if q.Precision != nil {
		opts.Precision = *q.Precision
	}

	return opts
}

func (o ReportOptions) Validate() error {
	if o.Precision < 0 || o.CompactPrecision < 0 {
		return fmt.Errorf("%w: precision cannot be negative", ErrInvalidConfig)
	}

	if o.Precision > MaxPrecision || o.CompactPrecision > MaxPrecision {
		return fmt.Errorf("%w: precision cannot be greater than %d", ErrInvalidConfig, MaxPrecision)
	}

	return o.Categories.Validate()
}
