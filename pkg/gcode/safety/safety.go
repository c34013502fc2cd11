// Package safety provides composable feed-rate adjusters. Each
// adjuster handles one risk (first-pass engagement, sharp corners,
// arc dynamics) and a coordinator chains them in a fixed order.
package safety

// Context carries the facts an adjuster needs to decide its reduction.
type Context struct {
	BaseFeed     float64
	PassNum      int     // zero-indexed, 0 is the first pass
	IsArc        bool    // true for G02/G03 moves
	CornerFactor float64 // severity at a corner point, 1 = not a corner
}

// Adjuster is one feed-rate safety stage. Disabled stages are skipped
// by the coordinator.
type Adjuster interface {
	AdjustFeed(feed float64, ctx Context) float64
	Enabled() bool
}

// Config selects which adjusters are active and their factors.
type Config struct {
	FirstPassFeedFactor float64
	CornerEnabled       bool
	CornerFeedFactor    float64
	ArcEnabled          bool
	ArcFeedFactor       float64
}

// Coordinator applies the registered adjusters in order. Composition
// is multiplicative across enabled stages.
type Coordinator struct {
	adjusters []Adjuster
}

// Register appends an adjuster to the chain.
func (c *Coordinator) Register(a Adjuster) {
	c.adjusters = append(c.adjusters, a)
}

// AdjustedFeed runs the chain over the base feed.
func (c *Coordinator) AdjustedFeed(baseFeed float64, ctx Context) float64 {
	feed := baseFeed
	for _, a := range c.adjusters {
		if a.Enabled() {
			feed = a.AdjustFeed(feed, ctx)
		}
	}
	return feed
}

// NewCoordinator builds the standard chain: first-pass reduction, then
// corner slowdown, then arc slowdown. The order is fixed; the product
// of factors does not depend on it but per-stage reasoning does.
func NewCoordinator(cfg Config) *Coordinator {
	c := &Coordinator{}
	c.Register(FirstPass{Factor: cfg.FirstPassFeedFactor})
	c.Register(CornerSlowdown{On: cfg.CornerEnabled, Factor: cfg.CornerFeedFactor})
	c.Register(ArcSlowdown{On: cfg.ArcEnabled, Factor: cfg.ArcFeedFactor})
	return c
}

// FirstPass reduces feed on the first pass, when the tool engages
// fresh material at full width.
type FirstPass struct {
	Factor float64
}

func (a FirstPass) AdjustFeed(feed float64, ctx Context) float64 {
	if ctx.PassNum == 0 {
		return feed * a.Factor
	}
	return feed
}

// Enabled reports whether the reduction does anything; a factor of 1
// is identity and the stage stays off.
func (a FirstPass) Enabled() bool {
	return a.Factor < 1
}

// CornerSlowdown reduces feed at sharp direction changes. The applied
// reduction is the global corner factor times the per-point severity.
type CornerSlowdown struct {
	On     bool
	Factor float64
}

func (a CornerSlowdown) AdjustFeed(feed float64, ctx Context) float64 {
	if ctx.CornerFactor < 1 {
		return feed * a.Factor * ctx.CornerFactor
	}
	return feed
}

func (a CornerSlowdown) Enabled() bool {
	return a.On
}

// ArcSlowdown reduces feed on arc moves, where chip load varies along
// the curve.
type ArcSlowdown struct {
	On     bool
	Factor float64
}

func (a ArcSlowdown) AdjustFeed(feed float64, ctx Context) float64 {
	if ctx.IsArc {
		return feed * a.Factor
	}
	return feed
}

func (a ArcSlowdown) Enabled() bool {
	return a.On
}
