package pipeline

// Pipeline is an ordered sequence of stages.
type Pipeline struct {
	processors []Processor
}

// New builds a Pipeline running processors in order.
func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes each stage in order, stopping as soon as the context reports
// a failure: a later stage has no well-formed input to work from once
// parsing or analysis has failed.
func (p *Pipeline) Run(initialCtx *Context) *Context {
	ctx := initialCtx
	for _, processor := range p.processors {
		ctx = processor.Process(ctx)
		if ctx.Failed() {
			return ctx
		}
	}
	return ctx
}
