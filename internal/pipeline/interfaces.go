package pipeline

// Processor is a single pipeline stage: it consumes a Context and returns
// the (possibly same) Context with its own contribution filled in.
type Processor interface {
	Process(ctx *Context) *Context
}
