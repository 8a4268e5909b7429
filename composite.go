package ssparser

// =============================================================================
// Composite Retry - alternative typed interpretations of one record
// =============================================================================
//
// A composite carries the outcome of one retrieval plus the ability to retry
// the same already-split record with a different parse list. Retries route
// through the current converter, whose split data stays valid until the next
// retrieval, so no reparsing happens. Each attempt appends one slot to the
// composite: the attempt's value on success, nil when it failed or was
// skipped because an earlier attempt had already succeeded.

// Composite is the retry handle returned by [Parser.TryNext] and
// [TryObject].
type Composite struct {
	p       *Parser
	results []any
}

// TryNext converts the next record like [Parser.GetNext] and returns a
// composite that can retry the same record with other parse lists.
func (p *Parser) TryNext(specs ...TypeSpec) *Composite {
	c := &Composite{p: p}
	c.appendAttempt(p.GetNext(specs...))
	return c
}

// TryObject is [Parser.TryNext] with the attempt result constructed as a T
// instead of a tuple.
func TryObject[T any](p *Parser, specs ...TypeSpec) *Composite {
	c := &Composite{p: p}
	appendObjectAttempt[T](c, p.GetNext(specs...))
	return c
}

// OrElse retries the current record with another parse list. It is a no-op
// when an earlier attempt already succeeded; the skipped attempt is recorded
// as nil.
func (c *Composite) OrElse(specs ...TypeSpec) *Composite {
	if c.p.Valid() {
		c.results = append(c.results, nil)
		return c
	}
	c.appendAttempt(c.p.retrySame(specs))
	return c
}

// OrObject is [Composite.OrElse] with the attempt result constructed as a T.
func OrObject[T any](c *Composite, specs ...TypeSpec) *Composite {
	if c.p.Valid() {
		c.results = append(c.results, nil)
		return c
	}
	appendObjectAttempt[T](c, c.p.retrySame(specs))
	return c
}

// Then invokes fn with the value of the most recent attempt if that attempt
// succeeded.
func (c *Composite) Then(fn func(value any)) *Composite {
	if v := c.lastValue(); v != nil {
		fn(v)
	}
	return c
}

// Check invokes fn with the value of the most recent attempt if that attempt
// succeeded; a false return records [ErrFailedCheck], discards the attempt,
// and lets a following OrElse retry the record.
func (c *Composite) Check(fn func(value any) bool) *Composite {
	if v := c.lastValue(); v != nil && !fn(v) {
		c.p.handleFailedCheck()
		c.results[len(c.results)-1] = nil
	}
	return c
}

// OnError invokes fn once if no attempt in the chain succeeded.
func (c *Composite) OnError(fn func()) *Composite {
	if !c.p.Valid() {
		fn()
	}
	return c
}

// OnErrorMsg invokes fn with the decorated message if no attempt in the
// chain succeeded. Requires the message error mode.
func (c *Composite) OnErrorMsg(fn func(msg string)) *Composite {
	if !c.p.Valid() {
		fn(c.p.ErrorMsg())
	}
	return c
}

// Values returns one entry per attempt in chain order: the attempt's value
// ([]any for tuple attempts, the constructed object for object attempts) or
// nil for failed and skipped attempts.
func (c *Composite) Values() []any {
	return c.results
}

func appendObjectAttempt[T any](c *Composite, values []any) {
	if !c.p.Valid() {
		c.results = append(c.results, nil)
		return
	}
	var out T
	if err := fillObject(&out, values); err != nil {
		c.p.setErr(c.p.reader.lineNumber, 0, err)
		c.results = append(c.results, nil)
		return
	}
	c.results = append(c.results, out)
}

func (c *Composite) appendAttempt(values []any) {
	if c.p.Valid() {
		c.results = append(c.results, values)
		return
	}
	c.results = append(c.results, nil)
}

func (c *Composite) lastValue() any {
	if len(c.results) == 0 || !c.p.Valid() {
		return nil
	}
	return c.results[len(c.results)-1]
}
