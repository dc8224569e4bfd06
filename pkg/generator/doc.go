// Package generator produces blog post content for a topic keyword.
//
// The Generator interface abstracts the content source. The bundled
// template generator assembles a deterministic markdown article from
// section templates, which keeps the pipeline runnable without an
// upstream model. Callers meter usage against the generator's reported
// word count, not the requested one, so the count always reflects what
// was actually produced.
package generator
