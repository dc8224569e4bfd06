// Package blog stores generated posts with the usage context they were
// produced under: owner, topic keyword, measured word count, and the plan
// active at generation time.
package blog
