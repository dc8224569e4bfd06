// Package generation exposes the blog generation API: quota-guarded
// content generation, blog listing, and the usage dashboard endpoint.
package generation
