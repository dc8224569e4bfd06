// Package plans defines the subscription plan catalog for the blog
// generation service.
//
// A Catalog is built once at startup from a CatalogSource and is immutable
// afterwards. Both the entitlement guard and the billing reconciler receive
// the same Catalog by reference, so every quota decision and every webhook
// transition observes identical plan definitions.
//
// Quotas use the Unlimited sentinel (-1) to express "no ceiling". A zero
// quota means the resource cannot be consumed at all; the two values are
// never interchangeable.
//
// # Usage
//
//	catalog, err := plans.NewCatalog(ctx, plans.NewStaticSource(plans.DefaultPlans()...))
//	if err != nil {
//	    // invalid plan configuration, abort startup
//	}
//
//	plan, err := catalog.Lookup("PRO")
package plans
