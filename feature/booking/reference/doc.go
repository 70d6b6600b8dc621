// Package reference maps external codes to internal reference rows.
//
// Every kind resolves through an ordered chain: the code itself, optional
// aliases (legacy channel codes, base language tags) and finally the kind's
// fallback codes. When even the fallbacks are missing the deployment is broken
// and resolution fails with a *ConfigurationError.
//
// Whole tables are cached by a Catalog for a configurable TTL.
package reference
