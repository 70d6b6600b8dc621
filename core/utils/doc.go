// Package utils provides common utility functions for the booking sync service.
// It includes loose type conversion for values decoded from channel manager payloads
// and the decimal normalizer used for prices and commissions.
package utils
