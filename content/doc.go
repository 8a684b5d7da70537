// Package content defines the normalized item record shared by every provider.
//
// Provider packages map their native JSON onto Item in a Normalize function;
// the filter and sensor packages only ever see Item values, so nothing
// downstream branches on where an item came from.
package content
